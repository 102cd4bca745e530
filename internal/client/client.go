// Package client contains the outbound port used by the domain to reach the external service.
// Implementations live in subpackages (rest, cached).
package client

import "context"

// ExternalServiceClient is implemented by outbound adapters that call the external service.
// Failures never propagate through this port: reads collapse to "absent" and writes are logged.
type ExternalServiceClient interface {
	// FetchExternalData returns the resource body and true, or "" and false on any failure.
	FetchExternalData(ctx context.Context, resourceID string) (string, bool)

	// NotifyExternalService sends payload as an event of the given type. Failures are logged only.
	NotifyExternalService(ctx context.Context, eventType, payload string)
}
