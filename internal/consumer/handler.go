package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"exampleapi/internal/dto"
	"exampleapi/internal/service"
	"exampleapi/internal/storage"
)

// ExampleEventHandler is the inbound adapter for the example queue.
// It decodes each payload as an ExampleRequest and dispatches it to ExampleService.Create.
type ExampleEventHandler struct {
	svc     service.ExampleService
	archive storage.Storage
	logger  *slog.Logger
	now     func() time.Time
}

// NewExampleEventHandler builds a handler. archive may be nil, in which case
// rejected payloads are only logged.
func NewExampleEventHandler(svc service.ExampleService, archive storage.Storage, logger *slog.Logger) *ExampleEventHandler {
	return &ExampleEventHandler{
		svc:     svc,
		archive: archive,
		logger:  logger.With("component", "example_consumer"),
		now:     time.Now,
	}
}

// HandleExampleEvent records receipt of message and dispatches it.
// Payloads that are not a JSON ExampleRequest are accepted and archived, never redelivered;
// only a failing Create is reported back to the caller.
func (h *ExampleEventHandler) HandleExampleEvent(ctx context.Context, message string) error {
	h.logger.Info("received message", "bytes", len(message))

	var req dto.ExampleRequest
	if err := json.Unmarshal([]byte(message), &req); err != nil {
		h.logger.Warn("undecodable message", "err", err)
		h.reject(ctx, message, err)
		return nil
	}

	e, err := h.svc.Create(ctx, req)
	if err != nil {
		return fmt.Errorf("create example: %w", err)
	}
	h.logger.Info("example created from message", "example_id", e.ID().String())
	return nil
}

func (h *ExampleEventHandler) reject(ctx context.Context, message string, cause error) {
	if h.archive == nil {
		return
	}

	key := fmt.Sprintf("rejected/%s/%s.txt", h.now().UTC().Format("2006/01/02"), uuid.NewString())
	_, err := h.archive.Put(ctx, key, strings.NewReader(message), storage.PutObjectOptions{
		Size:        int64(len(message)),
		ContentType: "text/plain; charset=utf-8",
		Metadata: map[string]string{
			"reject-reason": cause.Error(),
		},
	})
	if err != nil {
		h.logger.Error("archive rejected message failed", "key", key, "err", err)
		return
	}
	h.logger.Info("rejected message archived", "key", key)
}
