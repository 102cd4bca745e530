package dto

import (
	"github.com/google/uuid"

	"exampleapi/internal/model"
)

// ExampleRequest carries caller-supplied input for creating or updating an Example.
type ExampleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ExampleResponse is the read-only projection of an Example sent back to callers.
type ExampleResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// FromExample projects an entity into its response shape.
func FromExample(e *model.Example) ExampleResponse {
	return ExampleResponse{
		ID:          e.ID(),
		Name:        e.Name(),
		Description: e.Description(),
	}
}
