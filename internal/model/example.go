package model

import "github.com/google/uuid"

// Example is the single domain entity of the service.
// The identity is unexported so it cannot change once assigned; Name and Description are
// mutable only through UpdateDetails. An Example is not safe for concurrent mutation.
type Example struct {
	id          uuid.UUID
	name        string
	description string
}

// NewExample creates an Example with a freshly generated identity.
// Fields are stored verbatim: no trimming, emptiness or length checks.
func NewExample(name, description string) *Example {
	return &Example{
		id:          uuid.New(),
		name:        name,
		description: description,
	}
}

// RestoreExample rebuilds an Example whose identity is already known.
func RestoreExample(id uuid.UUID, name, description string) *Example {
	return &Example{id: id, name: name, description: description}
}

func (e *Example) ID() uuid.UUID       { return e.id }
func (e *Example) Name() string        { return e.name }
func (e *Example) Description() string { return e.description }

// UpdateDetails replaces both text fields at once.
func (e *Example) UpdateDetails(name, description string) {
	e.name = name
	e.description = description
}
