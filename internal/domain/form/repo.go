package form

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a form does not exist or is not
// published.
var ErrNotFound = errors.New("form not found")

// Repository loads forms and their fields from storage.
type Repository interface {
	// GetForm returns a published form by id; ErrNotFound when absent.
	GetForm(ctx context.Context, id int) (*Form, error)

	// ListFields returns a form's fields in sort order, with each
	// field's concept (names, numeric bounds) and coded answers fully
	// populated.
	ListFields(ctx context.Context, formID int) ([]*Field, error)
}
