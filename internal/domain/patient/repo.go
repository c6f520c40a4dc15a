package patient

import "context"

// Repository loads patients and the ancillary field table from storage.
type Repository interface {
	// List returns one page of patients plus the total count.
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)

	// ListAll returns every patient in stable id order for batch export.
	ListAll(ctx context.Context) ([]*Patient, error)

	// ListTableFields returns the ancillary field definitions.
	ListTableFields(ctx context.Context) ([]*TableField, error)

	// ListTableFieldValues returns the sparse ancillary cell values.
	ListTableFieldValues(ctx context.Context) ([]*TableFieldValue, error)
}
