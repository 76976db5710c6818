package directory

import (
	"context"
	"errors"
)

var (
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrSpecialtyNotFound = errors.New("specialty not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	// ListDoctors returns one page of doctors with their specialty joined in,
	// plus the total row count for page metadata.
	ListDoctors(ctx context.Context, sortBy SortField, descending bool, limit, offset int) ([]Doctor, int64, error)
	GetDoctorByID(ctx context.Context, id int64) (*Doctor, error)

	// ListSpecialties returns every specialty ordered by name ascending.
	ListSpecialties(ctx context.Context) ([]Specialty, error)
}
