package mapping

import (
	"context"
)

type Repository interface {
	List(ctx context.Context, userID int) ([]Mapping, error)
	ListAll(ctx context.Context) ([]Mapping, error)
	Search(ctx context.Context, userID int, criteria SearchCriteria) ([]Mapping, error)
	Get(ctx context.Context, mappingID int) (*Mapping, error)
	GetOwner(ctx context.Context, mappingID int) (int, error)
	Create(ctx context.Context, m *Mapping) (int, error)
	Update(ctx context.Context, m *Mapping) error
	Delete(ctx context.Context, mappingID int) error

	// FindDuplicate returns the id of an existing mapping with the same
	// store name, brand and financier, or ErrNotFound.
	FindDuplicate(ctx context.Context, m *Mapping) (int, error)
}
