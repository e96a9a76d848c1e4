package pinelabs

import (
	"context"
)

// Repository is the persistence contract for Pine Labs detail rows.
type Repository interface {
	// ListByMapping returns every detail currently persisted under the
	// mapping, in id order. This is the reconciliation snapshot.
	ListByMapping(ctx context.Context, mappingID int) ([]Detail, error)

	// ListByOwner and ListAll return display rows joined with their
	// mapping's store name and brand.
	ListByOwner(ctx context.Context, userID int) ([]Row, error)
	ListAll(ctx context.Context) ([]Row, error)

	Get(ctx context.Context, detailID int) (*Detail, error)

	// InsertBatch persists the given rows and returns them with
	// server-assigned ids, in insertion order.
	InsertBatch(ctx context.Context, details []Detail) ([]Detail, error)

	// Update rewrites the four terminal fields of one row. The write is
	// additionally guarded by the row's mapping id.
	Update(ctx context.Context, detail *Detail) error

	DeleteBatch(ctx context.Context, ids []int) error
	DeleteByMapping(ctx context.Context, mappingID int) error
}

// OwnerResolver resolves the owning user of a mapping. Satisfied by the
// mapping repository.
type OwnerResolver interface {
	GetOwner(ctx context.Context, mappingID int) (int, error)
}
