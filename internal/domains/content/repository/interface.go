package repository

import (
	"context"

	"content-backend/internal/domains/content/model"
)

// Source abstracts the authoritative remote store. Every method is bounded
// by its own deadline; on timeout or transport failure it returns an error
// classified as model.ErrUnavailable, which callers treat as a trigger to
// fall back rather than a fatal failure.
type Source interface {
	// Query returns one filtered, sorted page plus the total match count.
	Query(ctx context.Context, req model.ListContentRequest) ([]model.ContentRecord, int, error)

	// QueryAll pulls the entire collection for a full resync, under the
	// bulk-sync deadline.
	QueryAll(ctx context.Context) ([]model.ContentRecord, error)

	GetByID(ctx context.Context, id string) (*model.ContentRecord, error)

	// Create persists the record and returns it with the canonical id and
	// timestamps assigned by the authoritative store.
	Create(ctx context.Context, record model.ContentRecord) (*model.ContentRecord, error)

	// Update replaces the stored record wholesale with the patched one.
	Update(ctx context.Context, id string, record model.ContentRecord) (*model.ContentRecord, error)

	Delete(ctx context.Context, id string) error
}
