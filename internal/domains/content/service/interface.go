package service

import (
	"context"

	"content-backend/internal/domains/content/model"
)

// Reader is the single entry point read callers use. Each call resolves
// through memory cache, then snapshot, then (for single-record lookups) the
// source connector, returning the first tier that has the data.
type Reader interface {
	List(ctx context.Context, req model.ListContentRequest) (*model.ListContentResponse, error)
	GetByID(ctx context.Context, id string) (*model.ContentRecord, error)
	GetBySlug(ctx context.Context, slug string) (*model.ContentRecord, error)

	// GetByIDAuthoritative skips the cache tiers and asks the source
	// directly, falling back to the snapshot only when the source is
	// unavailable. Used by admin edit flows that need the true state.
	GetByIDAuthoritative(ctx context.Context, id string) (*model.ContentRecord, error)
}

// Writer makes mutations durable across tiers with a deterministic
// preference order: source first, snapshot always, caches invalidated,
// rendered pages revalidated.
type Writer interface {
	Create(ctx context.Context, req model.CreateContentRequest) (*model.WriteResult, error)
	Update(ctx context.Context, id string, req model.UpdateContentRequest) (*model.WriteResult, error)
	Delete(ctx context.Context, id string) (*model.DeleteResult, error)

	// ForceResync re-pulls the full collection from the source and
	// replaces the snapshot, a full reconciliation distinct from the
	// per-mutation path.
	ForceResync(ctx context.Context) (*model.ResyncResult, error)

	// InvalidateCaches drops the memory cache (and fans the invalidation
	// out to sibling processes) without touching any other tier.
	InvalidateCaches(ctx context.Context)
}
