package service

import (
	"context"
	"errors"
	"fmt"

	memcache "content-backend/internal/domains/content/cache"
	"content-backend/internal/domains/content/model"
	"content-backend/internal/domains/content/repository"
	"content-backend/internal/domains/content/snapshot"
	"content-backend/internal/shared/utils"
	"content-backend/pkg/logger"
)

// slugScanPageSize bounds the connector fallback for slug lookups: slugs are
// not invertible, so the fallback pulls one large published page and
// recomputes slugs over it.
const slugScanPageSize = 500

// Resolver serves reads through the tiers: memory cache, snapshot, and, for
// single-record lookups only, the source connector. No tier blocks
// indefinitely; each returns within its own deadline or is skipped.
type Resolver struct {
	cache  *memcache.Memory
	store  *snapshot.Store
	source repository.Source
}

func NewResolver(cache *memcache.Memory, store *snapshot.Store, source repository.Source) *Resolver {
	return &Resolver{
		cache:  cache,
		store:  store,
		source: source,
	}
}

var _ Reader = (*Resolver)(nil)

// loadRecords supplies the working list: cache hit, or snapshot read that
// repopulates the cache.
func (r *Resolver) loadRecords() ([]model.ContentRecord, error) {
	if records, ok := r.cache.Get(); ok {
		return records, nil
	}

	records, err := r.store.LoadAll()
	if err != nil {
		return nil, err
	}

	r.cache.Set(records)
	return records, nil
}

// List filters, sorts, and paginates in-process. The snapshot is assumed
// good enough for listings, so this path never reaches the source.
func (r *Resolver) List(ctx context.Context, req model.ListContentRequest) (*model.ListContentResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, model.Invalid(err)
	}

	records, err := r.loadRecords()
	if err != nil {
		return nil, err
	}

	filtered := applyFilter(records, req)
	sortRecords(filtered, req.Sort)

	page := paginate(filtered, req.Page, req.PageSize)
	resp := model.NewListContentResponse(page, len(filtered), req.Page, req.PageSize)
	return &resp, nil
}

// GetByID resolves a single record. Drafts are returned here (the admin
// surface uses the same resolver); public listings exclude them in List.
func (r *Resolver) GetByID(ctx context.Context, id string) (*model.ContentRecord, error) {
	records, err := r.loadRecords()
	if err == nil {
		for i := range records {
			if records[i].ID == id {
				record := records[i]
				return &record, nil
			}
		}
	} else {
		// Snapshot failure leaves the source as the only remaining tier
		// for a targeted lookup.
		logger.Warn("resolver: snapshot read failed, trying source", err)
	}

	record, srcErr := r.source.GetByID(ctx, id)
	if srcErr != nil {
		if errors.Is(srcErr, model.ErrUnavailable) {
			// Every tier missed; the read degrades to not-found rather
			// than surfacing the outage.
			return nil, fmt.Errorf("%w: id %s", model.ErrNotFound, id)
		}
		return nil, srcErr
	}

	return record, nil
}

// GetBySlug matches case-insensitively against slugs recomputed from each
// candidate's title; no precomputed slug field exists to drift stale.
func (r *Resolver) GetBySlug(ctx context.Context, slug string) (*model.ContentRecord, error) {
	records, err := r.loadRecords()
	if err != nil {
		logger.Warn("resolver: snapshot read failed, trying source", err)
		records = nil
	}

	if record := findBySlug(records, slug); record != nil {
		return record, nil
	}

	// Targeted-lookup fallback: one bounded published page from the source.
	fallback, _, srcErr := r.source.Query(ctx, model.ListContentRequest{
		Status:   string(model.StatusPublished),
		Sort:     model.SortNewest,
		Page:     1,
		PageSize: slugScanPageSize,
	})
	if srcErr != nil {
		return nil, fmt.Errorf("%w: slug %s", model.ErrNotFound, slug)
	}

	if record := findBySlug(fallback, slug); record != nil {
		return record, nil
	}

	return nil, fmt.Errorf("%w: slug %s", model.ErrNotFound, slug)
}

func findBySlug(records []model.ContentRecord, slug string) *model.ContentRecord {
	for i := range records {
		if utils.SlugsEqual(slug, utils.GenerateSlug(records[i].Title)) {
			record := records[i]
			return &record
		}
	}
	return nil
}

// GetByIDAuthoritative asks the source first so admin edit flows see the
// true authoritative state, e.g. immediately after a write elsewhere.
func (r *Resolver) GetByIDAuthoritative(ctx context.Context, id string) (*model.ContentRecord, error) {
	record, err := r.source.GetByID(ctx, id)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, model.ErrUnavailable) {
		return nil, err
	}

	logger.Warn("resolver: source unavailable, serving snapshot", err)

	records, snapErr := r.store.LoadAll()
	if snapErr != nil {
		return nil, snapErr
	}
	for i := range records {
		if records[i].ID == id {
			record := records[i]
			return &record, nil
		}
	}

	return nil, fmt.Errorf("%w: id %s", model.ErrNotFound, id)
}
