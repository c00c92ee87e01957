package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	memcache "content-backend/internal/domains/content/cache"
	"content-backend/internal/domains/content/model"
	"content-backend/internal/domains/content/repository"
	"content-backend/internal/domains/content/snapshot"
	"content-backend/internal/infrastructure/revalidate"
	"content-backend/pkg/logger"

	"github.com/google/uuid"
)

// InvalidationPublisher fans a cache invalidation out to sibling processes.
type InvalidationPublisher interface {
	PublishInvalidation(ctx context.Context)
}

// Reconciler makes a single logical mutation durable across tiers: source
// write first, snapshot always, memory cache invalidated, rendered pages
// revalidated. All mutation entry points go through here.
type Reconciler struct {
	source    repository.Source
	store     *snapshot.Store
	cache     *memcache.Memory
	signal    revalidate.Signaler
	publisher InvalidationPublisher // nil when cross-process fanout is off
	now       func() time.Time
}

func NewReconciler(
	source repository.Source,
	store *snapshot.Store,
	cache *memcache.Memory,
	signal revalidate.Signaler,
	publisher InvalidationPublisher,
	now func() time.Time,
) *Reconciler {
	if now == nil {
		now = time.Now
	}
	return &Reconciler{
		source:    source,
		store:     store,
		cache:     cache,
		signal:    signal,
		publisher: publisher,
		now:       now,
	}
}

var _ Writer = (*Reconciler)(nil)

// localID mints a time-based id with a random suffix for records created
// while the source is unreachable. The shape itself marks the record as not
// yet reconciled.
func (rc *Reconciler) localID() string {
	return model.LocalIDPrefix +
		strconv.FormatInt(rc.now().UnixMilli(), 10) + "-" +
		uuid.NewString()[:8]
}

// afterMutation runs the coherence steps every successful mutation shares.
func (rc *Reconciler) afterMutation(ctx context.Context, record *model.ContentRecord) {
	rc.cache.Invalidate()
	if rc.publisher != nil {
		rc.publisher.PublishInvalidation(ctx)
	}
	if record != nil {
		rc.signal.RevalidateRecord(ctx, *record)
	} else {
		rc.signal.RevalidateAll(ctx)
	}
}

// Create attempts the authoritative write first; on Unavailable it falls
// back to a locally-identified snapshot write so the mutation is not lost.
// Both outcomes succeed; Reconciled tells them apart.
func (rc *Reconciler) Create(ctx context.Context, req model.CreateContentRequest) (*model.WriteResult, error) {
	if err := req.Validate(); err != nil {
		return nil, model.Invalid(err)
	}

	record := req.ToRecord(rc.now().UTC())
	reconciled := true

	authoritative, err := rc.source.Create(ctx, record)
	switch {
	case err == nil:
		record = *authoritative
	case errors.Is(err, model.ErrUnavailable):
		logger.Warn("reconciler: source create failed, writing snapshot only", err)
		record.ID = rc.localID()
		reconciled = false
	default:
		return nil, err
	}

	// Snapshot failure here is the one hard error: on the fallback path
	// the mutation would be durable nowhere.
	if err := rc.store.Upsert(record); err != nil {
		return nil, err
	}

	rc.afterMutation(ctx, &record)

	return &model.WriteResult{Record: record, Reconciled: reconciled}, nil
}

// Update patches the current record (unspecified fields retain prior
// values), then replaces it wholesale in every tier that holds it.
func (rc *Reconciler) Update(ctx context.Context, id string, req model.UpdateContentRequest) (*model.WriteResult, error) {
	if err := req.Validate(); err != nil {
		return nil, model.Invalid(err)
	}

	existing, err := rc.currentRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	record := req.Apply(*existing, rc.now().UTC())
	reconciled := true

	authoritative, err := rc.source.Update(ctx, id, record)
	switch {
	case err == nil:
		record = *authoritative
	case errors.Is(err, model.ErrUnavailable):
		logger.Warn("reconciler: source update failed, writing snapshot only", err)
		reconciled = false
	case errors.Is(err, model.ErrNotFound) && existing.IsLocal():
		// Locally-minted records are expected to miss at the source until
		// a resync reconciles them.
		reconciled = false
	default:
		return nil, err
	}

	if err := rc.store.Upsert(record); err != nil {
		return nil, err
	}

	rc.afterMutation(ctx, &record)

	return &model.WriteResult{Record: record, Reconciled: reconciled}, nil
}

// currentRecord fetches the record to patch, preferring the authoritative
// copy and falling back to the snapshot.
func (rc *Reconciler) currentRecord(ctx context.Context, id string) (*model.ContentRecord, error) {
	record, err := rc.source.GetByID(ctx, id)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, model.ErrUnavailable) && !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	records, snapErr := rc.store.LoadAll()
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

// Delete removes the record locally regardless of the source outcome, so a
// source outage cannot leave "undeletable" records reappearing in listings.
// A record deleted while the source is unreachable stays live there and a
// later ForceResync may resurrect it; that gap is deliberate.
func (rc *Reconciler) Delete(ctx context.Context, id string) (*model.DeleteResult, error) {
	// Grab the record first so the right pages get revalidated.
	var affected *model.ContentRecord
	if records, err := rc.store.LoadAll(); err == nil {
		for i := range records {
			if records[i].ID == id {
				affected = &records[i]
				break
			}
		}
	}

	reconciled := true
	sourceMissing := false

	if err := rc.source.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			sourceMissing = true
		case errors.Is(err, model.ErrUnavailable):
			logger.Warn("reconciler: source delete failed, removing locally", err)
			reconciled = false
		default:
			return nil, err
		}
	}

	if err := rc.store.Remove(id); err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			if sourceMissing || !reconciled {
				// Absent from every tier we could consult.
				return nil, fmt.Errorf("%w: id %s", model.ErrNotFound, id)
			}
			logger.Warn("reconciler: delete id not in snapshot", err)
		default:
			return nil, err
		}
	}

	rc.afterMutation(ctx, affected)

	return &model.DeleteResult{Deleted: true, Reconciled: reconciled}, nil
}

// ForceResync pulls the full collection from the source and replaces the
// snapshot wholesale. The snapshot is left untouched when the source is
// unreachable.
func (rc *Reconciler) ForceResync(ctx context.Context) (*model.ResyncResult, error) {
	records, err := rc.source.QueryAll(ctx)
	if err != nil {
		return nil, err
	}

	previous, loadErr := rc.store.LoadAll()
	if loadErr == nil && len(previous) != len(records) {
		// A count diff after resync can mean a locally-deleted record was
		// resurrected from the source, or local-only records were dropped.
		logger.Info("reconciler: resync changed record count", map[string]interface{}{
			"before": len(previous),
			"after":  len(records),
		})
	}

	if err := rc.store.ReplaceAll(records); err != nil {
		return nil, err
	}

	rc.cache.Invalidate()
	if rc.publisher != nil {
		rc.publisher.PublishInvalidation(ctx)
	}
	rc.signal.RevalidateAll(ctx)

	return &model.ResyncResult{Count: len(records)}, nil
}

// InvalidateCaches forces the next read to miss the memory tier. No other
// tier is touched.
func (rc *Reconciler) InvalidateCaches(ctx context.Context) {
	rc.cache.Invalidate()
	if rc.publisher != nil {
		rc.publisher.PublishInvalidation(ctx)
	}
}
