package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"content-backend/internal/domains/content/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReconciled(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	result, err := h.reconciler.Create(ctx, articleRequest("Best Of Edmonton 2024"))
	require.NoError(t, err)
	assert.True(t, result.Reconciled)
	assert.NotEmpty(t, result.Record.ID)
	assert.False(t, result.Record.IsLocal())
	assert.Equal(t, 1, h.source.createCalls)

	// Visible through the read path immediately after the write returns.
	got, err := h.resolver.GetByID(ctx, result.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Best Of Edmonton 2024", got.Title)

	// Durable in the snapshot, not just the cache.
	records, err := h.store.LoadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, result.Record.ID, records[0].ID)
}

func TestCreateSourceUnavailable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.source.setUnavailable(true)

	result, err := h.reconciler.Create(ctx, articleRequest("Offline Post"))
	require.NoError(t, err)
	assert.False(t, result.Reconciled)
	assert.True(t, result.Record.IsLocal(), "unreconciled creates mint a local id")
	assert.True(t, strings.HasPrefix(result.Record.ID, model.LocalIDPrefix))

	// The record still serves from reads despite the source being down.
	got, err := h.resolver.GetByID(ctx, result.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Offline Post", got.Title)
}

func TestCreateServerErrorDoesNotFallBack(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// A failure the source itself reported (a constraint violation, not an
	// outage) must surface, never degrade to a snapshot-only write.
	serverErr := errors.New("create: duplicate key value violates unique constraint")
	h.source.setFailWith(serverErr)

	_, err := h.reconciler.Create(ctx, articleRequest("Rejected"))
	require.Error(t, err)
	assert.ErrorIs(t, err, serverErr)
	assert.False(t, errors.Is(err, model.ErrUnavailable))

	records, loadErr := h.store.LoadAll()
	require.NoError(t, loadErr)
	assert.Empty(t, records, "a rejected write never lands in the snapshot")
}

func TestCreateEventKeepsScheduledDate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	when := time.Date(2024, 8, 15, 19, 0, 0, 0, time.UTC)

	result, err := h.reconciler.Create(ctx, eventRequest("Folk Fest", when))
	require.NoError(t, err)
	assert.Equal(t, model.KindEvent, result.Record.Kind)
	assert.Equal(t, when, result.Record.EffectiveDate, "events sort by their scheduled date, not creation time")
}

func TestCreateInvalid(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	cases := []model.CreateContentRequest{
		{Kind: string(model.KindArticle)},                        // missing title
		{Title: "No Kind"},                                       // missing kind
		{Kind: "podcast", Title: "Bad Kind"},                     // unknown kind
		{Kind: string(model.KindEvent), Title: "Undated Event"},  // events need a date
		{Kind: string(model.KindArticle), Title: "x", Status: "archived"},
	}
	for _, req := range cases {
		_, err := h.reconciler.Create(ctx, req)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrInvalid), "want ErrInvalid, got %v", err)
	}
	assert.Equal(t, 0, h.source.createCalls, "invalid payloads never reach the source")
}

func TestUpdatePropagatesAndInvalidates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.reconciler.Create(ctx, articleRequest("Old Title"))
	require.NoError(t, err)

	// Warm the cache with the pre-update title.
	_, err = h.resolver.List(ctx, model.ListContentRequest{})
	require.NoError(t, err)

	newTitle := "New Title"
	updated, err := h.reconciler.Update(ctx, created.Record.ID, model.UpdateContentRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.True(t, updated.Reconciled)
	assert.Equal(t, newTitle, updated.Record.Title)

	// The warmed cache must not serve the stale title.
	list, err := h.resolver.List(ctx, model.ListContentRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, newTitle, list.Items[0].Title)

	got, err := h.resolver.GetByID(ctx, created.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, newTitle, got.Title)
}

func TestUpdateSourceUnavailable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.reconciler.Create(ctx, articleRequest("Stays Local"))
	require.NoError(t, err)

	h.source.setUnavailable(true)
	newTitle := "Edited Offline"
	updated, err := h.reconciler.Update(ctx, created.Record.ID, model.UpdateContentRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.False(t, updated.Reconciled)

	got, err := h.resolver.GetByID(ctx, created.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, newTitle, got.Title)
}

func TestUpdateLocalOnlyRecord(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.source.setUnavailable(true)
	created, err := h.reconciler.Create(ctx, articleRequest("Local Draft"))
	require.NoError(t, err)
	h.source.setUnavailable(false)

	// The source has never seen this id; the update stays local and is
	// reported as unreconciled rather than failing.
	newTitle := "Local Draft v2"
	updated, err := h.reconciler.Update(ctx, created.Record.ID, model.UpdateContentRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.False(t, updated.Reconciled)
	assert.Equal(t, newTitle, updated.Record.Title)
}

func TestUpdateNotFound(t *testing.T) {
	h := newHarness(t)
	title := "whatever"

	_, err := h.reconciler.Update(context.Background(), "missing-id", model.UpdateContentRequest{Title: &title})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestDeleteRemovesEveryTier(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.reconciler.Create(ctx, articleRequest("Doomed"))
	require.NoError(t, err)

	// Warm the cache so delete has something to invalidate.
	_, err = h.resolver.List(ctx, model.ListContentRequest{})
	require.NoError(t, err)

	result, err := h.reconciler.Delete(ctx, created.Record.ID)
	require.NoError(t, err)
	assert.True(t, result.Deleted)
	assert.True(t, result.Reconciled)

	_, err = h.resolver.GetByID(ctx, created.Record.ID)
	assert.True(t, errors.Is(err, model.ErrNotFound))

	records, err := h.store.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, records)

	list, err := h.resolver.List(ctx, model.ListContentRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestDeleteSourceUnavailable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.reconciler.Create(ctx, articleRequest("Half Deleted"))
	require.NoError(t, err)

	h.source.setUnavailable(true)
	result, err := h.reconciler.Delete(ctx, created.Record.ID)
	require.NoError(t, err)
	assert.True(t, result.Deleted)
	assert.False(t, result.Reconciled)

	_, err = h.resolver.GetByID(ctx, created.Record.ID)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestDeleteNotFoundAnywhere(t *testing.T) {
	h := newHarness(t)

	_, err := h.reconciler.Delete(context.Background(), "never-existed")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestForceResyncReplacesSnapshot(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// Seed the source directly with records the snapshot has never seen.
	h.source.seed(model.ContentRecord{ID: "src-1", Kind: model.KindArticle, Title: "From Source A", Status: model.StatusPublished})
	h.source.seed(model.ContentRecord{ID: "src-2", Kind: model.KindArticle, Title: "From Source B", Status: model.StatusPublished})

	// And stage a local-only record that the resync will drop.
	h.source.setUnavailable(true)
	_, err := h.reconciler.Create(ctx, articleRequest("Orphan"))
	require.NoError(t, err)
	h.source.setUnavailable(false)

	result, err := h.reconciler.ForceResync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)

	records, err := h.store.LoadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, record := range records {
		assert.False(t, record.IsLocal())
	}
	assert.Equal(t, 1, h.signal.all, "a full resync revalidates every published path")
}

func TestForceResyncSourceUnavailable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.reconciler.Create(ctx, articleRequest("Kept"))
	require.NoError(t, err)

	h.source.setUnavailable(true)
	_, err = h.reconciler.ForceResync(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUnavailable))

	// A failed resync never clobbers the snapshot.
	records, err := h.store.LoadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, created.Record.ID, records[0].ID)
}

func TestMutationsSendRevalidationSignals(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.reconciler.Create(ctx, articleRequest("Signal Me"))
	require.NoError(t, err)

	h.signal.mu.Lock()
	sent := len(h.signal.paths)
	h.signal.mu.Unlock()
	assert.Greater(t, sent, 0, "creates notify the stale-path hook")

	_, err = h.reconciler.Delete(ctx, created.Record.ID)
	require.NoError(t, err)

	h.signal.mu.Lock()
	after := len(h.signal.paths)
	h.signal.mu.Unlock()
	assert.Greater(t, after, sent)
}
