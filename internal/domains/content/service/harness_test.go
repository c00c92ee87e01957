package service

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	memcache "content-backend/internal/domains/content/cache"
	"content-backend/internal/domains/content/model"
	"content-backend/internal/domains/content/snapshot"
)

// movableClock lets tests advance cache time without sleeping.
type movableClock struct {
	mu  sync.Mutex
	now time.Time
}

func newMovableClock() *movableClock {
	return &movableClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *movableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *movableClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type harness struct {
	source     *fakeSource
	store      *snapshot.Store
	cache      *memcache.Memory
	clock      *movableClock
	signal     *recordingSignal
	resolver   *Resolver
	reconciler *Reconciler
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	clock := newMovableClock()
	source := newFakeSource()
	store := snapshot.NewStore(filepath.Join(t.TempDir(), "content.jsonl"))
	cache := memcache.New(time.Minute, clock.Now)
	signal := &recordingSignal{}

	return &harness{
		source:     source,
		store:      store,
		cache:      cache,
		clock:      clock,
		signal:     signal,
		resolver:   NewResolver(cache, store, source),
		reconciler: NewReconciler(source, store, cache, signal, nil, clock.Now),
	}
}

func articleRequest(title string) model.CreateContentRequest {
	return model.CreateContentRequest{
		Kind:     string(model.KindArticle),
		Title:    title,
		Excerpt:  "excerpt for " + title,
		Category: "food",
		Status:   string(model.StatusPublished),
	}
}

func eventRequest(title string, when time.Time) model.CreateContentRequest {
	return model.CreateContentRequest{
		Kind:          string(model.KindEvent),
		Title:         title,
		Status:        string(model.StatusPublished),
		EffectiveDate: &when,
	}
}
