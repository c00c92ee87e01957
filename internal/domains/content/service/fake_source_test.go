package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"content-backend/internal/domains/content/model"

	"github.com/google/uuid"
)

// fakeSource is an in-memory Source with a switch that simulates the remote
// store being unreachable.
type fakeSource struct {
	mu          sync.Mutex
	records     map[string]model.ContentRecord
	unavailable bool
	failWith    error // returned verbatim by mutations when set

	createCalls int
	getCalls    int
	deleteCalls int
}

func newFakeSource() *fakeSource {
	return &fakeSource{records: map[string]model.ContentRecord{}}
}

func (f *fakeSource) setUnavailable(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unavailable = down
}

func (f *fakeSource) seed(record model.ContentRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[record.ID] = record
}

func (f *fakeSource) setFailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWith = err
}

func (f *fakeSource) down() error {
	if f.failWith != nil {
		return f.failWith
	}
	if f.unavailable {
		return fmt.Errorf("%w: fake transport error", model.ErrUnavailable)
	}
	return nil
}

func (f *fakeSource) Query(ctx context.Context, req model.ListContentRequest) ([]model.ContentRecord, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.down(); err != nil {
		return nil, 0, err
	}

	all := make([]model.ContentRecord, 0, len(f.records))
	for _, record := range f.records {
		all = append(all, record)
	}
	filtered := applyFilter(all, req)
	sortRecords(filtered, req.Sort)
	return paginate(filtered, req.Page, req.PageSize), len(filtered), nil
}

func (f *fakeSource) QueryAll(ctx context.Context) ([]model.ContentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.down(); err != nil {
		return nil, err
	}

	all := make([]model.ContentRecord, 0, len(f.records))
	for _, record := range f.records {
		all = append(all, record)
	}
	sortRecords(all, model.SortNewest)
	return all, nil
}

func (f *fakeSource) GetByID(ctx context.Context, id string) (*model.ContentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if err := f.down(); err != nil {
		return nil, err
	}

	record, ok := f.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", model.ErrNotFound, id)
	}
	return &record, nil
}

func (f *fakeSource) Create(ctx context.Context, record model.ContentRecord) (*model.ContentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if err := f.down(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record.ID = uuid.NewString()
	record.CreatedAt = now
	record.UpdatedAt = now
	if record.Kind != model.KindEvent {
		record.EffectiveDate = now
	}
	f.records[record.ID] = record
	return &record, nil
}

func (f *fakeSource) Update(ctx context.Context, id string, record model.ContentRecord) (*model.ContentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.down(); err != nil {
		return nil, err
	}

	if _, ok := f.records[id]; !ok {
		return nil, fmt.Errorf("%w: id %s", model.ErrNotFound, id)
	}
	record.ID = id
	record.UpdatedAt = time.Now().UTC()
	f.records[id] = record
	return &record, nil
}

func (f *fakeSource) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if err := f.down(); err != nil {
		return err
	}

	if _, ok := f.records[id]; !ok {
		return fmt.Errorf("%w: id %s", model.ErrNotFound, id)
	}
	delete(f.records, id)
	return nil
}

// noopSignal satisfies the revalidation contract and records the paths it
// was asked to mark stale.
type recordingSignal struct {
	mu    sync.Mutex
	paths [][]string
	all   int
}

func (s *recordingSignal) RevalidatePaths(ctx context.Context, paths []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, paths)
}

func (s *recordingSignal) RevalidateRecord(ctx context.Context, record model.ContentRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, []string{"record:" + record.ID})
}

func (s *recordingSignal) RevalidateAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all++
}
