package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/cinepedia/cinepedia/internal/domain"
)

var errTransport = errors.New("connection refused")

// fakeRepo serves canned answers. IDs absent from records are not found.
type fakeRepo struct {
	mu        sync.Mutex
	records   map[string]domain.Record
	failing   map[string]bool
	panicOn   string
	search    domain.SearchResult
	searchErr error
	onSearch  func()
	calls     []string

	// gate, when set, blocks LookupID for gated IDs until closed
	gate    chan struct{}
	gated   map[string]bool
	entered chan string
}

func newFakeRepo(records ...domain.Record) *fakeRepo {
	r := &fakeRepo{records: make(map[string]domain.Record), failing: make(map[string]bool)}
	for _, rec := range records {
		r.records[rec.ID] = rec
	}
	return r
}

func (f *fakeRepo) LookupID(ctx context.Context, id string) (domain.Lookup, error) {
	f.mu.Lock()
	f.calls = append(f.calls, id)
	gate, gated := f.gate, f.gated[id]
	f.mu.Unlock()

	if gated {
		if f.entered != nil {
			f.entered <- id
		}
		select {
		case <-gate:
		case <-ctx.Done():
		}
	}
	if err := ctx.Err(); err != nil {
		return domain.Lookup{}, err
	}
	if id == f.panicOn {
		panic("lookup exploded")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[id] {
		return domain.Lookup{}, errTransport
	}
	rec, ok := f.records[id]
	if !ok {
		return domain.Lookup{Reason: "Incorrect IMDb ID."}, nil
	}
	return domain.Lookup{Record: rec, Found: true}, nil
}

func (f *fakeRepo) LookupTitle(ctx context.Context, title string) (domain.Lookup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[title] {
		return domain.Lookup{}, errTransport
	}
	for _, rec := range f.records {
		if rec.Title == title {
			return domain.Lookup{Record: rec, Found: true}, nil
		}
	}
	return domain.Lookup{Reason: "Movie not found!"}, nil
}

func (f *fakeRepo) Search(ctx context.Context, query string) (domain.SearchResult, error) {
	if f.onSearch != nil {
		f.onSearch()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.search, f.searchErr
}

func (f *fakeRepo) lookupCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type recordedNotice struct {
	severity domain.Severity
	message  string
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []recordedNotice
}

func (r *recordingNotifier) Notify(severity domain.Severity, message, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, recordedNotice{severity, message})
}

func (r *recordingNotifier) all() []recordedNotice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedNotice(nil), r.notices...)
}

type recordingHistory struct {
	mu      sync.Mutex
	queries []string
}

func (h *recordingHistory) RecordSearch(query string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queries = append(h.queries, query)
	return true, nil
}

// memStore is a catalog Store with switchable failure
type memStore struct {
	mu      sync.Mutex
	records []domain.Record
	saved   bool
	saves   int
	fail    bool
}

func (m *memStore) GetRecords() ([]domain.Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Record(nil), m.records...), m.saved
}

func (m *memStore) SaveRecords(records []domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("disk full")
	}
	m.records = append([]domain.Record(nil), records...)
	m.saved = true
	m.saves++
	return nil
}

func (m *memStore) setFail(v bool) {
	m.mu.Lock()
	m.fail = v
	m.mu.Unlock()
}

type statusRecorder struct {
	mu       sync.Mutex
	statuses []domain.SyncStatus
}

func (s *statusRecorder) OnSyncStatus(status domain.SyncStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, status)
}

func (s *statusRecorder) all() []domain.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.SyncStatus(nil), s.statuses...)
}
