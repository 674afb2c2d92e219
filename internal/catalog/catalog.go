// Package catalog holds the deduplicated record collection, the fetch
// pipeline that feeds it and the simulated sync indicator.
package catalog

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/cinepedia/cinepedia/internal/domain"
)

// Store is the persistence the catalog needs
type Store interface {
	GetRecords() ([]domain.Record, bool)
	SaveRecords(records []domain.Record) error
}

// Catalog is the ordered, ID-unique record collection.
// Every mutation validates, applies and persists under one lock.
type Catalog struct {
	mu         sync.RWMutex
	records    []domain.Record
	generation uint64

	store     Store
	indicator *Indicator
	logger    *slog.Logger
}

// New creates an empty Catalog
func New(store Store, indicator *Indicator, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	if indicator == nil {
		indicator = NewIndicator(DefaultSyncDelay, nil, logger)
	}
	return &Catalog{store: store, indicator: indicator, logger: logger}
}

// Indicator returns the sync indicator driven by this catalog
func (c *Catalog) Indicator() *Indicator {
	return c.indicator
}

// Load hydrates from the stored snapshot. Returns false when there is none,
// in which case the catalog is left untouched.
func (c *Catalog) Load() bool {
	records, ok := c.store.GetRecords()
	if !ok || len(records) == 0 {
		return false
	}

	c.mu.Lock()
	c.records = dedupe(records)
	recordsGauge.Set(float64(len(c.records)))
	c.mu.Unlock()

	c.logger.Info("catalog loaded from store", "count", len(records))
	return true
}

// Records returns a copy of the records in display order
func (c *Catalog) Records() []domain.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Record(nil), c.records...)
}

// Len returns the number of records
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Get returns the record with id
func (c *Catalog) Get(id string) (domain.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.records[i], true
	}
	return domain.Record{}, false
}

// NextTicket starts a new fetch generation. Results carrying an older ticket
// are discarded by AddRecordsAt and ReplaceAllAt.
func (c *Catalog) NextTicket() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	return c.generation
}

// Current reports whether ticket is still the newest generation
func (c *Catalog) Current(ticket uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ticket == c.generation
}

// AddRecords merges records into the catalog. For a repeated ID the last
// occurrence wins and the first-seen position is kept.
func (c *Catalog) AddRecords(records []domain.Record) error {
	if err := validate(records...); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = dedupe(append(append([]domain.Record(nil), c.records...), records...))
	return c.persist()
}

// AddRecordsAt is AddRecords guarded by a fetch ticket. Returns false,
// without touching the catalog, when a newer fetch has started.
func (c *Catalog) AddRecordsAt(ticket uint64, records []domain.Record) (bool, error) {
	if err := validate(records...); err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ticket != c.generation {
		return false, nil
	}
	c.records = dedupe(append(append([]domain.Record(nil), c.records...), records...))
	return true, c.persist()
}

// ReplaceAll swaps the whole collection
func (c *Catalog) ReplaceAll(records []domain.Record) error {
	if err := validate(records...); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = dedupe(records)
	return c.persist()
}

// ReplaceAllAt is ReplaceAll guarded by a fetch ticket
func (c *Catalog) ReplaceAllAt(ticket uint64, records []domain.Record) (bool, error) {
	if err := validate(records...); err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ticket != c.generation {
		return false, nil
	}
	c.records = dedupe(records)
	return true, c.persist()
}

// Prepend puts rec at the front. An existing record with the same ID is
// replaced and moved.
func (c *Catalog) Prepend(rec domain.Record) error {
	if err := validate(rec); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]domain.Record, 0, len(c.records)+1)
	next = append(next, rec)
	for _, r := range c.records {
		if r.ID != rec.ID {
			next = append(next, r)
		}
	}
	c.records = next
	return c.persist()
}

// Update replaces the record with the same ID in place
func (c *Catalog) Update(rec domain.Record) error {
	if err := validate(rec); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(rec.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrRecordNotFound, rec.ID)
	}
	next := append([]domain.Record(nil), c.records...)
	next[i] = rec
	c.records = next
	return c.persist()
}

// Delete removes the record with id and returns it
func (c *Catalog) Delete(id string) (domain.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return domain.Record{}, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}
	removed := c.records[i]
	next := make([]domain.Record, 0, len(c.records)-1)
	next = append(next, c.records[:i]...)
	next = append(next, c.records[i+1:]...)
	c.records = next
	return removed, c.persist()
}

// Reset empties the in-memory collection without writing. Used after the
// store itself has been wiped.
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
	c.generation++
	recordsGauge.Set(0)
}

// persist writes the snapshot when the collection is non-empty and drives
// the sync indicator. Caller holds mu.
func (c *Catalog) persist() error {
	recordsGauge.Set(float64(len(c.records)))
	if len(c.records) == 0 {
		return nil
	}

	if err := c.store.SaveRecords(c.records); err != nil {
		persistFailuresTotal.Inc()
		c.logger.Error("failed to persist catalog", "error", err, "count", len(c.records))
		c.indicator.Fail()
		return fmt.Errorf("failed to persist catalog: %w", err)
	}
	c.indicator.Acknowledge()
	return nil
}

// indexOf returns the position of id or -1. Caller holds mu.
func (c *Catalog) indexOf(id string) int {
	for i, r := range c.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func validate(records ...domain.Record) error {
	for _, r := range records {
		if r.ID == "" {
			return fmt.Errorf("%w: %q", domain.ErrInvalidRecord, r.Title)
		}
	}
	return nil
}

// dedupe keeps one record per ID: the last occurrence's value at the first
// occurrence's position.
func dedupe(records []domain.Record) []domain.Record {
	pos := make(map[string]int, len(records))
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if i, ok := pos[r.ID]; ok {
			out[i] = r
			continue
		}
		pos[r.ID] = len(out)
		out = append(out, r)
	}
	return out
}
