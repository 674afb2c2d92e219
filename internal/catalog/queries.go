package catalog

import (
	"sort"
	"strings"

	"github.com/cinepedia/cinepedia/internal/domain"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Queries provides synchronous reads over the catalog.
type Queries struct {
	catalog *Catalog
}

// NewQueries creates a new Queries instance.
func NewQueries(catalog *Catalog) *Queries {
	return &Queries{catalog: catalog}
}

func (q *Queries) Records() []domain.Record {
	return q.catalog.Records()
}

func (q *Queries) Get(id string) (domain.Record, bool) {
	return q.catalog.Get(id)
}

// ByIDs returns the records for ids in the given order, skipping unknown IDs
func (q *Queries) ByIDs(ids []string) []domain.Record {
	out := make([]domain.Record, 0, len(ids))
	for _, id := range ids {
		if r, ok := q.catalog.Get(id); ok {
			out = append(out, r)
		}
	}
	return out
}

// FindByTitle returns catalog records whose title resembles title, closest
// first. Used to warn before adding a duplicate.
func (q *Queries) FindByTitle(title string) []domain.Record {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}

	records := q.catalog.Records()
	titles := make([]string, len(records))
	for i, r := range records {
		titles[i] = r.Title
	}

	ranks := fuzzy.RankFindNormalizedFold(title, titles)
	sort.Sort(ranks)

	out := make([]domain.Record, 0, len(ranks))
	for _, rank := range ranks {
		out = append(out, records[rank.OriginalIndex])
	}
	return out
}

// Stats is the admin overview
type Stats struct {
	Total         int
	Rated         int
	AverageRating float64
	Downloadable  int
	ByType        map[string]int
}

// Stats summarizes the catalog
func (q *Queries) Stats() Stats {
	records := q.catalog.Records()
	s := Stats{Total: len(records), ByType: make(map[string]int)}

	var sum float64
	for _, r := range records {
		if v, ok := r.NumericRating(); ok {
			s.Rated++
			sum += v
		}
		if r.DownloadURL != "" {
			s.Downloadable++
		}
		if r.Type != "" {
			s.ByType[r.Type]++
		}
	}
	if s.Rated > 0 {
		s.AverageRating = sum / float64(s.Rated)
	}
	return s
}
