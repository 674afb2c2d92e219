// Package search ranks local data: catalog records for the gallery filter
// and past queries for search suggestions.
package search

import (
	"sort"
	"strings"

	"github.com/cinepedia/cinepedia/internal/domain"
	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"
)

// Result is a filtered record with match metadata for highlighting
type Result struct {
	Record         domain.Record
	MatchedIndexes []int // Byte positions in the title that matched
	Score          int   // Higher is better
}

// Index implements sahilm/fuzzy.Source over record titles
type Index struct {
	records     []domain.Record
	lowerTitles []string // Pre-computed lowercase titles
}

// NewIndex builds an index over records
func NewIndex(records []domain.Record) *Index {
	idx := &Index{
		records:     records,
		lowerTitles: make([]string, len(records)),
	}
	for i, r := range records {
		idx.lowerTitles[i] = strings.ToLower(r.Title)
	}
	return idx
}

// String returns the lowercase title at index i (implements fuzzy.Source)
func (idx *Index) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of records (implements fuzzy.Source)
func (idx *Index) Len() int { return len(idx.records) }

// Filter ranks the indexed records against query, best first.
// An empty query returns every record unranked.
func (idx *Index) Filter(query string) []Result {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]Result, len(idx.records))
		for i, r := range idx.records {
			out[i] = Result{Record: r}
		}
		return out
	}

	matches := fuzzy.FindFrom(query, idx)
	out := make([]Result, len(matches))
	for i, m := range matches {
		out[i] = Result{
			Record:         idx.records[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return out
}

// Filter is a one-shot Index.Filter
func Filter(query string, records []domain.Record) []Result {
	return NewIndex(records).Filter(query)
}

// Suggest returns past queries resembling input, closest first, at most
// limit of them. Empty input returns the history as-is.
func Suggest(input string, history []string, limit int) []string {
	input = strings.TrimSpace(input)

	var out []string
	if input == "" {
		out = append(out, history...)
	} else {
		ranks := lfuzzy.RankFindNormalizedFold(input, history)
		sort.Stable(ranks)
		for _, r := range ranks {
			if r.Target == input {
				continue
			}
			out = append(out, r.Target)
		}
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
