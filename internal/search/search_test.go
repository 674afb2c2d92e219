package search

import (
	"testing"

	"github.com/cinepedia/cinepedia/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gallery = []domain.Record{
	{ID: "tt1375666", Title: "Inception"},
	{ID: "tt0816692", Title: "Interstellar"},
	{ID: "tt0468569", Title: "The Dark Knight"},
	{ID: "tt1160419", Title: "Dune"},
}

func TestFilterRanksMatches(t *testing.T) {
	results := Filter("dark", gallery)
	require.Len(t, results, 1)
	assert.Equal(t, "tt0468569", results[0].Record.ID)
	assert.Equal(t, []int{4, 5, 6, 7}, results[0].MatchedIndexes)
}

func TestFilterIsCaseInsensitive(t *testing.T) {
	results := Filter("INCEP", gallery)
	require.NotEmpty(t, results)
	assert.Equal(t, "Inception", results[0].Record.Title)
}

func TestFilterEmptyQueryReturnsAll(t *testing.T) {
	results := Filter("  ", gallery)
	require.Len(t, results, len(gallery))
	assert.Equal(t, "Inception", results[0].Record.Title)
	assert.Empty(t, results[0].MatchedIndexes)
}

func TestFilterNoMatch(t *testing.T) {
	assert.Empty(t, Filter("zzz", gallery))
}

func TestSuggest(t *testing.T) {
	history := []string{"Inception", "Interstellar", "Dune", "interview"}

	got := Suggest("inter", history, 0)
	assert.ElementsMatch(t, []string{"Interstellar", "interview"}, got)

	assert.Equal(t, history[:2], Suggest("", history, 2))
	assert.Empty(t, Suggest("xyz", history, 5))
}

func TestSuggestSkipsExactInput(t *testing.T) {
	got := Suggest("Dune", []string{"Dune", "Dune: Part Two"}, 0)
	assert.Equal(t, []string{"Dune: Part Two"}, got)
}
