package catalog

import (
	"testing"

	"github.com/cinepedia/cinepedia/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByTitle(t *testing.T) {
	c, _ := newTestCatalog()
	require.NoError(t, c.AddRecords([]domain.Record{
		rec("tt1", "The Dark Knight"),
		rec("tt2", "The Dark Knight Rises"),
		rec("tt3", "Inception"),
	}))
	q := NewQueries(c)

	got := q.FindByTitle("the dark knight")
	require.Len(t, got, 2)
	assert.Equal(t, "tt1", got[0].ID, "closest match first")

	assert.Empty(t, q.FindByTitle("Interstellar"))
	assert.Nil(t, q.FindByTitle(" "))
}

func TestByIDsKeepsOrder(t *testing.T) {
	c, _ := newTestCatalog()
	require.NoError(t, c.AddRecords([]domain.Record{rec("a", "A"), rec("b", "B"), rec("c", "C")}))

	got := NewQueries(c).ByIDs([]string{"c", "zz", "a"})
	assert.Equal(t, []string{"c", "a"}, ids(got))
}

func TestStats(t *testing.T) {
	c, _ := newTestCatalog()
	require.NoError(t, c.AddRecords([]domain.Record{
		{ID: "a", Type: "movie", Rating: "9.0", DownloadURL: "x"},
		{ID: "b", Type: "movie", Rating: "7.0"},
		{ID: "c", Type: "series", Rating: "N/A"},
	}))

	s := NewQueries(c).Stats()
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Rated)
	assert.InDelta(t, 8.0, s.AverageRating, 0.0001)
	assert.Equal(t, 1, s.Downloadable)
	assert.Equal(t, map[string]int{"movie": 2, "series": 1}, s.ByType)
}
