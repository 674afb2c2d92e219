package catalog

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cinepedia/cinepedia/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLinks = LinkPolicy{
	TrailerSearchURL:  "https://www.youtube.com/embed?listType=search&list=",
	DownloadURL:       "https://archive.org/details/example_movie",
	DownloadMinRating: 8.0,
}

type harness struct {
	repo     *fakeRepo
	catalog  *Catalog
	store    *memStore
	notifier *recordingNotifier
	history  *recordingHistory
	commands *Commands
}

func newHarness(records ...domain.Record) *harness {
	h := &harness{
		repo:     newFakeRepo(records...),
		store:    &memStore{},
		notifier: &recordingNotifier{},
		history:  &recordingHistory{},
	}
	h.catalog = New(h.store, NewIndicator(time.Hour, nil, nil), nil)
	h.commands = NewCommands(h.repo, h.catalog, h.history, h.notifier, testLinks, 10, nil)
	return h
}

func movie(id, title, year, rating string) domain.Record {
	return domain.Record{ID: id, Title: title, Year: year, Type: "movie", Rating: rating}
}

func TestFetchBatchAcceptsOnlyFound(t *testing.T) {
	h := newHarness(
		movie("tt1", "Inception", "2010", "8.8"),
		movie("tt2", "Iron Man 3", "2013", "7.1"),
		movie("tt3", "Dune", "2021", "N/A"),
	)
	h.repo.failing["tt4"] = true

	res, err := h.commands.FetchBatch(context.Background(), []string{"tt1", "tt2", "tt3", "tt4", "tt404"})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Requested)
	assert.Equal(t, 3, res.Accepted)

	got := h.catalog.Records()
	assert.Equal(t, []string{"tt1", "tt2", "tt3"}, ids(got), "input order is kept")

	assert.Equal(t, testLinks.DownloadURL, got[0].DownloadURL)
	assert.Empty(t, got[1].DownloadURL, "7.1 is not above 8.0")
	assert.Empty(t, got[2].DownloadURL, "N/A never qualifies")
	assert.Equal(t,
		"https://www.youtube.com/embed?listType=search&list=Inception%202010%20official%20trailer",
		got[0].VideoURL)

	assert.Equal(t, []recordedNotice{
		{domain.SeveritySuccess, "Synchronized 3 entries with MongoDB Cluster"},
	}, h.notifier.all())
}

func TestFetchBatchSingleIDHasNoNotice(t *testing.T) {
	h := newHarness(movie("tt1", "Inception", "2010", "8.8"))

	_, err := h.commands.FetchBatch(context.Background(), []string{"tt1"})
	require.NoError(t, err)
	assert.Equal(t, 1, h.catalog.Len())
	assert.Empty(t, h.notifier.all())
}

func TestFetchBatchRatingExactlyThresholdHasNoDownload(t *testing.T) {
	h := newHarness(movie("tt1", "Edge", "2000", "8.0"))
	_, err := h.commands.FetchBatch(context.Background(), []string{"tt1"})
	require.NoError(t, err)
	r, _ := h.catalog.Get("tt1")
	assert.Empty(t, r.DownloadURL)
}

func TestFetchBatchNothingFoundLeavesCatalog(t *testing.T) {
	h := newHarness()
	res, err := h.commands.FetchBatch(context.Background(), []string{"tt404", "tt405"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Accepted)
	assert.Equal(t, 0, h.store.saves)
	assert.Empty(t, h.notifier.all())
}

func TestFetchBatchPanicBecomesNotice(t *testing.T) {
	h := newHarness(movie("tt1", "Inception", "2010", "8.8"))
	h.repo.panicOn = "tt2"

	_, err := h.commands.FetchBatch(context.Background(), []string{"tt1", "tt2"})
	require.Error(t, err)
	assert.Equal(t, 0, h.catalog.Len())
	assert.Equal(t, []recordedNotice{
		{domain.SeverityError, "Critical system sync failure"},
	}, h.notifier.all())
}

func TestSeedBootstrapScenario(t *testing.T) {
	seeds := []string{"tt1375666", "tt0468569", "tt0816692", "tt0167260", "tt0111161",
		"tt1300854", "tt10872600", "tt2015381", "tt1160419"}
	h := newHarness(
		movie("tt1375666", "Inception", "2010", "8.8"),
		movie("tt0468569", "The Dark Knight", "2008", "9.0"),
		movie("tt0167260", "The Lord of the Rings: The Return of the King", "2003", "9.0"),
	)
	h.repo.failing["tt0816692"] = true

	res, err := NewInitializer(h.catalog, h.commands, seeds, nil).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.FromStore)
	assert.LessOrEqual(t, res.Count, 9)
	assert.Equal(t, 3, res.Count)

	for _, r := range h.catalog.Records() {
		assert.NotEmpty(t, r.Title)
		assert.Contains(t, r.VideoURL, escapeComponent(r.Title))
	}
	assert.ElementsMatch(t, seeds, h.repo.lookupCalls())
}

func TestInitializerPrefersStore(t *testing.T) {
	h := newHarness(movie("tt1", "Inception", "2010", "8.8"))
	require.NoError(t, h.store.SaveRecords([]domain.Record{movie("tt9", "Stored", "1999", "7.0")}))

	res, err := NewInitializer(h.catalog, h.commands, []string{"tt1"}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.FromStore)
	assert.Equal(t, 1, res.Count)
	assert.Empty(t, h.repo.lookupCalls())
}

func TestSearchReplacesCatalog(t *testing.T) {
	h := newHarness(
		movie("tt1", "Batman Begins", "2005", "8.2"),
		movie("tt2", "The Batman", "2022", "7.8"),
	)
	require.NoError(t, h.catalog.AddRecords([]domain.Record{movie("old", "Old", "1990", "5")}))
	h.repo.search = domain.SearchResult{Found: true, Total: 3, Matches: []domain.MatchStub{
		{ID: "tt1"}, {ID: "tt2"}, {ID: "tt404"},
	}}

	out, err := h.commands.Search(context.Background(), "batman")
	require.NoError(t, err)
	assert.Equal(t, 3, out.Matches)
	assert.Equal(t, 2, out.Accepted)

	got := h.catalog.Records()
	assert.Equal(t, []string{"tt1", "tt2"}, ids(got))
	for _, r := range got {
		assert.Empty(t, r.DownloadURL, "search results never carry a download reference")
		assert.NotEmpty(t, r.VideoURL)
	}

	assert.Equal(t, []string{"batman"}, h.history.queries)
	notices := h.notifier.all()
	require.NotEmpty(t, notices)
	assert.Equal(t, recordedNotice{domain.SeverityInfo, "Found 2 matched nodes"}, notices[len(notices)-1])
}

func TestSearchDetailFetchIsCapped(t *testing.T) {
	h := newHarness()
	var stubs []domain.MatchStub
	for i := 0; i < 15; i++ {
		id := fmt.Sprintf("tt%d", i)
		h.repo.records[id] = movie(id, "M"+id, "2000", "6")
		stubs = append(stubs, domain.MatchStub{ID: id})
	}
	h.repo.search = domain.SearchResult{Found: true, Matches: stubs}

	out, err := h.commands.Search(context.Background(), "m")
	require.NoError(t, err)
	assert.Equal(t, 10, out.Accepted)
	assert.Len(t, h.repo.lookupCalls(), 10)
}

func TestSearchNegativeResult(t *testing.T) {
	h := newHarness()
	h.repo.search = domain.SearchResult{Reason: "Too many results."}

	out, err := h.commands.Search(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "Too many results.", out.Reason)
	assert.Equal(t, []recordedNotice{{domain.SeverityError, "Too many results."}}, h.notifier.all())

	h.notifier.notices = nil
	h.repo.search = domain.SearchResult{}
	_, err = h.commands.Search(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, []recordedNotice{{domain.SeverityError, "No matches found"}}, h.notifier.all())
}

func TestSearchFailure(t *testing.T) {
	h := newHarness()
	h.repo.searchErr = errTransport

	_, err := h.commands.Search(context.Background(), "batman")
	require.ErrorIs(t, err, errTransport)
	assert.Equal(t, []recordedNotice{{domain.SeverityError, "Search uplink interrupted"}}, h.notifier.all())
}

func TestSearchEmptyIsNoOp(t *testing.T) {
	h := newHarness()
	out, err := h.commands.Search(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, SearchOutcome{}, out)
	assert.Empty(t, h.history.queries)
	assert.Empty(t, h.notifier.all())
}

func TestCancelledSearchKeepsCatalog(t *testing.T) {
	h := newHarness(movie("tt1", "Inception", "2010", "8.8"))
	require.NoError(t, h.catalog.AddRecords([]domain.Record{
		movie("old1", "Old One", "1999", "6.0"),
		movie("old2", "Old Two", "2000", "6.5"),
	}))
	h.repo.search = domain.SearchResult{Found: true, Matches: []domain.MatchStub{{ID: "tt1"}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := h.commands.Search(ctx, "inception")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, out.Accepted)
	assert.Equal(t, []string{"old1", "old2"}, ids(h.catalog.Records()))
	assert.Empty(t, h.notifier.all())
}

func TestSearchDeadlineKeepsCatalog(t *testing.T) {
	h := newHarness(movie("tt1", "Inception", "2010", "8.8"))
	require.NoError(t, h.catalog.AddRecords([]domain.Record{movie("old1", "Old One", "1999", "6.0")}))
	h.repo.search = domain.SearchResult{Found: true, Matches: []domain.MatchStub{{ID: "tt1"}}}
	h.repo.gate = make(chan struct{})
	h.repo.gated = map[string]bool{"tt1": true}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := h.commands.Search(ctx, "inception")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{"old1"}, ids(h.catalog.Records()))
	assert.Empty(t, h.notifier.all())
}

func TestCancelledBatchKeepsCatalog(t *testing.T) {
	h := newHarness(movie("tt1", "Inception", "2010", "8.8"), movie("tt2", "Dune", "2021", "8.0"))
	require.NoError(t, h.catalog.AddRecords([]domain.Record{movie("old1", "Old One", "1999", "6.0")}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := h.commands.FetchBatch(ctx, []string{"tt1", "tt2"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Accepted)
	assert.Equal(t, []string{"old1"}, ids(h.catalog.Records()))
	assert.Empty(t, h.notifier.all())
}

func TestSupersededSearchSkipsDetails(t *testing.T) {
	h := newHarness(movie("tt1", "Inception", "2010", "8.8"))
	require.NoError(t, h.catalog.AddRecords([]domain.Record{movie("old1", "Old One", "1999", "6.0")}))
	h.repo.search = domain.SearchResult{Found: true, Matches: []domain.MatchStub{{ID: "tt1"}}}
	// A newer fetch starts while the text search is in flight
	h.repo.onSearch = func() { h.catalog.NextTicket() }

	out, err := h.commands.Search(context.Background(), "inception")
	require.NoError(t, err)
	assert.True(t, out.Stale)
	assert.Empty(t, h.repo.lookupCalls())
	assert.Equal(t, []string{"old1"}, ids(h.catalog.Records()))
	assert.Empty(t, h.notifier.all())
}

func TestStaleBatchIsDropped(t *testing.T) {
	h := newHarness(
		movie("slow", "Slow", "2000", "9.1"),
		movie("fast", "Fast", "2001", "7.0"),
	)
	h.repo.gate = make(chan struct{})
	h.repo.gated = map[string]bool{"slow": true}
	h.repo.entered = make(chan string, 1)
	h.repo.search = domain.SearchResult{Found: true, Matches: []domain.MatchStub{{ID: "fast"}}}

	done := make(chan BatchResult, 1)
	go func() {
		res, _ := h.commands.FetchBatch(context.Background(), []string{"slow"})
		done <- res
	}()
	<-h.repo.entered

	// A newer search starts and finishes while the batch is in flight
	_, err := h.commands.Search(context.Background(), "fast")
	require.NoError(t, err)
	close(h.repo.gate)

	res := <-done
	assert.True(t, res.Stale)
	assert.Equal(t, []string{"fast"}, ids(h.catalog.Records()))
}

func TestLookupTitlePreview(t *testing.T) {
	h := newHarness(movie("tt1", "Inception", "2010", "8.8"))

	preview, found, err := h.commands.LookupTitle(context.Background(), "Inception")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "tt1", preview.ID)
	assert.True(t, strings.HasSuffix(preview.VideoURL, "Inception%202010%20official%20trailer"))
	assert.Empty(t, preview.DownloadURL)
	assert.Equal(t, 0, h.catalog.Len(), "preview is not added until confirmed")
	assert.Equal(t, []recordedNotice{{domain.SeveritySuccess, "Metadata retrieved"}}, h.notifier.all())

	require.NoError(t, h.commands.AddToLibrary(preview))
	assert.Equal(t, []string{"tt1"}, ids(h.catalog.Records()))
	assert.Contains(t, h.notifier.all(), recordedNotice{domain.SeveritySuccess, "Inception added to library"})
}

func TestLookupTitleMisses(t *testing.T) {
	h := newHarness()
	h.repo.failing["Broken"] = true

	_, found, err := h.commands.LookupTitle(context.Background(), "Nope")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = h.commands.LookupTitle(context.Background(), "Broken")
	require.Error(t, err)

	_, _, err = h.commands.LookupTitle(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)

	assert.Equal(t, []recordedNotice{
		{domain.SeverityError, "Movie not found!"},
		{domain.SeverityError, "Network failure"},
	}, h.notifier.all())
}

func TestRemoveFromLibrary(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.catalog.AddRecords([]domain.Record{movie("tt1", "Inception", "2010", "8.8")}))

	require.NoError(t, h.commands.RemoveFromLibrary("tt1"))
	assert.Equal(t, 0, h.catalog.Len())
	assert.Equal(t, []recordedNotice{{domain.SeverityInfo, "Removed entry: Inception"}}, h.notifier.all())

	assert.ErrorIs(t, h.commands.RemoveFromLibrary("tt1"), domain.ErrRecordNotFound)
}

func TestEditRecord(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.catalog.AddRecords([]domain.Record{movie("tt1", "Inception", "2010", "8.8")}))

	edited := movie("tt1", "Inception (Director's Cut)", "2010", "8.8")
	require.NoError(t, h.commands.EditRecord(edited))
	r, ok := h.catalog.Get("tt1")
	require.True(t, ok)
	assert.Equal(t, "Inception (Director's Cut)", r.Title)
	assert.Equal(t, []recordedNotice{{domain.SeveritySuccess, "Updated Inception (Director's Cut)"}}, h.notifier.all())

	assert.ErrorIs(t, h.commands.EditRecord(movie("tt9", "Ghost", "1990", "7.1")), domain.ErrRecordNotFound)
}

func TestEscapeComponent(t *testing.T) {
	assert.Equal(t, "Spider-Man%3A%20No%20Way%20Home", escapeComponent("Spider-Man: No Way Home"))
	assert.Equal(t, "Don't%20(1999)!", escapeComponent("Don't (1999)!"))
	assert.Equal(t, "a%2Bb", escapeComponent("a+b"))
}
