package omdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cinepedia/cinepedia/internal/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTimer fires immediately and remembers every requested wait
type recordingTimer struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordingTimer) After(d time.Duration) <-chan time.Time {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.mu.Unlock()

	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func (r *recordingTimer) Delays() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.delays...)
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *recordingTimer) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	timer := &recordingTimer{}
	c, err := NewClient(srv.URL+"/", "test-key", nil, WithTimer(timer), WithRetry(3, 500*time.Millisecond))
	require.NoError(t, err)
	return c, timer
}

const inceptionJSON = `{
	"Title": "Inception", "Year": "2010", "Type": "movie",
	"Poster": "https://example.com/inception.jpg",
	"imdbRating": "8.8", "imdbVotes": "2,500,000", "imdbID": "tt1375666",
	"Genre": "Action, Sci-Fi", "Director": "Christopher Nolan",
	"Plot": "A thief who steals corporate secrets.", "BoxOffice": "$292,587,330",
	"Response": "True"
}`

func TestLookupIDFound(t *testing.T) {
	c, timer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tt1375666", r.URL.Query().Get("i"))
		assert.Equal(t, "full", r.URL.Query().Get("plot"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		fmt.Fprint(w, inceptionJSON)
	})

	res, err := c.LookupID(context.Background(), "tt1375666")
	require.NoError(t, err)
	require.True(t, res.Found)

	assert.Equal(t, "tt1375666", res.Record.ID)
	assert.Equal(t, "Inception", res.Record.Title)
	assert.Equal(t, "8.8", res.Record.Rating)
	assert.Equal(t, "Christopher Nolan", res.Record.Director)
	assert.Empty(t, timer.Delays())
}

func TestLookupNotFoundIsDataWithoutRetry(t *testing.T) {
	for _, reason := range []string{ReasonMovieNotFound, ReasonIncorrectID} {
		t.Run(reason, func(t *testing.T) {
			var calls atomic.Int32
			c, timer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				fmt.Fprintf(w, `{"Response":"False","Error":%q}`, reason)
			})

			res, err := c.LookupID(context.Background(), "tt0000000")
			require.NoError(t, err)
			assert.False(t, res.Found)
			assert.Equal(t, reason, res.Reason)
			assert.Equal(t, int32(1), calls.Load())
			assert.Empty(t, timer.Delays())
		})
	}
}

func TestPermanentFailureMakesFourAttempts(t *testing.T) {
	var calls atomic.Int32
	c, timer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.LookupID(context.Background(), "tt1375666")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)

	assert.Equal(t, int32(4), calls.Load())
	assert.Equal(t, []time.Duration{
		500 * time.Millisecond,
		1000 * time.Millisecond,
		2000 * time.Millisecond,
	}, timer.Delays())
}

func TestTransientFailureRecovers(t *testing.T) {
	var calls atomic.Int32
	c, timer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, inceptionJSON)
	})

	res, err := c.LookupID(context.Background(), "tt1375666")
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, timer.Delays())
}

func TestOtherAPIErrorIsRetried(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"Response":"False","Error":"Request limit reached!"}`)
	})

	_, err := c.Search(context.Background(), "Inception")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Request limit reached!", apiErr.Message)
	assert.Equal(t, int32(4), calls.Load())
}

func TestLookupTitleIsSingleAttempt(t *testing.T) {
	var calls atomic.Int32
	c, timer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "Star", r.URL.Query().Get("t"))
		fmt.Fprint(w, `{"Response":"False","Error":"Too many results."}`)
	})

	res, err := c.LookupTitle(context.Background(), "Star")
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, "Too many results.", res.Reason)
	assert.Equal(t, int32(1), calls.Load())
	assert.Empty(t, timer.Delays())
}

func TestLookupTitleTransportFailureIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c, timer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.LookupTitle(context.Background(), "Inception")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Empty(t, timer.Delays())
}

func TestUndecodableBodyIsRetried(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			fmt.Fprint(w, `<html>oops</html>`)
			return
		}
		fmt.Fprint(w, inceptionJSON)
	})

	res, err := c.LookupID(context.Background(), "tt1375666")
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCancelledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		cancel()
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.LookupID(ctx, "tt1375666")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSearchStubs(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "batman", r.URL.Query().Get("s"))
		assert.Empty(t, r.URL.Query().Get("plot"))
		fmt.Fprint(w, `{"Search":[
			{"Title":"Batman Begins","Year":"2005","imdbID":"tt0372784","Type":"movie","Poster":"N/A"},
			{"Title":"The Batman","Year":"2022","imdbID":"tt1877830","Type":"movie","Poster":"N/A"}
		],"totalResults":"612","Response":"True"}`)
	})

	res, err := c.Search(context.Background(), "batman")
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, 612, res.Total)
	require.Len(t, res.Matches, 2)
	assert.Equal(t, "tt0372784", res.Matches[0].ID)
	assert.Equal(t, "The Batman", res.Matches[1].Title)
}

func TestSearchNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Response":"False","Error":"Movie not found!"}`)
	})

	before := testutil.ToFloat64(requestsTotal.WithLabelValues("search", outcomeNotFound))

	res, err := c.Search(context.Background(), "zzzzqqq")
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, ReasonMovieNotFound, res.Reason)

	after := testutil.ToFloat64(requestsTotal.WithLabelValues("search", outcomeNotFound))
	assert.Equal(t, before+1, after)
}

func TestEmptyInputRejected(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := c.LookupID(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	_, err = c.Search(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient("not a url", "k", nil)
	assert.Error(t, err)
}
