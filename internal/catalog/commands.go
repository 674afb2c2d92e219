package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cinepedia/cinepedia/internal/domain"
	"github.com/sourcegraph/conc/iter"
	"github.com/sourcegraph/conc/panics"
)

// DefaultSearchLimit caps how many search matches get a detail fetch
const DefaultSearchLimit = 10

// Notice texts
const (
	msgBatchSynced    = "Synchronized %d entries with MongoDB Cluster"
	msgBatchFailed    = "Critical system sync failure"
	msgSearchFound    = "Found %d matched nodes"
	msgSearchNoMatch  = "No matches found"
	msgSearchFailed   = "Search uplink interrupted"
	msgLookupFound    = "Metadata retrieved"
	msgLookupNotFound = "Movie not found"
	msgLookupFailed   = "Network failure"
	msgRecordAdded    = "%s added to library"
	msgRecordRemoved  = "Removed entry: %s"
	msgRecordUpdated  = "Updated %s"
)

// SearchRecorder receives every non-empty search query
type SearchRecorder interface {
	RecordSearch(query string) (bool, error)
}

// BatchResult summarizes one FetchBatch call
type BatchResult struct {
	Requested int
	Accepted  int
	Stale     bool // a newer fetch started; nothing was applied
}

// SearchOutcome summarizes one Search call
type SearchOutcome struct {
	Matches  int    // stubs returned by the text search
	Accepted int    // detailed records placed in the catalog
	Reason   string // API reason when the search itself found nothing
	Stale    bool
}

// Commands is the fetch pipeline: network operations that feed the catalog,
// plus the admin mutations that report through notices.
type Commands struct {
	repo        domain.MetadataRepository
	catalog     *Catalog
	history     SearchRecorder
	notifier    domain.Notifier
	links       LinkPolicy
	searchLimit int
	logger      *slog.Logger
}

// NewCommands creates a new Commands instance.
func NewCommands(
	repo domain.MetadataRepository,
	catalog *Catalog,
	history SearchRecorder,
	notifier domain.Notifier,
	links LinkPolicy,
	searchLimit int,
	logger *slog.Logger,
) *Commands {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = domain.NoOpNotifier{}
	}
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}
	return &Commands{
		repo:        repo,
		catalog:     catalog,
		history:     history,
		notifier:    notifier,
		links:       links,
		searchLimit: searchLimit,
		logger:      logger,
	}
}

// FetchBatch looks up every id concurrently and merges the found records.
// Individual failures and not-found answers are dropped; only a failure of
// the dispatch itself is reported, as an error notice.
func (c *Commands) FetchBatch(ctx context.Context, ids []string) (BatchResult, error) {
	result := BatchResult{Requested: len(ids)}
	if len(ids) == 0 {
		return result, nil
	}
	ticket := c.catalog.NextTicket()

	accepted, err := c.fetchDetails(ctx, ids, true)
	if err != nil {
		c.logger.Error("batch dispatch failed", "error", err, "requested", len(ids))
		c.notifier.Notify(domain.SeverityError, msgBatchFailed, "server")
		return result, err
	}
	// Lookups cut short by the caller are not "not found"; keep the catalog
	if err := ctx.Err(); err != nil {
		c.logger.Debug("batch cancelled", "requested", len(ids), "error", err)
		return result, err
	}
	result.Accepted = len(accepted)
	c.logger.Info("batch fetched", "requested", len(ids), "accepted", len(accepted))

	if len(accepted) == 0 {
		return result, nil
	}

	applied, err := c.catalog.AddRecordsAt(ticket, accepted)
	if !applied && err == nil {
		staleResultsTotal.WithLabelValues("batch").Inc()
		c.logger.Debug("dropping stale batch results", "ticket", ticket, "accepted", len(accepted))
		result.Stale = true
		return result, nil
	}
	if err != nil {
		c.notifier.Notify(domain.SeverityError, msgBatchFailed, "server")
		return result, err
	}

	if len(ids) > 1 {
		c.notifier.Notify(domain.SeveritySuccess, fmt.Sprintf(msgBatchSynced, len(accepted)), "cloud")
	}
	return result, nil
}

// Search replaces the catalog with the detailed top matches of query.
// An empty query is a no-op.
func (c *Commands) Search(ctx context.Context, query string) (SearchOutcome, error) {
	var out SearchOutcome
	if strings.TrimSpace(query) == "" {
		return out, nil
	}

	ticket := c.catalog.NextTicket()

	if c.history != nil {
		if _, err := c.history.RecordSearch(query); err != nil {
			c.logger.Warn("failed to record search history", "error", err)
		}
	}

	res, err := c.repo.Search(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			c.logger.Debug("search cancelled", "query", query)
			return out, ctx.Err()
		}
		c.logger.Error("search failed", "query", query, "error", err)
		c.notifier.Notify(domain.SeverityError, msgSearchFailed, "wifi")
		return out, err
	}
	if !res.Found {
		out.Reason = res.Reason
		msg := res.Reason
		if msg == "" {
			msg = msgSearchNoMatch
		}
		c.notifier.Notify(domain.SeverityError, msg, "ghost")
		return out, nil
	}

	if !c.catalog.Current(ticket) {
		// superseded while matching; skip the detail fetches
		staleResultsTotal.WithLabelValues("search").Inc()
		c.logger.Debug("dropping stale search matches", "query", query, "ticket", ticket)
		out.Stale = true
		return out, nil
	}

	stubs := res.Matches
	if len(stubs) > c.searchLimit {
		stubs = stubs[:c.searchLimit]
	}
	out.Matches = len(stubs)

	ids := make([]string, len(stubs))
	for i, s := range stubs {
		ids[i] = s.ID
	}

	accepted, err := c.fetchDetails(ctx, ids, false)
	if err != nil {
		c.logger.Error("search detail dispatch failed", "query", query, "error", err)
		c.notifier.Notify(domain.SeverityError, msgSearchFailed, "wifi")
		return out, err
	}
	if err := ctx.Err(); err != nil {
		c.logger.Debug("search cancelled", "query", query, "error", err)
		return out, err
	}

	applied, err := c.catalog.ReplaceAllAt(ticket, accepted)
	if !applied && err == nil {
		staleResultsTotal.WithLabelValues("search").Inc()
		c.logger.Debug("dropping stale search results", "query", query, "ticket", ticket)
		out.Stale = true
		return out, nil
	}
	out.Accepted = len(accepted)
	if err != nil {
		c.notifier.Notify(domain.SeverityError, msgSearchFailed, "wifi")
		return out, err
	}

	c.notifier.Notify(domain.SeverityInfo, fmt.Sprintf(msgSearchFound, len(accepted)), "magnifying-glass")
	return out, nil
}

// LookupTitle fetches a preview for the best title match. The preview is
// not added to the catalog; see AddToLibrary.
func (c *Commands) LookupTitle(ctx context.Context, title string) (domain.Record, bool, error) {
	if strings.TrimSpace(title) == "" {
		return domain.Record{}, false, domain.ErrEmptyQuery
	}

	res, err := c.repo.LookupTitle(ctx, title)
	if err != nil {
		c.logger.Error("title lookup failed", "title", title, "error", err)
		c.notifier.Notify(domain.SeverityError, msgLookupFailed, "")
		return domain.Record{}, false, err
	}
	if !res.Found {
		msg := res.Reason
		if msg == "" {
			msg = msgLookupNotFound
		}
		c.notifier.Notify(domain.SeverityError, msg, "")
		return domain.Record{}, false, nil
	}

	c.notifier.Notify(domain.SeveritySuccess, msgLookupFound, "check")
	return c.links.Apply(res.Record, false), true, nil
}

// AddToLibrary puts rec at the front of the catalog
func (c *Commands) AddToLibrary(rec domain.Record) error {
	if err := c.catalog.Prepend(rec); err != nil {
		c.logger.Error("failed to add record", "id", rec.ID, "error", err)
		return err
	}
	c.notifier.Notify(domain.SeveritySuccess, fmt.Sprintf(msgRecordAdded, rec.Title), "cloud-arrow-up")
	return nil
}

// RemoveFromLibrary deletes the record with id
func (c *Commands) RemoveFromLibrary(id string) error {
	removed, err := c.catalog.Delete(id)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return err
	}

	name := removed.Title
	if name == "" {
		name = id
	}
	c.notifier.Notify(domain.SeverityInfo, fmt.Sprintf(msgRecordRemoved, name), "trash")
	return err
}

// EditRecord replaces an existing record in place
func (c *Commands) EditRecord(rec domain.Record) error {
	if err := c.catalog.Update(rec); err != nil {
		c.logger.Error("failed to edit record", "id", rec.ID, "error", err)
		return err
	}
	c.notifier.Notify(domain.SeveritySuccess, fmt.Sprintf(msgRecordUpdated, rec.Title), "pencil")
	return nil
}

// fetchDetails looks up ids concurrently, one goroutine per id, and returns
// the found records in input order. Per-id failures are logged and dropped.
// A panic anywhere in the fan-out comes back as an error.
func (c *Commands) fetchDetails(ctx context.Context, ids []string, allowDownload bool) ([]domain.Record, error) {
	var accepted []domain.Record

	var pc panics.Catcher
	pc.Try(func() {
		mapper := iter.Mapper[string, *domain.Record]{MaxGoroutines: len(ids)}
		results := mapper.Map(ids, func(id *string) *domain.Record {
			res, err := c.repo.LookupID(ctx, *id)
			if err != nil {
				c.logger.Warn("lookup failed, dropping", "id", *id, "error", err)
				return nil
			}
			if !res.Found {
				c.logger.Debug("lookup not found, dropping", "id", *id, "reason", res.Reason)
				return nil
			}
			rec := c.links.Apply(res.Record, allowDownload)
			return &rec
		})

		accepted = make([]domain.Record, 0, len(results))
		for _, r := range results {
			if r != nil {
				accepted = append(accepted, *r)
			}
		}
	})

	if r := pc.Recovered(); r != nil {
		return nil, r.AsError()
	}
	return accepted, nil
}
