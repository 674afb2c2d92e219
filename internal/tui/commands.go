package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cinepedia/cinepedia/internal/catalog"
	"github.com/cinepedia/cinepedia/internal/domain"
	"github.com/cinepedia/cinepedia/internal/notice"
	"github.com/cinepedia/cinepedia/internal/profile"
)

// Command factories for async operations

// A retried OMDb call can take four 15s attempts plus backoff; a search is
// two such rounds (matches, then details).
const (
	batchTimeout  = 90 * time.Second
	searchTimeout = 150 * time.Second
	lookupTimeout = 30 * time.Second
)

// InitCatalogCmd hydrates the catalog from storage or the seed IDs
func InitCatalogCmd(init *catalog.Initializer) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
		defer cancel()

		res, err := init.Run(ctx)
		return CatalogReadyMsg{Result: res, Err: err}
	}
}

// FetchBatchCmd merges the given IDs into the catalog
func FetchBatchCmd(cmds *catalog.Commands, ids []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
		defer cancel()

		res, err := cmds.FetchBatch(ctx, ids)
		return BatchFetchedMsg{Result: res, Err: err}
	}
}

// SearchCmd runs search number seq under ctx. The caller keeps cancel so a
// newer search can abort this one; it is also released here when done.
func SearchCmd(ctx context.Context, cancel context.CancelFunc, seq int, cmds *catalog.Commands, query string) tea.Cmd {
	return func() tea.Msg {
		defer cancel()

		out, err := cmds.Search(ctx, query)
		return SearchDoneMsg{Seq: seq, Query: query, Outcome: out, Err: err}
	}
}

// LookupTitleCmd fetches an admin preview for title
func LookupTitleCmd(cmds *catalog.Commands, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()

		rec, found, err := cmds.LookupTitle(ctx, title)
		return LookupDoneMsg{Title: title, Record: rec, Found: found, Err: err}
	}
}

// PlayCmd starts the watch session and hands the trailer to the launcher
func PlayCmd(session *profile.WatchSession, launcher Launcher, rec domain.Record) tea.Cmd {
	return func() tea.Msg {
		granted, err := session.Start()
		if err != nil {
			return PlaybackStartedMsg{Record: rec, Err: err}
		}
		if launcher != nil && rec.VideoURL != "" {
			err = launcher.Launch(rec.VideoURL)
		}
		return PlaybackStartedMsg{Record: rec, Granted: granted, Err: err}
	}
}

// WaitForSyncCmd blocks on the next sync indicator transition
func WaitForSyncCmd(ch <-chan domain.SyncStatus) tea.Cmd {
	return func() tea.Msg {
		status, ok := <-ch
		if !ok {
			return nil
		}
		return SyncStatusMsg{Status: status}
	}
}

// WaitForNoticeCmd blocks on the next pushed notice
func WaitForNoticeCmd(ch <-chan notice.Notice) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return NoticeMsg{Notice: n}
	}
}

// ClearStatusCmd fires once a toast has had time to expire
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{At: t}
	})
}
