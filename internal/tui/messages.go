package tui

import (
	"time"

	"github.com/cinepedia/cinepedia/internal/catalog"
	"github.com/cinepedia/cinepedia/internal/domain"
	"github.com/cinepedia/cinepedia/internal/notice"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// CatalogReadyMsg signals the startup load finished
type CatalogReadyMsg struct {
	Result catalog.InitResult
	Err    error
}

// BatchFetchedMsg signals a batch fetch finished
type BatchFetchedMsg struct {
	Result catalog.BatchResult
	Err    error
}

// SearchDoneMsg signals a remote search finished
type SearchDoneMsg struct {
	Seq     int // matches Model.searchSeq for the latest search
	Query   string
	Outcome catalog.SearchOutcome
	Err     error
}

// LookupDoneMsg carries an admin title preview
type LookupDoneMsg struct {
	Title  string
	Record domain.Record
	Found  bool
	Err    error
}

// PlaybackStartedMsg signals the trailer was handed to the player
type PlaybackStartedMsg struct {
	Record  domain.Record
	Granted bool
	Err     error
}

// SyncStatusMsg carries a sync indicator transition
type SyncStatusMsg struct {
	Status domain.SyncStatus
}

// NoticeMsg carries a newly pushed notice
type NoticeMsg struct {
	Notice notice.Notice
}

// ClearStatusMsg expires toasts
type ClearStatusMsg struct {
	At time.Time
}
