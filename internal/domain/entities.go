package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is a single movie's metadata as held by the catalog.
type Record struct {
	ID        string `json:"imdbID"`               // Globally unique identifier (IMDb ID)
	Title     string `json:"Title"`                // Display title
	Year      string `json:"Year"`                 // Release year, kept as the API reports it ("2010", "2008–2013")
	Type      string `json:"Type"`                 // Category: "movie", "series", "episode"
	Poster    string `json:"Poster"`               // Poster image URL or "N/A"
	Rating    string `json:"imdbRating,omitempty"` // 0-10 community rating, string encoded ("8.8", "N/A")
	Votes     string `json:"imdbVotes,omitempty"`
	Genre     string `json:"Genre,omitempty"`
	Plot      string `json:"Plot,omitempty"`
	Director  string `json:"Director,omitempty"`
	Actors    string `json:"Actors,omitempty"`
	BoxOffice string `json:"BoxOffice,omitempty"`

	// Derived references
	VideoURL    string `json:"VideoURL,omitempty"`    // Trailer search link
	DownloadURL string `json:"DownloadURL,omitempty"` // Only set for highly rated records
}

// NumericRating parses the string-encoded rating.
// Returns false when the rating is missing or not a number ("N/A").
func (r Record) NumericRating() (float64, bool) {
	if r.Rating == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(r.Rating, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// HasPoster reports whether the record carries a usable poster reference.
func (r Record) HasPoster() bool {
	return r.Poster != "" && r.Poster != "N/A"
}

// Description returns secondary info for list display, e.g. "2010 · movie · 8.8".
func (r Record) Description() string {
	parts := make([]string, 0, 3)
	if r.Year != "" {
		parts = append(parts, r.Year)
	}
	if r.Type != "" {
		parts = append(parts, r.Type)
	}
	if v, ok := r.NumericRating(); ok {
		parts = append(parts, fmt.Sprintf("%.1f", v))
	}
	return strings.Join(parts, " · ")
}

// MatchStub is a lightweight text-search hit. Full detail must be fetched
// separately by ID.
type MatchStub struct {
	ID     string
	Title  string
	Year   string
	Type   string
	Poster string
}

// TimelineItem is one entry of the profile activity timeline.
type TimelineItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Meta  string `json:"meta"`
}

// Profile is the single local user's persisted state.
type Profile struct {
	Name          string         `json:"name"`
	Level         int            `json:"level"`
	XP            int            `json:"xp"`
	XPToNext      int            `json:"xpToNext"`
	Watchlist     []string       `json:"watchlist"`
	Badges        []string       `json:"badges"`
	History       []string       `json:"history"`
	Timeline      []TimelineItem `json:"timeline"`
	SearchHistory []string       `json:"searchHistory"`
}

// InWatchlist reports whether id is on the watchlist.
func (p Profile) InWatchlist(id string) bool {
	for _, w := range p.Watchlist {
		if w == id {
			return true
		}
	}
	return false
}

// XPPercent returns progress towards the next level, clamped to 0-100.
func (p Profile) XPPercent() int {
	if p.XPToNext <= 0 {
		return 0
	}
	pct := p.XP * 100 / p.XPToNext
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

// Clone returns a deep copy so callers can't mutate shared slices.
func (p Profile) Clone() Profile {
	out := p
	out.Watchlist = append([]string(nil), p.Watchlist...)
	out.Badges = append([]string(nil), p.Badges...)
	out.History = append([]string(nil), p.History...)
	out.Timeline = append([]TimelineItem(nil), p.Timeline...)
	out.SearchHistory = append([]string(nil), p.SearchHistory...)
	return out
}

// Severity classifies a notice
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityError   Severity = "error"
)

// SyncStatus is the state of the simulated remote sync indicator.
type SyncStatus int

const (
	SyncConnected SyncStatus = iota
	SyncSyncing
	SyncError
)

// String returns a human-readable representation of the sync status
func (s SyncStatus) String() string {
	switch s {
	case SyncConnected:
		return "connected"
	case SyncSyncing:
		return "syncing"
	case SyncError:
		return "error"
	default:
		return "unknown"
	}
}
