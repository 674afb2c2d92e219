// Package profile manages the single local user profile.
package profile

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/cinepedia/cinepedia/internal/domain"
	"github.com/google/uuid"
)

const (
	// WatchlistXP is granted when a record is added to the watchlist
	WatchlistXP = 50
	// WatchXP is granted once per watch session
	WatchXP = 10
	// SearchHistoryLimit bounds the search history
	SearchHistoryLimit = 10
)

// Store is the persistence the profile needs
type Store interface {
	GetProfile() (domain.Profile, bool)
	SaveProfile(profile domain.Profile) error
}

// Default returns the profile used when nothing is stored
func Default() domain.Profile {
	return domain.Profile{
		Name:      "John Doe",
		Level:     8,
		XP:        450,
		XPToNext:  1000,
		Watchlist: []string{},
		Badges:    []string{"Early Adopter", "Alpha Tester"},
		History:   []string{},
		Timeline: []domain.TimelineItem{
			{ID: uuid.NewString(), Title: "Joined CinePedia", Meta: "2 weeks ago"},
		},
		SearchHistory: []string{"Inception", "Interstellar"},
	}
}

// Service owns the profile and persists every change.
// Safe for concurrent use.
type Service struct {
	mu       sync.Mutex
	profile  domain.Profile
	store    Store
	notifier domain.Notifier
	logger   *slog.Logger
}

// NewService loads the stored profile or falls back to Default
func NewService(store Store, notifier domain.Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = domain.NoOpNotifier{}
	}

	p, ok := store.GetProfile()
	if !ok {
		p = Default()
		logger.Debug("no stored profile, using default")
	}

	return &Service{profile: p, store: store, notifier: notifier, logger: logger}
}

// Profile returns a copy of the current profile
func (s *Service) Profile() domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Clone()
}

// update applies fn to a copy and persists it. The in-memory profile only
// changes when the write succeeds. Caller holds mu.
func (s *Service) update(fn func(p *domain.Profile)) error {
	next := s.profile.Clone()
	fn(&next)
	if err := s.store.SaveProfile(next); err != nil {
		s.logger.Error("failed to save profile", "error", err)
		return fmt.Errorf("failed to save profile: %w", err)
	}
	s.profile = next
	return nil
}

// ToggleWatch flips watchlist membership for rec. XP is only granted on
// addition. Returns true when the record was added.
func (s *Service) ToggleWatch(rec domain.Record) (bool, error) {
	if rec.ID == "" {
		return false, domain.ErrInvalidRecord
	}

	s.mu.Lock()
	adding := !s.profile.InWatchlist(rec.ID)
	err := s.update(func(p *domain.Profile) {
		if adding {
			p.Watchlist = append(p.Watchlist, rec.ID)
			p.XP += WatchlistXP
			return
		}
		kept := p.Watchlist[:0]
		for _, id := range p.Watchlist {
			if id != rec.ID {
				kept = append(kept, id)
			}
		}
		p.Watchlist = kept
	})
	s.mu.Unlock()
	if err != nil {
		return false, err
	}

	title := rec.Title
	if title == "" {
		title = "Movie"
	}
	if adding {
		s.notifier.Notify(domain.SeveritySuccess, fmt.Sprintf("Added %s to collection", title), "heart")
	} else {
		s.notifier.Notify(domain.SeverityInfo, fmt.Sprintf("Removed %s from collection", title), "heart-crack")
	}
	s.logger.Info("watchlist toggled", "id", rec.ID, "added", adding)
	return adding, nil
}

// RecordSearch prepends query to the search history unless it is already
// present. Returns true when the history changed.
func (s *Service) RecordSearch(query string) (bool, error) {
	if query == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range s.profile.SearchHistory {
		if q == query {
			return false, nil
		}
	}

	err := s.update(func(p *domain.Profile) {
		history := append([]string{query}, p.SearchHistory...)
		if len(history) > SearchHistoryLimit {
			history = history[:SearchHistoryLimit]
		}
		p.SearchHistory = history
	})
	return err == nil, err
}

// ClearSearchHistory empties the search history
func (s *Service) ClearSearchHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(func(p *domain.Profile) {
		p.SearchHistory = []string{}
	})
}

// Reset replaces the profile with Default
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(func(p *domain.Profile) {
		*p = Default()
	})
}

// Watchlist returns the watchlisted IDs in insertion order
func (s *Service) Watchlist() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.profile.Watchlist...)
}

// WatchSession tracks one open detail view. Only the first Start grants XP.
type WatchSession struct {
	svc     *Service
	record  domain.Record
	mu      sync.Mutex
	started bool
}

// NewWatchSession opens a session for rec
func (s *Service) NewWatchSession(rec domain.Record) *WatchSession {
	return &WatchSession{svc: s, record: rec}
}

// Started reports whether playback began in this session
func (w *WatchSession) Started() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.started
}

// Start begins playback. Returns true when this call granted XP.
func (w *WatchSession) Start() (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return false, nil
	}

	s := w.svc
	s.mu.Lock()
	err := s.update(func(p *domain.Profile) {
		p.XP += WatchXP
		history := []string{w.record.ID}
		for _, id := range p.History {
			if id != w.record.ID {
				history = append(history, id)
			}
		}
		p.History = history
	})
	s.mu.Unlock()
	if err != nil {
		return false, err
	}

	w.started = true
	s.notifier.Notify(domain.SeverityInfo, "Streaming "+strings.TrimSpace(w.record.Title), "play")
	s.logger.Info("watch session started", "id", w.record.ID)
	return true, nil
}
