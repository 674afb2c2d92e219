// Package settings holds the scalar app settings: theme, maintenance mode
// and the announcement banner.
package settings

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/cinepedia/cinepedia/internal/domain"
	"github.com/cinepedia/cinepedia/internal/store"
)

// Themes in display order
var Themes = []string{"default", "day", "neon", "amoled", "glass", "forest", "vhs", "superhero", "anime"}

// DefaultTheme is used when nothing valid is stored or configured
const DefaultTheme = "default"

// ValidTheme reports whether name is a known theme
func ValidTheme(name string) bool {
	for _, t := range Themes {
		if t == name {
			return true
		}
	}
	return false
}

// Store is the persistence the settings need
type Store interface {
	GetSetting(key string) (string, bool)
	SaveSetting(key, value string) error
}

// Service reads and writes settings. Safe for concurrent use.
type Service struct {
	mu            sync.RWMutex
	store         Store
	notifier      domain.Notifier
	logger        *slog.Logger
	fallbackTheme string
}

// NewService creates a Service. fallbackTheme applies when no theme is stored.
func NewService(st Store, fallbackTheme string, notifier domain.Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = domain.NoOpNotifier{}
	}
	if !ValidTheme(fallbackTheme) {
		fallbackTheme = DefaultTheme
	}
	return &Service{store: st, notifier: notifier, logger: logger, fallbackTheme: fallbackTheme}
}

// Theme returns the active theme
func (s *Service) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.store.GetSetting(store.KeyTheme); ok && ValidTheme(v) {
		return v
	}
	return s.fallbackTheme
}

// SetTheme switches and persists the theme
func (s *Service) SetTheme(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if !ValidTheme(name) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidTheme, name)
	}

	s.mu.Lock()
	err := s.store.SaveSetting(store.KeyTheme, name)
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("failed to save theme", "error", err)
		return fmt.Errorf("failed to save theme: %w", err)
	}

	s.notifier.Notify(domain.SeverityInfo, fmt.Sprintf("Switched to %s style", strings.ToUpper(name)), "wand")
	return nil
}

// Maintenance reports whether maintenance mode is on
func (s *Service) Maintenance() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, _ := s.store.GetSetting(store.KeyMaintenance)
	return v == "true"
}

// SetMaintenance persists the maintenance flag as "true"/"false"
func (s *Service) SetMaintenance(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.SaveSetting(store.KeyMaintenance, fmt.Sprintf("%t", on)); err != nil {
		s.logger.Error("failed to save maintenance flag", "error", err)
		return fmt.Errorf("failed to save maintenance flag: %w", err)
	}
	s.logger.Info("maintenance mode", "on", on)
	return nil
}

// Announcement returns the banner text, empty when unset
func (s *Service) Announcement() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, _ := s.store.GetSetting(store.KeyAnnouncement)
	return v
}

// SetAnnouncement persists the banner text. Empty clears it.
func (s *Service) SetAnnouncement(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.SaveSetting(store.KeyAnnouncement, text); err != nil {
		s.logger.Error("failed to save announcement", "error", err)
		return fmt.Errorf("failed to save announcement: %w", err)
	}
	return nil
}
