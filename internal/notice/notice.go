// Package notice holds transient user-visible messages (toasts).
package notice

import (
	"log/slog"
	"sync"
	"time"

	"github.com/cinepedia/cinepedia/internal/domain"
	"github.com/google/uuid"
)

// DefaultTTL is how long a notice stays active
const DefaultTTL = 4 * time.Second

const subscriberBuffer = 16

// Notice is a single transient message. Never persisted.
type Notice struct {
	ID        string
	Message   string
	Severity  domain.Severity
	Icon      string
	CreatedAt time.Time
}

// Expired reports whether the notice has outlived ttl at now
func (n Notice) Expired(now time.Time, ttl time.Duration) bool {
	return !now.Before(n.CreatedAt.Add(ttl))
}

// Center collects notices and fans them out to subscribers.
// Safe for concurrent use.
type Center struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	notices []Notice
	subs    []chan Notice
	logger  *slog.Logger
}

var _ domain.Notifier = (*Center)(nil)

// NewCenter creates a Center. A non-positive ttl uses DefaultTTL.
func NewCenter(ttl time.Duration, logger *slog.Logger) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Center{ttl: ttl, now: time.Now, logger: logger}
}

// TTL returns the configured lifetime
func (c *Center) TTL() time.Duration {
	return c.ttl
}

// Push records a notice and delivers it to subscribers without blocking
func (c *Center) Push(severity domain.Severity, message, icon string) Notice {
	n := Notice{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		Icon:      icon,
		CreatedAt: c.now(),
	}

	c.mu.Lock()
	c.prune(n.CreatedAt)
	c.notices = append(c.notices, n)
	subs := append([]chan Notice(nil), c.subs...)
	c.mu.Unlock()

	c.logger.Debug("notice", "severity", severity, "message", message)

	for _, ch := range subs {
		select {
		case ch <- n:
		default:
			c.logger.Warn("notice subscriber full, dropping", "id", n.ID)
		}
	}
	return n
}

// Notify implements domain.Notifier
func (c *Center) Notify(severity domain.Severity, message, icon string) {
	c.Push(severity, message, icon)
}

// Active returns the unexpired notices, oldest first
func (c *Center) Active(now time.Time) []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune(now)
	return append([]Notice(nil), c.notices...)
}

// Dismiss removes a notice before it expires
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.notices {
		if n.ID == id {
			c.notices = append(c.notices[:i], c.notices[i+1:]...)
			return
		}
	}
}

// Subscribe returns a buffered channel receiving every future notice.
// Slow readers miss notices rather than block producers.
func (c *Center) Subscribe() <-chan Notice {
	ch := make(chan Notice, subscriberBuffer)
	c.mu.Lock()
	c.subs = append(c.subs, ch)
	c.mu.Unlock()
	return ch
}

// prune drops expired notices. Caller holds mu.
func (c *Center) prune(now time.Time) {
	kept := c.notices[:0]
	for _, n := range c.notices {
		if !n.Expired(now, c.ttl) {
			kept = append(kept, n)
		}
	}
	c.notices = kept
}
