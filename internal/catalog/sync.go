package catalog

import (
	"log/slog"
	"sync"
	"time"

	"github.com/cinepedia/cinepedia/internal/domain"
)

// DefaultSyncDelay is how long the indicator stays in syncing
const DefaultSyncDelay = 2 * time.Second

// Indicator is the remote sync status shown to the user. There is no remote:
// a durable local write moves it to syncing, and it settles back to connected
// once the delay passes without another write.
type Indicator struct {
	mu       sync.Mutex
	status   domain.SyncStatus
	delay    time.Duration
	timer    *time.Timer
	seq      uint64 // bumped on every transition so superseded timers do nothing
	observer domain.SyncObserver
	logger   *slog.Logger
}

// NewIndicator creates an Indicator in the connected state
func NewIndicator(delay time.Duration, observer domain.SyncObserver, logger *slog.Logger) *Indicator {
	if delay <= 0 {
		delay = DefaultSyncDelay
	}
	if observer == nil {
		observer = domain.NoOpObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Indicator{status: domain.SyncConnected, delay: delay, observer: observer, logger: logger}
}

// Status returns the current state
func (i *Indicator) Status() domain.SyncStatus {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.status
}

// SetObserver replaces the observer. Used once the UI is up.
func (i *Indicator) SetObserver(o domain.SyncObserver) {
	if o == nil {
		o = domain.NoOpObserver{}
	}
	i.mu.Lock()
	i.observer = o
	i.mu.Unlock()
}

// Acknowledge records a successful write: syncing now, connected after the
// delay. A write while syncing restarts the delay.
func (i *Indicator) Acknowledge() {
	i.mu.Lock()
	i.seq++
	seq := i.seq
	if i.timer != nil {
		i.timer.Stop()
	}
	i.timer = time.AfterFunc(i.delay, func() { i.settle(seq) })
	i.transition(domain.SyncSyncing)
}

// Fail records a failed write. The indicator stays in error until the next
// successful write.
func (i *Indicator) Fail() {
	i.mu.Lock()
	i.seq++
	if i.timer != nil {
		i.timer.Stop()
		i.timer = nil
	}
	i.transition(domain.SyncError)
}

// Stop cancels a pending settle
func (i *Indicator) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.seq++
	if i.timer != nil {
		i.timer.Stop()
		i.timer = nil
	}
}

func (i *Indicator) settle(seq uint64) {
	i.mu.Lock()
	if seq != i.seq {
		i.mu.Unlock()
		return
	}
	i.timer = nil
	i.transition(domain.SyncConnected)
}

// transition sets the status and notifies the observer. Called with mu held;
// releases it before notifying.
func (i *Indicator) transition(next domain.SyncStatus) {
	prev := i.status
	i.status = next
	observer := i.observer
	i.mu.Unlock()

	if prev != next {
		i.logger.Debug("sync status", "from", prev, "to", next)
	}
	observer.OnSyncStatus(next)
}
