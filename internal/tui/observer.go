package tui

import (
	"sync"

	"github.com/cinepedia/cinepedia/internal/domain"
)

// ChannelObserver feeds sync indicator transitions to the Bubble Tea loop.
// Repeats of the last delivered status are dropped, and when the buffer is
// full the oldest pending status gives way so the newest one always lands.
type ChannelObserver struct {
	mu   sync.Mutex
	ch   chan domain.SyncStatus
	last domain.SyncStatus
	sent bool
}

// NewChannelObserver creates an observer writing to ch
func NewChannelObserver(ch chan domain.SyncStatus) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnSyncStatus queues status without blocking the indicator
func (o *ChannelObserver) OnSyncStatus(status domain.SyncStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.sent && status == o.last {
		return
	}
	o.last, o.sent = status, true

	if cap(o.ch) == 0 {
		select {
		case o.ch <- status:
		default:
		}
		return
	}
	for {
		select {
		case o.ch <- status:
			return
		default:
		}
		select {
		case <-o.ch:
		default:
		}
	}
}
