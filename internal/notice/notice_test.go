package notice

import (
	"testing"
	"time"

	"github.com/cinepedia/cinepedia/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCenter(start time.Time) (*Center, *time.Time) {
	clock := start
	c := NewCenter(0, nil)
	c.now = func() time.Time { return clock }
	return c, &clock
}

func TestPushAndExpire(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c, clock := newTestCenter(start)

	n := c.Push(domain.SeveritySuccess, "Metadata retrieved", "check")
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, start, n.CreatedAt)

	active := c.Active(start.Add(3 * time.Second))
	require.Len(t, active, 1)
	assert.Equal(t, "Metadata retrieved", active[0].Message)

	assert.Empty(t, c.Active(start.Add(DefaultTTL)))

	// Pruned notices stay gone
	*clock = start.Add(5 * time.Second)
	c.Push(domain.SeverityInfo, "second", "")
	active = c.Active(*clock)
	require.Len(t, active, 1)
	assert.Equal(t, "second", active[0].Message)
}

func TestUniqueIDs(t *testing.T) {
	c := NewCenter(time.Second, nil)
	a := c.Push(domain.SeverityInfo, "a", "")
	b := c.Push(domain.SeverityInfo, "b", "")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSubscribeReceivesNotices(t *testing.T) {
	c := NewCenter(0, nil)
	ch := c.Subscribe()

	c.Notify(domain.SeverityError, "Network failure", "alert")

	select {
	case n := <-ch:
		assert.Equal(t, domain.SeverityError, n.Severity)
		assert.Equal(t, "Network failure", n.Message)
	case <-time.After(time.Second):
		t.Fatal("no notice delivered")
	}
}

func TestFullSubscriberDoesNotBlock(t *testing.T) {
	c := NewCenter(0, nil)
	_ = c.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			c.Push(domain.SeverityInfo, "spam", "")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Push blocked on a full subscriber")
	}
}

func TestDismiss(t *testing.T) {
	c := NewCenter(0, nil)
	n := c.Push(domain.SeverityInfo, "x", "")
	c.Dismiss(n.ID)
	assert.Empty(t, c.Active(time.Now()))
}
