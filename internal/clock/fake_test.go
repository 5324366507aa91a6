package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClockFiresDueTimersInOrder(t *testing.T) {
	c := NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	var fired []string
	c.AfterFunc(5*time.Second, func() { fired = append(fired, "five") })
	c.AfterFunc(2*time.Second, func() { fired = append(fired, "two") })

	c.Advance(time.Second)
	assert.Empty(t, fired)
	assert.Equal(t, 2, c.Pending())

	c.Advance(4 * time.Second)
	assert.Equal(t, []string{"two", "five"}, fired)
	assert.Zero(t, c.Pending())
}

func TestFakeClockStoppedTimerNeverFires(t *testing.T) {
	c := NewFakeClock(time.Unix(0, 0))

	called := false
	timer := c.AfterFunc(time.Second, func() { called = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	c.Advance(time.Minute)
	assert.False(t, called)
}

func TestFakeClockStopAfterFire(t *testing.T) {
	c := NewFakeClock(time.Unix(0, 0))
	timer := c.AfterFunc(time.Second, func() {})
	c.Advance(time.Second)
	assert.False(t, timer.Stop())
}
