package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/crshop/attendance/internal/clock"
)

func TestFake_SetAndAdvance(t *testing.T) {
	start := time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)
	c := clock.NewFake(start)
	assert.Equal(t, start, c.Now())

	got := c.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), got)
	assert.Equal(t, got, c.Now())

	later := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	c.Set(later)
	assert.Equal(t, later, c.Now())
}

func TestSystem_ReportsWallClock(t *testing.T) {
	before := time.Now()
	got := clock.System{}.Now()
	assert.False(t, got.Before(before))
}
