package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrozenClock_StaysFrozen(t *testing.T) {
	start := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	clock := NewFrozenClock(start)

	assert.Equal(t, start, clock.Now())
	assert.Equal(t, start, clock.Now())
}

func TestFrozenClock_Advance(t *testing.T) {
	start := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	clock := NewFrozenClock(start)

	got := clock.Advance(25 * time.Minute)
	assert.Equal(t, start.Add(25*time.Minute), got)
	assert.Equal(t, got, clock.Now())

	// Backwards jumps are allowed for clock-change scenarios.
	got = clock.Advance(-time.Hour)
	assert.Equal(t, start.Add(25*time.Minute-time.Hour), got)
}

func TestFrozenClock_Set(t *testing.T) {
	clock := NewFrozenClock(time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC))

	later := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	clock.Set(later)
	assert.Equal(t, later, clock.Now())
}

func TestFrozenClock_ThreadSafe(t *testing.T) {
	start := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	clock := NewFrozenClock(start)

	const numGoroutines = 100
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			clock.Advance(time.Second)
		}()
	}
	wg.Wait()

	assert.Equal(t, start.Add(numGoroutines*time.Second), clock.Now())
}
