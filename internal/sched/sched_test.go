package sched

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualAfterFuncFiresOnAdvance(t *testing.T) {
	clock := NewManual(time.Unix(0, 0))
	fired := 0
	clock.AfterFunc(5*time.Minute, func() { fired++ })

	clock.Advance(4 * time.Minute)
	assert.Equal(t, 0, fired)

	clock.Advance(time.Minute)
	assert.Equal(t, 1, fired)

	// One-shot: advancing further does not fire again.
	clock.Advance(10 * time.Minute)
	assert.Equal(t, 1, fired)
}

func TestManualStopPreventsFiring(t *testing.T) {
	clock := NewManual(time.Unix(0, 0))
	fired := false
	timer := clock.AfterFunc(time.Minute, func() { fired = true })

	require.True(t, timer.Stop())
	clock.Advance(2 * time.Minute)
	assert.False(t, fired)

	// Stopping again reports false.
	assert.False(t, timer.Stop())
}

func TestManualTimersArmedDuringAdvanceWaitForNextAdvance(t *testing.T) {
	clock := NewManual(time.Unix(0, 0))
	var second bool
	clock.AfterFunc(time.Minute, func() {
		clock.AfterFunc(time.Minute, func() { second = true })
	})

	clock.Advance(time.Hour)
	assert.False(t, second)
	assert.Equal(t, 1, clock.PendingTimers())

	clock.Advance(time.Minute)
	assert.True(t, second)
}

func TestManualSleepHonorsCancelledContext(t *testing.T) {
	clock := NewManual(time.Unix(0, 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, clock.Sleep(ctx, time.Second))
	assert.NoError(t, clock.Sleep(context.Background(), time.Second))
}

func TestRealClockSleepRespectsContext(t *testing.T) {
	clock := Real()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, clock.Sleep(ctx, time.Minute))
}
