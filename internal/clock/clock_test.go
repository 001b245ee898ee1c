package clock

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestClockStepsUntilStopped(t *testing.T) {
	var day atomic.Int64
	seen := make(chan int, 64)
	c := New(5*time.Millisecond, StepperFunc(func() int {
		return int(day.Add(1))
	}), WithObserver(func(d int) {
		select {
		case seen <- d:
		default:
		}
	}))

	c.Start(context.Background())
	for want := 1; want <= 3; want++ {
		select {
		case got := <-seen:
			if got != want {
				t.Fatalf("observed day %d, want %d", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for day %d", want)
		}
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}

	stoppedAt := day.Load()
	time.Sleep(30 * time.Millisecond)
	if day.Load() != stoppedAt {
		t.Fatalf("clock kept stepping after Stop: %d -> %d", stoppedAt, day.Load())
	}
}

func TestClockStopIsIdempotent(t *testing.T) {
	c := New(time.Hour, StepperFunc(func() int { return 0 }))
	c.Start(context.Background())
	for i := 0; i < 3; i++ {
		if err := c.Stop(context.Background()); err != nil {
			t.Fatalf("stop %d: %v", i, err)
		}
	}
}

func TestClockStopBeforeStart(t *testing.T) {
	c := New(time.Hour, StepperFunc(func() int { return 0 }))
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestClockParentCancelStopsLoop(t *testing.T) {
	var steps atomic.Int64
	c := New(2*time.Millisecond, StepperFunc(func() int { return int(steps.Add(1)) }))
	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := c.Stop(stopCtx); err != nil {
		t.Fatalf("stop after cancel: %v", err)
	}
}

func TestNewFallsBackToDefaultInterval(t *testing.T) {
	for _, every := range []time.Duration{0, -time.Second} {
		c := New(every, StepperFunc(func() int { return 0 }))
		if c.Interval() != DefaultInterval {
			t.Fatalf("New(%v).Interval() = %v, want %v", every, c.Interval(), DefaultInterval)
		}
	}
}
