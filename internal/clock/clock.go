package clock

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const DefaultInterval = time.Second

// Stepper advances a simulation by one day and returns the new day.
type Stepper interface {
	Step() int
}

// StepperFunc is a function adapter for Stepper.
type StepperFunc func() int

func (f StepperFunc) Step() int {
	return f()
}

type Option func(*Clock)

// WithObserver registers fn to be called after every step with the new day.
func WithObserver(fn func(day int)) Option {
	return func(c *Clock) {
		c.observe = fn
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Clock) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Clock calls Step once per interval while running. Ticks are best effort:
// a slow consumer drops ticks rather than catching up.
type Clock struct {
	every   time.Duration
	stepper Stepper
	observe func(int)
	logger  *slog.Logger

	mu       sync.Mutex
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	started  bool
	stopOnce sync.Once
}

func New(every time.Duration, stepper Stepper, opts ...Option) *Clock {
	if every <= 0 {
		every = DefaultInterval
	}
	c := &Clock{
		every:   every,
		stepper: stepper,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Clock) Interval() time.Duration {
	return c.every
}

// Start launches the tick loop. Cancelling ctx stops the clock as well.
// Calling Start more than once has no effect.
func (c *Clock) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go c.run(runCtx)
	c.logger.Info("clock started", "every", c.every.String())
}

// Stop cancels the loop and waits for it to exit, or for ctx to expire.
// The timer is released exactly once; later calls return nil immediately.
func (c *Clock) Stop(ctx context.Context) error {
	var err error
	c.stopOnce.Do(func() {
		c.mu.Lock()
		cancel := c.cancel
		c.mu.Unlock()
		if cancel == nil {
			return
		}
		cancel()

		done := make(chan struct{})
		go func() {
			c.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			c.logger.Info("clock stopped")
		case <-ctx.Done():
			err = ctx.Err()
		}
	})
	return err
}

func (c *Clock) run(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			day := c.stepper.Step()
			c.logger.Debug("tick", "day", day)
			if c.observe != nil {
				c.observe(day)
			}
		}
	}
}
