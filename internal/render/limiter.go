package render

// limiter.go bounds how many plots are drawn at once. go-gg builds the whole
// SVG in memory, so a burst of plot requests is held back here instead of
// all running in parallel. A caller that cannot get a slot within maxWait
// fails with ErrBusy.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrBusy is returned when every render slot stays occupied for the whole
// wait. Clients should retry after a short delay.
var ErrBusy = errors.New("too many plots rendering")

// DefaultMaxConcurrent is used when a non-positive limit is given.
const DefaultMaxConcurrent = 4

// DefaultMaxWait is used when a non-positive wait is given.
const DefaultMaxWait = 10 * time.Second

// Limiter is a semaphore over plot rendering.
type Limiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu     sync.Mutex
	active int
}

// NewLimiter allows at most maxConcurrent plots at once.
func NewLimiter(maxConcurrent int, maxWait time.Duration) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	return &Limiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire waits for a render slot. The caller must call Release once it is
// done drawing.
func (l *Limiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	case <-timer.C:
		return ErrBusy
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (l *Limiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()
	<-l.slots
}

// Active returns the number of plots currently drawing.
func (l *Limiter) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// MaxConcurrent returns the slot count.
func (l *Limiter) MaxConcurrent() int {
	return cap(l.slots)
}

// Do runs draw while holding a slot.
func (l *Limiter) Do(ctx context.Context, draw func() error) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer l.Release()
	return draw()
}
