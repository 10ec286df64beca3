package condition

import (
	"time"

	"github.com/goliatone/go-canvas/engine"
)

// Scheduler runs fn after d and returns a function cancelling it.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) func()
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, fn func()) func()

// AfterFunc implements Scheduler.
func (f SchedulerFunc) AfterFunc(d time.Duration, fn func()) func() {
	return f(d, fn)
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// WallClock schedules on real timers. Callbacks run on their own goroutine.
var WallClock Scheduler = wallClock{}

// ThenOption configures Then.
type ThenOption func(*thenConfig)

type thenConfig struct {
	delay     time.Duration
	scheduler Scheduler
}

// WithDelay defers the callback by d. A zero delay runs it synchronously.
func WithDelay(d time.Duration) ThenOption {
	return func(cfg *thenConfig) {
		if d >= 0 {
			cfg.delay = d
		}
	}
}

// WithScheduler overrides where deferred callbacks run. By default they run
// on the clock of the map the event came from, or on WallClock for events
// without a map.
func WithScheduler(s Scheduler) ThenOption {
	return func(cfg *thenConfig) {
		cfg.scheduler = s
	}
}

// Then returns a condition that holds exactly when cond holds and, in that
// case, schedules callback for the event. The callback runs at most once per
// event, even when the returned condition is evaluated several times for it.
func Then(cond engine.Condition, callback func(*engine.PointerEvent), opts ...ThenOption) engine.Condition {
	cfg := thenConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	var last *engine.PointerEvent
	return func(e *engine.PointerEvent) bool {
		if cond == nil || !cond(e) {
			return false
		}
		if callback == nil || (e != nil && e == last) {
			return true
		}
		last = e
		if cfg.delay == 0 {
			callback(e)
			return true
		}
		scheduler := cfg.scheduler
		if scheduler == nil {
			scheduler = WallClock
			if e != nil && e.Map != nil {
				scheduler = e.Map
			}
		}
		scheduler.AfterFunc(cfg.delay, func() { callback(e) })
		return true
	}
}
