// Package canvas is the orchestration core over an engine map: ordered layer
// groups, feature bookkeeping, popups, the view and interactive tools all
// attach to one Canvas, which also owns the change channels they share.
package canvas

import (
	"context"
	"time"

	"github.com/goliatone/go-canvas/bus"
	"github.com/goliatone/go-canvas/engine"
	"github.com/goliatone/go-canvas/pkg/activity"
)

// Canvas wraps an engine map. Stores built against the same Canvas share its
// layer groups and channels.
type Canvas struct {
	m        *engine.Map
	config   Config
	logger   Logger
	channels *bus.Registry
	emitter  *activity.Emitter
	ctx      context.Context
}

// New wraps m. A nil map is replaced by a blank one.
func New(m *engine.Map, opts ...Option) *Canvas {
	cfg := applyOptions(opts)
	if m == nil {
		m = engine.NewMap()
	}
	c := &Canvas{
		m:      m,
		config: cfg.config,
		logger: cfg.logger,
		ctx:    cfg.ctx,
	}
	c.channels = bus.NewRegistry(bus.WithErrorHandler(func(err error) {
		c.Log(Diagnostic{
			Component: "bus",
			Op:        "publish",
			Severity:  SeverityWarning,
			Message:   "subscriber failed",
			Err:       err,
		})
	}))
	c.emitter = activity.NewEmitter(cfg.activityHooks, activity.Config{
		Enabled: cfg.config.ActivityEnabled,
		Channel: cfg.config.ActivityChannel,
	}).WithActor(cfg.actor)
	return c
}

// NewBlank returns a canvas over an empty map: no groups, no tools.
func NewBlank(opts ...Option) *Canvas {
	return New(engine.NewMap(), opts...)
}

// Map returns the wrapped engine map.
func (c *Canvas) Map() *engine.Map {
	return c.m
}

// Config returns the canvas configuration.
func (c *Canvas) Config() Config {
	return c.config
}

// Channels returns the registry holding the canvas change channels.
func (c *Canvas) Channels() *bus.Registry {
	return c.channels
}

// Logger returns the diagnostic logger.
func (c *Canvas) Logger() Logger {
	return c.logger
}

// Log records d.
func (c *Canvas) Log(d Diagnostic) {
	c.logger.LogDiagnostic(d)
}

// Reject logs d and returns the matching rejected Result. Empty input is
// routine and logged at debug level; other rejections are warnings.
func (c *Canvas) Reject(d Diagnostic) Result {
	if d.Reason == ReasonEmptyInput {
		d.Severity = SeverityDebug
	} else if d.Severity == SeverityDebug {
		d.Severity = SeverityWarning
	}
	c.Log(d)
	return Rejected(d.Reason)
}

// Record emits an activity event. Hook failures are logged, never returned.
func (c *Canvas) Record(event activity.Event) {
	if !c.emitter.Enabled() {
		return
	}
	if err := c.emitter.Emit(c.ctx, event); err != nil {
		c.Log(Diagnostic{
			Component: "activity",
			Op:        "emit",
			Target:    event.Verb,
			Severity:  SeverityWarning,
			Err:       err,
		})
	}
}

// AfterFunc schedules fn on the map clock and returns its cancel function.
func (c *Canvas) AfterFunc(d time.Duration, fn func()) func() {
	return c.m.AfterFunc(d, fn)
}
