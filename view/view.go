// Package view wraps the viewport of a canvas with stepped, animated zoom and
// fit-to-extent helpers.
package view

import (
	"math"
	"time"

	canvas "github.com/goliatone/go-canvas"
	"github.com/goliatone/go-canvas/engine"
	"gonum.org/v1/gonum/spatial/r2"
)

// Option configures a View.
type Option func(*View)

// WithoutListen keeps the view captured at construction even when the map
// view is replaced by someone else.
func WithoutListen() Option {
	return func(v *View) {
		v.listen = false
	}
}

// WithDuration overrides Config.ZoomDuration.
func WithDuration(d time.Duration) Option {
	return func(v *View) {
		if d >= 0 {
			v.duration = d
		}
	}
}

// View follows the map viewport.
type View struct {
	c        *canvas.Canvas
	view     *engine.View
	listen   bool
	duration time.Duration
	keys     []engine.ListenerKey
}

// New returns a wrapper over the current map view. A nil canvas is replaced
// by a blank one.
func New(c *canvas.Canvas, opts ...Option) *View {
	if c == nil {
		c = canvas.NewBlank()
	}
	v := &View{
		c:        c,
		view:     c.Map().View(),
		listen:   true,
		duration: c.Config().ZoomDuration,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	if v.listen {
		v.keys = append(v.keys, c.Map().On(engine.ChangeEvent("view"), func(engine.Event) {
			v.view = v.c.Map().View()
		}))
	}
	return v
}

// View returns the tracked engine view.
func (v *View) View() *engine.View {
	return v.view
}

// SetView installs view on the map and tracks it.
func (v *View) SetView(view *engine.View) canvas.Result {
	if view == nil {
		return v.c.Reject(canvas.Diagnostic{Component: "view", Op: "set_view", Reason: canvas.ReasonNilValue})
	}
	v.c.Map().SetView(view)
	v.view = v.c.Map().View()
	return canvas.Applied()
}

// Zoom animates delta zoom steps from the current zoom, cancelling any
// running animation first. It reports false and does nothing when the
// current zoom or the constrained target is undefined.
func (v *View) Zoom(delta float64) bool {
	if v.view == nil {
		return false
	}
	current, ok := v.view.Zoom()
	if !ok {
		return false
	}
	target, ok := v.view.ConstrainedZoom(current+delta, 0)
	if !ok {
		return false
	}
	if v.view.Animating() {
		v.view.CancelAnimations()
	}
	v.view.Animate(engine.AnimationOptions{Zoom: &target, Duration: v.duration}, nil)
	return true
}

// Fit shows extent with padding pixels on every side, moving to the nearest
// zoom level.
func (v *View) Fit(extent engine.Extent, padding float64) bool {
	if v.view == nil {
		return false
	}
	return v.view.Fit(extent, engine.FitOptions{
		Padding: [4]float64{padding, padding, padding, padding},
		Nearest: true,
	})
}

// PointResolution returns the resolution measured at coordinate, false while
// the view has no resolution.
func (v *View) PointResolution(coordinate r2.Vec) (float64, bool) {
	if v.view == nil {
		return 0, false
	}
	return v.view.PointResolution(coordinate)
}

// DistanceFromPixels returns the map distance covered by pixels along the
// x axis at the current resolution, 0 while it is undefined.
func (v *View) DistanceFromPixels(pixels float64) float64 {
	if v.view == nil {
		return 0
	}
	resolution, ok := v.view.Resolution()
	if !ok {
		return 0
	}
	return math.Abs(pixels * resolution)
}

// Destroy stops following the map view.
func (v *View) Destroy() {
	engine.Unlisten(v.keys...)
	v.keys = nil
}
