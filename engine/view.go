package engine

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// Projection converts a nominal resolution into the resolution measured at a
// coordinate.
type Projection interface {
	Code() string
	PointResolution(resolution float64, at r2.Vec) float64
}

const earthRadius = 6378137

type webMercator struct{}

func (webMercator) Code() string { return "EPSG:3857" }

func (webMercator) PointResolution(resolution float64, at r2.Vec) float64 {
	return resolution / math.Cosh(at.Y/earthRadius)
}

type pixels struct{}

func (pixels) Code() string { return "pixels" }

func (pixels) PointResolution(resolution float64, _ r2.Vec) float64 {
	return resolution
}

// Built-in projections.
var (
	EPSG3857 Projection = webMercator{}
	Pixels   Projection = pixels{}
)

// View defaults.
const (
	DefaultMaxZoom       = 28
	DefaultMaxResolution = 156543.03392804097
	DefaultZoomFactor    = 2
)

// DefaultSize is the viewport size used when none is configured.
var DefaultSize = r2.Vec{X: 1024, Y: 768}

// Ptr returns a pointer to v, for optional option fields.
func Ptr[T any](v T) *T {
	return &v
}

// ViewOptions configures a View. Nil pointers leave the value undefined.
type ViewOptions struct {
	Center              *r2.Vec
	Zoom                *float64
	Resolution          *float64
	MinZoom             int
	MaxZoom             int
	MaxResolution       float64
	ZoomFactor          float64
	ConstrainResolution bool
	Projection          Projection
	Size                r2.Vec
}

// AnimationOptions describes one animation. Nil targets are left unchanged.
type AnimationOptions struct {
	Center   *r2.Vec
	Zoom     *float64
	Duration time.Duration
	Easing   func(float64) float64
}

// FitOptions configures View.Fit.
type FitOptions struct {
	// Padding is top, right, bottom, left in pixels.
	Padding [4]float64
	// Nearest picks the nearest constrained zoom instead of the one that keeps
	// the whole extent visible.
	Nearest  bool
	Duration time.Duration
}

type animation struct {
	start      time.Time
	options    AnimationOptions
	fromCenter *r2.Vec
	fromZoom   *float64
	callback   func(completed bool)
}

// View is the viewport: center, resolution and constraints.
type View struct {
	Observable
	options    ViewOptions
	center     *r2.Vec
	resolution *float64
	size       r2.Vec
	now        time.Time
	animations []*animation
}

// NewView returns a view; zero options fall back to the defaults.
func NewView(options ViewOptions) *View {
	if options.MaxZoom == 0 {
		options.MaxZoom = DefaultMaxZoom
	}
	if options.MaxResolution == 0 {
		options.MaxResolution = DefaultMaxResolution
	}
	if options.ZoomFactor == 0 {
		options.ZoomFactor = DefaultZoomFactor
	}
	if options.Projection == nil {
		options.Projection = EPSG3857
	}
	if options.Size == (r2.Vec{}) {
		options.Size = DefaultSize
	}
	v := &View{options: options, size: options.Size}
	v.bind(v)
	if options.Center != nil {
		c := *options.Center
		v.center = &c
	}
	switch {
	case options.Resolution != nil:
		r := *options.Resolution
		v.resolution = &r
	case options.Zoom != nil:
		r := v.resolutionForZoom(*options.Zoom)
		v.resolution = &r
	}
	return v
}

// Projection returns the view projection.
func (v *View) Projection() Projection {
	return v.options.Projection
}

// MinZoom returns the lowest allowed zoom.
func (v *View) MinZoom() int { return v.options.MinZoom }

// MaxZoom returns the highest allowed zoom.
func (v *View) MaxZoom() int { return v.options.MaxZoom }

// Size returns the viewport size in pixels.
func (v *View) Size() r2.Vec {
	return v.size
}

// SetSize updates the viewport size in pixels.
func (v *View) SetSize(size r2.Vec) {
	v.size = size
}

// Center returns the center, if defined.
func (v *View) Center() (r2.Vec, bool) {
	if v.center == nil {
		return r2.Vec{}, false
	}
	return *v.center, true
}

// SetCenter moves the view.
func (v *View) SetCenter(center r2.Vec) {
	v.center = &center
	v.Changed()
}

// Resolution returns map units per pixel, if defined.
func (v *View) Resolution() (float64, bool) {
	if v.resolution == nil {
		return 0, false
	}
	return *v.resolution, true
}

// SetResolution sets map units per pixel.
func (v *View) SetResolution(resolution float64) {
	v.resolution = &resolution
	v.Changed()
}

// Zoom returns the zoom level derived from the resolution, if defined.
func (v *View) Zoom() (float64, bool) {
	res, ok := v.Resolution()
	if !ok || res <= 0 {
		return 0, false
	}
	return v.zoomForResolution(res), true
}

// SetZoom sets the resolution matching zoom.
func (v *View) SetZoom(zoom float64) {
	v.SetResolution(v.resolutionForZoom(zoom))
}

func (v *View) resolutionForZoom(zoom float64) float64 {
	return v.options.MaxResolution / math.Pow(v.options.ZoomFactor, zoom-float64(v.options.MinZoom))
}

func (v *View) zoomForResolution(resolution float64) float64 {
	return float64(v.options.MinZoom) + math.Log(v.options.MaxResolution/resolution)/math.Log(v.options.ZoomFactor)
}

// ConstrainedZoom clamps zoom into [MinZoom, MaxZoom] and, when the view
// constrains resolution, snaps it to an integer level. direction selects the
// rounding: 0 nearest, positive up, negative down.
func (v *View) ConstrainedZoom(zoom float64, direction int) (float64, bool) {
	if math.IsNaN(zoom) || math.IsInf(zoom, 0) {
		return 0, false
	}
	if v.options.ConstrainResolution {
		switch {
		case direction > 0:
			zoom = math.Ceil(zoom - 1e-9)
		case direction < 0:
			zoom = math.Floor(zoom + 1e-9)
		default:
			zoom = math.Round(zoom)
		}
	}
	return math.Max(float64(v.options.MinZoom), math.Min(float64(v.options.MaxZoom), zoom)), true
}

// Animate starts an animation that Advance drives. A zero duration applies the
// targets at once. callback, if set, receives false when the animation is
// cancelled.
func (v *View) Animate(options AnimationOptions, callback func(completed bool)) {
	a := &animation{start: v.now, options: options, callback: callback}
	if c, ok := v.Center(); ok {
		a.fromCenter = &c
	}
	if z, ok := v.Zoom(); ok {
		a.fromZoom = &z
	}
	if options.Duration <= 0 {
		v.apply(a, 1)
		if callback != nil {
			callback(true)
		}
		return
	}
	v.animations = append(v.animations, a)
}

// Animating reports whether an animation is in progress.
func (v *View) Animating() bool {
	return len(v.animations) > 0
}

// CancelAnimations stops every running animation where it is.
func (v *View) CancelAnimations() {
	running := v.animations
	v.animations = nil
	for _, a := range running {
		if a.callback != nil {
			a.callback(false)
		}
	}
}

// Advance moves the view clock to now and steps running animations.
func (v *View) Advance(now time.Time) {
	v.now = now
	running := v.animations
	v.animations = nil
	var done []*animation
	for _, a := range running {
		fraction := float64(now.Sub(a.start)) / float64(a.options.Duration)
		if fraction >= 1 {
			v.apply(a, 1)
			done = append(done, a)
			continue
		}
		v.apply(a, math.Max(0, fraction))
		v.animations = append(v.animations, a)
	}
	for _, a := range done {
		if a.callback != nil {
			a.callback(true)
		}
	}
}

func (v *View) apply(a *animation, fraction float64) {
	easing := a.options.Easing
	if easing == nil {
		easing = EaseInOut
	}
	t := easing(fraction)
	if a.options.Center != nil {
		to := *a.options.Center
		if a.fromCenter != nil && t < 1 {
			to = r2.Add(*a.fromCenter, r2.Scale(t, r2.Sub(to, *a.fromCenter)))
		}
		v.center = &to
	}
	if a.options.Zoom != nil {
		to := *a.options.Zoom
		if a.fromZoom != nil && t < 1 {
			to = *a.fromZoom + t*(to-*a.fromZoom)
		}
		r := v.resolutionForZoom(to)
		v.resolution = &r
	}
	v.Changed()
}

// EaseInOut is the default animation easing.
func EaseInOut(t float64) float64 {
	return 0.5 - math.Cos(math.Pi*t)/2
}

// Fit makes extent visible with the given padding. It reports false when the
// extent is empty or the padded viewport has no room left.
func (v *View) Fit(extent Extent, options FitOptions) bool {
	if extent.IsEmpty() {
		return false
	}
	top, right, bottom, left := options.Padding[0], options.Padding[1], options.Padding[2], options.Padding[3]
	width := v.size.X - left - right
	height := v.size.Y - top - bottom
	if width <= 0 || height <= 0 {
		return false
	}
	resolution := math.Max(extent.Width()/width, extent.Height()/height)
	var zoom float64
	if resolution <= 0 {
		zoom = float64(v.options.MaxZoom)
	} else {
		zoom = v.zoomForResolution(resolution)
	}
	direction := -1
	if options.Nearest {
		direction = 0
	}
	zoom, ok := v.ConstrainedZoom(zoom, direction)
	if !ok {
		return false
	}
	resolution = v.resolutionForZoom(zoom)
	center := extent.Center()
	center.X += (right - left) / 2 * resolution
	center.Y += (top - bottom) / 2 * resolution
	v.Animate(AnimationOptions{Center: &center, Zoom: &zoom, Duration: options.Duration}, nil)
	return true
}

// PointResolution returns the resolution measured at coordinate.
func (v *View) PointResolution(at r2.Vec) (float64, bool) {
	res, ok := v.Resolution()
	if !ok {
		return 0, false
	}
	return v.options.Projection.PointResolution(res, at), true
}
