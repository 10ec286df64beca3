package view

import (
	"math"
	"testing"
	"time"

	canvas "github.com/goliatone/go-canvas"
	"github.com/goliatone/go-canvas/engine"
	"gonum.org/v1/gonum/spatial/r2"
)

func newCanvas(view *engine.View) *canvas.Canvas {
	c := canvas.NewBlank(canvas.WithLogger(nil))
	if view != nil {
		c.Map().SetView(view)
	}
	return c
}

func TestZoomIsNoopWithoutZoom(t *testing.T) {
	c := newCanvas(nil)
	v := New(c)
	if v.Zoom(1) {
		t.Fatalf("expected no zoom on an undefined view")
	}
	if v.View().Animating() {
		t.Fatalf("expected no animation")
	}
}

func TestZoomAnimatesOverConfiguredDuration(t *testing.T) {
	c := newCanvas(engine.NewView(engine.ViewOptions{Zoom: engine.Ptr(4.0), ConstrainResolution: true}))
	v := New(c)
	if !v.Zoom(1) {
		t.Fatalf("expected zoom to start")
	}
	c.Map().AdvanceBy(249 * time.Millisecond)
	if !v.View().Animating() {
		t.Fatalf("expected the animation to still run")
	}
	c.Map().AdvanceBy(time.Millisecond)
	zoom, _ := v.View().Zoom()
	if math.Abs(zoom-5) > 1e-9 {
		t.Fatalf("expected zoom 5, got %v", zoom)
	}
}

func TestZoomCancelsRunningAnimation(t *testing.T) {
	c := newCanvas(engine.NewView(engine.ViewOptions{Zoom: engine.Ptr(4.0), ConstrainResolution: true}))
	v := New(c)
	cancelled := false
	v.View().Animate(engine.AnimationOptions{Zoom: engine.Ptr(10.0), Duration: time.Second}, func(completed bool) {
		cancelled = !completed
	})
	v.Zoom(-1)
	if !cancelled {
		t.Fatalf("expected the running animation to be cancelled")
	}
	c.Map().AdvanceBy(time.Second)
	zoom, _ := v.View().Zoom()
	if math.Abs(zoom-3) > 1e-9 {
		t.Fatalf("expected zoom 3, got %v", zoom)
	}
}

func TestZoomClampsToMaxZoom(t *testing.T) {
	c := newCanvas(engine.NewView(engine.ViewOptions{Zoom: engine.Ptr(27.0), ConstrainResolution: true}))
	v := New(c, WithDuration(0))
	v.Zoom(5)
	zoom, _ := v.View().Zoom()
	if math.Abs(zoom-engine.DefaultMaxZoom) > 1e-9 {
		t.Fatalf("expected zoom clamped to %d, got %v", engine.DefaultMaxZoom, zoom)
	}
}

func TestSetViewAndListen(t *testing.T) {
	c := newCanvas(nil)
	v := New(c)
	replacement := engine.NewView(engine.ViewOptions{Zoom: engine.Ptr(2.0)})
	c.Map().SetView(replacement)
	if v.View() != replacement {
		t.Fatalf("expected the wrapper to follow the map view")
	}

	own := engine.NewView(engine.ViewOptions{Zoom: engine.Ptr(3.0)})
	if res := v.SetView(own); !res.OK() || c.Map().View() != own || v.View() != own {
		t.Fatalf("expected SetView to install and track the view")
	}
	if res := v.SetView(nil); res.Reason != canvas.ReasonNilValue {
		t.Fatalf("expected nil value, got %s", res)
	}

	v.Destroy()
	c.Map().SetView(replacement)
	if v.View() != own {
		t.Fatalf("expected no tracking after Destroy")
	}
}

func TestWithoutListen(t *testing.T) {
	c := newCanvas(nil)
	initial := c.Map().View()
	v := New(c, WithoutListen())
	c.Map().SetView(engine.NewView(engine.ViewOptions{}))
	if v.View() != initial {
		t.Fatalf("expected the initial view to be kept")
	}
	if c.Map().ListenerCount(engine.ChangeEvent("view")) != 0 {
		t.Fatalf("expected no listener")
	}
}

func TestFitUsesUniformPadding(t *testing.T) {
	c := newCanvas(engine.NewView(engine.ViewOptions{
		Projection:    engine.Pixels,
		MaxResolution: 1,
		MinZoom:       -10,
		Size:          r2.Vec{X: 120, Y: 120},
		Zoom:          engine.Ptr(0.0),
	}))
	v := New(c)
	if !v.Fit(engine.NewExtent(0, 0, 100, 100), 10) {
		t.Fatalf("expected fit to apply")
	}
	center, _ := v.View().Center()
	if center != (r2.Vec{X: 50, Y: 50}) {
		t.Fatalf("expected the extent center, got %v", center)
	}
	res, _ := v.View().Resolution()
	if res < 1 {
		t.Fatalf("expected a resolution showing the whole extent, got %v", res)
	}
	if v.Fit(engine.EmptyExtent(), 10) {
		t.Fatalf("expected an empty extent to be skipped")
	}
}

func TestPointResolutionAndDistance(t *testing.T) {
	c := newCanvas(nil)
	v := New(c)
	if _, ok := v.PointResolution(r2.Vec{}); ok {
		t.Fatalf("expected no resolution on an undefined view")
	}
	if v.DistanceFromPixels(10) != 0 {
		t.Fatalf("expected zero distance on an undefined view")
	}

	v.SetView(engine.NewView(engine.ViewOptions{Resolution: engine.Ptr(2.0)}))
	equator, ok := v.PointResolution(r2.Vec{})
	if !ok || equator != 2 {
		t.Fatalf("expected 2 at the equator, got %v", equator)
	}
	north, _ := v.PointResolution(r2.Vec{Y: 6000000})
	if north >= equator {
		t.Fatalf("expected a smaller resolution away from the equator, got %v", north)
	}
	if got := v.DistanceFromPixels(15); got != 30 {
		t.Fatalf("expected 30, got %v", got)
	}
}
