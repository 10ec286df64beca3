package engine

import (
	"errors"
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestObservableSetDispatchesOnlyOnChange(t *testing.T) {
	f := NewFeature(nil, map[string]any{"name": "a"})
	var events []string
	f.On(ChangeEvent("name"), func(evt Event) {
		if evt.Target != f {
			t.Fatalf("expected target to be the feature, got %T", evt.Target)
		}
		events = append(events, evt.OldValue.(string))
	})

	f.Set("name", "a")
	f.Set("name", "b")
	f.SetQuiet("name", "c")

	if len(events) != 1 || events[0] != "a" {
		t.Fatalf("expected one change carrying old value a, got %v", events)
	}
	if f.Get("name") != "c" {
		t.Fatalf("expected quiet set to store value, got %v", f.Get("name"))
	}
}

func TestUnlistenRemovesOnlyTheGivenKey(t *testing.T) {
	l := NewVectorLayer(nil)
	calls := 0
	first := l.On(EventChange, func(Event) { calls++ })
	l.On(EventChange, func(Event) { calls += 10 })

	Unlisten(first, first, ListenerKey{})
	l.Changed()

	if calls != 10 {
		t.Fatalf("expected only second listener to run, got %d", calls)
	}
	if l.ListenerCount(EventChange) != 1 {
		t.Fatalf("expected 1 listener left, got %d", l.ListenerCount(EventChange))
	}
}

func TestCollectionInsertAtClampsAndDispatches(t *testing.T) {
	c := NewCollection(1, 2)
	var added []any
	c.On(EventAdd, func(evt Event) { added = append(added, evt.Element) })

	c.InsertAt(-5, 0)
	c.InsertAt(99, 3)

	if got := c.Items(); len(got) != 4 || got[0] != 0 || got[3] != 3 {
		t.Fatalf("expected [0 1 2 3], got %v", got)
	}
	if len(added) != 2 {
		t.Fatalf("expected 2 add events, got %d", len(added))
	}
	if !c.Remove(2) || c.Remove(42) {
		t.Fatalf("expected remove to report presence")
	}
}

func TestVectorSourceRejectsDuplicates(t *testing.T) {
	f := NewFeature(NewPoint(0, 0), nil)
	s := NewVectorSource(f)

	err := s.AddFeatures(f, NewFeature(NewPoint(1, 1), nil))
	if !errors.Is(err, ErrFeatureExists) {
		t.Fatalf("expected ErrFeatureExists, got %v", err)
	}
	if s.FeatureCount() != 2 {
		t.Fatalf("expected the new feature to be added anyway, got %d", s.FeatureCount())
	}
	if !s.RemoveFeature(f) || s.RemoveFeature(f) {
		t.Fatalf("expected remove to succeed once")
	}
}

func TestClusterSourceIsEmptyUntilRendered(t *testing.T) {
	inner := NewVectorSource(
		NewFeature(NewPoint(1, 1), nil),
		NewFeature(NewPoint(2, 2), nil),
		NewFeature(NewPoint(500, 500), nil),
	)
	cluster := NewClusterSource(inner, 20)

	if n := len(cluster.Features()); n != 0 {
		t.Fatalf("expected no clusters before render, got %d", n)
	}

	cluster.Render(1)
	clusters := cluster.Features()
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
	members, _ := clusters[0].Get(ClusterFeaturesKey).([]*Feature)
	if len(members) != 2 {
		t.Fatalf("expected first cluster to hold 2 features, got %d", len(members))
	}

	cluster.Render(100)
	if again := cluster.Features(); len(again) != 1 || again[0] == clusters[0] {
		t.Fatalf("expected clusters to be rebuilt on each render, got %d", len(again))
	}
	if cluster.Wrapped() != inner {
		t.Fatalf("expected wrapped source to be the inner source")
	}
}

func TestExtentExtend(t *testing.T) {
	e := EmptyExtent()
	if !e.IsEmpty() {
		t.Fatalf("expected empty extent")
	}
	e = e.ExtendPoint(r2.Vec{X: 0, Y: 1000}).ExtendPoint(r2.Vec{X: 3000, Y: -1000})
	if got := e.Bounds(); got != [4]float64{0, -1000, 3000, 1000} {
		t.Fatalf("expected [0 -1000 3000 1000], got %v", got)
	}
	if NewPoint(4, 4).Extent().IsEmpty() {
		t.Fatalf("expected a point extent to be non-empty")
	}
}

func TestViewZoomAndConstraints(t *testing.T) {
	v := NewView(ViewOptions{})
	if _, ok := v.Zoom(); ok {
		t.Fatalf("expected undefined zoom")
	}

	v = NewView(ViewOptions{Zoom: Ptr(3.0), ConstrainResolution: true, MaxZoom: 5})
	zoom, ok := v.Zoom()
	if !ok || math.Abs(zoom-3) > 1e-9 {
		t.Fatalf("expected zoom 3, got %v", zoom)
	}
	if z, _ := v.ConstrainedZoom(9.4, 0); z != 5 {
		t.Fatalf("expected clamp to 5, got %v", z)
	}
	if z, _ := v.ConstrainedZoom(2.4, 0); z != 2 {
		t.Fatalf("expected rounding to 2, got %v", z)
	}
	if _, ok := v.ConstrainedZoom(math.NaN(), 0); ok {
		t.Fatalf("expected NaN zoom to be rejected")
	}
}

func TestViewAnimationAdvancesAndCancels(t *testing.T) {
	m := NewMap()
	m.SetView(NewView(ViewOptions{Zoom: Ptr(2.0), Center: &r2.Vec{}}))
	v := m.View()

	completed := []bool{}
	v.Animate(AnimationOptions{Zoom: Ptr(4.0), Duration: 100 * time.Millisecond}, func(done bool) {
		completed = append(completed, done)
	})
	m.AdvanceBy(50 * time.Millisecond)
	if z, _ := v.Zoom(); math.Abs(z-3) > 1e-9 {
		t.Fatalf("expected halfway zoom 3, got %v", z)
	}

	v.CancelAnimations()
	m.AdvanceBy(time.Second)
	if z, _ := v.Zoom(); math.Abs(z-3) > 1e-9 {
		t.Fatalf("expected zoom to stay at 3 after cancel, got %v", z)
	}
	if len(completed) != 1 || completed[0] {
		t.Fatalf("expected one cancelled callback, got %v", completed)
	}
}

func TestViewFitNearest(t *testing.T) {
	v := NewView(ViewOptions{Projection: Pixels, Size: r2.Vec{X: 100, Y: 100}, ConstrainResolution: true})
	if v.Fit(EmptyExtent(), FitOptions{}) {
		t.Fatalf("expected empty extent to be rejected")
	}

	if !v.Fit(NewExtent(0, 0, 10, 10), FitOptions{Padding: [4]float64{10, 10, 10, 10}, Nearest: true}) {
		t.Fatalf("expected fit to succeed")
	}
	center, _ := v.Center()
	if center != (r2.Vec{X: 5, Y: 5}) {
		t.Fatalf("expected centre (5,5), got %v", center)
	}
	res, _ := v.Resolution()
	if res <= 0 {
		t.Fatalf("expected a resolution, got %v", res)
	}
}

func TestPointResolutionUsesProjection(t *testing.T) {
	v := NewView(ViewOptions{Resolution: Ptr(10.0)})
	at := r2.Vec{Y: 1_000_000}
	got, ok := v.PointResolution(at)
	want := 10 / math.Cosh(at.Y/earthRadius)
	if !ok || math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestMapTimersRunInDueOrder(t *testing.T) {
	m := NewMap()
	var order []string
	m.AfterFunc(20*time.Millisecond, func() { order = append(order, "b") })
	m.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	cancel := m.AfterFunc(5*time.Millisecond, func() { order = append(order, "x") })
	cancel()

	m.AdvanceBy(15 * time.Millisecond)
	if len(order) != 1 || order[0] != "a" {
		t.Fatalf("expected only a to run, got %v", order)
	}
	m.AdvanceBy(5 * time.Millisecond)
	if len(order) != 2 || order[1] != "b" {
		t.Fatalf("expected b to run second, got %v", order)
	}
	if m.Pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", m.Pending())
	}
}

func TestMapRemoveLayerSearchesGroups(t *testing.T) {
	m := NewMap()
	inner := NewTileLayer(nil)
	group := NewGroup(inner)
	m.AddLayer(group)

	if !m.RemoveLayer(inner) {
		t.Fatalf("expected nested layer to be removed")
	}
	if group.Layers().Len() != 0 {
		t.Fatalf("expected group to be empty")
	}
}

func TestHandlePointerTopMostFirst(t *testing.T) {
	m := NewMap()
	var seen []string
	bottom := NewPointer(func(*PointerEvent) bool { seen = append(seen, "bottom"); return true })
	top := NewPointer(func(*PointerEvent) bool { seen = append(seen, "top"); return false })
	m.AddInteraction(bottom)
	m.AddInteraction(top)

	m.HandlePointer(&PointerEvent{Type: PointerClick})
	if len(seen) != 1 || seen[0] != "top" {
		t.Fatalf("expected top to stop propagation, got %v", seen)
	}

	top.SetActive(false)
	m.HandlePointer(&PointerEvent{Type: PointerClick})
	if len(seen) != 2 || seen[1] != "bottom" {
		t.Fatalf("expected inactive top to be skipped, got %v", seen)
	}
}

func TestDrawPolygonFinishesOnDoubleClick(t *testing.T) {
	source := NewVectorSource()
	draw := NewDraw(DrawOptions{Type: GeometryPolygon, Source: source})
	var drawn *Feature
	draw.On(EventDrawEnd, func(evt Event) { drawn = evt.Feature })

	for _, p := range []r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}} {
		draw.HandleEvent(&PointerEvent{Type: PointerClick, Coordinate: p})
	}
	draw.HandleEvent(&PointerEvent{Type: PointerDoubleClick})

	if drawn == nil || drawn.Geometry().Type() != GeometryPolygon {
		t.Fatalf("expected a polygon feature, got %+v", drawn)
	}
	if source.FeatureCount() != 1 {
		t.Fatalf("expected drawn feature in source, got %d", source.FeatureCount())
	}
}

func TestModifyDeletesVertexUnderPointer(t *testing.T) {
	line := NewFeature(NewLineString(r2.Vec{}, r2.Vec{X: 10}, r2.Vec{X: 20}), nil)
	modify := NewModify(ModifyOptions{Source: NewVectorSource(line), DeleteCondition: Click})

	if modify.HandleEvent(&PointerEvent{Type: PointerClick, Coordinate: r2.Vec{X: 10, Y: 1}}) {
		t.Fatalf("expected delete to stop propagation")
	}
	if n := len(line.Geometry().(LineString).Coords); n != 2 {
		t.Fatalf("expected 2 vertices left, got %d", n)
	}
}

func TestOverlayElementRequiresMapAndContent(t *testing.T) {
	m := NewMap()
	o := NewOverlay(nil)
	m.AddOverlay(o)
	if o.Element() != nil {
		t.Fatalf("expected no element without content")
	}
	o.SetContent("hello")
	if o.Element() == nil {
		t.Fatalf("expected element once content is set")
	}
	m.RemoveOverlay(o)
	if o.Element() != nil {
		t.Fatalf("expected element to be dropped when detached")
	}
}
