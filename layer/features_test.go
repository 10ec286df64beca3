package layer

import (
	"testing"

	canvas "github.com/goliatone/go-canvas"
	"github.com/goliatone/go-canvas/engine"
	"github.com/goliatone/go-canvas/pkg/activity"
)

func overlayWithLayer(t *testing.T, h *harness, layerID string) (*Group, *engine.VectorSource) {
	t.Helper()
	g := NewOverlay(h.c)
	source := engine.NewVectorSource()
	if res := g.AddLayer(engine.NewVectorLayer(source), layerID); !res.OK() {
		t.Fatalf("expected add layer to apply, got %s", res)
	}
	return g, source
}

func TestAddFeaturesNeverDuplicates(t *testing.T) {
	h := newHarness()
	g, source := overlayWithLayer(t, h, "L1")
	a := engine.NewFeature(engine.NewPoint(0, 0), nil)
	b := engine.NewFeature(engine.NewPoint(1, 1), nil)
	c := engine.NewFeature(engine.NewPoint(2, 2), nil)

	g.AddFeatures("L1", a, b)
	if res := g.AddFeatures("L1", b, c, c, nil); !res.OK() {
		t.Fatalf("expected add to apply, got %s", res)
	}
	if source.FeatureCount() != 3 {
		t.Fatalf("expected the union size 3, got %d", source.FeatureCount())
	}
	for _, d := range h.logged {
		if d.Err != nil {
			t.Fatalf("expected no duplicate error, got %v", d.Err)
		}
	}
}

func TestFeatureRejections(t *testing.T) {
	h := newHarness()
	g, _ := overlayWithLayer(t, h, "L1")
	f := engine.NewFeature(engine.NewPoint(0, 0), nil)

	if res := g.AddFeatures("L1"); res.Reason != canvas.ReasonEmptyInput {
		t.Fatalf("expected empty input, got %s", res)
	}
	if res := g.AddFeatures("nope", f); res.Reason != canvas.ReasonNotFound {
		t.Fatalf("expected not found, got %s", res)
	}
	if res := g.RemoveFeatures("L1", nil); res.Reason != canvas.ReasonEmptyInput {
		t.Fatalf("expected empty input, got %s", res)
	}
	if res := g.SetFeatures("nope"); res.Reason != canvas.ReasonNotFound {
		t.Fatalf("expected not found, got %s", res)
	}
	if h.logged[0].Severity != canvas.SeverityDebug {
		t.Fatalf("expected empty input to be logged at debug, got %s", h.logged[0].Severity)
	}

	background := NewBackground(h.c)
	background.AddLayer(engine.NewVectorLayer(engine.NewVectorSource()), "V")
	if res := background.AddFeatures("V", f); res.Reason != canvas.ReasonUnsupported {
		t.Fatalf("expected unsupported, got %s", res)
	}
	if _, ok := background.FeatureSource("V"); ok {
		t.Fatalf("expected no feature source without the capability")
	}
}

func TestRemoveFeaturesSkipsAbsent(t *testing.T) {
	h := newHarness()
	g, source := overlayWithLayer(t, h, "L1")
	a := engine.NewFeature(engine.NewPoint(0, 0), nil)
	b := engine.NewFeature(engine.NewPoint(1, 1), nil)
	g.AddFeatures("L1", a)
	if res := g.RemoveFeatures("L1", a, b); !res.OK() {
		t.Fatalf("expected remove to apply, got %s", res)
	}
	if source.FeatureCount() != 0 {
		t.Fatalf("expected an empty source, got %d", source.FeatureCount())
	}
}

func TestSetFeaturesReplaces(t *testing.T) {
	h := newHarness()
	g, source := overlayWithLayer(t, h, "L1")
	a := engine.NewFeature(engine.NewPoint(0, 0), nil)
	b := engine.NewFeature(engine.NewPoint(1, 1), nil)
	g.AddFeatures("L1", a)
	g.SetFeatures("L1", b)
	if features, _ := g.Features("L1"); len(features) != 1 || features[0] != b {
		t.Fatalf("expected only b, got %v", features)
	}
	if res := g.SetFeatures("L1"); !res.OK() {
		t.Fatalf("expected set to apply, got %s", res)
	}
	if source.FeatureCount() != 0 {
		t.Fatalf("expected an empty source, got %d", source.FeatureCount())
	}
}

func TestLayerExtent(t *testing.T) {
	h := newHarness()
	g, _ := overlayWithLayer(t, h, "L1")
	if _, ok := g.LayerExtent("L1"); ok {
		t.Fatalf("expected no extent before features exist")
	}
	g.AddFeatures("L1",
		engine.NewFeature(engine.NewPoint(0, 1000), nil),
		engine.NewFeature(engine.NewPoint(3000, -1000), nil),
	)
	extent, ok := g.LayerExtent("L1")
	if !ok {
		t.Fatalf("expected an extent")
	}
	if got := extent.Bounds(); got != [4]float64{0, -1000, 3000, 1000} {
		t.Fatalf("expected [0 -1000 3000 1000], got %v", got)
	}
}

func TestGroupExtentEndToEnd(t *testing.T) {
	h := newHarness()
	g, _ := overlayWithLayer(t, h, "L1")
	g.AddLayer(engine.NewVectorLayer(engine.NewVectorSource()), "L2")
	p1 := engine.NewFeature(engine.NewPoint(-5, 2), nil)
	p2 := engine.NewFeature(engine.NewPoint(10, 8), nil)
	g.AddFeatures("L1", p1, p2)

	extent, ok := g.Extent()
	if !ok || extent.Bounds() != [4]float64{-5, 2, 10, 8} {
		t.Fatalf("expected [-5 2 10 8], got %v %v", extent.Bounds(), ok)
	}
	g.RemoveFeatures("L1", p1, p2)
	if _, ok := g.Extent(); ok {
		t.Fatalf("expected no extent once features are removed")
	}
}

func TestEmitSelectionPublishesVerbatim(t *testing.T) {
	h := newHarness()
	g, _ := overlayWithLayer(t, h, "L1")
	selected := []*engine.Feature{engine.NewFeature(nil, nil)}
	var got FeatureSelected
	g.FeaturesSelected().Subscribe(func(evt FeatureSelected) { got = evt })

	g.EmitSelection("L1", selected, nil)
	if got.LayerID != "L1" || len(got.Selected) != 1 || got.Selected[0] != selected[0] || got.Deselected != nil {
		t.Fatalf("expected the selection verbatim, got %+v", got)
	}
	if &got.Selected[0] != &selected[0] {
		t.Fatalf("expected the same backing slice")
	}
}

func TestSetFeaturesPropertyPublishesOnce(t *testing.T) {
	h := newHarness()
	g, _ := overlayWithLayer(t, h, "L1")
	layer, _ := g.Layer("L1")
	features := []*engine.Feature{
		engine.NewFeature(engine.NewPoint(0, 0), nil),
		engine.NewFeature(engine.NewPoint(1, 1), nil),
	}
	featureEvents := 0
	for _, f := range features {
		f.On(engine.EventPropertyChange, func(engine.Event) { featureEvents++ })
	}
	var events []FeaturePropertyChanged
	g.FeaturesPropertyChanged().Subscribe(func(evt FeaturePropertyChanged) { events = append(events, evt) })
	before := layer.(*engine.VectorLayer).Revision()

	if res := g.SetFeaturesProperty("L1", features, "selected", true); !res.OK() {
		t.Fatalf("expected set to apply, got %s", res)
	}
	for _, f := range features {
		if f.Get("selected") != true {
			t.Fatalf("expected every feature updated")
		}
	}
	if featureEvents != 0 {
		t.Fatalf("expected quiet updates, got %d events", featureEvents)
	}
	if len(events) != 1 || events[0] != (FeaturePropertyChanged{LayerID: "L1", Key: "selected"}) {
		t.Fatalf("expected one property changed event, got %v", events)
	}
	if layer.(*engine.VectorLayer).Revision() != before+1 {
		t.Fatalf("expected one layer change")
	}
	if h.hook.Count(activity.VerbFeaturesPropertyChanged) != 1 {
		t.Fatalf("expected one activity event, got %v", h.hook.Verbs())
	}
}

func TestClusterFeaturesAreEphemeral(t *testing.T) {
	h := newHarness()
	g := NewOverlay(h.c)
	plain := engine.NewVectorSource()
	if res := g.AddClusterLayer("clusters", plain); !res.OK() {
		t.Fatalf("expected add to apply, got %s", res)
	}
	if source, ok := g.FeatureSource("clusters"); !ok || source != plain {
		t.Fatalf("expected the cluster to resolve to the plain source")
	}
	g.AddFeatures("clusters",
		engine.NewFeature(engine.NewPoint(0, 0), nil),
		engine.NewFeature(engine.NewPoint(1, 1), nil),
		engine.NewFeature(engine.NewPoint(500, 500), nil),
	)
	if clusters, ok := g.ClusterFeatures("clusters"); !ok || len(clusters) != 0 {
		t.Fatalf("expected no clusters before a render pass, got %d", len(clusters))
	}

	h.c.Map().RenderFrame()
	first, _ := g.ClusterFeatures("clusters")
	if len(first) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(first))
	}
	h.c.Map().RenderFrame()
	second, _ := g.ClusterFeatures("clusters")
	if len(second) != 2 || second[0] == first[0] {
		t.Fatalf("expected fresh clusters on each pass")
	}
	if _, ok := g.ClusterFeatures("missing"); ok {
		t.Fatalf("expected no clusters for a missing layer")
	}
}

func TestFeatureOpsOnNilPointerSource(t *testing.T) {
	h := newHarness()
	g := NewOverlay(h.c)
	g.AddLayer(engine.NewVectorLayer((*engine.VectorSource)(nil)), "plain")
	g.AddLayer(engine.NewVectorLayer(engine.NewClusterSource((*engine.VectorSource)(nil), 10)), "clustered")
	f := engine.NewFeature(engine.NewPoint(1, 1), nil)

	for _, id := range []string{"plain", "clustered"} {
		if res := g.AddFeatures(id, f); res.Reason != canvas.ReasonNotFound {
			t.Fatalf("expected %s add to report not found, got %s", id, res)
		}
		if _, ok := g.FeatureSource(id); ok {
			t.Fatalf("expected no feature source for %s", id)
		}
		if _, ok := g.LayerExtent(id); ok {
			t.Fatalf("expected no extent for %s", id)
		}
	}
	if _, ok := g.Extent(); ok {
		t.Fatalf("expected no group extent")
	}
	if _, ok := g.ClusterFeatures("plain"); ok {
		t.Fatalf("expected no clusters for a nil pointer source")
	}
	h.c.Map().RenderFrame()
	if clusters, ok := g.ClusterFeatures("clustered"); !ok || len(clusters) != 0 {
		t.Fatalf("expected an empty cluster set, got %d (%v)", len(clusters), ok)
	}
	if res := g.AddClusterLayer("more", (*engine.VectorSource)(nil)); res.Reason != canvas.ReasonNilValue {
		t.Fatalf("expected a nil value rejection, got %s", res)
	}
}
