package feature

import (
	"testing"

	"github.com/goliatone/go-canvas/engine"
	"gonum.org/v1/gonum/spatial/r2"
)

func point(x, y float64, props map[string]any) *engine.Feature {
	return engine.NewFeature(engine.NewPoint(x, y), props)
}

func TestExtent(t *testing.T) {
	if _, ok := Extent(nil); ok {
		t.Fatalf("expected no extent for no features")
	}
	if _, ok := Extent([]*engine.Feature{engine.NewFeature(nil, nil)}); ok {
		t.Fatalf("expected no extent for features without geometry")
	}
	extent, ok := Extent([]*engine.Feature{point(1, 2, nil), nil, point(-3, 5, nil)})
	if !ok {
		t.Fatalf("expected an extent")
	}
	if got := extent.Bounds(); got != [4]float64{-3, 2, 1, 5} {
		t.Fatalf("expected [-3 2 1 5], got %v", got)
	}
	single, ok := Extent([]*engine.Feature{point(4, 4, nil)})
	if !ok || single.Width() != 0 {
		t.Fatalf("expected a zero-size extent for one point, got %v %v", single, ok)
	}
}

func TestDistinctProperties(t *testing.T) {
	features := []*engine.Feature{
		point(0, 0, map[string]any{"kind": "a"}),
		point(0, 0, map[string]any{"kind": "b"}),
		point(0, 0, map[string]any{"kind": "a"}),
		point(0, 0, nil),
		point(0, 0, map[string]any{"kind": []string{"x"}}),
	}
	got := DistinctProperties(features, "kind")
	if len(got) != 4 || got[0] != "a" || got[1] != "b" || got[2] != nil {
		t.Fatalf("expected [a b <nil> [x]], got %v", got)
	}
}

func TestLinesBetweenPoints(t *testing.T) {
	points := []*engine.Feature{point(0, 0, nil), point(1, 0, nil), point(1, 1, nil)}
	var pairs [][2]*engine.Feature
	lines := LinesBetweenPoints(points, func(line, start, end *engine.Feature) {
		pairs = append(pairs, [2]*engine.Feature{start, end})
	})
	if len(lines) != 2 || len(pairs) != 2 {
		t.Fatalf("expected 2 lines, got %d (%d callbacks)", len(lines), len(pairs))
	}
	if pairs[1][0] != points[1] || pairs[1][1] != points[2] {
		t.Fatalf("expected the second line to link points 1 and 2")
	}
	second, ok := lines[1].Geometry().(engine.LineString)
	if !ok || len(second.Coords) != 2 || second.Coords[1] != (r2.Vec{X: 1, Y: 1}) {
		t.Fatalf("expected a line ending at (1,1), got %v", lines[1].Geometry())
	}
	if got := LinesBetweenPoints(points[:1], nil); len(got) != 0 {
		t.Fatalf("expected no line for one point, got %d", len(got))
	}
}

func TestCenterOfArea(t *testing.T) {
	square := engine.NewPolygon(
		r2.Vec{X: 0, Y: 0}, r2.Vec{X: 4, Y: 0}, r2.Vec{X: 4, Y: 4}, r2.Vec{X: 0, Y: 4}, r2.Vec{X: 0, Y: 0},
	)
	center, ok := CenterOfArea(square)
	if !ok || center.Coord != (r2.Vec{X: 2, Y: 2}) {
		t.Fatalf("expected (2,2), got %v %v", center, ok)
	}
	circle, ok := CenterOfArea(engine.Circle{Center: r2.Vec{X: 7, Y: 1}, Radius: 3})
	if !ok || circle.Coord != (r2.Vec{X: 7, Y: 1}) {
		t.Fatalf("expected (7,1), got %v %v", circle, ok)
	}
	if _, ok := CenterOfArea(engine.NewPoint(1, 1)); ok {
		t.Fatalf("expected points to have no area")
	}
}
