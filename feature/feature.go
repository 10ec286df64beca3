// Package feature holds helpers working on sets of engine features.
package feature

import (
	"github.com/goliatone/go-canvas/engine"
	"gonum.org/v1/gonum/spatial/r2"
)

// Extent returns the union of the feature extents. It reports false when the
// union is empty, which includes an empty slice and features without
// geometry.
func Extent(features []*engine.Feature) (engine.Extent, bool) {
	extent := engine.EmptyExtent()
	for _, f := range features {
		if f == nil {
			continue
		}
		extent = extent.Extend(f.Extent())
	}
	if extent.IsEmpty() {
		return engine.Extent{}, false
	}
	return extent, true
}

// DistinctProperties returns the distinct values stored under key, in first
// seen order. Features lacking the key contribute a nil value.
func DistinctProperties(features []*engine.Feature, key string) []any {
	var out []any
	for _, f := range features {
		if f == nil {
			continue
		}
		value := f.Get(key)
		if !containsValue(out, value) {
			out = append(out, value)
		}
	}
	return out
}

func containsValue(values []any, value any) bool {
	for _, v := range values {
		if equalValues(v, value) {
			return true
		}
	}
	return false
}

// equalValues compares with ==; values of uncomparable types never match.
func equalValues(a, b any) (equal bool) {
	defer func() {
		if recover() != nil {
			equal = false
		}
	}()
	return a == b
}

// LineCreated is called for each line built by LinesBetweenPoints.
type LineCreated func(line, start, end *engine.Feature)

// LinesBetweenPoints links consecutive points with two-vertex lines: 0 to 1,
// 1 to 2 and so on. onCreated, when set, sees each line with its endpoints.
// Fewer than two points yield no line.
func LinesBetweenPoints(points []*engine.Feature, onCreated LineCreated) []*engine.Feature {
	if len(points) < 2 {
		return nil
	}
	lines := make([]*engine.Feature, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		start, end := points[i-1], points[i]
		line := engine.NewFeature(engine.NewLineString(anchor(start), anchor(end)), nil)
		if onCreated != nil {
			onCreated(line, start, end)
		}
		lines = append(lines, line)
	}
	return lines
}

// anchor is the coordinate of a point feature, or the extent center of any
// other geometry.
func anchor(f *engine.Feature) r2.Vec {
	if f == nil {
		return r2.Vec{}
	}
	if p, ok := f.Geometry().(engine.Point); ok {
		return p.Coord
	}
	extent := f.Extent()
	if extent.IsEmpty() {
		return r2.Vec{}
	}
	return extent.Center()
}

// CenterOfArea returns the interior point of a polygon or the center of a
// circle. Other geometries report false.
func CenterOfArea(geometry engine.Geometry) (engine.Point, bool) {
	switch g := geometry.(type) {
	case engine.Polygon:
		if g.Extent().IsEmpty() {
			return engine.Point{}, false
		}
		return engine.Point{Coord: g.InteriorPoint()}, true
	case engine.Circle:
		return engine.Point{Coord: g.Center}, true
	}
	return engine.Point{}, false
}
