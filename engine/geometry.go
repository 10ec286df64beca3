package engine

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// GeometryType discriminates geometries.
type GeometryType string

const (
	GeometryPoint      GeometryType = "Point"
	GeometryLineString GeometryType = "LineString"
	GeometryPolygon    GeometryType = "Polygon"
	GeometryCircle     GeometryType = "Circle"
)

// Extent is an axis aligned bounding box. Min holds (minX, minY) and Max holds
// (maxX, maxY). An extent whose max is below its min on either axis is empty;
// a single point is a valid, non-empty extent.
type Extent r2.Box

// EmptyExtent returns the identity element for Extend.
func EmptyExtent() Extent {
	inf := math.Inf(1)
	return Extent{
		Min: r2.Vec{X: inf, Y: inf},
		Max: r2.Vec{X: -inf, Y: -inf},
	}
}

// NewExtent builds an extent from its four bounds.
func NewExtent(minX, minY, maxX, maxY float64) Extent {
	return Extent{
		Min: r2.Vec{X: minX, Y: minY},
		Max: r2.Vec{X: maxX, Y: maxY},
	}
}

// IsEmpty reports whether the extent covers nothing.
func (e Extent) IsEmpty() bool {
	return e.Max.X < e.Min.X || e.Max.Y < e.Min.Y
}

// Extend returns the union of e and other.
func (e Extent) Extend(other Extent) Extent {
	if other.IsEmpty() {
		return e
	}
	if e.IsEmpty() {
		return other
	}
	return NewExtent(
		math.Min(e.Min.X, other.Min.X),
		math.Min(e.Min.Y, other.Min.Y),
		math.Max(e.Max.X, other.Max.X),
		math.Max(e.Max.Y, other.Max.Y),
	)
}

// ExtendPoint returns the union of e and p.
func (e Extent) ExtendPoint(p r2.Vec) Extent {
	return e.Extend(Extent{Min: p, Max: p})
}

// Width returns the horizontal size, 0 when empty.
func (e Extent) Width() float64 {
	if e.IsEmpty() {
		return 0
	}
	return e.Max.X - e.Min.X
}

// Height returns the vertical size, 0 when empty.
func (e Extent) Height() float64 {
	if e.IsEmpty() {
		return 0
	}
	return e.Max.Y - e.Min.Y
}

// Center returns the middle of the extent.
func (e Extent) Center() r2.Vec {
	return r2.Scale(0.5, r2.Add(e.Min, e.Max))
}

// Bounds returns [minX, minY, maxX, maxY].
func (e Extent) Bounds() [4]float64 {
	return [4]float64{e.Min.X, e.Min.Y, e.Max.X, e.Max.Y}
}

// Geometry is the shape attached to a feature.
type Geometry interface {
	Type() GeometryType
	Extent() Extent
}

// Point is a single coordinate.
type Point struct {
	Coord r2.Vec
}

// NewPoint returns a point at (x, y).
func NewPoint(x, y float64) Point {
	return Point{Coord: r2.Vec{X: x, Y: y}}
}

func (p Point) Type() GeometryType { return GeometryPoint }

func (p Point) Extent() Extent {
	return Extent{Min: p.Coord, Max: p.Coord}
}

// LineString is an open sequence of coordinates.
type LineString struct {
	Coords []r2.Vec
}

// NewLineString copies coords into a line.
func NewLineString(coords ...r2.Vec) LineString {
	return LineString{Coords: slices.Clone(coords)}
}

func (l LineString) Type() GeometryType { return GeometryLineString }

func (l LineString) Extent() Extent {
	return extentOf(l.Coords)
}

// Polygon holds linear rings; the first ring is the exterior.
type Polygon struct {
	Rings [][]r2.Vec
}

// NewPolygon builds a polygon from an exterior ring.
func NewPolygon(exterior ...r2.Vec) Polygon {
	return Polygon{Rings: [][]r2.Vec{slices.Clone(exterior)}}
}

func (p Polygon) Type() GeometryType { return GeometryPolygon }

func (p Polygon) Extent() Extent {
	if len(p.Rings) == 0 {
		return EmptyExtent()
	}
	return extentOf(p.Rings[0])
}

// InteriorPoint returns a point guaranteed to be inside the exterior ring. It
// scans the horizontal line through the middle of the extent and returns the
// midpoint of the widest inside segment.
func (p Polygon) InteriorPoint() r2.Vec {
	extent := p.Extent()
	if extent.IsEmpty() {
		return r2.Vec{}
	}
	y := extent.Center().Y
	var xs []float64
	for _, ring := range p.Rings {
		for i := range ring {
			a := ring[i]
			b := ring[(i+1)%len(ring)]
			if (a.Y <= y && b.Y > y) || (b.Y <= y && a.Y > y) {
				xs = append(xs, a.X+(y-a.Y)/(b.Y-a.Y)*(b.X-a.X))
			}
		}
	}
	slices.Sort(xs)
	best := r2.Vec{X: extent.Center().X, Y: y}
	widest := -1.0
	for i := 0; i+1 < len(xs); i += 2 {
		if w := xs[i+1] - xs[i]; w > widest {
			widest = w
			best = r2.Vec{X: (xs[i] + xs[i+1]) / 2, Y: y}
		}
	}
	return best
}

// Circle is a center and a radius.
type Circle struct {
	Center r2.Vec
	Radius float64
}

func (c Circle) Type() GeometryType { return GeometryCircle }

func (c Circle) Extent() Extent {
	return NewExtent(c.Center.X-c.Radius, c.Center.Y-c.Radius, c.Center.X+c.Radius, c.Center.Y+c.Radius)
}

func extentOf(coords []r2.Vec) Extent {
	extent := EmptyExtent()
	for _, c := range coords {
		extent = extent.ExtendPoint(c)
	}
	return extent
}
