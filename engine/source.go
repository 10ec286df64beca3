package engine

import (
	"errors"
	"math"
	"reflect"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// Source event types.
const (
	EventAddFeature    = "addfeature"
	EventRemoveFeature = "removefeature"
	EventClear         = "clear"
)

// ClusterFeaturesKey is the property under which a cluster feature stores its
// members.
const ClusterFeaturesKey = "features"

// ErrFeatureExists is returned when a feature is added twice to one source.
var ErrFeatureExists = errors.New("engine: feature already added to source")

// Source feeds a layer.
type Source interface {
	Refresh()
	Attributions() []string
	Revision() int
}

// FeatureReader is a source exposing the features it currently holds.
type FeatureReader interface {
	Source
	Features() []*Feature
}

// FeatureSource is a plain, mutable entity source.
type FeatureSource interface {
	FeatureReader
	AddFeatures(features ...*Feature) error
	RemoveFeature(feature *Feature) bool
	HasFeature(feature *Feature) bool
	Clear()
	FeatureCount() int
}

// Wrapper is implemented by sources that wrap an inner plain source.
type Wrapper interface {
	Wrapped() FeatureSource
}

// Renderable sources rebuild derived content on each render pass.
type Renderable interface {
	Render(resolution float64)
}

// TileSource is a feature-less source identified by a URL template.
type TileSource struct {
	Observable
	URL          string
	attributions []string
}

// NewTileSource returns a tile source with optional attributions.
func NewTileSource(url string, attributions ...string) *TileSource {
	s := &TileSource{URL: url, attributions: slices.Clone(attributions)}
	s.bind(s)
	return s
}

// Refresh invalidates cached tiles.
func (s *TileSource) Refresh() {
	s.Changed()
}

// Attributions returns a copy of the attributions.
func (s *TileSource) Attributions() []string {
	return slices.Clone(s.attributions)
}

// SetAttributions replaces the attributions.
func (s *TileSource) SetAttributions(attributions ...string) {
	s.attributions = slices.Clone(attributions)
	s.Changed()
}

// VectorSource holds features in insertion order.
type VectorSource struct {
	Observable
	features     []*Feature
	index        map[*Feature]struct{}
	attributions []string
}

// NewVectorSource returns a source holding features.
func NewVectorSource(features ...*Feature) *VectorSource {
	s := &VectorSource{index: map[*Feature]struct{}{}}
	s.bind(s)
	_ = s.AddFeatures(features...)
	return s
}

// AddFeatures appends features. Features already present are skipped and
// reported through ErrFeatureExists; the others are still added.
func (s *VectorSource) AddFeatures(features ...*Feature) error {
	var errs []error
	added := 0
	for _, feature := range features {
		if feature == nil {
			continue
		}
		if _, ok := s.index[feature]; ok {
			errs = append(errs, ErrFeatureExists)
			continue
		}
		s.index[feature] = struct{}{}
		s.features = append(s.features, feature)
		s.Dispatch(Event{Type: EventAddFeature, Feature: feature})
		added++
	}
	if added > 0 {
		s.Changed()
	}
	return errors.Join(errs...)
}

// RemoveFeature removes feature and reports whether it was present.
func (s *VectorSource) RemoveFeature(feature *Feature) bool {
	if _, ok := s.index[feature]; !ok {
		return false
	}
	delete(s.index, feature)
	s.features = slices.DeleteFunc(s.features, func(f *Feature) bool {
		return f == feature
	})
	s.Dispatch(Event{Type: EventRemoveFeature, Feature: feature})
	s.Changed()
	return true
}

// HasFeature reports whether feature is in the source.
func (s *VectorSource) HasFeature(feature *Feature) bool {
	_, ok := s.index[feature]
	return ok
}

// Clear removes every feature.
func (s *VectorSource) Clear() {
	s.features = nil
	s.index = map[*Feature]struct{}{}
	s.Dispatch(Event{Type: EventClear})
	s.Changed()
}

// Features returns a copy of the features in insertion order.
func (s *VectorSource) Features() []*Feature {
	return slices.Clone(s.features)
}

// FeatureCount returns the number of features.
func (s *VectorSource) FeatureCount() int {
	return len(s.features)
}

// Refresh signals that the source content should be redrawn.
func (s *VectorSource) Refresh() {
	s.Changed()
}

// Attributions returns a copy of the attributions.
func (s *VectorSource) Attributions() []string {
	return slices.Clone(s.attributions)
}

// SetAttributions replaces the attributions.
func (s *VectorSource) SetAttributions(attributions ...string) {
	s.attributions = slices.Clone(attributions)
	s.Changed()
}

// ClusterSource groups the features of an inner source on each render pass.
// Its own features are regenerated every time Render runs.
type ClusterSource struct {
	Observable
	source   FeatureSource
	distance float64
	clusters []*Feature
}

// NewClusterSource wraps source; distance is the cluster cell size in pixels
// and defaults to 20.
func NewClusterSource(source FeatureSource, distance float64) *ClusterSource {
	if distance <= 0 {
		distance = 20
	}
	if isNilSource(source) {
		source = nil
	}
	s := &ClusterSource{source: source, distance: distance}
	s.bind(s)
	return s
}

// Wrapped returns the inner plain source.
func (s *ClusterSource) Wrapped() FeatureSource {
	if s == nil {
		return nil
	}
	return s.source
}

// Features returns the clusters built by the last render pass.
func (s *ClusterSource) Features() []*Feature {
	if s == nil {
		return nil
	}
	return slices.Clone(s.clusters)
}

// Render rebuilds clusters for resolution (map units per pixel).
func (s *ClusterSource) Render(resolution float64) {
	if s == nil {
		return
	}
	s.clusters = nil
	if s.source == nil {
		return
	}
	if resolution <= 0 {
		resolution = 1
	}
	cell := s.distance * resolution
	type bucket struct {
		members []*Feature
		sum     r2.Vec
	}
	var order [][2]int64
	buckets := map[[2]int64]*bucket{}
	for _, feature := range s.source.Features() {
		extent := feature.Extent()
		if extent.IsEmpty() {
			continue
		}
		center := extent.Center()
		key := [2]int64{int64(math.Floor(center.X / cell)), int64(math.Floor(center.Y / cell))}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
			order = append(order, key)
		}
		b.members = append(b.members, feature)
		b.sum = r2.Add(b.sum, center)
	}
	for _, key := range order {
		b := buckets[key]
		centroid := r2.Scale(1/float64(len(b.members)), b.sum)
		s.clusters = append(s.clusters, NewFeature(Point{Coord: centroid}, map[string]any{
			ClusterFeaturesKey: b.members,
		}))
	}
	s.Changed()
}

// Refresh refreshes the inner source.
func (s *ClusterSource) Refresh() {
	if s.source != nil {
		s.source.Refresh()
	}
	s.Changed()
}

// Attributions returns the inner source attributions.
func (s *ClusterSource) Attributions() []string {
	if s.source == nil {
		return nil
	}
	return s.source.Attributions()
}

// isNilSource reports whether source is nil or a nil pointer behind the
// interface.
func isNilSource(source FeatureSource) bool {
	if source == nil {
		return true
	}
	v := reflect.ValueOf(source)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
