package engine

const geometryKey = "geometry"

// Feature is an entity rendered by a layer. Features are identified by
// pointer, never by a property.
type Feature struct {
	Observable
	geometry Geometry
}

// NewFeature returns a feature carrying geometry and a copy of properties.
func NewFeature(geometry Geometry, properties map[string]any) *Feature {
	f := &Feature{geometry: geometry}
	f.bind(f)
	for key, value := range properties {
		f.SetQuiet(key, value)
	}
	return f
}

// Geometry returns the feature geometry, possibly nil.
func (f *Feature) Geometry() Geometry {
	return f.geometry
}

// SetGeometry replaces the geometry and signals the change.
func (f *Feature) SetGeometry(geometry Geometry) {
	old := f.geometry
	f.geometry = geometry
	f.Dispatch(Event{Type: ChangeEvent(geometryKey), Key: geometryKey, OldValue: old})
	f.Changed()
}

// Extent returns the geometry extent, empty when the feature has no geometry.
func (f *Feature) Extent() Extent {
	if f == nil || f.geometry == nil {
		return EmptyExtent()
	}
	return f.geometry.Extent()
}
