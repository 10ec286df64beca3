package engine

const visibleKey = "visible"

// Layer is a renderable unit of the layer tree.
type Layer interface {
	Get(key string) any
	Set(key string, value any)
	On(eventType string, fn Listener) ListenerKey
	Visible() bool
	SetVisible(visible bool)
	Source() Source
	Changed()
}

type baseLayer struct {
	Observable
}

func (l *baseLayer) init(owner any) {
	l.bind(owner)
	l.SetQuiet(visibleKey, true)
}

// Visible reports the layer visibility (true by default).
func (l *baseLayer) Visible() bool {
	visible, _ := l.Get(visibleKey).(bool)
	return visible
}

// SetVisible changes the layer visibility.
func (l *baseLayer) SetVisible(visible bool) {
	l.Set(visibleKey, visible)
}

// TileLayer renders a TileSource or any other feature-less source.
type TileLayer struct {
	baseLayer
	source Source
}

// NewTileLayer returns a visible tile layer. source may be nil.
func NewTileLayer(source Source) *TileLayer {
	l := &TileLayer{source: source}
	l.init(l)
	return l
}

// Source returns the layer source.
func (l *TileLayer) Source() Source {
	return l.source
}

// VectorLayer renders the features of a FeatureSource or a ClusterSource.
type VectorLayer struct {
	baseLayer
	source Source
	style  any
}

// NewVectorLayer returns a visible vector layer.
func NewVectorLayer(source Source) *VectorLayer {
	l := &VectorLayer{source: source}
	l.init(l)
	return l
}

// Source returns the layer source.
func (l *VectorLayer) Source() Source {
	return l.source
}

// Style returns the style set on the layer.
func (l *VectorLayer) Style() any {
	return l.style
}

// SetStyle replaces the layer style.
func (l *VectorLayer) SetStyle(style any) {
	l.style = style
	l.Changed()
}

// Group is a layer node holding child layers.
type Group struct {
	baseLayer
	layers *Collection[Layer]
}

// NewGroup returns an empty, visible group.
func NewGroup(layers ...Layer) *Group {
	g := &Group{layers: NewCollection(layers...)}
	g.init(g)
	return g
}

// Layers returns the live child collection.
func (g *Group) Layers() *Collection[Layer] {
	return g.layers
}

// Source always returns nil; groups have no source of their own.
func (g *Group) Source() Source {
	return nil
}
