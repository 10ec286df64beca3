// Package layer manages named, ordered layer groups attached to a canvas.
// A group is reattached, never duplicated, when a second store is built with
// the same id. Background and overlay groups are groups with the exclusive
// visibility or the feature capability switched on.
package layer

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	canvas "github.com/goliatone/go-canvas"
	"github.com/goliatone/go-canvas/bus"
	"github.com/goliatone/go-canvas/collection"
	"github.com/goliatone/go-canvas/engine"
	"github.com/goliatone/go-canvas/pkg/activity"
)

// Property keys and ids shared with other stores.
const (
	LayerUIDKey       = "olcLayerUid"
	BackgroundGroupID = "olcBackgroundLayerGroup"
	OverlayGroupID    = "olcOverlayLayerGroup"
)

// Channel kinds.
const (
	KindLayerAdded             = "olcLayerAdded"
	KindFeatureSelected        = "olcOverlayLayerFeatureSelected"
	KindFeaturePropertyChanged = "olcOverlayLayerFeaturePropertyChanged"
)

// Group is a store over one layer group of a canvas.
type Group struct {
	c         *canvas.Canvas
	id        string
	node      *engine.Group
	features  bool
	exclusive bool
	missing   MissingToggle
}

// New attaches a group with id to c, creating it at the configured position
// if the map has none yet. A nil canvas is replaced by a blank one.
func New(c *canvas.Canvas, id string, opts ...Option) (*Group, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: layer group", canvas.ErrEmptyID)
	}
	return newGroup(c, applyOptions(groupConfig{id: id}, opts)), nil
}

// NewBackground attaches the background group: exclusive visibility, at
// Config.BackgroundPosition unless overridden.
func NewBackground(c *canvas.Canvas, opts ...Option) *Group {
	base := groupConfig{id: BackgroundGroupID, exclusive: true}
	return newGroup(c, applyOptions(base, opts))
}

// NewOverlay attaches the overlay group: feature operations, at
// Config.OverlayPosition unless overridden.
func NewOverlay(c *canvas.Canvas, opts ...Option) *Group {
	base := groupConfig{id: OverlayGroupID, features: true}
	return newGroup(c, applyOptions(base, opts))
}

func newGroup(c *canvas.Canvas, cfg groupConfig) *Group {
	if c == nil {
		c = canvas.NewBlank()
	}
	g := &Group{
		c:         c,
		id:        cfg.id,
		features:  cfg.features,
		exclusive: cfg.exclusive,
		missing:   cfg.missing,
	}
	g.attach(cfg)
	g.LayerAdded()
	if g.features {
		g.FeaturesSelected()
		g.FeaturesPropertyChanged()
	}
	return g
}

func (g *Group) attach(cfg groupConfig) {
	if existing := findGroup(g.c.Map(), g.id); existing != nil {
		g.node = existing
		g.c.Log(canvas.Diagnostic{
			Component: "layer",
			Op:        "attach",
			Scope:     g.id,
			Severity:  canvas.SeverityDebug,
			Message:   "reattached to existing group",
		})
		return
	}
	position := g.defaultPosition()
	if cfg.position != nil {
		position = *cfg.position
	}
	g.node = engine.NewGroup()
	g.node.Set(LayerUIDKey, g.id)
	collection.InsertKeepOrder[engine.Layer](g.c.Map().Layers(), g.node, g.c.Config().OrderKey, float64(position))
}

func (g *Group) defaultPosition() int {
	switch {
	case g.features:
		return g.c.Config().OverlayPosition
	case g.exclusive:
		return g.c.Config().BackgroundPosition
	}
	return 0
}

func findGroup(m *engine.Map, id string) *engine.Group {
	for _, layer := range m.Layers().Items() {
		if group, ok := layer.(*engine.Group); ok && group.Get(LayerUIDKey) == id {
			return group
		}
	}
	return nil
}

// ID returns the group id.
func (g *Group) ID() string {
	return g.id
}

// Position returns the slot the group was created at.
func (g *Group) Position() int {
	return int(collection.Position(g.node, g.c.Config().OrderKey))
}

// Node returns the engine group backing the store.
func (g *Group) Node() *engine.Group {
	return g.node
}

// Canvas returns the canvas the group is attached to.
func (g *Group) Canvas() *canvas.Canvas {
	return g.c
}

// LayerAdded is the channel receiving every layer added to the group.
func (g *Group) LayerAdded() *bus.Channel[engine.Layer] {
	return channel[engine.Layer](g, KindLayerAdded)
}

func channel[T any](g *Group, kind string) *bus.Channel[T] {
	ch, err := bus.GetOrCreate[T](g.c.Channels(), kind, g.id)
	if err != nil {
		g.c.Log(canvas.Diagnostic{
			Component: "layer",
			Op:        "channel",
			Scope:     g.id,
			Target:    kind,
			Severity:  canvas.SeverityWarning,
			Message:   "using a detached channel",
			Err:       err,
		})
		return bus.NewChannel[T](bus.ChannelName(kind, g.id))
	}
	return ch
}

func (g *Group) diagnostic(op, target string) canvas.Diagnostic {
	return canvas.Diagnostic{Component: "layer", Op: op, Scope: g.id, Target: target}
}

func (g *Group) reject(op, target string, reason canvas.Reason) canvas.Result {
	d := g.diagnostic(op, target)
	d.Reason = reason
	return g.c.Reject(d)
}

// AddLayer stamps layerID onto layer and appends it to the group. Empty ids,
// nil layers and ids already in use are rejected. Each applied add publishes
// the layer on LayerAdded.
func (g *Group) AddLayer(layer engine.Layer, layerID string) canvas.Result {
	switch {
	case layerID == "":
		return g.reject("add_layer", layerID, canvas.ReasonEmptyID)
	case isNil(layer):
		return g.reject("add_layer", layerID, canvas.ReasonNilValue)
	}
	if _, exists := g.Layer(layerID); exists {
		return g.reject("add_layer", layerID, canvas.ReasonDuplicateID)
	}
	layer.Set(LayerUIDKey, layerID)
	g.node.Layers().Push(layer)
	_ = g.LayerAdded().Publish(layer)
	g.c.Record(activity.BuildLayerEvent(activity.VerbLayerAdded, activity.CanvasEventInput{
		Scope:  g.id,
		Target: layerID,
	}))
	return canvas.Applied()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// sourceOf returns the layer source, false when it is nil or a nil pointer.
func sourceOf(layer engine.Layer) (engine.Source, bool) {
	source := layer.Source()
	if isNil(source) {
		return nil, false
	}
	return source, true
}

// Layer returns the layer stamped with layerID.
func (g *Group) Layer(layerID string) (engine.Layer, bool) {
	if layerID == "" {
		return nil, false
	}
	for _, layer := range g.node.Layers().Items() {
		if layer.Get(LayerUIDKey) == layerID {
			return layer, true
		}
	}
	return nil, false
}

// Layers returns the layers of the group in order.
func (g *Group) Layers() []engine.Layer {
	return g.node.Layers().Items()
}

// Len returns the number of layers.
func (g *Group) Len() int {
	return g.node.Layers().Len()
}

// RemoveLayer detaches the layer stamped with layerID.
func (g *Group) RemoveLayer(layerID string) canvas.Result {
	layer, ok := g.Layer(layerID)
	if !ok {
		return g.reject("remove_layer", layerID, canvas.ReasonNotFound)
	}
	if !g.c.Map().RemoveLayer(layer) {
		g.node.Layers().Remove(layer)
	}
	g.c.Record(activity.BuildLayerEvent(activity.VerbLayerRemoved, activity.CanvasEventInput{
		Scope:  g.id,
		Target: layerID,
	}))
	return canvas.Applied()
}

// ClearAll detaches every layer. The group itself stays on the map.
func (g *Group) ClearAll() {
	layers := g.node.Layers().Items()
	for _, layer := range layers {
		g.c.Map().RemoveLayer(layer)
	}
	g.node.Layers().Clear()
	if len(layers) == 0 {
		return
	}
	g.c.Record(activity.BuildGroupEvent(activity.VerbLayersCleared, activity.CanvasEventInput{
		Scope: g.id,
		Count: len(layers),
	}))
}

// SetLayerProperty sets key on the layer stamped with layerID. The id and
// order keys are reserved.
func (g *Group) SetLayerProperty(layerID, key string, value any) canvas.Result {
	switch {
	case key == "":
		return g.reject("set_layer_property", layerID, canvas.ReasonEmptyID)
	case key == LayerUIDKey || key == g.c.Config().OrderKey:
		return g.reject("set_layer_property", layerID, canvas.ReasonUnsupported)
	}
	layer, ok := g.Layer(layerID)
	if !ok {
		return g.reject("set_layer_property", layerID, canvas.ReasonNotFound)
	}
	layer.Set(key, value)
	return canvas.Applied()
}

// Sources returns the distinct sources of the layers, in layer order.
func (g *Group) Sources() []engine.Source {
	var sources []engine.Source
	for _, layer := range g.node.Layers().Items() {
		source, ok := sourceOf(layer)
		if !ok || slices.Contains(sources, source) {
			continue
		}
		sources = append(sources, source)
	}
	return sources
}

// RefreshSources refreshes every source of the group.
func (g *Group) RefreshSources() {
	for _, source := range g.Sources() {
		source.Refresh()
	}
}

// Attributions returns the attributions of the visible layers without
// duplicates, in first seen order.
func (g *Group) Attributions() []string {
	var out []string
	for _, layer := range g.node.Layers().Items() {
		if !layer.Visible() {
			continue
		}
		source, ok := sourceOf(layer)
		if !ok {
			continue
		}
		for _, attribution := range source.Attributions() {
			if !slices.Contains(out, attribution) {
				out = append(out, attribution)
			}
		}
	}
	return out
}

// ToggleVisible shows the layer stamped with layerID and hides the others.
// What happens when no layer matches depends on WithMissingToggle.
func (g *Group) ToggleVisible(layerID string) canvas.Result {
	if !g.exclusive {
		return g.reject("toggle_visible", layerID, canvas.ReasonUnsupported)
	}
	found, ok := g.Layer(layerID)
	if !ok && g.missing == ToggleKeep {
		return g.reject("toggle_visible", layerID, canvas.ReasonNotFound)
	}
	for _, layer := range g.node.Layers().Items() {
		layer.SetVisible(ok && layer == found)
	}
	g.c.Record(activity.BuildLayerEvent(activity.VerbLayerVisibilityToggled, activity.CanvasEventInput{
		Scope:  g.id,
		Target: layerID,
	}))
	if !ok {
		d := g.diagnostic("toggle_visible", layerID)
		d.Reason = canvas.ReasonNotFound
		d.Severity = canvas.SeverityInfo
		d.Message = "no match, every layer hidden"
		g.c.Log(d)
		return canvas.Result{Applied: true, Reason: canvas.ReasonNotFound}
	}
	return canvas.Applied()
}

var errNoFeatures = errors.New("layer: group has no feature capability")
