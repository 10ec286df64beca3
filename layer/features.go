package layer

import (
	canvas "github.com/goliatone/go-canvas"
	"github.com/goliatone/go-canvas/bus"
	"github.com/goliatone/go-canvas/engine"
	"github.com/goliatone/go-canvas/feature"
	"github.com/goliatone/go-canvas/pkg/activity"
)

// FeatureSelected is published by EmitSelection. The slices are the ones the
// caller passed.
type FeatureSelected struct {
	LayerID    string
	Selected   []*engine.Feature
	Deselected []*engine.Feature
}

// FeaturePropertyChanged is published once per SetFeaturesProperty call.
type FeaturePropertyChanged struct {
	LayerID string
	Key     string
}

// FeaturesSelected is the selection channel of the group.
func (g *Group) FeaturesSelected() *bus.Channel[FeatureSelected] {
	return channel[FeatureSelected](g, KindFeatureSelected)
}

// FeaturesPropertyChanged is the property change channel of the group.
func (g *Group) FeaturesPropertyChanged() *bus.Channel[FeaturePropertyChanged] {
	return channel[FeaturePropertyChanged](g, KindFeaturePropertyChanged)
}

// LayerSource returns the source set on the layer, cluster sources included.
func (g *Group) LayerSource(layerID string) (engine.Source, bool) {
	layer, ok := g.Layer(layerID)
	if !ok {
		return nil, false
	}
	return sourceOf(layer)
}

// FeatureSource returns the plain source holding the layer features. A cluster
// source is unwrapped to the source it groups.
func (g *Group) FeatureSource(layerID string) (engine.FeatureSource, bool) {
	if !g.features {
		return nil, false
	}
	source, ok := g.LayerSource(layerID)
	if !ok {
		return nil, false
	}
	if wrapper, ok := source.(engine.Wrapper); ok {
		inner := wrapper.Wrapped()
		return inner, !isNil(inner)
	}
	plain, ok := source.(engine.FeatureSource)
	return plain, ok
}

// Features returns the features of the layer.
func (g *Group) Features(layerID string) ([]*engine.Feature, bool) {
	source, ok := g.FeatureSource(layerID)
	if !ok {
		return nil, false
	}
	return source.Features(), true
}

func (g *Group) featureSource(op, layerID string, features []*engine.Feature, allowEmpty bool) (engine.FeatureSource, canvas.Result, bool) {
	if !g.features {
		d := g.diagnostic(op, layerID)
		d.Reason = canvas.ReasonUnsupported
		d.Err = errNoFeatures
		return nil, g.c.Reject(d), false
	}
	if !allowEmpty && len(compact(features)) == 0 {
		return nil, g.reject(op, layerID, canvas.ReasonEmptyInput), false
	}
	source, ok := g.FeatureSource(layerID)
	if !ok {
		return nil, g.reject(op, layerID, canvas.ReasonNotFound), false
	}
	return source, canvas.Result{}, true
}

// compact drops nil and repeated features, keeping the first occurrence.
func compact(features []*engine.Feature) []*engine.Feature {
	out := make([]*engine.Feature, 0, len(features))
	seen := make(map[*engine.Feature]struct{}, len(features))
	for _, f := range features {
		if f == nil {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// AddFeatures adds features to the layer source. Features already there are
// removed first so repeated adds never duplicate.
func (g *Group) AddFeatures(layerID string, features ...*engine.Feature) canvas.Result {
	source, res, ok := g.featureSource("add_features", layerID, features, false)
	if !ok {
		return res
	}
	features = compact(features)
	removeFeatures(source, features)
	if err := source.AddFeatures(features...); err != nil {
		d := g.diagnostic("add_features", layerID)
		d.Severity = canvas.SeverityWarning
		d.Err = err
		g.c.Log(d)
	}
	g.record(activity.VerbFeaturesAdded, layerID, len(features))
	return canvas.Applied()
}

// RemoveFeatures removes the given features that are in the layer source.
func (g *Group) RemoveFeatures(layerID string, features ...*engine.Feature) canvas.Result {
	source, res, ok := g.featureSource("remove_features", layerID, features, false)
	if !ok {
		return res
	}
	removed := removeFeatures(source, compact(features))
	g.record(activity.VerbFeaturesRemoved, layerID, removed)
	return canvas.Applied()
}

func removeFeatures(source engine.FeatureSource, features []*engine.Feature) int {
	removed := 0
	for _, f := range features {
		if source.HasFeature(f) && source.RemoveFeature(f) {
			removed++
		}
	}
	return removed
}

// SetFeatures replaces the content of the layer source with features. An
// empty call empties the source.
func (g *Group) SetFeatures(layerID string, features ...*engine.Feature) canvas.Result {
	source, res, ok := g.featureSource("set_features", layerID, features, true)
	if !ok {
		return res
	}
	features = compact(features)
	source.Clear()
	if err := source.AddFeatures(features...); err != nil {
		d := g.diagnostic("set_features", layerID)
		d.Severity = canvas.SeverityWarning
		d.Err = err
		g.c.Log(d)
	}
	g.record(activity.VerbFeaturesSet, layerID, len(features))
	return canvas.Applied()
}

// LayerExtent returns the extent of the layer features, false when there is
// nothing to bound.
func (g *Group) LayerExtent(layerID string) (engine.Extent, bool) {
	features, ok := g.Features(layerID)
	if !ok {
		return engine.Extent{}, false
	}
	return feature.Extent(features)
}

// Extent returns the union of every layer extent of the group.
func (g *Group) Extent() (engine.Extent, bool) {
	extent := engine.EmptyExtent()
	for _, layer := range g.node.Layers().Items() {
		id, _ := layer.Get(LayerUIDKey).(string)
		if layerExtent, ok := g.LayerExtent(id); ok {
			extent = extent.Extend(layerExtent)
		}
	}
	if extent.IsEmpty() {
		return engine.Extent{}, false
	}
	return extent, true
}

// EmitSelection publishes a selection event for the layer.
func (g *Group) EmitSelection(layerID string, selected, deselected []*engine.Feature) canvas.Result {
	if !g.features {
		return g.reject("emit_selection", layerID, canvas.ReasonUnsupported)
	}
	_ = g.FeaturesSelected().Publish(FeatureSelected{
		LayerID:    layerID,
		Selected:   selected,
		Deselected: deselected,
	})
	return canvas.Applied()
}

// SetFeaturesProperty sets key on every feature without per-feature events,
// signals one change on the layer and publishes one FeaturePropertyChanged.
// When the layer is unknown the features are still updated and the result
// carries ReasonNotFound.
func (g *Group) SetFeaturesProperty(layerID string, features []*engine.Feature, key string, value any) canvas.Result {
	switch {
	case !g.features:
		return g.reject("set_features_property", layerID, canvas.ReasonUnsupported)
	case key == "":
		return g.reject("set_features_property", layerID, canvas.ReasonEmptyID)
	}
	for _, f := range features {
		if f != nil {
			f.SetQuiet(key, value)
		}
	}
	layer, found := g.Layer(layerID)
	if found {
		layer.Changed()
	}
	_ = g.FeaturesPropertyChanged().Publish(FeaturePropertyChanged{LayerID: layerID, Key: key})
	g.c.Record(activity.BuildGroupEvent(activity.VerbFeaturesPropertyChanged, activity.CanvasEventInput{
		Scope:  g.id,
		Target: layerID,
		Count:  len(features),
		Key:    key,
		Value:  value,
	}))
	if !found {
		return canvas.Result{Applied: true, Reason: canvas.ReasonNotFound}
	}
	return canvas.Applied()
}

// ClusterFeatures returns the clusters built by the last render pass of the
// layer cluster source. They are rebuilt on every pass: use them right away
// and do not keep them.
func (g *Group) ClusterFeatures(layerID string) ([]*engine.Feature, bool) {
	if !g.features {
		return nil, false
	}
	source, ok := g.LayerSource(layerID)
	if !ok {
		return nil, false
	}
	if _, wraps := source.(engine.Wrapper); !wraps {
		return nil, false
	}
	reader, ok := source.(engine.FeatureReader)
	if !ok {
		return nil, false
	}
	return reader.Features(), true
}

// AddClusterLayer adds a vector layer clustering source with the canvas
// cluster distance.
func (g *Group) AddClusterLayer(layerID string, source engine.FeatureSource) canvas.Result {
	if isNil(source) {
		return g.reject("add_layer", layerID, canvas.ReasonNilValue)
	}
	cluster := engine.NewClusterSource(source, g.c.Config().ClusterDistance)
	return g.AddLayer(engine.NewVectorLayer(cluster), layerID)
}

func (g *Group) record(verb, layerID string, count int) {
	g.c.Record(activity.BuildGroupEvent(verb, activity.CanvasEventInput{
		Scope:  g.id,
		Target: layerID,
		Count:  count,
	}))
}
