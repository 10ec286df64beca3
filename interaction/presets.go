package interaction

import "github.com/goliatone/go-canvas/engine"

// PointOptions draws points into source.
func PointOptions(source engine.FeatureSource) engine.DrawOptions {
	return engine.DrawOptions{Type: engine.GeometryPoint, Source: source}
}

// LineOptions draws lines into source, freehand disabled.
func LineOptions(source engine.FeatureSource) engine.DrawOptions {
	return engine.DrawOptions{Type: engine.GeometryLineString, Source: source, FreehandCondition: engine.Never}
}

// PolygonOptions draws polygons into source, freehand disabled.
func PolygonOptions(source engine.FeatureSource) engine.DrawOptions {
	return engine.DrawOptions{Type: engine.GeometryPolygon, Source: source, FreehandCondition: engine.Never}
}

// CircleOptions draws circles into source.
func CircleOptions(source engine.FeatureSource) engine.DrawOptions {
	return engine.DrawOptions{Type: engine.GeometryCircle, Source: source}
}

// MergeDrawOptions returns preset with every set field of overrides applied
// on top.
func MergeDrawOptions(overrides, preset engine.DrawOptions) engine.DrawOptions {
	out := preset
	if overrides.Type != "" {
		out.Type = overrides.Type
	}
	if overrides.Source != nil {
		out.Source = overrides.Source
	}
	if overrides.Condition != nil {
		out.Condition = overrides.Condition
	}
	if overrides.FreehandCondition != nil {
		out.FreehandCondition = overrides.FreehandCondition
	}
	if overrides.MaxPoints > 0 {
		out.MaxPoints = overrides.MaxPoints
	}
	if overrides.Style != nil {
		out.Style = overrides.Style
	}
	return out
}
