package layer

import "github.com/goliatone/go-canvas/engine"

// StyleSetKey marks layers whose style was applied by StyleOnce.
const StyleSetKey = "olcStyleSet"

// StyleOnce sets style on layer unless a previous StyleOnce call already did.
// It reports whether the style was applied.
func StyleOnce(layer *engine.VectorLayer, style any) bool {
	if layer == nil {
		return false
	}
	if set, _ := layer.Get(StyleSetKey).(bool); set {
		return false
	}
	layer.SetStyle(style)
	layer.Set(StyleSetKey, true)
	return true
}
