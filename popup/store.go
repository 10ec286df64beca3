// Package popup groups the overlays of a canvas under arbitrary keys.
package popup

import (
	canvas "github.com/goliatone/go-canvas"
	"github.com/goliatone/go-canvas/engine"
	"github.com/goliatone/go-canvas/pkg/activity"
)

// GroupKey is the overlay property holding its group key.
const GroupKey = "olcOverlayGroupUid"

// Store adds, lists and clears overlays by group key. Several overlays may
// share a key.
type Store struct {
	c *canvas.Canvas
}

// New returns a store over c. A nil canvas is replaced by a blank one.
func New(c *canvas.Canvas) *Store {
	if c == nil {
		c = canvas.NewBlank()
	}
	return &Store{c: c}
}

// Add tags overlay with groupKey and attaches it to the map.
func (s *Store) Add(groupKey string, overlay *engine.Overlay) canvas.Result {
	d := canvas.Diagnostic{Component: "popup", Op: "add", Scope: groupKey}
	switch {
	case groupKey == "":
		d.Reason = canvas.ReasonEmptyID
		return s.c.Reject(d)
	case overlay == nil:
		d.Reason = canvas.ReasonNilValue
		return s.c.Reject(d)
	}
	overlay.Set(GroupKey, groupKey)
	s.c.Map().AddOverlay(overlay)
	s.c.Record(activity.BuildPopupEvent(activity.VerbPopupAdded, activity.CanvasEventInput{Scope: groupKey}))
	return canvas.Applied()
}

// ByGroup returns the overlays tagged with groupKey in map order.
func (s *Store) ByGroup(groupKey string) []*engine.Overlay {
	var out []*engine.Overlay
	for _, overlay := range s.c.Map().Overlays().Items() {
		if overlay.Get(GroupKey) == groupKey {
			out = append(out, overlay)
		}
	}
	return out
}

// ClearGroup detaches every overlay tagged with groupKey and returns how many
// were removed.
func (s *Store) ClearGroup(groupKey string) int {
	removed := 0
	for _, overlay := range s.ByGroup(groupKey) {
		if s.c.Map().RemoveOverlay(overlay) {
			removed++
		}
	}
	if removed > 0 {
		s.c.Record(activity.BuildPopupEvent(activity.VerbPopupsCleared, activity.CanvasEventInput{
			Scope: groupKey,
			Count: removed,
		}))
	}
	return removed
}

// SetZIndex sets the stacking order of the rendered overlay element. It
// reports false and does nothing while the overlay is not rendered.
func SetZIndex(overlay *engine.Overlay, z int) bool {
	if overlay == nil {
		return false
	}
	element := overlay.Element()
	if element == nil {
		return false
	}
	element.ZIndex = z
	return true
}

// SetZIndex is the method form of the package SetZIndex.
func (s *Store) SetZIndex(overlay *engine.Overlay, z int) bool {
	return SetZIndex(overlay, z)
}
