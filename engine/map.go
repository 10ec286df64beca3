package engine

import (
	"slices"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

const viewKey = "view"

type timer struct {
	seq       int
	due       time.Time
	fn        func()
	cancelled bool
}

// Map is the scene root: layers, overlays, interactions, controls and a view.
// Time only moves through Advance.
type Map struct {
	Observable
	layers       *Collection[Layer]
	overlays     *Collection[*Overlay]
	interactions *Collection[Interaction]
	controls     *Collection[*Control]
	now          time.Time
	timers       []*timer
	timerSeq     int
}

// NewMap returns an empty map with a default, undefined view.
func NewMap() *Map {
	m := &Map{
		layers:       NewCollection[Layer](),
		overlays:     NewCollection[*Overlay](),
		interactions: NewCollection[Interaction](),
		controls:     NewCollection[*Control](),
	}
	m.bind(m)
	m.SetQuiet(viewKey, NewView(ViewOptions{}))
	return m
}

// View returns the current view.
func (m *Map) View() *View {
	v, _ := m.Get(viewKey).(*View)
	return v
}

// SetView replaces the view and dispatches change:view.
func (m *Map) SetView(v *View) {
	if v != nil {
		v.now = m.now
	}
	m.Set(viewKey, v)
}

// Size returns the viewport size.
func (m *Map) Size() r2.Vec {
	if v := m.View(); v != nil {
		return v.Size()
	}
	return DefaultSize
}

// SetSize resizes the viewport.
func (m *Map) SetSize(size r2.Vec) {
	if v := m.View(); v != nil {
		v.SetSize(size)
	}
}

// Layers returns the live top-level layer collection.
func (m *Map) Layers() *Collection[Layer] {
	return m.layers
}

// AddLayer appends layer on top.
func (m *Map) AddLayer(layer Layer) {
	m.layers.Push(layer)
}

// RemoveLayer detaches layer from the top level or from any nested group.
func (m *Map) RemoveLayer(layer Layer) bool {
	return removeLayer(m.layers, layer)
}

func removeLayer(layers *Collection[Layer], target Layer) bool {
	if layers.Remove(target) {
		return true
	}
	for _, layer := range layers.Items() {
		if group, ok := layer.(*Group); ok && removeLayer(group.Layers(), target) {
			return true
		}
	}
	return false
}

// Overlays returns the live overlay collection.
func (m *Map) Overlays() *Collection[*Overlay] {
	return m.overlays
}

// AddOverlay attaches overlay.
func (m *Map) AddOverlay(overlay *Overlay) {
	if overlay == nil || m.overlays.Contains(overlay) {
		return
	}
	m.overlays.Push(overlay)
	overlay.setMap(m)
}

// RemoveOverlay detaches overlay.
func (m *Map) RemoveOverlay(overlay *Overlay) bool {
	if !m.overlays.Remove(overlay) {
		return false
	}
	overlay.setMap(nil)
	return true
}

// Interactions returns the live interaction collection.
func (m *Map) Interactions() *Collection[Interaction] {
	return m.interactions
}

// AddInteraction attaches interaction on top of the existing ones.
func (m *Map) AddInteraction(interaction Interaction) {
	if interaction == nil || m.interactions.Contains(interaction) {
		return
	}
	m.interactions.Push(interaction)
	interaction.SetMap(m)
}

// RemoveInteraction detaches interaction.
func (m *Map) RemoveInteraction(interaction Interaction) bool {
	if !m.interactions.Remove(interaction) {
		return false
	}
	interaction.SetMap(nil)
	return true
}

// Controls returns the live control collection.
func (m *Map) Controls() *Collection[*Control] {
	return m.controls
}

// AddControl attaches control.
func (m *Map) AddControl(control *Control) {
	if control == nil || m.controls.Contains(control) {
		return
	}
	m.controls.Push(control)
	control.m = m
}

// RemoveControl detaches control.
func (m *Map) RemoveControl(control *Control) bool {
	if !m.controls.Remove(control) {
		return false
	}
	control.m = nil
	return true
}

// Now returns the map clock.
func (m *Map) Now() time.Time {
	return m.now
}

// AfterFunc schedules fn to run once the clock has advanced by d. The returned
// function cancels it.
func (m *Map) AfterFunc(d time.Duration, fn func()) func() {
	m.timerSeq++
	t := &timer{seq: m.timerSeq, due: m.now.Add(d), fn: fn}
	m.timers = append(m.timers, t)
	return func() { t.cancelled = true }
}

// Pending returns the number of scheduled, uncancelled callbacks.
func (m *Map) Pending() int {
	n := 0
	for _, t := range m.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Advance moves the clock to now, runs due callbacks in due order and steps
// view animations. Earlier times are ignored.
func (m *Map) Advance(now time.Time) {
	if now.Before(m.now) {
		return
	}
	m.now = now
	for {
		idx := -1
		for i, t := range m.timers {
			if t.cancelled || t.due.After(now) {
				continue
			}
			if idx < 0 || t.due.Before(m.timers[idx].due) ||
				(t.due.Equal(m.timers[idx].due) && t.seq < m.timers[idx].seq) {
				idx = i
			}
		}
		if idx < 0 {
			break
		}
		t := m.timers[idx]
		m.timers = slices.Delete(m.timers, idx, idx+1)
		t.fn()
	}
	m.timers = slices.DeleteFunc(m.timers, func(t *timer) bool { return t.cancelled })
	if v := m.View(); v != nil {
		v.Advance(now)
	}
}

// AdvanceBy moves the clock forward by d.
func (m *Map) AdvanceBy(d time.Duration) {
	m.Advance(m.now.Add(d))
}

// RenderFrame runs a render pass: cluster sources regroup their features for
// the current resolution and postrender is dispatched.
func (m *Map) RenderFrame() {
	resolution := 1.0
	if v := m.View(); v != nil {
		if res, ok := v.Resolution(); ok {
			resolution = res
		}
	}
	renderLayers(m.layers, resolution)
	m.Dispatch(Event{Type: EventPostRender})
}

func renderLayers(layers *Collection[Layer], resolution float64) {
	for _, layer := range layers.Items() {
		if group, ok := layer.(*Group); ok {
			renderLayers(group.Layers(), resolution)
			continue
		}
		if r, ok := layer.Source().(Renderable); ok {
			r.Render(resolution)
		}
	}
}

// HandlePointer dispatches e to map listeners, then to active interactions
// from the top-most down until one stops propagation.
func (m *Map) HandlePointer(e *PointerEvent) {
	if e == nil {
		return
	}
	e.Map = m
	m.Dispatch(Event{Type: e.Type, Pointer: e})
	for _, interaction := range slices.Backward(m.interactions.Items()) {
		if !interaction.Active() {
			continue
		}
		if !interaction.HandleEvent(e) {
			return
		}
	}
}

// HandleKey dispatches a keydown or keyup event for key.
func (m *Map) HandleKey(key string, down bool) {
	eventType := EventKeyUp
	if down {
		eventType = EventKeyDown
	}
	m.Dispatch(Event{Type: eventType, Key: key})
}
