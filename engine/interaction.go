package engine

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// Pointer event types understood by the built-in interactions.
const (
	PointerClick       = "click"
	PointerSingleClick = "singleclick"
	PointerDoubleClick = "dblclick"
	PointerDown        = "pointerdown"
	PointerDrag        = "pointerdrag"
	PointerMove        = "pointermove"
	PointerUp          = "pointerup"
)

// Interaction event types.
const (
	EventDrawStart      = "drawstart"
	EventDrawEnd        = "drawend"
	EventDrawAbort      = "drawabort"
	EventModifyEnd      = "modifyend"
	EventTranslateStart = "translatestart"
	EventTranslateEnd   = "translateend"
)

const activeKey = "active"

// PointerEvent is a pointer input delivered through Map.HandlePointer.
type PointerEvent struct {
	Type       string
	Coordinate r2.Vec
	Pixel      r2.Vec
	Button     int
	Shift      bool
	Ctrl       bool
	Alt        bool
	Meta       bool
	Map        *Map
}

// Primary reports whether the event comes from the primary button.
func (e *PointerEvent) Primary() bool {
	return e != nil && e.Button == 0
}

// Condition decides whether an interaction should react to an event.
type Condition func(*PointerEvent) bool

// Always is a condition that always holds.
func Always(*PointerEvent) bool { return true }

// Never is a condition that never holds.
func Never(*PointerEvent) bool { return false }

// Click holds for primary click events.
func Click(e *PointerEvent) bool {
	return e != nil && e.Type == PointerClick && e.Primary()
}

// SingleClick holds for primary single click events.
func SingleClick(e *PointerEvent) bool {
	return e != nil && e.Type == PointerSingleClick && e.Primary()
}

// NoModifierKeys holds when no modifier key is pressed.
func NoModifierKeys(e *PointerEvent) bool {
	return e != nil && !e.Shift && !e.Ctrl && !e.Alt && !e.Meta
}

// PlatformModifierKeyOnly holds when ctrl or meta is the only modifier.
func PlatformModifierKeyOnly(e *PointerEvent) bool {
	return e != nil && (e.Ctrl || e.Meta) && !e.Alt && !e.Shift
}

// ShiftKeyOnly holds when shift is the only modifier.
func ShiftKeyOnly(e *PointerEvent) bool {
	return e != nil && e.Shift && !e.Ctrl && !e.Alt && !e.Meta
}

// Interaction is a tool attached to the map that reacts to pointer input.
type Interaction interface {
	Get(key string) any
	Set(key string, value any)
	On(eventType string, fn Listener) ListenerKey
	Active() bool
	SetActive(active bool)
	// HandleEvent returns false to stop propagation to lower interactions.
	HandleEvent(e *PointerEvent) bool
	SetMap(m *Map)
	Map() *Map
}

// BaseInteraction provides the property, activity and map plumbing shared by
// every interaction.
type BaseInteraction struct {
	Observable
	m *Map
}

func (b *BaseInteraction) init(owner any) {
	b.bind(owner)
	b.SetQuiet(activeKey, true)
}

// Active reports whether the interaction reacts to events (true by default).
func (b *BaseInteraction) Active() bool {
	active, _ := b.Get(activeKey).(bool)
	return active
}

// SetActive enables or disables the interaction.
func (b *BaseInteraction) SetActive(active bool) {
	b.Set(activeKey, active)
}

// SetMap is called by Map when the interaction is added or removed.
func (b *BaseInteraction) SetMap(m *Map) {
	b.m = m
}

// Map returns the map the interaction is attached to.
func (b *BaseInteraction) Map() *Map {
	return b.m
}

// Pointer is an interaction delegating to a handler function.
type Pointer struct {
	BaseInteraction
	handle func(*PointerEvent) bool
}

// NewPointer returns an interaction calling handle for every event while
// active. A nil handle lets every event through.
func NewPointer(handle func(*PointerEvent) bool) *Pointer {
	p := &Pointer{handle: handle}
	p.init(p)
	return p
}

func (p *Pointer) HandleEvent(e *PointerEvent) bool {
	if !p.Active() || p.handle == nil {
		return true
	}
	return p.handle(e)
}

// DrawOptions configures a Draw interaction.
type DrawOptions struct {
	Type GeometryType
	// Source receives finished features when set.
	Source FeatureSource
	// Condition selects the clicks that add vertices. Defaults to NoModifierKeys.
	Condition Condition
	// FreehandCondition adds vertices on drag while it holds. Nil disables
	// freehand drawing.
	FreehandCondition Condition
	// MaxPoints finishes lines and polygons once reached. Zero means unlimited.
	MaxPoints int
	Style     any
}

// Draw creates features from pointer input.
type Draw struct {
	BaseInteraction
	options DrawOptions
	sketch  []r2.Vec
}

// NewDraw returns an active draw interaction.
func NewDraw(options DrawOptions) *Draw {
	if options.Type == "" {
		options.Type = GeometryPoint
	}
	if options.Condition == nil {
		options.Condition = NoModifierKeys
	}
	d := &Draw{options: options}
	d.init(d)
	return d
}

// Options returns the options the draw was built with.
func (d *Draw) Options() DrawOptions {
	return d.options
}

// SketchLen returns the number of vertices of the drawing in progress.
func (d *Draw) SketchLen() int {
	return len(d.sketch)
}

func (d *Draw) HandleEvent(e *PointerEvent) bool {
	if !d.Active() || e == nil {
		return true
	}
	switch e.Type {
	case PointerClick:
		if !e.Primary() || !d.options.Condition(e) {
			return true
		}
		d.addVertex(e.Coordinate)
		return false
	case PointerDrag:
		if d.options.FreehandCondition == nil || !d.options.FreehandCondition(e) {
			return true
		}
		d.addVertex(e.Coordinate)
		return false
	case PointerDoubleClick:
		if len(d.sketch) == 0 {
			return true
		}
		d.FinishDrawing()
		return false
	}
	return true
}

func (d *Draw) addVertex(at r2.Vec) {
	if len(d.sketch) == 0 {
		d.Dispatch(Event{Type: EventDrawStart})
	}
	d.sketch = append(d.sketch, at)
	switch d.options.Type {
	case GeometryPoint:
		d.FinishDrawing()
	case GeometryCircle:
		if len(d.sketch) == 2 {
			d.FinishDrawing()
		}
	default:
		if d.options.MaxPoints > 0 && len(d.sketch) >= d.options.MaxPoints {
			d.FinishDrawing()
		}
	}
}

// FinishDrawing completes the sketch. Sketches too short for their geometry
// type are aborted instead.
func (d *Draw) FinishDrawing() {
	geometry := d.sketchGeometry()
	d.sketch = nil
	if geometry == nil {
		d.Dispatch(Event{Type: EventDrawAbort})
		return
	}
	feature := NewFeature(geometry, nil)
	if d.options.Source != nil {
		_ = d.options.Source.AddFeatures(feature)
	}
	d.Dispatch(Event{Type: EventDrawEnd, Feature: feature})
}

// AbortDrawing discards the sketch.
func (d *Draw) AbortDrawing() {
	if len(d.sketch) == 0 {
		return
	}
	d.sketch = nil
	d.Dispatch(Event{Type: EventDrawAbort})
}

func (d *Draw) sketchGeometry() Geometry {
	switch d.options.Type {
	case GeometryPoint:
		if len(d.sketch) >= 1 {
			return Point{Coord: d.sketch[0]}
		}
	case GeometryLineString:
		if len(d.sketch) >= 2 {
			return NewLineString(d.sketch...)
		}
	case GeometryPolygon:
		if len(d.sketch) >= 3 {
			ring := append(slices.Clone(d.sketch), d.sketch[0])
			return NewPolygon(ring...)
		}
	case GeometryCircle:
		if len(d.sketch) >= 2 {
			return Circle{Center: d.sketch[0], Radius: r2.Norm(r2.Sub(d.sketch[1], d.sketch[0]))}
		}
	}
	return nil
}

// ModifyOptions configures a Modify interaction.
type ModifyOptions struct {
	Source FeatureSource
	// DeleteCondition removes the vertex under the pointer while it holds.
	DeleteCondition Condition
	// PixelTolerance is the vertex hit radius in pixels. Defaults to 10.
	PixelTolerance float64
}

// Modify edits the vertices of the features of a source.
type Modify struct {
	BaseInteraction
	options ModifyOptions
}

// NewModify returns an active modify interaction.
func NewModify(options ModifyOptions) *Modify {
	if options.PixelTolerance <= 0 {
		options.PixelTolerance = 10
	}
	m := &Modify{options: options}
	m.init(m)
	return m
}

// Options returns the options the interaction was built with.
func (m *Modify) Options() ModifyOptions {
	return m.options
}

func (m *Modify) HandleEvent(e *PointerEvent) bool {
	if !m.Active() || e == nil || m.options.DeleteCondition == nil || m.options.Source == nil {
		return true
	}
	if !m.options.DeleteCondition(e) {
		return true
	}
	tolerance := m.options.PixelTolerance * resolutionOf(e)
	for _, feature := range m.options.Source.Features() {
		next, ok := removeVertex(feature.Geometry(), e.Coordinate, tolerance)
		if !ok {
			continue
		}
		feature.SetGeometry(next)
		m.Dispatch(Event{Type: EventModifyEnd, Feature: feature, Pointer: e})
		return false
	}
	return true
}

func removeVertex(geometry Geometry, at r2.Vec, tolerance float64) (Geometry, bool) {
	switch g := geometry.(type) {
	case LineString:
		idx := nearestVertex(g.Coords, at, tolerance)
		if idx < 0 || len(g.Coords) <= 2 {
			return nil, false
		}
		return NewLineString(slices.Delete(slices.Clone(g.Coords), idx, idx+1)...), true
	case Polygon:
		if len(g.Rings) == 0 {
			return nil, false
		}
		ring := g.Rings[0]
		closed := len(ring) > 1 && ring[0] == ring[len(ring)-1]
		open := ring
		if closed {
			open = ring[:len(ring)-1]
		}
		idx := nearestVertex(open, at, tolerance)
		if idx < 0 || len(open) <= 3 {
			return nil, false
		}
		next := slices.Delete(slices.Clone(open), idx, idx+1)
		if closed {
			next = append(next, next[0])
		}
		rings := slices.Clone(g.Rings)
		rings[0] = next
		return Polygon{Rings: rings}, true
	}
	return nil, false
}

func nearestVertex(coords []r2.Vec, at r2.Vec, tolerance float64) int {
	best, bestDist := -1, math.Inf(1)
	for i, c := range coords {
		if d := r2.Norm(r2.Sub(c, at)); d <= tolerance && d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// TranslateOptions configures a Translate interaction.
type TranslateOptions struct {
	Source FeatureSource
	// PixelTolerance is the hit radius in pixels. Defaults to 5.
	PixelTolerance float64
}

// Translate drags whole features.
type Translate struct {
	BaseInteraction
	options  TranslateOptions
	dragging *Feature
	last     r2.Vec
}

// NewTranslate returns an active translate interaction.
func NewTranslate(options TranslateOptions) *Translate {
	if options.PixelTolerance <= 0 {
		options.PixelTolerance = 5
	}
	t := &Translate{options: options}
	t.init(t)
	return t
}

func (t *Translate) HandleEvent(e *PointerEvent) bool {
	if !t.Active() || e == nil || t.options.Source == nil {
		return true
	}
	switch e.Type {
	case PointerDown:
		tolerance := t.options.PixelTolerance * resolutionOf(e)
		for _, feature := range slices.Backward(t.options.Source.Features()) {
			if hit(feature.Extent(), e.Coordinate, tolerance) {
				t.dragging = feature
				t.last = e.Coordinate
				t.Dispatch(Event{Type: EventTranslateStart, Feature: feature, Pointer: e})
				return false
			}
		}
	case PointerDrag:
		if t.dragging == nil {
			return true
		}
		delta := r2.Sub(e.Coordinate, t.last)
		t.last = e.Coordinate
		t.dragging.SetGeometry(TranslateGeometry(t.dragging.Geometry(), delta))
		return false
	case PointerUp:
		if t.dragging == nil {
			return true
		}
		feature := t.dragging
		t.dragging = nil
		t.Dispatch(Event{Type: EventTranslateEnd, Feature: feature, Pointer: e})
		return false
	}
	return true
}

// SnapOptions configures a Snap interaction.
type SnapOptions struct {
	Source FeatureSource
	// PixelTolerance is the snap radius in pixels. Defaults to 10.
	PixelTolerance float64
}

// Snap moves pointer coordinates onto nearby vertices. It must be added after
// the interactions it serves so it sees events first.
type Snap struct {
	BaseInteraction
	options SnapOptions
}

// NewSnap returns an active snap interaction.
func NewSnap(options SnapOptions) *Snap {
	if options.PixelTolerance <= 0 {
		options.PixelTolerance = 10
	}
	s := &Snap{options: options}
	s.init(s)
	return s
}

func (s *Snap) HandleEvent(e *PointerEvent) bool {
	if !s.Active() || e == nil || s.options.Source == nil {
		return true
	}
	tolerance := s.options.PixelTolerance * resolutionOf(e)
	best, bestDist := e.Coordinate, math.Inf(1)
	for _, feature := range s.options.Source.Features() {
		for _, v := range vertices(feature.Geometry()) {
			if d := r2.Norm(r2.Sub(v, e.Coordinate)); d <= tolerance && d < bestDist {
				best, bestDist = v, d
			}
		}
	}
	e.Coordinate = best
	return true
}

// TranslateGeometry returns geometry moved by delta.
func TranslateGeometry(geometry Geometry, delta r2.Vec) Geometry {
	move := func(coords []r2.Vec) []r2.Vec {
		out := make([]r2.Vec, len(coords))
		for i, c := range coords {
			out[i] = r2.Add(c, delta)
		}
		return out
	}
	switch g := geometry.(type) {
	case Point:
		return Point{Coord: r2.Add(g.Coord, delta)}
	case LineString:
		return LineString{Coords: move(g.Coords)}
	case Polygon:
		rings := make([][]r2.Vec, len(g.Rings))
		for i, ring := range g.Rings {
			rings[i] = move(ring)
		}
		return Polygon{Rings: rings}
	case Circle:
		return Circle{Center: r2.Add(g.Center, delta), Radius: g.Radius}
	}
	return geometry
}

func vertices(geometry Geometry) []r2.Vec {
	switch g := geometry.(type) {
	case Point:
		return []r2.Vec{g.Coord}
	case LineString:
		return g.Coords
	case Polygon:
		var out []r2.Vec
		for _, ring := range g.Rings {
			out = append(out, ring...)
		}
		return out
	case Circle:
		return []r2.Vec{g.Center}
	}
	return nil
}

func hit(extent Extent, at r2.Vec, tolerance float64) bool {
	if extent.IsEmpty() {
		return false
	}
	return at.X >= extent.Min.X-tolerance && at.X <= extent.Max.X+tolerance &&
		at.Y >= extent.Min.Y-tolerance && at.Y <= extent.Max.Y+tolerance
}

func resolutionOf(e *PointerEvent) float64 {
	if e == nil || e.Map == nil || e.Map.View() == nil {
		return 1
	}
	if res, ok := e.Map.View().Resolution(); ok {
		return res
	}
	return 1
}
