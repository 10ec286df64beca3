package engine

import "gonum.org/v1/gonum/spatial/r2"

// Element is the rendered container of an overlay.
type Element struct {
	ZIndex  int
	Content any
}

// Overlay is a UI element anchored to a map coordinate.
type Overlay struct {
	Observable
	content  any
	position *r2.Vec
	element  *Element
	m        *Map
}

// NewOverlay returns a detached overlay showing content.
func NewOverlay(content any) *Overlay {
	o := &Overlay{content: content}
	o.bind(o)
	return o
}

// Content returns the overlay content.
func (o *Overlay) Content() any {
	return o.content
}

// SetContent replaces the content. A nil content removes the rendered
// element.
func (o *Overlay) SetContent(content any) {
	o.content = content
	o.render()
	o.Changed()
}

// Position returns the anchor coordinate, if set.
func (o *Overlay) Position() (r2.Vec, bool) {
	if o.position == nil {
		return r2.Vec{}, false
	}
	return *o.position, true
}

// SetPosition anchors the overlay at at.
func (o *Overlay) SetPosition(at r2.Vec) {
	o.position = &at
	o.Changed()
}

// Element returns the rendered container, nil while the overlay is detached or
// has no content.
func (o *Overlay) Element() *Element {
	return o.element
}

// Map returns the map the overlay is attached to.
func (o *Overlay) Map() *Map {
	return o.m
}

func (o *Overlay) setMap(m *Map) {
	o.m = m
	o.render()
}

func (o *Overlay) render() {
	if o.m == nil || o.content == nil {
		o.element = nil
		return
	}
	if o.element == nil {
		o.element = &Element{}
	}
	o.element.Content = o.content
}

// Control is a UI widget attached to the map.
type Control struct {
	Observable
	Name string
	m    *Map
}

// NewControl returns a detached control.
func NewControl(name string) *Control {
	c := &Control{Name: name}
	c.bind(c)
	return c
}

// Map returns the map the control is attached to.
func (c *Control) Map() *Map {
	return c.m
}
