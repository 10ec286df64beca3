package canvas

import (
	"github.com/goliatone/go-canvas/engine"
	"github.com/goliatone/go-canvas/pkg/activity"
)

// ControlUIDKey is the control property holding its uid.
const ControlUIDKey = "olcControlUid"

// Control returns the control registered under uid.
func (c *Canvas) Control(uid string) (*engine.Control, bool) {
	if uid == "" {
		return nil, false
	}
	for _, control := range c.m.Controls().Items() {
		if control.Get(ControlUIDKey) == uid {
			return control, true
		}
	}
	return nil, false
}

// HasControl reports whether a control is registered under uid.
func (c *Canvas) HasControl(uid string) bool {
	_, ok := c.Control(uid)
	return ok
}

// AddControl tags control with uid and attaches it, unless uid is taken.
func (c *Canvas) AddControl(uid string, control *engine.Control) Result {
	d := Diagnostic{Component: "canvas", Op: "add_control", Target: uid}
	switch {
	case uid == "":
		d.Reason = ReasonEmptyID
		return c.Reject(d)
	case control == nil:
		d.Reason = ReasonNilValue
		return c.Reject(d)
	case c.HasControl(uid):
		d.Reason = ReasonDuplicateID
		return c.Reject(d)
	}
	control.Set(ControlUIDKey, uid)
	c.m.AddControl(control)
	c.Record(activity.BuildControlEvent(activity.VerbControlAdded, activity.CanvasEventInput{Target: uid}))
	return Applied()
}
