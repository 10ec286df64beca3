// Package interaction registers pointer tools on a canvas and keeps at most
// one tool active per tool group.
package interaction

import (
	"reflect"

	canvas "github.com/goliatone/go-canvas"
	"github.com/goliatone/go-canvas/engine"
	"github.com/goliatone/go-canvas/pkg/activity"
)

// Interaction property keys and the standard draw group.
const (
	UIDKey            = "olcInteractionDrawUid"
	GroupKey          = "olcInteractionDrawGroup"
	StandardDrawGroup = "olcStandardDraw"
)

// FullUID is the uid stamped on a tool registered as uid.
func FullUID(uid string) string {
	return UIDKey + "-" + uid
}

// Arbiter owns the tools of one group on a canvas.
type Arbiter struct {
	c     *canvas.Canvas
	group string
}

// NewArbiter returns the arbiter of group, StandardDrawGroup when empty. Two
// arbiters over the same canvas and group see the same tools.
func NewArbiter(c *canvas.Canvas, group string) *Arbiter {
	if c == nil {
		c = canvas.NewBlank()
	}
	if group == "" {
		group = StandardDrawGroup
	}
	return &Arbiter{c: c, group: group}
}

// Group returns the tool group.
func (a *Arbiter) Group() string {
	return a.group
}

// Find returns the tool registered as uid, whatever its group.
func (a *Arbiter) Find(uid string) (engine.Interaction, bool) {
	if uid == "" {
		return nil, false
	}
	full := FullUID(uid)
	for _, tool := range a.c.Map().Interactions().Items() {
		if tool.Get(UIDKey) == full {
			return tool, true
		}
	}
	return nil, false
}

// Register attaches tool inactive, tagged with the group and uid. When a tool
// is already registered as uid, that tool is returned instead and the result
// carries ReasonDuplicateID.
func (a *Arbiter) Register(tool engine.Interaction, uid string) (engine.Interaction, canvas.Result) {
	d := a.diagnostic("register", uid)
	switch {
	case uid == "":
		d.Reason = canvas.ReasonEmptyID
		return nil, a.c.Reject(d)
	case isNil(tool):
		d.Reason = canvas.ReasonNilValue
		return nil, a.c.Reject(d)
	}
	if existing, ok := a.Find(uid); ok {
		d.Reason = canvas.ReasonDuplicateID
		d.Severity = canvas.SeverityDebug
		d.Message = "reusing registered tool"
		a.c.Log(d)
		return existing, canvas.Rejected(canvas.ReasonDuplicateID)
	}
	tool.Set(GroupKey, a.group)
	tool.Set(UIDKey, FullUID(uid))
	tool.SetActive(false)
	a.c.Map().AddInteraction(tool)
	a.record(activity.VerbToolRegistered, tool)
	return tool, canvas.Applied()
}

// Tools returns the tools of the group in map order.
func (a *Arbiter) Tools() []engine.Interaction {
	var tools []engine.Interaction
	for _, tool := range a.c.Map().Interactions().Items() {
		if tool.Get(GroupKey) == a.group {
			tools = append(tools, tool)
		}
	}
	return tools
}

// Active returns the active tool of the group.
func (a *Arbiter) Active() (engine.Interaction, bool) {
	for _, tool := range a.Tools() {
		if tool.Active() {
			return tool, true
		}
	}
	return nil, false
}

// Activate deactivates every other tool of the group, then activates tool.
func (a *Arbiter) Activate(tool engine.Interaction) canvas.Result {
	if res, ok := a.check("activate", tool); !ok {
		return res
	}
	for _, other := range a.Tools() {
		if other != tool {
			other.SetActive(false)
		}
	}
	tool.SetActive(true)
	a.record(activity.VerbToolActivated, tool)
	return canvas.Applied()
}

// Deactivate deactivates tool without touching the rest of the group.
func (a *Arbiter) Deactivate(tool engine.Interaction) canvas.Result {
	if res, ok := a.check("deactivate", tool); !ok {
		return res
	}
	tool.SetActive(false)
	a.record(activity.VerbToolDeactivated, tool)
	return canvas.Applied()
}

// Remove detaches tool from the map.
func (a *Arbiter) Remove(tool engine.Interaction) canvas.Result {
	if res, ok := a.check("remove", tool); !ok {
		return res
	}
	a.c.Map().RemoveInteraction(tool)
	a.record(activity.VerbToolRemoved, tool)
	return canvas.Applied()
}

func (a *Arbiter) check(op string, tool engine.Interaction) (canvas.Result, bool) {
	if isNil(tool) {
		d := a.diagnostic(op, "")
		d.Reason = canvas.ReasonNilValue
		return a.c.Reject(d), false
	}
	uid, _ := tool.Get(UIDKey).(string)
	if tool.Get(GroupKey) != a.group || !a.c.Map().Interactions().Contains(tool) {
		d := a.diagnostic(op, uid)
		d.Reason = canvas.ReasonNotFound
		return a.c.Reject(d), false
	}
	return canvas.Result{}, true
}

func (a *Arbiter) diagnostic(op, target string) canvas.Diagnostic {
	return canvas.Diagnostic{Component: "interaction", Op: op, Scope: a.group, Target: target}
}

func (a *Arbiter) record(verb string, tool engine.Interaction) {
	uid, _ := tool.Get(UIDKey).(string)
	a.c.Record(activity.BuildToolEvent(verb, activity.CanvasEventInput{Scope: a.group, Target: uid}))
}

func isNil(tool engine.Interaction) bool {
	if tool == nil {
		return true
	}
	v := reflect.ValueOf(tool)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
