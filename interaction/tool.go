package interaction

import (
	"fmt"

	canvas "github.com/goliatone/go-canvas"
	"github.com/goliatone/go-canvas/engine"
	"github.com/goliatone/go-canvas/pkg/activity"
	"github.com/google/uuid"
)

// Tool wraps one interaction attached to a canvas. Tools built with a tool
// group are arbitrated: SetActive(true) deactivates the rest of the group.
// A destroyed Tool must not be used again.
type Tool[T engine.Interaction] struct {
	c       *canvas.Canvas
	uid     string
	tool    T
	arbiter *Arbiter
}

// Draw is a draw tool of the standard draw group.
type Draw = Tool[*engine.Draw]

// Modify edits vertices of a source.
type Modify = Tool[*engine.Modify]

// Translate drags features of a source.
type Translate = Tool[*engine.Translate]

// Snap snaps pointer coordinates onto vertices of a source.
type Snap = Tool[*engine.Snap]

// ToolOption configures Modify, Translate and Snap tools.
type ToolOption func(*toolConfig)

type toolConfig struct {
	group string
	uid   string
}

// WithToolGroup arbitrates the tool within group. Arbitrated tools start
// inactive.
func WithToolGroup(group string) ToolOption {
	return func(cfg *toolConfig) {
		cfg.group = group
	}
}

// WithUID registers an arbitrated tool under uid, reusing a tool already
// registered with it. Without it a random uid is used.
func WithUID(uid string) ToolOption {
	return func(cfg *toolConfig) {
		cfg.uid = uid
	}
}

// NewDraw registers a draw tool as uid in the standard draw group, or reuses
// the one registered earlier under the same uid, in which case options are
// ignored. The tool starts inactive.
func NewDraw(c *canvas.Canvas, uid string, options engine.DrawOptions) (*Draw, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: draw tool", canvas.ErrEmptyID)
	}
	arbiter := NewArbiter(c, StandardDrawGroup)
	tool, err := registerOrReuse(arbiter, uid, func() *engine.Draw {
		return engine.NewDraw(options)
	})
	if err != nil {
		return nil, err
	}
	return &Draw{c: arbiter.c, uid: uid, tool: tool, arbiter: arbiter}, nil
}

// NewModify adds a modify tool.
func NewModify(c *canvas.Canvas, options engine.ModifyOptions, opts ...ToolOption) (*Modify, error) {
	return newTool(c, opts, func() *engine.Modify { return engine.NewModify(options) })
}

// NewTranslate adds a translate tool.
func NewTranslate(c *canvas.Canvas, options engine.TranslateOptions, opts ...ToolOption) (*Translate, error) {
	return newTool(c, opts, func() *engine.Translate { return engine.NewTranslate(options) })
}

// NewSnap adds a snap tool. Add it after the tools it serves.
func NewSnap(c *canvas.Canvas, options engine.SnapOptions, opts ...ToolOption) (*Snap, error) {
	return newTool(c, opts, func() *engine.Snap { return engine.NewSnap(options) })
}

func newTool[T engine.Interaction](c *canvas.Canvas, opts []ToolOption, build func() T) (*Tool[T], error) {
	if c == nil {
		c = canvas.NewBlank()
	}
	cfg := toolConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.group == "" {
		tool := build()
		c.Map().AddInteraction(tool)
		return &Tool[T]{c: c, tool: tool}, nil
	}
	if cfg.uid == "" {
		cfg.uid = uuid.NewString()
	}
	arbiter := NewArbiter(c, cfg.group)
	tool, err := registerOrReuse(arbiter, cfg.uid, build)
	if err != nil {
		return nil, err
	}
	return &Tool[T]{c: c, uid: cfg.uid, tool: tool, arbiter: arbiter}, nil
}

func registerOrReuse[T engine.Interaction](a *Arbiter, uid string, build func() T) (T, error) {
	var zero T
	if existing, ok := a.Find(uid); ok {
		tool, ok := existing.(T)
		if !ok {
			return zero, fmt.Errorf("%w: %s is a %T", canvas.ErrDuplicateID, FullUID(uid), existing)
		}
		return tool, nil
	}
	tool := build()
	if _, res := a.Register(tool, uid); !res.Applied {
		return zero, res.Err()
	}
	return tool, nil
}

// UID returns the uid the tool was registered with, empty for tools outside
// any group.
func (t *Tool[T]) UID() string {
	return t.uid
}

// Interaction returns the wrapped engine interaction.
func (t *Tool[T]) Interaction() T {
	return t.tool
}

// Active reports whether the tool reacts to events.
func (t *Tool[T]) Active() bool {
	return t.tool.Active()
}

// SetActive activates the tool, deactivating the rest of its group, or
// deactivates it.
func (t *Tool[T]) SetActive(active bool) canvas.Result {
	if t.arbiter == nil {
		t.tool.SetActive(active)
		return canvas.Applied()
	}
	if active {
		return t.arbiter.Activate(t.tool)
	}
	return t.arbiter.Deactivate(t.tool)
}

// Destroy detaches the tool from the map.
func (t *Tool[T]) Destroy() {
	if t.arbiter != nil {
		t.arbiter.Remove(t.tool)
		return
	}
	if t.c.Map().RemoveInteraction(t.tool) {
		t.c.Record(activity.BuildToolEvent(activity.VerbToolRemoved, activity.CanvasEventInput{
			Target: fmt.Sprintf("%T", t.tool),
		}))
	}
}
