package interaction

import (
	canvas "github.com/goliatone/go-canvas"
	"github.com/goliatone/go-canvas/condition"
	"github.com/goliatone/go-canvas/engine"
)

// DeleteOnKey holds on primary clicks made while the listener key is held,
// and then runs callback once for the click after Config.DeleteDelay on the
// map clock. The delay lets a tool finish its own vertex edit first.
func DeleteOnKey(c *canvas.Canvas, listener *condition.KeyListener, callback func(*engine.PointerEvent)) engine.Condition {
	if c == nil || listener == nil {
		return engine.Never
	}
	return condition.Then(
		condition.All(engine.Click, listener.Condition()),
		callback,
		condition.WithDelay(c.Config().DeleteDelay),
		condition.WithScheduler(c.Map()),
	)
}
