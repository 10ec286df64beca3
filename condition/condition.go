// Package condition composes the pointer predicates that gate interactive
// tools: boolean combinators, key state, deferred side effects and
// expression-backed conditions.
package condition

import "github.com/goliatone/go-canvas/engine"

// Func adapts fn to an engine condition. A nil fn never holds.
func Func(fn func(*engine.PointerEvent) bool) engine.Condition {
	if fn == nil {
		return engine.Never
	}
	return engine.Condition(fn)
}

// All holds when every condition holds. It stops at the first failure, so
// later conditions are not evaluated. All of nothing holds.
func All(conditions ...engine.Condition) engine.Condition {
	return func(e *engine.PointerEvent) bool {
		for _, cond := range conditions {
			if cond != nil && !cond(e) {
				return false
			}
		}
		return true
	}
}

// Any holds when at least one condition holds.
func Any(conditions ...engine.Condition) engine.Condition {
	return func(e *engine.PointerEvent) bool {
		for _, cond := range conditions {
			if cond != nil && cond(e) {
				return true
			}
		}
		return false
	}
}

// Not negates cond. A nil cond is treated as never holding.
func Not(cond engine.Condition) engine.Condition {
	return func(e *engine.PointerEvent) bool {
		return cond == nil || !cond(e)
	}
}
