package condition

import (
	"maps"

	"github.com/goliatone/go-canvas/engine"
)

// KeyListener tracks whether one key is held on a map.
type KeyListener struct {
	key  string
	down bool
	keys []engine.ListenerKey
}

// ListenKey starts tracking key through the map keydown and keyup events.
func ListenKey(m *engine.Map, key string) *KeyListener {
	l := &KeyListener{key: key}
	if m == nil {
		return l
	}
	l.keys = append(l.keys,
		m.On(engine.EventKeyDown, func(evt engine.Event) {
			if evt.Key == l.key {
				l.down = true
			}
		}),
		m.On(engine.EventKeyUp, func(evt engine.Event) {
			if evt.Key == l.key {
				l.down = false
			}
		}),
	)
	return l
}

// Key returns the tracked key.
func (l *KeyListener) Key() string {
	return l.key
}

// IsDown reports whether the key is currently held.
func (l *KeyListener) IsDown() bool {
	return l.down
}

// Condition holds while the key is held, whatever the event.
func (l *KeyListener) Condition() engine.Condition {
	return func(*engine.PointerEvent) bool {
		return l.down
	}
}

// Destroy stops tracking and forgets the key state.
func (l *KeyListener) Destroy() {
	engine.Unlisten(l.keys...)
	l.keys = nil
	l.down = false
}

// KeyState tracks every held key of a map.
type KeyState struct {
	held map[string]bool
	keys []engine.ListenerKey
}

// TrackKeys starts tracking all keys of m.
func TrackKeys(m *engine.Map) *KeyState {
	s := &KeyState{held: map[string]bool{}}
	if m == nil {
		return s
	}
	s.keys = append(s.keys,
		m.On(engine.EventKeyDown, func(evt engine.Event) { s.held[evt.Key] = true }),
		m.On(engine.EventKeyUp, func(evt engine.Event) { delete(s.held, evt.Key) }),
	)
	return s
}

// Held returns a copy of the held keys.
func (s *KeyState) Held() map[string]bool {
	if s == nil {
		return map[string]bool{}
	}
	return maps.Clone(s.held)
}

// Destroy stops tracking.
func (s *KeyState) Destroy() {
	engine.Unlisten(s.keys...)
	s.keys = nil
	clear(s.held)
}
