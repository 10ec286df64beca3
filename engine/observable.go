package engine

import (
	"maps"
	"slices"

	"github.com/google/uuid"
)

// Common event types dispatched by engine objects.
const (
	EventChange         = "change"
	EventPropertyChange = "propertychange"
	EventAdd            = "add"
	EventRemove         = "remove"
	EventKeyDown        = "keydown"
	EventKeyUp          = "keyup"
	EventPostRender     = "postrender"
)

// ChangeEvent returns the event type dispatched when key changes.
func ChangeEvent(key string) string {
	return "change:" + key
}

// Event is the payload handed to listeners. Only the fields relevant to the
// event type are populated.
type Event struct {
	Type     string
	Target   any
	Key      string
	OldValue any
	Element  any
	Feature  *Feature
	Pointer  *PointerEvent
}

// Listener receives dispatched events.
type Listener func(Event)

// ListenerKey identifies one registration made through Observable.On.
type ListenerKey struct {
	target    *Observable
	eventType string
	id        string
}

// Valid reports whether the key refers to a registration.
func (k ListenerKey) Valid() bool {
	return k.target != nil && k.id != ""
}

type listenerEntry struct {
	id string
	fn Listener
}

// Observable is the property bag and event target embedded by engine objects.
type Observable struct {
	owner     any
	props     map[string]any
	listeners map[string][]listenerEntry
	revision  int
}

func (o *Observable) bind(owner any) {
	o.owner = owner
}

// Get returns the property stored under key, or nil.
func (o *Observable) Get(key string) any {
	if o.props == nil {
		return nil
	}
	return o.props[key]
}

// Set stores value under key and dispatches change events when the value
// differs from the previous one.
func (o *Observable) Set(key string, value any) {
	old, changed := o.store(key, value)
	if !changed {
		return
	}
	o.Dispatch(Event{Type: ChangeEvent(key), Key: key, OldValue: old})
	o.Dispatch(Event{Type: EventPropertyChange, Key: key, OldValue: old})
}

// SetQuiet stores value under key without dispatching any event.
func (o *Observable) SetQuiet(key string, value any) {
	o.store(key, value)
}

func (o *Observable) store(key string, value any) (any, bool) {
	if o.props == nil {
		o.props = map[string]any{}
	}
	old, exists := o.props[key]
	o.props[key] = value
	if !exists {
		return nil, true
	}
	return old, !sameValue(old, value)
}

// Properties returns a copy of every stored property.
func (o *Observable) Properties() map[string]any {
	return maps.Clone(o.props)
}

// Changed increments the revision counter and dispatches a change event.
func (o *Observable) Changed() {
	o.revision++
	o.Dispatch(Event{Type: EventChange})
}

// Revision returns the number of Changed calls so far.
func (o *Observable) Revision() int {
	return o.revision
}

// On registers fn for eventType and returns the key needed to remove it.
func (o *Observable) On(eventType string, fn Listener) ListenerKey {
	if fn == nil {
		return ListenerKey{}
	}
	if o.listeners == nil {
		o.listeners = map[string][]listenerEntry{}
	}
	id := uuid.NewString()
	next := slices.Clone(o.listeners[eventType])
	o.listeners[eventType] = append(next, listenerEntry{id: id, fn: fn})
	return ListenerKey{target: o, eventType: eventType, id: id}
}

// ListenerCount returns the listeners registered for eventType.
func (o *Observable) ListenerCount(eventType string) int {
	return len(o.listeners[eventType])
}

// Dispatch delivers evt to the listeners of evt.Type in registration order.
func (o *Observable) Dispatch(evt Event) {
	entries := o.listeners[evt.Type]
	if len(entries) == 0 {
		return
	}
	if evt.Target == nil {
		evt.Target = o.owner
	}
	for _, entry := range entries {
		entry.fn(evt)
	}
}

func (o *Observable) unlisten(eventType, id string) {
	entries := o.listeners[eventType]
	idx := slices.IndexFunc(entries, func(entry listenerEntry) bool {
		return entry.id == id
	})
	if idx < 0 {
		return
	}
	next := slices.Clone(entries)
	o.listeners[eventType] = slices.Delete(next, idx, idx+1)
}

// Unlisten removes every registration referenced by keys. Invalid or already
// removed keys are ignored.
func Unlisten(keys ...ListenerKey) {
	for _, key := range keys {
		if !key.Valid() {
			continue
		}
		key.target.unlisten(key.eventType, key.id)
	}
}

func sameValue(a, b any) bool {
	defer func() {
		_ = recover()
	}()
	return a == b
}
