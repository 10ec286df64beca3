package bus

import (
	"errors"
	"fmt"
	"sync"
)

// ErrChannelType is returned when a channel name is already bound to a
// different payload type.
var ErrChannelType = errors.New("bus: channel payload type mismatch")

// ChannelName is the deterministic name of the channel for kind in scope.
func ChannelName(kind, scope string) string {
	return kind + "-" + scope
}

// Registry holds the channels of one scope owner. Channels live as long as
// the registry.
type Registry struct {
	mu       sync.Mutex
	channels map[string]any
	onError  func(error)
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithErrorHandler receives the joined delivery errors of every channel.
func WithErrorHandler(fn func(error)) RegistryOption {
	return func(r *Registry) {
		r.onError = fn
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{channels: map[string]any{}}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Len returns the number of channels created so far.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.channels)
}

// Names returns the names of the channels created so far.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.channels))
	for name := range r.channels {
		names = append(names, name)
	}
	return names
}

// GetOrCreate returns the channel for (kind, scope), creating it on first use.
func GetOrCreate[T any](r *Registry, kind, scope string) (*Channel[T], error) {
	name := ChannelName(kind, scope)
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.channels[name]; ok {
		ch, ok := existing.(*Channel[T])
		if !ok {
			return nil, fmt.Errorf("%w: %s holds %T", ErrChannelType, name, existing)
		}
		return ch, nil
	}
	ch := NewChannel[T](name)
	ch.onError = r.onError
	r.channels[name] = ch
	return ch, nil
}
