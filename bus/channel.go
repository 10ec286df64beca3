// Package bus provides per-scope broadcast channels with synchronous,
// failure-isolated delivery.
package bus

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Handler receives published values.
type Handler[T any] func(T)

// DeliveryError wraps a panic recovered from one subscriber.
type DeliveryError struct {
	Channel      string
	Subscription string
	Recovered    any
}

func (e *DeliveryError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if err, ok := e.Recovered.(error); ok {
		return fmt.Sprintf("bus: subscriber %s on %s panicked: %v", e.Subscription, e.Channel, err)
	}
	return fmt.Sprintf("bus: subscriber %s on %s panicked: %v", e.Subscription, e.Channel, e.Recovered)
}

func (e *DeliveryError) Unwrap() error {
	if e == nil {
		return nil
	}
	if err, ok := e.Recovered.(error); ok {
		return err
	}
	return nil
}

type subscriber[T any] struct {
	id      string
	handler Handler[T]
}

// Channel broadcasts values of type T to its subscribers in subscription
// order.
type Channel[T any] struct {
	name    string
	mu      sync.Mutex
	subs    []subscriber[T]
	onError func(error)
}

// NewChannel returns a standalone channel. Channels shared across stores are
// obtained through GetOrCreate.
func NewChannel[T any](name string) *Channel[T] {
	return &Channel[T]{name: name}
}

// Name returns the channel name.
func (c *Channel[T]) Name() string {
	return c.name
}

// Len returns the number of subscribers.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Subscribe registers fn. A nil fn yields an inert subscription.
func (c *Channel[T]) Subscribe(fn Handler[T]) *Subscription {
	if fn == nil {
		return &Subscription{}
	}
	id := uuid.NewString()
	c.mu.Lock()
	next := slices.Clone(c.subs)
	c.subs = append(next, subscriber[T]{id: id, handler: fn})
	c.mu.Unlock()
	return &Subscription{id: id, cancel: func() { c.remove(id) }}
}

func (c *Channel[T]) remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := slices.IndexFunc(c.subs, func(s subscriber[T]) bool { return s.id == id })
	if idx < 0 {
		return
	}
	c.subs = slices.Delete(slices.Clone(c.subs), idx, idx+1)
}

// Publish delivers v synchronously to every current subscriber. A panicking
// subscriber does not stop delivery; recovered panics are joined into the
// returned error.
func (c *Channel[T]) Publish(v T) error {
	c.mu.Lock()
	subs := c.subs
	onError := c.onError
	c.mu.Unlock()

	var errs []error
	for _, sub := range subs {
		if err := c.deliver(sub, v); err != nil {
			errs = append(errs, err)
		}
	}
	err := errors.Join(errs...)
	if err != nil && onError != nil {
		onError(err)
	}
	return err
}

func (c *Channel[T]) deliver(sub subscriber[T], v T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DeliveryError{Channel: c.name, Subscription: sub.id, Recovered: r}
		}
	}()
	sub.handler(v)
	return nil
}

// Subscription is the disposable handle returned by Subscribe.
type Subscription struct {
	id     string
	once   sync.Once
	cancel func()
}

// ID returns the subscription identifier, empty for inert subscriptions.
func (s *Subscription) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// Unsubscribe stops delivery. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.cancel == nil {
		return
	}
	s.once.Do(s.cancel)
}
