package engine

import "slices"

// Collection is an ordered, observable list. It dispatches EventAdd and
// EventRemove with the affected item in Event.Element.
type Collection[T comparable] struct {
	Observable
	items []T
}

// NewCollection returns a collection holding items in the given order.
func NewCollection[T comparable](items ...T) *Collection[T] {
	c := &Collection[T]{items: slices.Clone(items)}
	c.bind(c)
	return c
}

// Len returns the number of items.
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// At returns the item at index i.
func (c *Collection[T]) At(i int) T {
	return c.items[i]
}

// Items returns a copy of the items in order.
func (c *Collection[T]) Items() []T {
	return slices.Clone(c.items)
}

// IndexOf returns the index of item or -1.
func (c *Collection[T]) IndexOf(item T) int {
	return slices.Index(c.items, item)
}

// Contains reports whether item is in the collection.
func (c *Collection[T]) Contains(item T) bool {
	return c.IndexOf(item) >= 0
}

// InsertAt inserts item at index, clamping index into [0, Len()].
func (c *Collection[T]) InsertAt(index int, item T) {
	index = max(0, min(index, len(c.items)))
	c.items = slices.Insert(c.items, index, item)
	c.Dispatch(Event{Type: EventAdd, Element: item})
}

// Push appends item.
func (c *Collection[T]) Push(item T) {
	c.InsertAt(len(c.items), item)
}

// Remove deletes the first occurrence of item and reports whether it was found.
func (c *Collection[T]) Remove(item T) bool {
	idx := c.IndexOf(item)
	if idx < 0 {
		return false
	}
	c.RemoveAt(idx)
	return true
}

// RemoveAt deletes the item at index.
func (c *Collection[T]) RemoveAt(index int) T {
	item := c.items[index]
	c.items = slices.Delete(c.items, index, index+1)
	c.Dispatch(Event{Type: EventRemove, Element: item})
	return item
}

// Clear removes every item, dispatching one EventRemove per item.
func (c *Collection[T]) Clear() {
	for len(c.items) > 0 {
		c.RemoveAt(len(c.items) - 1)
	}
}
