// Package records holds the in-memory record collections backing each list
// page. Every mutation builds a new slice and swaps it in whole, so a snapshot
// handed out earlier is never modified.
package records

import (
	"fmt"
	"sync"

	"github.com/casetrail/casetrail/internal/platform/httpx"
)

var (
	// ErrNotFound indicates no record carries the requested id.
	ErrNotFound = fmt.Errorf("records: %w", httpx.ErrNotFound)
	// ErrDuplicateID indicates an id already present in the collection.
	ErrDuplicateID = fmt.Errorf("records: %w", httpx.ErrDuplicate)
)

// Identified is implemented by every record type.
type Identified interface {
	RecordID() string
}

// Collection is an ordered, concurrency-safe set of records keyed by id.
type Collection[T Identified] struct {
	mu    sync.RWMutex
	items []T
}

// NewCollection seeds a collection. Duplicate ids in seed are rejected.
func NewCollection[T Identified](seed []T) (*Collection[T], error) {
	seen := make(map[string]struct{}, len(seed))
	items := make([]T, 0, len(seed))
	for _, item := range seed {
		id := item.RecordID()
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
		items = append(items, item)
	}
	return &Collection[T]{items: items}, nil
}

// MustCollection is NewCollection for hard-coded seed data.
func MustCollection[T Identified](seed []T) *Collection[T] {
	c, err := NewCollection(seed)
	if err != nil {
		panic(err)
	}
	return c
}

// Snapshot returns the current slice. Callers must treat it as read-only.
func (c *Collection[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Get returns the record with id.
func (c *Collection[T]) Get(id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.RecordID() == id {
			return item, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Prepend inserts item at the front, the position new records take on every page.
func (c *Collection[T]) Prepend(item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := item.RecordID()
	for _, existing := range c.items {
		if existing.RecordID() == id {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
	}
	next := make([]T, 0, len(c.items)+1)
	next = append(next, item)
	next = append(next, c.items...)
	c.items = next
	return nil
}

// Update replaces the record with id by the result of fn. The id must stay
// the same. When fn fails the collection is left untouched.
func (c *Collection[T]) Update(id string, fn func(T) (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	idx := -1
	for i, item := range c.items {
		if item.RecordID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return zero, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	updated, err := fn(c.items[idx])
	if err != nil {
		return zero, err
	}
	if updated.RecordID() != id {
		return zero, fmt.Errorf("records: update changed id %s to %s", id, updated.RecordID())
	}
	next := make([]T, len(c.items))
	copy(next, c.items)
	next[idx] = updated
	c.items = next
	return updated, nil
}

// Filter returns the records for which keep reports true, in order.
func (c *Collection[T]) Filter(keep func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []T
	for _, item := range c.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
