// Package history keeps a bounded undo/redo history of immutable snapshots.
//
// A History is not safe for concurrent use; callers serialize access. Snapshots
// handed to it must not be mutated afterwards.
package history

import "reflect"

// DefaultLimit is the number of undo steps kept when no limit is configured.
const DefaultLimit = 50

// History holds past, present and future snapshots of type T.
// past is ordered oldest..newest; future is ordered nearest..farthest.
type History[T any] struct {
	past    []T
	present T
	future  []T
	limit   int
	equal   func(a, b T) bool
}

// Option configures a History.
type Option[T any] func(*History[T])

// WithLimit bounds the number of undo steps. Values below 1 keep DefaultLimit.
func WithLimit[T any](n int) Option[T] {
	return func(h *History[T]) {
		if n > 0 {
			h.limit = n
		}
	}
}

// WithEqual sets the equality used to detect no-op updates.
func WithEqual[T any](eq func(a, b T) bool) Option[T] {
	return func(h *History[T]) {
		if eq != nil {
			h.equal = eq
		}
	}
}

// New creates a History whose present is initial and whose past and future
// are empty.
func New[T any](initial T, opts ...Option[T]) *History[T] {
	h := &History[T]{
		present: initial,
		limit:   DefaultLimit,
		equal:   func(a, b T) bool { return reflect.DeepEqual(a, b) },
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Present returns the current snapshot.
func (h *History[T]) Present() T { return h.present }

// SetState replaces the present with next. With record false the present is
// swapped in place and past/future are untouched. With record true, next
// equal to the present is a no-op; otherwise the old present becomes the
// newest undo step and the redo stack is cleared. It reports whether
// anything changed.
func (h *History[T]) SetState(next T, record bool) bool {
	if !record {
		h.present = next
		return true
	}
	if h.equal(h.present, next) {
		return false
	}
	h.past = pushBounded(h.past, h.present, h.limit)
	h.present = next
	h.future = nil
	return true
}

// SetStateFunc is SetState with next computed from the present.
func (h *History[T]) SetStateFunc(fn func(prev T) T, record bool) bool {
	return h.SetState(fn(h.present), record)
}

// Undo moves the newest past snapshot into the present and pushes the old
// present onto the head of the future. It reports false when there is
// nothing to undo.
func (h *History[T]) Undo() bool {
	if len(h.past) == 0 {
		return false
	}
	last := len(h.past) - 1
	prev := h.past[last]
	h.past = h.past[:last:last]
	h.future = prepend(h.future, h.present)
	h.present = prev
	return true
}

// Redo is the mirror of Undo.
func (h *History[T]) Redo() bool {
	if len(h.future) == 0 {
		return false
	}
	next := h.future[0]
	h.future = h.future[1:]
	h.past = pushBounded(h.past, h.present, h.limit)
	h.present = next
	return true
}

// Clear drops every undo and redo step, keeping the present.
func (h *History[T]) Clear() {
	h.past = nil
	h.future = nil
}

func (h *History[T]) CanUndo() bool { return len(h.past) > 0 }
func (h *History[T]) CanRedo() bool { return len(h.future) > 0 }

// Past returns a copy of the undo stack, oldest first.
func (h *History[T]) Past() []T { return append([]T(nil), h.past...) }

// Future returns a copy of the redo stack, nearest first.
func (h *History[T]) Future() []T { return append([]T(nil), h.future...) }

// Len returns the number of undo steps available.
func (h *History[T]) Len() int { return len(h.past) }

// Limit returns the configured undo depth.
func (h *History[T]) Limit() int { return h.limit }

func pushBounded[T any](stack []T, v T, limit int) []T {
	stack = append(stack, v)
	if over := len(stack) - limit; over > 0 {
		stack = append([]T(nil), stack[over:]...)
	}
	return stack
}

func prepend[T any](stack []T, v T) []T {
	out := make([]T, 0, len(stack)+1)
	out = append(out, v)
	return append(out, stack...)
}
