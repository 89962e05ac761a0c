package ast

import "github.com/estreegen/jsparse/internal/arena"

// Loc wraps any payload with byte offsets into the original source. It is
// the location-tagged node wrapper every Expression, Statement and
// ObjectMember is carried in.
type Loc[T any] struct {
	Start uint32
	End   uint32
	Item  T
}

// At builds a Loc from a byte range and a payload.
func At[T any](start, end uint32, item T) Loc[T] {
	return Loc[T]{Start: start, End: end, Item: item}
}

type listCell[T any] struct {
	value T
	next  *listCell[T]
}

// List is a singly linked, arena-resident, ordered sequence. The zero value
// is the empty list.
type List[T any] struct {
	head *listCell[T]
	len  int
}

// EmptyList returns the canonical empty list.
func EmptyList[T any]() List[T] {
	return List[T]{}
}

// Len reports the number of elements.
func (l List[T]) Len() int { return l.len }

// IsEmpty reports whether the list has no elements.
func (l List[T]) IsEmpty() bool { return l.head == nil }

// OnlyElement returns the sole element and true when Len() == 1, otherwise
// the zero value and false.
func (l List[T]) OnlyElement() (T, bool) {
	if l.len == 1 {
		return l.head.value, true
	}
	var zero T
	return zero, false
}

// ToSlice materializes the list into a slice, in order, for callers that
// want random access.
func (l List[T]) ToSlice() []T {
	out := make([]T, 0, l.len)
	for c, i := l.head, 0; i < l.len; c, i = c.next, i+1 {
		out = append(out, c.value)
	}
	return out
}

// Each walks the list in order.
func (l List[T]) Each(fn func(T)) {
	for c, i := l.head, 0; i < l.len; c, i = c.next, i+1 {
		fn(c.value)
	}
}

// ListBuilder amortizes O(1) appends into a List, allocating each cell out
// of an Arena so the list is freed alongside the rest of the tree.
type ListBuilder[T any] struct {
	arena      *arena.Arena
	head, tail *listCell[T]
	len        int
}

// NewListBuilder returns a builder backed by a.
func NewListBuilder[T any](a *arena.Arena) *ListBuilder[T] {
	return &ListBuilder[T]{arena: a}
}

// Push appends v in O(1).
func (b *ListBuilder[T]) Push(v T) {
	cell := arena.Alloc(b.arena, listCell[T]{value: v})
	if b.tail == nil {
		b.head = cell
	} else {
		b.tail.next = cell
	}
	b.tail = cell
	b.len++
}

// Len reports how many elements have been pushed so far.
func (b *ListBuilder[T]) Len() int { return b.len }

// IntoList freezes the builder into a List. The builder may keep being used
// afterwards; it will simply keep extending the same backing chain, and the
// previously returned List remains valid (lists share structure, not a
// cursor).
func (b *ListBuilder[T]) IntoList() List[T] {
	return List[T]{head: b.head, len: b.len}
}
