package hir

import (
	"encoding/binary"
	"fmt"
)

// ID identifies one occurrence in the mapping table. IDs are never reused
// and never deduplicated. The zero ID is absent.
type ID uint32

const NoID ID = 0

func (id ID) IsValid() bool { return id != NoID }

func (id ID) String() string { return fmt.Sprintf("#%d", uint32(id)) }

// Ref is a handle to an interned value of type T. Equal refs from the same
// arena mean equal values. The zero Ref is absent.
type Ref[T any] uint32

func (r Ref[T]) IsValid() bool { return r != 0 }

// ListRef is a handle to an interned sequence of Ref[T].
type ListRef[T any] uint32

func (r ListRef[T]) IsValid() bool { return r != 0 }

// Arena hash-conses values of T. T must be comparable all the way down, so
// values hold refs, not slices or pointers.
type Arena[T comparable] struct {
	values []T
	index  map[T]Ref[T]
}

func NewArena[T comparable]() *Arena[T] {
	var zero T
	return &Arena[T]{
		values: []T{zero},
		index:  make(map[T]Ref[T]),
	}
}

// Intern returns the handle for v, storing it the first time it is seen.
func (a *Arena[T]) Intern(v T) Ref[T] {
	if ref, ok := a.index[v]; ok {
		return ref
	}
	ref := Ref[T](len(a.values))
	a.values = append(a.values, v)
	a.index[v] = ref
	return ref
}

// Get returns the value behind ref. Absent or foreign refs yield false.
func (a *Arena[T]) Get(ref Ref[T]) (T, bool) {
	if ref == 0 || int(ref) >= len(a.values) {
		var zero T
		return zero, false
	}
	return a.values[ref], true
}

// Len is the number of distinct values interned.
func (a *Arena[T]) Len() int { return len(a.values) - 1 }

// ListArena hash-conses sequences of handles. The empty sequence is
// interned once at construction.
type ListArena[T any] struct {
	lists [][]Ref[T]
	index map[string]ListRef[T]
	empty ListRef[T]
}

func NewListArena[T any]() *ListArena[T] {
	a := &ListArena[T]{
		lists: [][]Ref[T]{nil},
		index: make(map[string]ListRef[T]),
	}
	a.empty = a.Intern(nil)
	return a
}

// Empty is the shared handle for the empty sequence.
func (a *ListArena[T]) Empty() ListRef[T] { return a.empty }

func (a *ListArena[T]) Intern(elems []Ref[T]) ListRef[T] {
	if len(elems) == 0 && a.empty != 0 {
		return a.empty
	}
	key := listKey(elems)
	if ref, ok := a.index[key]; ok {
		return ref
	}
	ref := ListRef[T](len(a.lists))
	a.lists = append(a.lists, append([]Ref[T](nil), elems...))
	a.index[key] = ref
	return ref
}

// Get returns the elements behind ref. Callers must not modify them.
func (a *ListArena[T]) Get(ref ListRef[T]) []Ref[T] {
	if ref == 0 || int(ref) >= len(a.lists) {
		return nil
	}
	return a.lists[ref]
}

func (a *ListArena[T]) Len() int { return len(a.lists) - 1 }

func listKey[T any](elems []Ref[T]) string {
	buf := make([]byte, 4*len(elems))
	for i, e := range elems {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(e))
	}
	return string(buf)
}
