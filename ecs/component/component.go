package component

import "sync/atomic"

// ID identifies a component kind at runtime.
type ID uint32

var nextID atomic.Uint32

// Kind is a typed component identifier. Declare one package-level kind per
// component type; storage and lookups key off it.
type Kind[T any] struct {
	id ID
}

// NewKind allocates a fresh component kind.
func NewKind[T any]() Kind[T] {
	return Kind[T]{id: ID(nextID.Add(1))}
}

func (k Kind[T]) ID() ID {
	return k.id
}

func (k Kind[T]) Valid() bool {
	return k.id != 0
}

// EntityRef is a non-owning reference to another entity, stored as the raw
// handle value. Holders must look it up in the world and tolerate the
// referenced entity being gone.
type EntityRef uint64
