package ecs

import (
	"errors"

	"github.com/david0178418/math-game-sub000/ecs/component"
)

var (
	ErrEntityNotAlive = errors.New("ecs: entity not alive")
	ErrNilComponent   = errors.New("ecs: component is nil")
	ErrInvalidKind    = errors.New("ecs: invalid component kind")
)

// Add attaches a component to an entity, replacing any existing value of the
// same kind.
func Add[T any](w *World, e Entity, k component.Kind[T], v *T) error {
	if !k.Valid() {
		return ErrInvalidKind
	}
	if v == nil {
		return ErrNilComponent
	}
	if w == nil || !w.IsAlive(e) {
		return ErrEntityNotAlive
	}
	w.store(k.ID()).Set(e.id(), v)
	return nil
}

// Get returns the entity's component of the given kind. The returned pointer
// aliases stored state; mutations are visible to later systems in the tick.
func Get[T any](w *World, e Entity, k component.Kind[T]) (*T, bool) {
	if w == nil || !k.Valid() || !w.IsAlive(e) {
		return nil, false
	}
	v := w.stores[k.ID()].Get(e.id())
	if v == nil {
		return nil, false
	}
	cast, ok := v.(*T)
	return cast, ok
}

// Has reports whether the entity holds a component of the given kind.
func Has[T any](w *World, e Entity, k component.Kind[T]) bool {
	if w == nil || !k.Valid() || !w.IsAlive(e) {
		return false
	}
	return w.stores[k.ID()].Has(e.id())
}

// Remove detaches the entity's component of the given kind, reporting
// whether one was present.
func Remove[T any](w *World, e Entity, k component.Kind[T]) bool {
	if w == nil || !k.Valid() || !w.IsAlive(e) {
		return false
	}
	return w.stores[k.ID()].Remove(e.id())
}

// ForEach visits every live entity holding the given component kind. The
// entity list is snapshotted up front so the callback may add or destroy
// entities safely.
func ForEach[T any](w *World, k component.Kind[T], fn func(e Entity, v *T)) {
	if w == nil || !k.Valid() || fn == nil {
		return
	}
	ids := append([]uint32(nil), w.stores[k.ID()].ids()...)
	for _, id := range ids {
		if int(id) > len(w.live) || !w.live[id-1] {
			continue
		}
		e := makeEntity(id, w.gens[id-1])
		if v, ok := Get(w, e, k); ok {
			fn(e, v)
		}
	}
}

// ForEach2 visits every live entity holding both component kinds.
func ForEach2[A, B any](w *World, ka component.Kind[A], kb component.Kind[B], fn func(e Entity, a *A, b *B)) {
	ForEach(w, ka, func(e Entity, a *A) {
		if b, ok := Get(w, e, kb); ok {
			fn(e, a, b)
		}
	})
}
