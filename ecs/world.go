package ecs

import (
	"github.com/david0178418/math-game-sub000/ecs/component"
)

// System updates a world once per simulation tick.
type System interface {
	Update(w *World)
}

// World owns entities, component storage, system order, and the tick event
// queue. All mutation happens in place on whichever system currently holds
// the tick; there is no isolation between systems within a tick.
type World struct {
	nextID uint32
	gens   []uint32
	live   []bool
	free   []uint32

	stores  map[component.ID]*SparseSet
	systems []System
	events  EventQueue
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{stores: map[component.ID]*SparseSet{}}
}

// CreateEntity allocates a new entity handle.
func (w *World) CreateEntity() Entity {
	if w == nil {
		return 0
	}
	var id uint32
	if n := len(w.free); n > 0 {
		id = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		w.nextID++
		id = w.nextID
		w.gens = append(w.gens, 0)
		w.live = append(w.live, false)
	}
	w.live[id-1] = true
	return makeEntity(id, w.gens[id-1])
}

// DestroyEntity removes an entity and all of its components. Destroying an
// already-dead or stale handle is a no-op returning false.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.IsAlive(e) {
		return false
	}
	id := e.id()
	for _, s := range w.stores {
		s.Remove(id)
	}
	w.gens[id-1]++
	w.live[id-1] = false
	w.free = append(w.free, id)
	return true
}

// IsAlive reports whether an entity handle is still valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	id := e.id()
	if id == 0 || int(id) > len(w.gens) {
		return false
	}
	return w.live[id-1] && w.gens[id-1] == e.generation()
}

// Entities returns handles for every live entity.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, len(w.live))
	for i, alive := range w.live {
		if alive {
			out = append(out, makeEntity(uint32(i+1), w.gens[i]))
		}
	}
	return out
}

// AddSystem appends a system to the tick order.
func (w *World) AddSystem(s System) {
	if w == nil || s == nil {
		return
	}
	w.systems = append(w.systems, s)
}

// Update runs every system once in registration order. Events pushed during
// the tick stay queued until the caller drains them.
func (w *World) Update() {
	if w == nil {
		return
	}
	for _, s := range w.systems {
		s.Update(w)
	}
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Query returns every live entity holding all of the given component kinds.
func (w *World) Query(ids ...component.ID) []Entity {
	if w == nil || len(ids) == 0 {
		return nil
	}
	smallest := w.stores[ids[0]]
	for _, id := range ids[1:] {
		s := w.stores[id]
		if s.Len() < smallest.Len() {
			smallest = s
		}
	}
	if smallest.Len() == 0 {
		return nil
	}
	out := make([]Entity, 0, smallest.Len())
outer:
	for _, id := range smallest.ids() {
		for _, kid := range ids {
			if !w.stores[kid].Has(id) {
				continue outer
			}
		}
		if !w.live[id-1] {
			continue
		}
		out = append(out, makeEntity(id, w.gens[id-1]))
	}
	return out
}

// First returns any one live entity holding the given component kind.
func (w *World) First(id component.ID) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	for _, eid := range w.stores[id].ids() {
		if w.live[eid-1] {
			return makeEntity(eid, w.gens[eid-1]), true
		}
	}
	return 0, false
}

func (w *World) store(id component.ID) *SparseSet {
	if w.stores == nil {
		w.stores = map[component.ID]*SparseSet{}
	}
	s, ok := w.stores[id]
	if !ok {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}
