package ecs

import "strconv"

// Entity is an opaque handle packing a 32-bit id and a 32-bit generation.
// A handle goes stale when its entity is destroyed; stale handles fail
// IsAlive and every component lookup.
type Entity uint64

const entityIDBits = 32

func makeEntity(id, gen uint32) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() uint32 {
	return uint32(e)
}

func (e Entity) generation() uint32 {
	return uint32(uint64(e) >> entityIDBits)
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

func (e Entity) Valid() bool {
	return e.id() != 0
}
