// Package system holds the per-tick simulation systems. Tick order is fixed:
// input capture, player control, enemy behavior, tongue attacks, animation,
// collision resolution, spawn and lifecycle. Later systems rely on mutations
// made by earlier ones within the same tick.
package system

import (
	"time"

	"github.com/david0178418/math-game-sub000/prefabs"
)

// Clock supplies the current time. Systems never call time.Now directly so
// tests can drive the simulation with a fake clock.
type Clock func() time.Time

// Config supplies the current tuning. Indirected so a hot-reloaded tuning
// file takes effect on the next tick.
type Config func() *prefabs.Tuning
