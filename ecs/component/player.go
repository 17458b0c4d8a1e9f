package component

import "time"

// Player holds the session's score and life economy. Exactly one player
// entity exists per session.
type Player struct {
	Score int
	Lives int

	// GameOverPending latches the instant lives reach zero; input stops
	// being processed immediately. The authoritative transition fires when
	// the clock passes GameOverAt, so the death animation can play first.
	// The deadline lives on the component and dies with the session's
	// world, so a reset can never observe a stale timer.
	GameOverPending bool
	GameOverAt      time.Time
	GameOverFired   bool

	// Death animation bookkeeping.
	DeathStart time.Time
}

var PlayerComponent = NewKind[Player]()
