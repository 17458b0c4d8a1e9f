package component

import "time"

// Health tracks hit points and the post-damage invulnerability window.
// While Invulnerable is set no enemy or tongue collision may reduce lives;
// the flag clears on the first tick after the clock passes InvulnerableUntil.
type Health struct {
	Current, Max int

	Invulnerable      bool
	InvulnerableUntil time.Time
}

var HealthComponent = NewKind[Health]()
