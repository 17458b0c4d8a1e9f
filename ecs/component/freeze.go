package component

import "time"

// Freeze pins the player in place after stepping on a web. The player holds
// at most one Freeze at a time. SourceWeb is a non-owning back-reference
// used only to find and clean up the originating web; lookups must tolerate
// that web already being gone.
type Freeze struct {
	Start     time.Time
	Duration  time.Duration
	Active    bool
	SourceWeb EntityRef
}

var FreezeComponent = NewKind[Freeze]()
