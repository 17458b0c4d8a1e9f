package component

import "time"

// Web is a spider trap laid at a previously occupied cell. An untouched web
// expires after Duration; a sprung web flips Active false and is removed by
// the next lifecycle sweep.
type Web struct {
	Created    time.Time
	Duration   time.Duration
	FreezeTime time.Duration
	Active     bool
}

var WebComponent = NewKind[Web]()
