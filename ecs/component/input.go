package component

// Input stores the player's per-tick intent flags. Each flag is true for
// exactly the tick in which the key transitioned from released to pressed,
// and is cleared by whichever system consumes it.
type Input struct {
	Up, Down, Left, Right bool
	Eat                   bool
}

var InputComponent = NewKind[Input]()

// ClearDirections resets the movement intents.
func (i *Input) ClearDirections() {
	i.Up, i.Down, i.Left, i.Right = false, false, false, false
}
