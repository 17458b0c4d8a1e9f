package component

// Problem is a collectible tile bearing a candidate answer value. Once
// Consumed it is inert for scoring, though the entity may linger briefly
// until the lifecycle sweep prunes it.
type Problem struct {
	Value      int
	Correct    bool
	Difficulty int
	Consumed   bool
}

var ProblemComponent = NewKind[Problem]()
