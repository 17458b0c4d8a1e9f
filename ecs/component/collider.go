package component

// Group classifies an entity for collision scans. The collision test itself
// is pure grid-cell equality; Width/Height only size the rendered shape.
type Group int

const (
	GroupPlayer Group = iota
	GroupEnemy
	GroupTile
	GroupWeb
)

type Collider struct {
	Width, Height float64
	Group         Group
}

var ColliderComponent = NewKind[Collider]()
