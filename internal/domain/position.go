package domain

// Position is the canvas placement of a node or network
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewPosition creates a new position
func NewPosition(x, y int) Position {
	return Position{X: x, Y: y}
}

// Offset returns the position moved by dx, dy
func (p Position) Offset(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}
