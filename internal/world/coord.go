package world

import "fmt"

// CellCoord addresses one grid cell. The grid is square cells of
// Config.CellSpan world units; entity positions are cell origin plus the
// descriptor's local offset.
type CellCoord struct {
	X int
	Y int
}

func (c CellCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Manhattan returns |dx| + |dy| between two coordinates. All streaming
// radii are measured in this metric, so a "radius" is a diamond, not a box.
func Manhattan(a, b CellCoord) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Bounds is the inclusive rectangle of valid cell coordinates. Requests
// outside it are logged and dropped.
type Bounds struct {
	MinX int
	MinY int
	MaxX int
	MaxY int
}

func (b Bounds) Contains(c CellCoord) bool {
	return c.X >= b.MinX && c.X <= b.MaxX && c.Y >= b.MinY && c.Y <= b.MaxY
}

// eachAtDistance visits every coordinate at exact Manhattan distance d from
// center, in a fixed left-to-right order so queue contents stay deterministic.
func eachAtDistance(center CellCoord, d int, fn func(CellCoord)) {
	if d == 0 {
		fn(center)
		return
	}
	for dx := -d; dx <= d; dx++ {
		rem := d - abs(dx)
		fn(CellCoord{X: center.X + dx, Y: center.Y + rem})
		if rem != 0 {
			fn(CellCoord{X: center.X + dx, Y: center.Y - rem})
		}
	}
}
