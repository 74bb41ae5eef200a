package model

import "math"

// Position is a point in area-local coordinates (origin at area center).
// Value type, passed by value.
type Position struct {
	X float64
	Y float64
}

// NewPosition creates Position with the given coordinates.
func NewPosition(x, y float64) Position {
	return Position{X: x, Y: y}
}

// DistanceSquared returns squared distance to other point (no sqrt).
func (p Position) DistanceSquared(other Position) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// Distance returns Euclidean distance to other point.
func (p Position) Distance(other Position) float64 {
	return math.Sqrt(p.DistanceSquared(other))
}

// Area is an axis-aligned rectangle centred on the origin.
type Area struct {
	Width  float64
	Height float64
}

// NewArea creates Area with the given dimensions.
func NewArea(width, height float64) Area {
	return Area{Width: width, Height: height}
}

// Contains reports whether p lies inside the area (bounds inclusive).
func (a Area) Contains(p Position) bool {
	return math.Abs(p.X) <= a.Width/2 && math.Abs(p.Y) <= a.Height/2
}

// Diagonal returns length of the area diagonal.
func (a Area) Diagonal() float64 {
	return math.Hypot(a.Width, a.Height)
}
