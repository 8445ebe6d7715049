package geometry

import "math"

// BoundingBox represents an axis-aligned bounding box.
// A freshly created box is empty: Min is +Inf and Max is -Inf on every axis
// until the first point is added.
type BoundingBox struct {
	Min Vector3
	Max Vector3
}

// NewBoundingBox creates a new, empty bounding box
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Vector3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		Max: Vector3{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}
}

// Extend expands the bounding box to include a point
func (b *BoundingBox) Extend(point Vector3) {
	b.Min = b.Min.Min(point)
	b.Max = b.Max.Max(point)
}

// Union expands the bounding box to include another box
func (b *BoundingBox) Union(other BoundingBox) {
	if other.IsEmpty() {
		return
	}
	b.Extend(other.Min)
	b.Extend(other.Max)
}

// IsEmpty reports whether no point has been added yet
func (b BoundingBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Contains reports whether p lies inside or on the box
func (b BoundingBox) Contains(p Vector3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Corners returns the 8 corner points of the box
func (b BoundingBox) Corners() [8]Vector3 {
	lo, hi := b.Min, b.Max
	return [8]Vector3{
		{lo.X, lo.Y, lo.Z},
		{lo.X, lo.Y, hi.Z},
		{lo.X, hi.Y, hi.Z},
		{lo.X, hi.Y, lo.Z},
		{hi.X, lo.Y, lo.Z},
		{hi.X, lo.Y, hi.Z},
		{hi.X, hi.Y, hi.Z},
		{hi.X, hi.Y, lo.Z},
	}
}

// Transform returns the axis-aligned box enclosing the 8 corners of b
// after applying m to each of them.
func (b BoundingBox) Transform(m Matrix4) BoundingBox {
	out := NewBoundingBox()
	if b.IsEmpty() {
		return out
	}
	for _, c := range b.Corners() {
		out.Extend(m.TransformPoint(c))
	}
	return out
}

// Size returns the dimensions of the bounding box
func (b BoundingBox) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the bounding box
func (b BoundingBox) Center() Vector3 {
	return Vector3{
		X: (b.Min.X + b.Max.X) / 2.0,
		Y: (b.Min.Y + b.Max.Y) / 2.0,
		Z: (b.Min.Z + b.Max.Z) / 2.0,
	}
}
