package geometry

import (
	"fmt"
	"math"
)

// Circle is a circle lying in a plane of constant Z
type Circle struct {
	Center Vector3
	Radius float64
}

// Points returns segments points evenly spaced counter-clockwise around the
// circle, starting on the +X axis. The result approximates the circle as a
// regular polygon.
func (c Circle) Points(segments int) ([]Vector3, error) {
	if segments < 3 {
		return nil, fmt.Errorf("need at least 3 segments to approximate a circle, got %d", segments)
	}
	if !(c.Radius > 0) {
		return nil, fmt.Errorf("circle radius must be positive, got %g", c.Radius)
	}

	points := make([]Vector3, segments)
	step := 2 * math.Pi / float64(segments)
	for i := range points {
		angle := float64(i) * step
		points[i] = Vector3{
			X: c.Center.X + c.Radius*math.Cos(angle),
			Y: c.Center.Y + c.Radius*math.Sin(angle),
			Z: c.Center.Z,
		}
	}
	return points, nil
}
