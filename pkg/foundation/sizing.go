// Package foundation sizes, builds and attaches a flat circular base under a
// model so it prints stably.
package foundation

import (
	"errors"
	"fmt"
	"math"

	"github.com/philipparndt/printbase/pkg/geometry"
)

const (
	DefaultMarginRatio    = 0.10
	DefaultThicknessRatio = 0.05
	DefaultMinThickness   = 0.05
	DefaultSegments       = 64
)

var (
	// ErrDegenerateFootprint is returned when the model has no extent in X
	// or Y, which would produce a zero-radius foundation.
	ErrDegenerateFootprint = errors.New("degenerate footprint: model has zero width and depth")

	// ErrInvalidParams is returned for ratios or limits that cannot size a foundation
	ErrInvalidParams = errors.New("invalid foundation parameters")
)

// Params controls how the foundation scales with the model footprint
type Params struct {
	// MarginRatio is the extra radius beyond half the footprint, as a fraction of it
	MarginRatio float64
	// ThicknessRatio is the foundation height as a fraction of the larger footprint side
	ThicknessRatio float64
	// MinThickness floors the height so small or flat models still get a printable base
	MinThickness float64
	// Segments is the number of sides of the polygon approximating the circle
	Segments int
}

// DefaultParams returns the stock sizing parameters
func DefaultParams() Params {
	return Params{
		MarginRatio:    DefaultMarginRatio,
		ThicknessRatio: DefaultThicknessRatio,
		MinThickness:   DefaultMinThickness,
		Segments:       DefaultSegments,
	}
}

// Validate rejects parameters that cannot produce a positive-size cylinder
func (p Params) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"margin ratio", p.MarginRatio},
		{"thickness ratio", p.ThicknessRatio},
		{"min thickness", p.MinThickness},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidParams, f.name, f.value)
		}
	}
	if p.MarginRatio <= -1 {
		return fmt.Errorf("%w: margin ratio must be greater than -1, got %g", ErrInvalidParams, p.MarginRatio)
	}
	if p.ThicknessRatio < 0 {
		return fmt.Errorf("%w: thickness ratio must not be negative, got %g", ErrInvalidParams, p.ThicknessRatio)
	}
	if p.MinThickness <= 0 {
		return fmt.Errorf("%w: min thickness must be positive, got %g", ErrInvalidParams, p.MinThickness)
	}
	if p.Segments < 3 {
		return fmt.Errorf("%w: need at least 3 segments, got %d", ErrInvalidParams, p.Segments)
	}
	return nil
}

// Spec is the computed size and placement of a foundation cylinder.
// (CenterX, CenterY, Z) is the centre of the cylinder, so its top face sits
// at Z + Thickness/2.
type Spec struct {
	Radius    float64
	Thickness float64
	CenterX   float64
	CenterY   float64
	Z         float64
}

// Top returns the height of the cylinder's top face
func (s Spec) Top() float64 {
	return s.Z + s.Thickness/2
}

// Bottom returns the height of the cylinder's bottom face
func (s Spec) Bottom() float64 {
	return s.Z - s.Thickness/2
}

// Size derives the foundation from the model's bounding box. Only the X/Y
// footprint drives radius and thickness; the model height never does. The
// cylinder is centred under the footprint with its top flush with the
// lowest point of the model.
func Size(bbox geometry.BoundingBox, p Params) (Spec, error) {
	if err := p.Validate(); err != nil {
		return Spec{}, err
	}
	if bbox.IsEmpty() {
		return Spec{}, fmt.Errorf("%w: empty bounding box", ErrDegenerateFootprint)
	}

	xSize := bbox.Max.X - bbox.Min.X
	ySize := bbox.Max.Y - bbox.Min.Y
	maxDimension := math.Max(xSize, ySize)

	radius := (maxDimension / 2) * (1 + p.MarginRatio)
	if !(radius > 0) {
		return Spec{}, ErrDegenerateFootprint
	}
	thickness := math.Max(maxDimension*p.ThicknessRatio, p.MinThickness)

	return Spec{
		Radius:    radius,
		Thickness: thickness,
		CenterX:   (bbox.Min.X + bbox.Max.X) / 2,
		CenterY:   (bbox.Min.Y + bbox.Max.Y) / 2,
		Z:         bbox.Min.Z - thickness/2,
	}, nil
}
