package geometry

import (
	"math"
	"testing"
)

func TestTriangleArea(t *testing.T) {
	// Right triangle with sides 3, 4, 5
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 4, 0),
	)

	area := tri.Area()
	if math.Abs(area-6.0) > 1e-10 {
		t.Errorf("Area failed: expected 6, got %v", area)
	}
}

func TestTriangleCalculateNormal(t *testing.T) {
	tri := Triangle{
		V1: NewVector3(0, 0, 0),
		V2: NewVector3(1, 0, 0),
		V3: NewVector3(0, 1, 0),
	}

	expected := NewVector3(0, 0, 1)
	if got := tri.CalculateNormal(); got != expected {
		t.Errorf("CalculateNormal failed: expected %v, got %v", expected, got)
	}
}

func TestTriangleIsDegenerate(t *testing.T) {
	collinear := Triangle{
		V1: NewVector3(0, 0, 0),
		V2: NewVector3(1, 1, 1),
		V3: NewVector3(2, 2, 2),
	}
	if !collinear.IsDegenerate() {
		t.Error("collinear triangle should be degenerate")
	}
}
