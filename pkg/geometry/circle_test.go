package geometry

import (
	"math"
	"testing"
)

func TestCirclePoints(t *testing.T) {
	c := Circle{Center: NewVector3(1, 2, -0.5), Radius: 3}

	points, err := c.Points(64)
	if err != nil {
		t.Fatalf("Points failed: %v", err)
	}
	if len(points) != 64 {
		t.Fatalf("expected 64 points, got %d", len(points))
	}
	for i, p := range points {
		r := math.Hypot(p.X-1, p.Y-2)
		if math.Abs(r-3) > 1e-10 || p.Z != -0.5 {
			t.Errorf("point %d off the circle: %v", i, p)
		}
	}
	if !almostEqual(points[0], NewVector3(4, 2, -0.5)) {
		t.Errorf("first point should lie on +X, got %v", points[0])
	}
}

func TestCirclePointsRejectsBadInput(t *testing.T) {
	if _, err := (Circle{Radius: 1}).Points(2); err == nil {
		t.Error("expected error for fewer than 3 segments")
	}
	if _, err := (Circle{Radius: 0}).Points(64); err == nil {
		t.Error("expected error for zero radius")
	}
}
