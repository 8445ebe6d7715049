package foundation

import (
	"github.com/philipparndt/printbase/pkg/geometry"
	"github.com/philipparndt/printbase/pkg/scene"
)

// FoundationName is the name given to the generated cylinder object
const FoundationName = "Foundation"

// Cylinder builds a closed prism with a regular polygon cross-section
// approximating the circle of spec. Caps are triangle fans around a centre
// vertex and every face winds counter-clockwise seen from outside.
//
// Vertex layout: bottom ring [0, n), top ring [n, 2n), bottom centre 2n,
// top centre 2n+1.
func Cylinder(spec Spec, segments int) (*scene.Object, error) {
	bottomZ, topZ := spec.Bottom(), spec.Top()

	ring, err := geometry.Circle{
		Center: geometry.NewVector3(spec.CenterX, spec.CenterY, 0),
		Radius: spec.Radius,
	}.Points(segments)
	if err != nil {
		return nil, err
	}

	obj := scene.NewObject(FoundationName)
	obj.Vertices = make([]geometry.Vector3, 0, 2*segments+2)
	for _, p := range ring {
		obj.AddVertex(geometry.NewVector3(p.X, p.Y, bottomZ))
	}
	for _, p := range ring {
		obj.AddVertex(geometry.NewVector3(p.X, p.Y, topZ))
	}
	bottomCenter := obj.AddVertex(geometry.NewVector3(spec.CenterX, spec.CenterY, bottomZ))
	topCenter := obj.AddVertex(geometry.NewVector3(spec.CenterX, spec.CenterY, topZ))

	obj.Faces = make([][3]int, 0, 4*segments)
	for i := 0; i < segments; i++ {
		next := (i + 1) % segments
		b0, b1 := i, next
		t0, t1 := segments+i, segments+next

		obj.AddFace(b0, b1, t1)
		obj.AddFace(b0, t1, t0)
		obj.AddFace(topCenter, t0, t1)
		obj.AddFace(bottomCenter, b1, b0)
	}

	return obj, nil
}
