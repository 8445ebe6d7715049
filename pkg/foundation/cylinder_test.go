package foundation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCylinderShape(t *testing.T) {
	spec := Spec{Radius: 1.1, Thickness: 0.1, CenterX: 2, CenterY: -3, Z: -0.05}

	obj, err := Cylinder(spec, 64)
	require.NoError(t, err)
	require.NoError(t, obj.Validate())

	assert.Equal(t, FoundationName, obj.Name)
	assert.Equal(t, 2*64+2, obj.VertexCount())
	assert.Equal(t, 4*64, obj.TriangleCount())

	bbox := obj.LocalBounds()
	assert.InDelta(t, 0.0, bbox.Max.Z, 1e-12, "top face flush with spec top")
	assert.InDelta(t, -0.1, bbox.Min.Z, 1e-12)
	assert.InDelta(t, 3.1, bbox.Max.X, 1e-12)
	assert.InDelta(t, 0.9, bbox.Min.X, 1e-12)

	for i, v := range obj.Vertices[:128] {
		r := math.Hypot(v.X-2, v.Y+3)
		assert.InDelta(t, 1.1, r, 1e-12, "ring vertex %d", i)
	}
}

func TestCylinderIsClosedAndOutwardFacing(t *testing.T) {
	spec := Spec{Radius: 2, Thickness: 0.5, Z: 1}
	obj, err := Cylinder(spec, 16)
	require.NoError(t, err)

	// every directed edge must be matched by its reverse exactly once
	edges := make(map[[2]int]int)
	for _, f := range obj.Faces {
		for i := 0; i < 3; i++ {
			edges[[2]int{f[i], f[(i+1)%3]}]++
		}
	}
	for e, n := range edges {
		assert.Equal(t, 1, n, "edge %v used %d times", e, n)
		assert.Equal(t, 1, edges[[2]int{e[1], e[0]}], "edge %v has no opposite", e)
	}

	centre := obj.LocalBounds().Center()
	for _, tri := range obj.Triangles() {
		outward := tri.V1.Add(tri.V2).Add(tri.V3).Mul(1.0 / 3).Sub(centre)
		n := tri.CalculateNormal()
		assert.Positive(t, n.X*outward.X+n.Y*outward.Y+n.Z*outward.Z, "inward facing triangle %v", tri)
	}
}

func TestCylinderRejectsBadInput(t *testing.T) {
	_, err := Cylinder(Spec{Radius: 0, Thickness: 1}, 64)
	assert.Error(t, err)

	_, err = Cylinder(Spec{Radius: 1, Thickness: 1}, 2)
	assert.Error(t, err)
}
