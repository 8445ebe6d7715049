package analysis

import (
	"bytes"
	"math"
	"testing"

	"github.com/philipparndt/printbase/pkg/geometry"
	"github.com/philipparndt/printbase/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rightTriangle() *scene.Object {
	obj := scene.NewObject("tri")
	obj.AddVertex(geometry.NewVector3(0, 0, 0))
	obj.AddVertex(geometry.NewVector3(2, 0, 0))
	obj.AddVertex(geometry.NewVector3(0, 2, 0))
	obj.AddFace(0, 1, 2)
	return obj
}

func TestSummarize(t *testing.T) {
	moved := rightTriangle()
	moved.Transform = geometry.Translation(geometry.NewVector3(0, 0, 3))

	summary, err := Summarize(scene.New(rightTriangle(), moved, scene.NewObject("empty")))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Objects)
	assert.Equal(t, 2, summary.TriangleCount)
	assert.Equal(t, 6, summary.VertexCount)
	assert.InDelta(t, 4.0, summary.SurfaceArea, 1e-9)
	assert.Equal(t, geometry.NewVector3(2, 2, 3), summary.Dimensions)

	assert.Equal(t, 6, summary.EdgeCount)
	assert.InDelta(t, 2.0, summary.MinEdgeLength, 1e-9)
	assert.InDelta(t, 2*math.Sqrt2, summary.MaxEdgeLength, 1e-9)
	assert.InDelta(t, (4+2*math.Sqrt2)/3, summary.AvgEdgeLength, 1e-9)
}

func TestSummarizeCountsDegenerateTriangles(t *testing.T) {
	obj := rightTriangle()
	obj.AddVertex(geometry.NewVector3(4, 0, 0))
	obj.AddFace(0, 1, 3)

	summary, err := Summarize(scene.New(obj))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.DegenerateCount)

	var buf bytes.Buffer
	summary.Print(&buf)
	assert.Contains(t, buf.String(), "Degenerate Triangles: 1")
}

func TestSummarizeEmptyScene(t *testing.T) {
	_, err := Summarize(scene.New())
	assert.ErrorIs(t, err, scene.ErrNoGeometry)
}

func TestPrint(t *testing.T) {
	summary, err := Summarize(scene.New(rightTriangle()))
	require.NoError(t, err)

	var buf bytes.Buffer
	summary.Print(&buf)
	out := buf.String()

	assert.Contains(t, out, "Triangles: 1")
	assert.Contains(t, out, "Min: (0.000000, 0.000000, 0.000000)")
	assert.Contains(t, out, "Width (X): 2.000000 units")
}
