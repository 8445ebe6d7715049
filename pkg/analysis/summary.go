// Package analysis reports size and surface statistics of a scene.
package analysis

import (
	"fmt"
	"io"
	"math"

	"github.com/philipparndt/printbase/pkg/geometry"
	"github.com/philipparndt/printbase/pkg/scene"
)

// Summary contains the statistics of a scene in world space
type Summary struct {
	Objects       int
	TriangleCount int
	VertexCount   int
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	SurfaceArea   float64
	// DegenerateCount is the number of zero-area triangles, which slicers drop
	DegenerateCount int
	EdgeCount       int
	MinEdgeLength   float64
	MaxEdgeLength   float64
	AvgEdgeLength   float64
}

// Summarize measures every mesh object of s
func Summarize(s *scene.Scene) (*Summary, error) {
	bounds, err := s.Bounds()
	if err != nil {
		return nil, err
	}

	result := &Summary{
		Objects:       len(s.Meshes()),
		TriangleCount: s.TriangleCount(),
		VertexCount:   s.VertexCount(),
		BoundingBox:   bounds,
		Dimensions:    bounds.Size(),
	}

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0

	for _, obj := range s.Meshes() {
		for _, triangle := range obj.Triangles() {
			result.SurfaceArea += triangle.Area()
			if triangle.IsDegenerate() {
				result.DegenerateCount++
			}

			for _, edge := range [3][2]geometry.Vector3{
				{triangle.V1, triangle.V2},
				{triangle.V2, triangle.V3},
				{triangle.V3, triangle.V1},
			} {
				length := edge[1].Sub(edge[0]).Length()
				totalLength += length
				minLength = math.Min(minLength, length)
				maxLength = math.Max(maxLength, length)
				result.EdgeCount++
			}
		}
	}

	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	return result, nil
}

// Print writes a human readable report
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "Model Statistics:")
	fmt.Fprintf(w, "  Objects: %d\n", s.Objects)
	fmt.Fprintf(w, "  Triangles: %d\n", s.TriangleCount)
	fmt.Fprintf(w, "  Vertices: %d\n", s.VertexCount)
	fmt.Fprintf(w, "  Surface Area: %.6f square units\n", s.SurfaceArea)
	if s.DegenerateCount > 0 {
		fmt.Fprintf(w, "  Degenerate Triangles: %d\n", s.DegenerateCount)
	}

	fmt.Fprintln(w, "Bounding Box:")
	fmt.Fprintf(w, "  Min: %s\n", FormatVector(s.BoundingBox.Min))
	fmt.Fprintf(w, "  Max: %s\n", FormatVector(s.BoundingBox.Max))
	fmt.Fprintf(w, "  Center: %s\n", FormatVector(s.BoundingBox.Center()))

	fmt.Fprintln(w, "Dimensions:")
	fmt.Fprintf(w, "  Width (X): %.6f units\n", s.Dimensions.X)
	fmt.Fprintf(w, "  Depth (Y): %.6f units\n", s.Dimensions.Y)
	fmt.Fprintf(w, "  Height (Z): %.6f units\n", s.Dimensions.Z)

	if s.EdgeCount > 0 {
		fmt.Fprintln(w, "Edge Lengths:")
		fmt.Fprintf(w, "  Minimum: %.6f units\n", s.MinEdgeLength)
		fmt.Fprintf(w, "  Maximum: %.6f units\n", s.MaxEdgeLength)
		fmt.Fprintf(w, "  Average: %.6f units\n", s.AvgEdgeLength)
	}
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
