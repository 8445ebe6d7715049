package stl

import (
	"github.com/philipparndt/printbase/pkg/geometry"
	"github.com/philipparndt/printbase/pkg/scene"
)

// Model represents a complete STL model: a triangle soup with an optional name
type Model struct {
	Name      string
	Triangles []geometry.Triangle
}

// NewModel creates a new STL model
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle adds a triangle to the model
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of triangles in the model
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// BoundingBox calculates the bounding box of the entire model
func (m *Model) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, triangle := range m.Triangles {
		bbox.Extend(triangle.V1)
		bbox.Extend(triangle.V2)
		bbox.Extend(triangle.V3)
	}
	return bbox
}

// Object converts the triangle soup into an indexed mesh. Vertices with
// bit-identical positions are welded into one, so shared corners become
// shared indices.
func (m *Model) Object() *scene.Object {
	obj := scene.NewObject(m.Name)
	index := make(map[geometry.Vector3]int, len(m.Triangles))
	lookup := func(v geometry.Vector3) int {
		if i, ok := index[v]; ok {
			return i
		}
		i := obj.AddVertex(v)
		index[v] = i
		return i
	}
	for _, t := range m.Triangles {
		obj.AddFace(lookup(t.V1), lookup(t.V2), lookup(t.V3))
	}
	return obj
}

// FromScene flattens every object of a scene into world-space triangles.
// STL carries no scene structure, so object names and transforms are lost.
func FromScene(s *scene.Scene, name string) *Model {
	model := NewModel(name)
	for _, o := range s.Objects {
		model.Triangles = append(model.Triangles, o.Triangles()...)
	}
	return model
}
