// Package scene holds the in-memory scene graph a stage reads and replaces:
// a flat list of mesh objects, each with its own world transform.
package scene

import (
	"errors"
	"fmt"

	"github.com/philipparndt/printbase/pkg/geometry"
)

// ErrNoGeometry is returned when a scene has no mesh object with vertices.
var ErrNoGeometry = errors.New("no geometry found")

// Object is an indexed triangle mesh placed in the world by Transform
type Object struct {
	Name      string
	Vertices  []geometry.Vector3
	Faces     [][3]int
	Transform geometry.Matrix4
}

// NewObject creates an empty object at the origin
func NewObject(name string) *Object {
	return &Object{
		Name:      name,
		Transform: geometry.Identity(),
	}
}

// AddVertex appends a vertex and returns its index
func (o *Object) AddVertex(v geometry.Vector3) int {
	o.Vertices = append(o.Vertices, v)
	return len(o.Vertices) - 1
}

// AddFace appends a triangle referencing three vertex indices
func (o *Object) AddFace(a, b, c int) {
	o.Faces = append(o.Faces, [3]int{a, b, c})
}

// VertexCount returns the number of vertices
func (o *Object) VertexCount() int {
	return len(o.Vertices)
}

// TriangleCount returns the number of triangles
func (o *Object) TriangleCount() int {
	return len(o.Faces)
}

// Validate checks that every face references an existing vertex
func (o *Object) Validate() error {
	for i, f := range o.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(o.Vertices) {
				return fmt.Errorf("object %q: face %d references vertex %d of %d", o.Name, i, idx, len(o.Vertices))
			}
		}
	}
	return nil
}

// LocalBounds returns the bounding box of the vertices in object space
func (o *Object) LocalBounds() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, v := range o.Vertices {
		bbox.Extend(v)
	}
	return bbox
}

// WorldBounds transforms the 8 corners of the local bounding box into world
// space and returns the box enclosing them.
func (o *Object) WorldBounds() geometry.BoundingBox {
	return o.LocalBounds().Transform(o.Transform)
}

// Triangles returns the faces as world-space triangles with computed normals
func (o *Object) Triangles() []geometry.Triangle {
	triangles := make([]geometry.Triangle, 0, len(o.Faces))
	for _, f := range o.Faces {
		t := geometry.Triangle{
			V1: o.Transform.TransformPoint(o.Vertices[f[0]]),
			V2: o.Transform.TransformPoint(o.Vertices[f[1]]),
			V3: o.Transform.TransformPoint(o.Vertices[f[2]]),
		}
		t.Normal = t.CalculateNormal()
		triangles = append(triangles, t)
	}
	return triangles
}

// Baked returns a copy of the object with its transform applied to the
// vertices and reset to identity.
func (o *Object) Baked() *Object {
	out := NewObject(o.Name)
	out.Vertices = make([]geometry.Vector3, len(o.Vertices))
	for i, v := range o.Vertices {
		out.Vertices[i] = o.Transform.TransformPoint(v)
	}
	out.Faces = append([][3]int(nil), o.Faces...)
	return out
}

// Scene is a set of mesh objects
type Scene struct {
	Objects []*Object
}

// New creates a scene from objects
func New(objects ...*Object) *Scene {
	return &Scene{Objects: objects}
}

// Meshes returns the objects that carry at least one vertex
func (s *Scene) Meshes() []*Object {
	var meshes []*Object
	for _, o := range s.Objects {
		if len(o.Vertices) > 0 {
			meshes = append(meshes, o)
		}
	}
	return meshes
}

// TriangleCount returns the number of triangles across all objects
func (s *Scene) TriangleCount() int {
	total := 0
	for _, o := range s.Objects {
		total += o.TriangleCount()
	}
	return total
}

// VertexCount returns the number of vertices across all objects
func (s *Scene) VertexCount() int {
	total := 0
	for _, o := range s.Objects {
		total += o.VertexCount()
	}
	return total
}

// Bounds returns the world-space bounding box of every mesh in the scene
func (s *Scene) Bounds() (geometry.BoundingBox, error) {
	return Bounds(s.Meshes())
}

// Bounds accumulates one world-space axis-aligned box enclosing all objects.
// Each object contributes the 8 corners of its local box transformed by its
// own world transform. Objects without vertices contribute nothing; when
// nothing contributes the result is ErrNoGeometry.
func Bounds(objects []*Object) (geometry.BoundingBox, error) {
	bbox := geometry.NewBoundingBox()
	for _, o := range objects {
		bbox.Union(o.WorldBounds())
	}
	if bbox.IsEmpty() {
		return bbox, ErrNoGeometry
	}
	return bbox, nil
}

// ApplyTransform pre-multiplies every object's transform by m
func (s *Scene) ApplyTransform(m geometry.Matrix4) {
	for _, o := range s.Objects {
		o.Transform = m.Mul(o.Transform)
	}
}

// Add appends objects to the scene
func (s *Scene) Add(objects ...*Object) {
	s.Objects = append(s.Objects, objects...)
}

// Join bakes every object into world space and merges them into a single
// object called name. The returned scene holds only that object; the
// separate objects do not survive the join.
func (s *Scene) Join(name string) *Scene {
	joined := NewObject(name)
	for _, o := range s.Objects {
		baked := o.Baked()
		offset := len(joined.Vertices)
		joined.Vertices = append(joined.Vertices, baked.Vertices...)
		for _, f := range baked.Faces {
			joined.AddFace(f[0]+offset, f[1]+offset, f[2]+offset)
		}
	}
	return New(joined)
}
