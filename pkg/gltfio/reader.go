// Package gltfio reads and writes glTF 2.0 scenes (.glb and .gltf).
//
// Coordinates are passed through untouched; glTF is +Y up and converting to
// another frame is left to the caller.
package gltfio

import (
	"fmt"

	"github.com/philipparndt/printbase/pkg/geometry"
	"github.com/philipparndt/printbase/pkg/scene"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Load opens a .glb or .gltf file and returns one scene object per mesh
// node of the default scene, each carrying its composed world transform.
// Only triangle-list primitives are read; other primitive modes are skipped.
func Load(path string) (*scene.Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open glTF: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument walks the node hierarchy of an already decoded document
func FromDocument(doc *gltf.Document) (*scene.Scene, error) {
	out := scene.New()
	for _, root := range rootNodes(doc) {
		if err := walk(doc, root, geometry.Identity(), out, 0); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// rootNodes returns the root nodes of the default scene. Documents without
// scenes fall back to every node that is nobody's child.
func rootNodes(doc *gltf.Document) []uint32 {
	if len(doc.Scenes) > 0 {
		idx := uint32(0)
		if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
			idx = *doc.Scene
		}
		return doc.Scenes[idx].Nodes
	}

	isChild := make(map[uint32]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[c] = true
		}
	}
	var roots []uint32
	for i := range doc.Nodes {
		if !isChild[uint32(i)] {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

// maxDepth bounds the hierarchy walk so a cyclic file cannot recurse forever
const maxDepth = 256

func walk(doc *gltf.Document, idx uint32, parent geometry.Matrix4, out *scene.Scene, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("node hierarchy deeper than %d, possible cycle at node %d", maxDepth, idx)
	}
	if int(idx) >= len(doc.Nodes) {
		return fmt.Errorf("node index %d out of range", idx)
	}
	node := doc.Nodes[idx]
	world := parent.Mul(localTransform(node))

	if node.Mesh != nil {
		obj, err := readMesh(doc, *node.Mesh)
		if err != nil {
			return err
		}
		if node.Name != "" {
			obj.Name = node.Name
		}
		obj.Transform = world
		out.Add(obj)
	}

	for _, child := range node.Children {
		if err := walk(doc, child, world, out, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// localTransform prefers an explicit matrix and otherwise composes TRS.
// The decoder fills in identity defaults for absent properties, so zeros
// here were written by the file and are honoured.
func localTransform(node *gltf.Node) geometry.Matrix4 {
	var m geometry.Matrix4
	widen(m[:], node.Matrix[:])
	if !m.IsIdentity() {
		return m
	}

	var t, r, s [4]float64
	widen(t[:3], node.Translation[:])
	widen(r[:], node.Rotation[:])
	widen(s[:3], node.Scale[:])
	return geometry.TRS(
		geometry.NewVector3(t[0], t[1], t[2]),
		r,
		geometry.NewVector3(s[0], s[1], s[2]),
	)
}

// newNode returns a node carrying the identity defaults the decoder would set
func newNode(name string) *gltf.Node {
	node := &gltf.Node{Name: name}
	identity := geometry.Identity()
	narrow(node.Matrix[:], identity[:])
	narrow(node.Rotation[:], []float64{0, 0, 0, 1})
	narrow(node.Scale[:], []float64{1, 1, 1})
	return node
}

// accessor looks up an accessor index taken from the file
func accessor(doc *gltf.Document, idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}

// readMesh merges every triangle primitive of a glTF mesh into one object
func readMesh(doc *gltf.Document, meshIdx uint32) (*scene.Object, error) {
	if int(meshIdx) >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIdx)
	}
	mesh := doc.Meshes[meshIdx]
	obj := scene.NewObject(mesh.Name)

	for p, primitive := range mesh.Primitives {
		if primitive.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := primitive.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		posAccessor, err := accessor(doc, posIdx)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", mesh.Name, p, err)
		}
		positions, err := modeler.ReadPosition(doc, posAccessor, nil)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: failed to read positions: %w", mesh.Name, p, err)
		}

		var indices []uint32
		if primitive.Indices != nil {
			idxAccessor, err := accessor(doc, *primitive.Indices)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", mesh.Name, p, err)
			}
			indices, err = modeler.ReadIndices(doc, idxAccessor, nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: failed to read indices: %w", mesh.Name, p, err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		offset := obj.VertexCount()
		for _, pos := range positions {
			obj.AddVertex(geometry.FromFloat32(pos))
		}
		for i := 0; i+2 < len(indices); i += 3 {
			obj.AddFace(offset+int(indices[i]), offset+int(indices[i+1]), offset+int(indices[i+2]))
		}
	}

	if err := obj.Validate(); err != nil {
		return nil, err
	}
	return obj, nil
}
