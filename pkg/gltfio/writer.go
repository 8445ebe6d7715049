package gltfio

import (
	"fmt"

	"github.com/philipparndt/printbase/pkg/scene"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Generator is recorded in the asset block of every written document
const Generator = "printbase"

// ToDocument builds a glTF document with one node and one mesh per scene
// object. Objects without faces are left out.
func ToDocument(s *scene.Scene) *gltf.Document {
	doc := gltf.NewDocument()
	doc.Asset.Generator = Generator

	for _, obj := range s.Objects {
		if obj.TriangleCount() == 0 {
			continue
		}

		positions := make([][3]float32, len(obj.Vertices))
		for i, v := range obj.Vertices {
			positions[i] = v.Float32()
		}
		indices := make([]uint32, 0, len(obj.Faces)*3)
		for _, f := range obj.Faces {
			indices = append(indices, uint32(f[0]), uint32(f[1]), uint32(f[2]))
		}

		posAccessor := modeler.WritePosition(doc, positions)
		indicesAccessor := modeler.WriteIndices(doc, indices)

		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: obj.Name,
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]uint32{gltf.POSITION: uint32(posAccessor)},
				Indices:    gltf.Index(uint32(indicesAccessor)),
				Mode:       gltf.PrimitiveTriangles,
			}},
		})

		node := newNode(obj.Name)
		node.Mesh = gltf.Index(uint32(len(doc.Meshes) - 1))
		narrow(node.Matrix[:], obj.Transform[:])
		doc.Nodes = append(doc.Nodes, node)
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
	}

	return doc
}

// SaveBinary writes the scene as a single .glb container
func SaveBinary(path string, s *scene.Scene) error {
	if err := gltf.SaveBinary(ToDocument(s), path); err != nil {
		return fmt.Errorf("failed to write GLB: %w", err)
	}
	return nil
}

// SaveText writes the scene as .gltf JSON with its buffer embedded as a data URI
func SaveText(path string, s *scene.Scene) error {
	doc := ToDocument(s)
	for _, b := range doc.Buffers {
		b.EmbeddedResource()
	}
	if err := gltf.Save(doc, path); err != nil {
		return fmt.Errorf("failed to write glTF: %w", err)
	}
	return nil
}
