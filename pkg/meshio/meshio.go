// Package meshio picks a mesh codec from a file extension.
package meshio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/philipparndt/printbase/pkg/gltfio"
	"github.com/philipparndt/printbase/pkg/scene"
	"github.com/philipparndt/printbase/pkg/stl"
)

// ErrUnsupportedFormat is returned for extensions no codec handles
var ErrUnsupportedFormat = errors.New("unsupported format")

// Format is a mesh file format
type Format int

const (
	FormatSTL Format = iota + 1
	FormatGLB
	FormatGLTF
)

func (f Format) String() string {
	switch f {
	case FormatSTL:
		return "STL"
	case FormatGLB:
		return "GLB"
	case FormatGLTF:
		return "glTF"
	default:
		return "unknown"
	}
}

// IsGLTF reports whether the format is one of the glTF containers (+Y up)
func (f Format) IsGLTF() bool {
	return f == FormatGLB || f == FormatGLTF
}

// Detect returns the format for path from its extension, case-insensitively
func Detect(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".stl":
		return FormatSTL, nil
	case ".glb":
		return FormatGLB, nil
	case ".gltf":
		return FormatGLTF, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Load reads a mesh file into a scene. STL files become a single object
// named after the file.
func Load(path string) (*scene.Scene, error) {
	format, err := Detect(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatSTL:
		model, err := stl.Parse(path)
		if err != nil {
			return nil, err
		}
		obj := model.Object()
		if obj.Name == "" {
			obj.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		return scene.New(obj), nil
	default:
		return gltfio.Load(path)
	}
}

// Save writes a scene in the format given by the extension of path.
// STL keeps only the world-space triangle surface; glTF keeps the objects.
func Save(path string, s *scene.Scene) error {
	format, err := Detect(path)
	if err != nil {
		return err
	}

	switch format {
	case FormatSTL:
		name := ""
		if len(s.Objects) == 1 {
			name = s.Objects[0].Name
		}
		return stl.Save(path, stl.FromScene(s, name))
	case FormatGLB:
		return gltfio.SaveBinary(path, s)
	default:
		return gltfio.SaveText(path, s)
	}
}
