// Package convert translates mesh files between formats.
package convert

import (
	"fmt"

	"github.com/philipparndt/printbase/pkg/external"
	"github.com/philipparndt/printbase/pkg/meshio"
)

// Converter turns the mesh file in into the format implied by out's extension
type Converter interface {
	Convert(in, out string) error
}

// DefaultAssimpBinary is looked up on PATH when no explicit path is configured
const DefaultAssimpBinary = "assimp"

// Assimp converts through the assimp command-line tool
type Assimp struct {
	Runner external.Runner
	Binary string
}

// NewAssimp creates an assimp converter; an empty binary selects DefaultAssimpBinary
func NewAssimp(runner external.Runner, binary string) *Assimp {
	if binary == "" {
		binary = DefaultAssimpBinary
	}
	return &Assimp{Runner: runner, Binary: binary}
}

// Convert runs `assimp export <in> <out>`. assimp picks the output format
// from the extension.
func (a *Assimp) Convert(in, out string) error {
	if _, err := a.Runner.Run(a.Binary, "export", in, out); err != nil {
		return fmt.Errorf("failed to convert %s to %s: %w", in, out, err)
	}
	return nil
}

// Native converts in-process between STL, GLB and glTF. Coordinates are
// copied as-is, like assimp does; no axis conversion happens here.
type Native struct{}

// Convert loads in and saves it to out
func (Native) Convert(in, out string) error {
	if _, err := meshio.Detect(out); err != nil {
		return err
	}
	s, err := meshio.Load(in)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", in, err)
	}
	if err := meshio.Save(out, s); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	return nil
}

// Names of the available converters, as used in configuration
const (
	NameAssimp = "assimp"
	NameNative = "native"
)

// New returns the converter registered under name
func New(name string, runner external.Runner, assimpBinary string) (Converter, error) {
	switch name {
	case NameAssimp, "":
		return NewAssimp(runner, assimpBinary), nil
	case NameNative:
		return Native{}, nil
	default:
		return nil, fmt.Errorf("unknown converter %q (expected %s or %s)", name, NameAssimp, NameNative)
	}
}
