package foundation

import (
	"fmt"
	"io"

	"github.com/philipparndt/printbase/pkg/geometry"
	"github.com/philipparndt/printbase/pkg/meshio"
	"github.com/philipparndt/printbase/pkg/scene"
	"github.com/rs/zerolog"
)

// MergedName is the name of the single object left after the join
const MergedName = "ModelWithFoundation"

// Result describes one foundation build
type Result struct {
	Bounds geometry.BoundingBox
	Spec   Spec
	// Scene holds the merged model and foundation, Z-up
	Scene *scene.Scene
}

// Apply sizes a foundation for every mesh in s (Z-up), generates the
// cylinder and joins it with the model into one object. s is not modified.
func Apply(s *scene.Scene, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	meshes := s.Meshes()
	bbox, err := scene.Bounds(meshes)
	if err != nil {
		return nil, err
	}

	spec, err := Size(bbox, p)
	if err != nil {
		return nil, err
	}

	cylinder, err := Cylinder(spec, p.Segments)
	if err != nil {
		return nil, fmt.Errorf("failed to generate foundation: %w", err)
	}

	merged := scene.New(append(append([]*scene.Object(nil), meshes...), cylinder)...).Join(MergedName)

	return &Result{Bounds: bbox, Spec: spec, Scene: merged}, nil
}

// Stage adds a foundation to a model file and writes the combined result
type Stage struct {
	Params Params
	Out    io.Writer
	Log    zerolog.Logger
}

// NewStage creates a foundation stage printing progress to out
func NewStage(p Params, out io.Writer, log zerolog.Logger) *Stage {
	return &Stage{Params: p, Out: out, Log: log}
}

// Run imports input, adds the foundation and exports to output. The output
// extension is checked before anything is read, so an unsupported format
// fails without doing work and without writing a file.
func (st *Stage) Run(input, output string) (*Result, error) {
	outFormat, err := meshio.Detect(output)
	if err != nil {
		return nil, err
	}
	inFormat, err := meshio.Detect(input)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(st.Out, "Importing %s...\n", input)
	s, err := meshio.Load(input)
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", input, err)
	}
	if inFormat.IsGLTF() {
		s.ApplyTransform(geometry.YUpToZUp())
	}
	st.Log.Debug().
		Int("objects", len(s.Objects)).
		Int("meshes", len(s.Meshes())).
		Int("triangles", s.TriangleCount()).
		Msg("scene imported")

	result, err := Apply(s, st.Params)
	if err != nil {
		return nil, err
	}

	size := result.Bounds.Size()
	fmt.Fprintf(st.Out, "Model dimensions: %.1f x %.1f\n", size.X, size.Y)
	fmt.Fprintf(st.Out, "Foundation: radius=%.1f, thickness=%.1f\n", result.Spec.Radius, result.Spec.Thickness)
	st.Log.Debug().
		Float64("radius", result.Spec.Radius).
		Float64("thickness", result.Spec.Thickness).
		Float64("center_x", result.Spec.CenterX).
		Float64("center_y", result.Spec.CenterY).
		Float64("z", result.Spec.Z).
		Msg("foundation sized")

	exported := result.Scene
	if outFormat.IsGLTF() {
		exported = reframe(result.Scene, geometry.ZUpToYUp())
	}

	fmt.Fprintf(st.Out, "Exporting to %s: %s\n", outFormat, output)
	if err := meshio.Save(output, exported); err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", output, err)
	}

	return result, nil
}

// reframe returns a copy of s with m baked into every object
func reframe(s *scene.Scene, m geometry.Matrix4) *scene.Scene {
	out := scene.New()
	for _, o := range s.Objects {
		moved := *o
		moved.Transform = m.Mul(o.Transform)
		out.Add(moved.Baked())
	}
	return out
}
