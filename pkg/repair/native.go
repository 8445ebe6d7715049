package repair

import (
	"fmt"
	"sort"

	"github.com/philipparndt/printbase/pkg/meshio"
	"github.com/philipparndt/printbase/pkg/scene"
)

const unavailable = "not available in the native repairer, use the trimesh backend"

// Native performs the topology clean-up steps in-process. Hole filling and
// smoothing are always reported as skipped.
type Native struct{}

// Repair loads in, removes duplicate faces and unreferenced vertices and
// writes the single joined object to out.
func (Native) Repair(in, out string) (*Report, error) {
	if _, err := meshio.Detect(out); err != nil {
		return nil, err
	}
	s, err := meshio.Load(in)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", in, err)
	}

	joined := s.Join(meshName(s))
	obj := joined.Objects[0]

	report := &Report{}
	report.Steps = append(report.Steps, StepResult{Step: StepFillHoles, Status: StatusSkipped, Warning: unavailable})

	removed := UniqueFaces(obj)
	report.Steps = append(report.Steps, StepResult{
		Step: StepUniqueFaces, Status: StatusApplied,
		Detail: fmt.Sprintf("removed %d duplicate faces", removed),
	})

	dropped := RemoveUnreferencedVertices(obj)
	report.Steps = append(report.Steps, StepResult{
		Step: StepRemoveUnreferencedVertices, Status: StatusApplied,
		Detail: fmt.Sprintf("removed %d vertices", dropped),
	})

	report.Steps = append(report.Steps, StepResult{Step: StepSmooth, Status: StatusSkipped, Warning: unavailable})

	if err := meshio.Save(out, joined); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", out, err)
	}
	return report, nil
}

func meshName(s *scene.Scene) string {
	if len(s.Objects) > 0 && s.Objects[0].Name != "" {
		return s.Objects[0].Name
	}
	return "mesh"
}

// UniqueFaces drops faces that use the same three vertices as an earlier
// face, whatever their order, and returns how many were dropped.
func UniqueFaces(obj *scene.Object) int {
	seen := make(map[[3]int]bool, len(obj.Faces))
	kept := obj.Faces[:0]
	for _, f := range obj.Faces {
		key := f
		sort.Ints(key[:])
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, f)
	}
	removed := len(obj.Faces) - len(kept)
	obj.Faces = kept
	return removed
}

// RemoveUnreferencedVertices drops vertices no face uses, re-indexing the
// faces, and returns how many were dropped.
func RemoveUnreferencedVertices(obj *scene.Object) int {
	remap := make([]int, len(obj.Vertices))
	for i := range remap {
		remap[i] = -1
	}
	for _, f := range obj.Faces {
		for _, idx := range f {
			remap[idx] = 0
		}
	}

	kept := obj.Vertices[:0]
	for i, v := range obj.Vertices {
		if remap[i] < 0 {
			continue
		}
		remap[i] = len(kept)
		kept = append(kept, v)
	}
	removed := len(obj.Vertices) - len(kept)
	obj.Vertices = kept

	for i, f := range obj.Faces {
		obj.Faces[i] = [3]int{remap[f[0]], remap[f[1]], remap[f[2]]}
	}
	return removed
}

// New returns the repairer registered under name
func New(name string, trimesh *Trimesh) (Repairer, error) {
	switch name {
	case NameTrimesh, "":
		return trimesh, nil
	case NameNative:
		return Native{}, nil
	default:
		return nil, fmt.Errorf("unknown repairer %q (expected %s or %s)", name, NameTrimesh, NameNative)
	}
}

// Names of the available repairers, as used in configuration
const (
	NameTrimesh = "trimesh"
	NameNative  = "native"
)
