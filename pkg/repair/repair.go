// Package repair cleans up and smooths meshes before they are printed.
//
// Every sub-step is best-effort: a step that cannot run is reported as
// skipped with a warning and the mesh moves on to the next step unchanged.
package repair

import (
	"github.com/rs/zerolog"
)

// Sub-step names, in the order they run
const (
	StepFillHoles                  = "fill_holes"
	StepUniqueFaces                = "unique_faces"
	StepRemoveUnreferencedVertices = "remove_unreferenced_vertices"
	StepSmooth                     = "smooth"
)

// Steps lists the sub-steps in execution order
var Steps = []string{StepFillHoles, StepUniqueFaces, StepRemoveUnreferencedVertices, StepSmooth}

// Status is the outcome of one sub-step
type Status string

const (
	StatusApplied Status = "applied"
	StatusSkipped Status = "skipped"
)

// StepResult is the outcome of one sub-step
type StepResult struct {
	Step    string `json:"step"`
	Status  Status `json:"status"`
	Warning string `json:"warning,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Report collects the sub-step outcomes of one repair
type Report struct {
	Steps []StepResult
}

// Skipped returns the sub-steps that did not apply
func (r *Report) Skipped() []StepResult {
	var skipped []StepResult
	for _, s := range r.Steps {
		if s.Status != StatusApplied {
			skipped = append(skipped, s)
		}
	}
	return skipped
}

// Log writes one line per sub-step: warnings for skipped steps, debug otherwise
func (r *Report) Log(log zerolog.Logger) {
	for _, s := range r.Steps {
		if s.Status == StatusApplied {
			log.Debug().Str("step", s.Step).Str("detail", s.Detail).Msg("repair step applied")
			continue
		}
		log.Warn().Str("step", s.Step).Msgf("Could not %s: %s", s.Step, s.Warning)
	}
}

// Options tune the smoothing pass
type Options struct {
	SmoothLambda     float64
	SmoothIterations int
}

// DefaultOptions returns a light Laplacian smoothing
func DefaultOptions() Options {
	return Options{SmoothLambda: 0.5, SmoothIterations: 3}
}

// Repairer reads the mesh at in, repairs it and writes the result to out
type Repairer interface {
	Repair(in, out string) (*Report, error)
}
