package repair

import (
	"bufio"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/philipparndt/printbase/pkg/external"
)

//go:embed trimesh_repair.py
var trimeshScript string

// DefaultPython is the interpreter used when none is configured
const DefaultPython = "python3"

// Trimesh repairs meshes with the Python trimesh library. The interpreter
// must have trimesh installed.
type Trimesh struct {
	Runner  external.Runner
	Python  string
	Options Options
}

// NewTrimesh creates a trimesh repairer; an empty python selects DefaultPython
func NewTrimesh(runner external.Runner, python string, opts Options) *Trimesh {
	if python == "" {
		python = DefaultPython
	}
	return &Trimesh{Runner: runner, Python: python, Options: opts}
}

// Repair runs the embedded script. Sub-step failures come back as skipped
// steps; failing to start the interpreter, load or export is an error.
func (t *Trimesh) Repair(in, out string) (*Report, error) {
	res, err := t.Runner.Run(t.Python, "-c", trimeshScript,
		in, out,
		strconv.FormatFloat(t.Options.SmoothLambda, 'g', -1, 64),
		strconv.Itoa(t.Options.SmoothIterations),
	)
	if err != nil {
		return nil, fmt.Errorf("trimesh repair of %s failed: %w", in, err)
	}
	return parseReport(res.Stdout)
}

// parseReport reads the one-JSON-object-per-line step output of the script.
// Lines that are not JSON objects are trimesh's own chatter and are ignored.
func parseReport(stdout string) (*Report, error) {
	report := &Report{}
	scanner := bufio.NewScanner(strings.NewReader(stdout))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var step StepResult
		if err := json.Unmarshal([]byte(line), &step); err != nil {
			return nil, fmt.Errorf("malformed repair report line %q: %w", line, err)
		}
		report.Steps = append(report.Steps, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read repair report: %w", err)
	}
	return report, nil
}
