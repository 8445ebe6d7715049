// Package external runs the command-line tools the pipeline delegates to.
package external

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// ErrToolNotFound is wrapped by a ToolError when the executable is not on PATH
var ErrToolNotFound = errors.New("tool not found in PATH")

// ToolError describes a failed external invocation
type ToolError struct {
	Tool   string
	Args   []string
	Stdout string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "%s %s: %v", e.Tool, strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg.WriteString("\nstderr: ")
		msg.WriteString(strings.TrimSpace(e.Stderr))
	}
	if e.Stdout != "" {
		msg.WriteString("\nstdout: ")
		msg.WriteString(strings.TrimSpace(e.Stdout))
	}
	return msg.String()
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Result is the captured output of a successful run
type Result struct {
	Stdout string
	Stderr string
}

// Runner invokes an executable and blocks until it exits
type Runner interface {
	Run(name string, args ...string) (*Result, error)
}

// ExecRunner runs tools as child processes
type ExecRunner struct {
	// Dir is the working directory for the child; empty means the current one
	Dir string
	Log zerolog.Logger
}

// NewExecRunner creates a runner that logs each invocation at debug level
func NewExecRunner(log zerolog.Logger) *ExecRunner {
	return &ExecRunner{Log: log}
}

// Run executes name with args. A missing executable or a non-zero exit is
// returned as a *ToolError carrying whatever the tool printed.
func (r *ExecRunner) Run(name string, args ...string) (*Result, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, &ToolError{Tool: name, Args: args, Err: fmt.Errorf("%w: %s", ErrToolNotFound, name)}
	}

	r.Log.Debug().Str("tool", name).Strs("args", args).Msg("running external tool")

	cmd := exec.Command(name, args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &ToolError{
			Tool:   name,
			Args:   args,
			Stdout: stdout.String(),
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return &Result{Stdout: stdout.String(), Stderr: stderr.String()}, nil
}
