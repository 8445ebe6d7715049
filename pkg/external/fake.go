package external

import "strings"

// Call records one invocation seen by a FakeRunner
type Call struct {
	Name string
	Args []string
}

// FakeRunner records invocations instead of running anything. Handler, if
// set, decides the outcome of each call.
type FakeRunner struct {
	Calls   []Call
	Handler func(name string, args []string) (*Result, error)
}

// Run records the call and delegates to Handler
func (f *FakeRunner) Run(name string, args ...string) (*Result, error) {
	f.Calls = append(f.Calls, Call{Name: name, Args: append([]string(nil), args...)})
	if f.Handler == nil {
		return &Result{}, nil
	}
	return f.Handler(name, args)
}

// CommandLines returns every recorded call as a single space-joined string
func (f *FakeRunner) CommandLines() []string {
	lines := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		lines[i] = strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
	}
	return lines
}
