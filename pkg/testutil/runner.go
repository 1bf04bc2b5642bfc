package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/hostup/hostup/pkg/system"
)

// ScriptedRunner is a system.Runner for tests. Responses are keyed by the
// full command line; unscripted commands succeed with an empty result unless
// FailUnscripted is set.
type ScriptedRunner struct {
	mu             sync.Mutex
	results        map[string]system.Result
	errs           map[string]error
	calls          []system.Command
	FailUnscripted bool
}

// NewScriptedRunner creates an empty scripted runner
func NewScriptedRunner() *ScriptedRunner {
	return &ScriptedRunner{
		results: make(map[string]system.Result),
		errs:    make(map[string]error),
	}
}

// Script registers the result for a command line (e.g. "systemctl reload nginx")
func (r *ScriptedRunner) Script(cmdline string, result system.Result) *ScriptedRunner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[cmdline] = result
	return r
}

// ScriptError registers a run failure (process could not start) for a command line
func (r *ScriptedRunner) ScriptError(cmdline string, err error) *ScriptedRunner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[cmdline] = err
	return r
}

// Run implements system.Runner
func (r *ScriptedRunner) Run(_ context.Context, cmd system.Command) (system.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, cmd)

	key := cmd.String()
	if err, ok := r.errs[key]; ok {
		return system.Result{}, err
	}
	if result, ok := r.results[key]; ok {
		return result, nil
	}
	if r.FailUnscripted {
		return system.Result{}, fmt.Errorf("unscripted command: %s", key)
	}
	return system.Result{}, nil
}

// Calls returns the command lines run so far, in order
func (r *ScriptedRunner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.String()
	}
	return out
}

// CallCount returns how many times the exact command line was run
func (r *ScriptedRunner) CallCount(cmdline string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.String() == cmdline {
			n++
		}
	}
	return n
}
