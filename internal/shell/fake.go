package shell

import (
	"context"
	"sync"
)

// FakeRunner is a scripted Runner for tests in other packages. Responses
// are keyed by the rendered command line; unscripted commands fail with
// exec-style "not found" errors.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	calls     []Command
}

type fakeResponse struct {
	result *Result
	err    error
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string]fakeResponse)}
}

// Respond scripts stdout (exit 0) for the given command line.
func (f *FakeRunner) Respond(cmdline, stdout string) *FakeRunner {
	return f.RespondResult(cmdline, &Result{Stdout: stdout})
}

// RespondResult scripts a full result for the given command line.
func (f *FakeRunner) RespondResult(cmdline string, res *Result) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = fakeResponse{result: res}
	return f
}

// Fail scripts an error for the given command line.
func (f *FakeRunner) Fail(cmdline string, err error) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = fakeResponse{err: err}
	return f
}

// Run records the call and returns the scripted response.
func (f *FakeRunner) Run(_ context.Context, c Command) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)

	resp, ok := f.responses[c.String()]
	if !ok {
		return nil, &notScriptedError{cmd: c.String()}
	}
	if resp.err != nil {
		return nil, resp.err
	}
	out := *resp.result
	return &out, nil
}

// Calls returns every command run so far.
func (f *FakeRunner) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Command, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how often the given command line ran.
func (f *FakeRunner) CallCount(cmdline string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.String() == cmdline {
			n++
		}
	}
	return n
}

type notScriptedError struct{ cmd string }

func (e *notScriptedError) Error() string {
	return "executable file not found: " + e.cmd
}
