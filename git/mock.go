package git

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Call records a single command invocation made through a mock runner.
type Call struct {
	WorkDir string
	Name    string
	Args    []string
}

// CommandLine returns the call's command and arguments joined by spaces.
func (c Call) CommandLine() string {
	return commandLine(c.Name, c.Args)
}

type mockResponse struct {
	output string
	err    error
}

// MockRunner is a CommandRunner that answers by command line.
// Unregistered commands succeed with empty output.
type MockRunner struct {
	mu       sync.Mutex
	exact    map[string]mockResponse
	prefixes []string
	byPrefix map[string]mockResponse
	calls    []Call
}

// NewMockRunner creates an empty MockRunner.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		exact:    make(map[string]mockResponse),
		byPrefix: make(map[string]mockResponse),
	}
}

// On registers the response for an exact command line such as
// "git rev-parse --abbrev-ref HEAD".
func (m *MockRunner) On(cmdLine, output string, err error) *MockRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exact[cmdLine] = mockResponse{output: output, err: err}
	return m
}

// OnPrefix registers the response for every command line starting with prefix.
// The longest matching prefix wins; exact matches take precedence.
func (m *MockRunner) OnPrefix(prefix, output string, err error) *MockRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byPrefix[prefix]; !ok {
		m.prefixes = append(m.prefixes, prefix)
	}
	m.byPrefix[prefix] = mockResponse{output: output, err: err}
	return m
}

// Fail registers a *CommandError for an exact command line.
func (m *MockRunner) Fail(cmdLine, message string) *MockRunner {
	name, args := splitCommandLine(cmdLine)
	return m.On(cmdLine, "", &CommandError{
		Command: name,
		Args:    args,
		Output:  message,
		Err:     errors.New("exit status 1"),
	})
}

// FailPrefix registers a *CommandError for command lines starting with prefix.
func (m *MockRunner) FailPrefix(prefix, message string) *MockRunner {
	name, args := splitCommandLine(prefix)
	return m.OnPrefix(prefix, "", &CommandError{
		Command: name,
		Args:    args,
		Output:  message,
		Err:     errors.New("exit status 1"),
	})
}

// Run implements CommandRunner.
func (m *MockRunner) Run(ctx context.Context, workDir, name string, args ...string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{WorkDir: workDir, Name: name, Args: append([]string(nil), args...)})

	if err := ctx.Err(); err != nil {
		return "", err
	}

	line := commandLine(name, args)
	if resp, ok := m.exact[line]; ok {
		return resp.output, resp.err
	}

	best := ""
	for _, p := range m.prefixes {
		if strings.HasPrefix(line, p) && len(p) > len(best) {
			best = p
		}
	}
	if best != "" {
		resp := m.byPrefix[best]
		return resp.output, resp.err
	}
	return "", nil
}

// Calls returns a copy of every invocation in order.
func (m *MockRunner) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// Commands returns the command line of every invocation in order.
func (m *MockRunner) Commands() []string {
	calls := m.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.CommandLine()
	}
	return lines
}

// Ran reports whether a command line starting with prefix was invoked.
func (m *MockRunner) Ran(prefix string) bool {
	for _, line := range m.Commands() {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// SequentialMockRunner answers calls from a queue in order, regardless of
// the command being run.
type SequentialMockRunner struct {
	mu        sync.Mutex
	responses []mockResponse
	calls     []Call
}

// NewSequentialMockRunner creates an empty SequentialMockRunner.
func NewSequentialMockRunner() *SequentialMockRunner {
	return &SequentialMockRunner{}
}

// AddOutput queues a response.
func (m *SequentialMockRunner) AddOutput(output string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResponse{output: output, err: err})
}

// AddFailure queues a *CommandError carrying message.
func (m *SequentialMockRunner) AddFailure(message string) {
	m.AddOutput("", &CommandError{Output: message, Err: errors.New("exit status 1")})
}

// Run implements CommandRunner.
func (m *SequentialMockRunner) Run(_ context.Context, workDir, name string, args ...string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{WorkDir: workDir, Name: name, Args: append([]string(nil), args...)})
	if len(m.responses) == 0 {
		return "", &CommandError{Command: name, Args: args, Output: "unexpected command"}
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]

	if ce, ok := resp.err.(*CommandError); ok && ce.Command == "" {
		filled := *ce
		filled.Command = name
		filled.Args = args
		filled.WorkDir = workDir
		return resp.output, &filled
	}
	return resp.output, resp.err
}

// Calls returns a copy of every invocation in order.
func (m *SequentialMockRunner) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

func splitCommandLine(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}
