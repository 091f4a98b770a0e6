package pr

import (
	"context"
	"sync"
)

// MockProvider is a mock implementation of Provider for testing.
// Every call is recorded by method name in Calls.
type MockProvider struct {
	CheckAuthFunc func(ctx context.Context) error
	CreatePRFunc  func(ctx context.Context, opts Options) (*PullRequest, error)
	MergePRFunc   func(ctx context.Context, branch string, opts MergeOptions) error
	ViewPRFunc    func(ctx context.Context, branch string) error

	mu      sync.Mutex
	Calls   []string
	Created []Options
	Merged  []MergeOptions
}

// Name implements Provider.
func (m *MockProvider) Name() string { return "mock" }

// CheckAuth implements Provider.
func (m *MockProvider) CheckAuth(ctx context.Context) error {
	m.record("CheckAuth")
	if m.CheckAuthFunc != nil {
		return m.CheckAuthFunc(ctx)
	}
	return nil
}

// CreatePR implements Provider.
func (m *MockProvider) CreatePR(ctx context.Context, opts Options) (*PullRequest, error) {
	m.record("CreatePR")
	m.mu.Lock()
	m.Created = append(m.Created, opts)
	m.mu.Unlock()
	if m.CreatePRFunc != nil {
		return m.CreatePRFunc(ctx, opts)
	}
	return &PullRequest{Number: 1, URL: "https://example.com/pull/1", Title: opts.Title, Head: opts.Head, Base: opts.Base, State: StateOpen}, nil
}

// MergePR implements Provider.
func (m *MockProvider) MergePR(ctx context.Context, branch string, opts MergeOptions) error {
	m.record("MergePR")
	m.mu.Lock()
	m.Merged = append(m.Merged, opts)
	m.mu.Unlock()
	if m.MergePRFunc != nil {
		return m.MergePRFunc(ctx, branch, opts)
	}
	return nil
}

// ViewPR implements Provider.
func (m *MockProvider) ViewPR(ctx context.Context, branch string) error {
	m.record("ViewPR")
	if m.ViewPRFunc != nil {
		return m.ViewPRFunc(ctx, branch)
	}
	return nil
}

// Called reports whether method was invoked.
func (m *MockProvider) Called(method string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Calls {
		if c == method {
			return true
		}
	}
	return false
}

func (m *MockProvider) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, method)
}
