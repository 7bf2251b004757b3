package compression

import (
	"context"
	"strings"
	"sync"
)

// MockProvider implements Provider for testing. It records calls and
// tracks how many are in flight simultaneously, which lets tests assert
// the orchestrator's concurrency bound.
type MockProvider struct {
	mu          sync.Mutex
	calls       []MockCall
	inFlight    int
	maxInFlight int

	// CompressFunc overrides the default behavior when set.
	CompressFunc func(ctx context.Context, text string, level Level, useLargeModel bool) (string, error)

	// FailuresBeforeSuccess makes the first N calls per distinct text
	// fail, then succeed. Exercises the retry path.
	FailuresBeforeSuccess int
	failures              map[string]int
}

// MockCall records the arguments of one Compress invocation.
type MockCall struct {
	Text          string
	Level         Level
	UseLargeModel bool
}

// Compress returns a deterministic shortened form of the input unless
// CompressFunc overrides it.
func (m *MockProvider) Compress(ctx context.Context, text string, level Level, useLargeModel bool) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Text: text, Level: level, UseLargeModel: useLargeModel})
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if m.FailuresBeforeSuccess > 0 {
		m.mu.Lock()
		if m.failures == nil {
			m.failures = make(map[string]int)
		}
		m.failures[text]++
		count := m.failures[text]
		m.mu.Unlock()
		if count <= m.FailuresBeforeSuccess {
			return "", ErrEmptyResponse
		}
	}

	if m.CompressFunc != nil {
		return m.CompressFunc(ctx, text, level, useLargeModel)
	}

	words := strings.Fields(text)
	if len(words) > 3 {
		words = words[:3]
	}
	return "[compressed] " + strings.Join(words, " "), nil
}

// Calls returns the recorded invocations.
func (m *MockProvider) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// MaxInFlight reports the peak number of simultaneous calls.
func (m *MockProvider) MaxInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight
}

var _ Provider = (*MockProvider)(nil)
