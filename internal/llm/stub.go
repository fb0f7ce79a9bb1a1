package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/memora-app/memora/internal/errors"
)

// StubClient is a deterministic in-memory client for tests. Responses are
// selected by substring match against the prompt; FailOn forces a
// MODEL_CALL failure for prompts containing the given marker.
type StubClient struct {
	mu sync.Mutex

	// Response is returned for any prompt with no more specific match.
	Response string

	// Responses maps a prompt substring to its canned completion.
	Responses map[string]string

	// FailOn lists prompt substrings that trigger a failure.
	FailOn []string

	// Calls records every prompt received, in arrival order.
	Calls []string
}

// NewStubClient returns a stub that answers every prompt with text.
func NewStubClient(text string) *StubClient {
	return &StubClient{Response: text}
}

// Name returns the provider identifier.
func (s *StubClient) Name() string {
	return "stub"
}

// Generate returns the canned response for the prompt, honoring
// cancellation and configured failures.
func (s *StubClient) Generate(ctx context.Context, system, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.Calls = append(s.Calls, prompt)
	s.mu.Unlock()

	for _, marker := range s.FailOn {
		if strings.Contains(prompt, marker) {
			return "", stubFailure(marker)
		}
	}

	for marker, response := range s.Responses {
		if strings.Contains(prompt, marker) {
			return response, nil
		}
	}

	return s.Response, nil
}

// CallCount returns how many prompts the stub has received.
func (s *StubClient) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}

// stubFailure mirrors the error shape the real client produces.
func stubFailure(marker string) error {
	return errors.NewModelCall(fmt.Errorf("stub failure for %q", marker))
}
