package llm

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// MockProvider implements LLMProvider for testing purposes. It supports
// canned responses, substring-pattern responses and error simulation.
type MockProvider struct {
	name          string
	responses     []string
	responseIndex int
	patterns      map[string]string
	simulateError bool
	errorMessage  string
	callCount     int
}

// NewMockProvider creates a new mock LLM provider.
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		name:      name,
		responses: []string{"Mock response from " + name},
		patterns:  make(map[string]string),
	}
}

// CallLLM simulates an LLM call and returns configured responses or errors.
// Pattern matches on the last user message take precedence over the canned
// response list.
func (m *MockProvider) CallLLM(ctx context.Context, messages []Message) (Message, error) {
	m.callCount++

	if m.simulateError {
		if m.errorMessage != "" {
			return Message{}, errors.New(m.errorMessage)
		}
		return Message{}, errors.Errorf("simulated API error from %s", m.name)
	}

	if len(m.patterns) > 0 && len(messages) > 0 {
		lastMessage := messages[len(messages)-1]
		if lastMessage.Role == RoleUser {
			userInput := strings.ToLower(lastMessage.Content)
			for pattern, response := range m.patterns {
				if strings.Contains(userInput, strings.ToLower(pattern)) {
					return Message{Role: RoleAssistant, Content: response}, nil
				}
			}
		}
	}

	if len(m.responses) == 0 {
		return Message{Role: RoleAssistant, Content: "Default mock response"}, nil
	}

	response := m.responses[m.responseIndex]
	// Cycle through responses for multiple calls.
	m.responseIndex = (m.responseIndex + 1) % len(m.responses)

	return Message{Role: RoleAssistant, Content: response}, nil
}

// GetName returns the mock provider name.
func (m *MockProvider) GetName() string {
	return m.name
}

// SetResponses configures the responses that the mock will return, in order.
func (m *MockProvider) SetResponses(responses ...string) {
	m.responses = responses
	m.responseIndex = 0
}

// AddResponse appends a single response to the response list.
func (m *MockProvider) AddResponse(response string) {
	m.responses = append(m.responses, response)
}

// SetResponsePattern configures responses keyed by input substrings, e.g.
// {"verify": "verdict: valid"}.
func (m *MockProvider) SetResponsePattern(patterns map[string]string) {
	m.patterns = patterns
}

// SetError configures the mock to simulate an error on every call.
func (m *MockProvider) SetError(shouldError bool, errorMessage string) {
	m.simulateError = shouldError
	m.errorMessage = errorMessage
}

// GetCallCount returns the number of times CallLLM has been called.
func (m *MockProvider) GetCallCount() int {
	return m.callCount
}

// Reset returns the mock provider to its initial state.
func (m *MockProvider) Reset() {
	m.responseIndex = 0
	m.simulateError = false
	m.errorMessage = ""
	m.patterns = make(map[string]string)
	m.callCount = 0
}
