package llm

import (
	"context"
	"testing"
)

func TestMockProvider_CannedResponsesCycle(t *testing.T) {
	mock := NewMockProvider("test")
	mock.SetResponses("first", "second")

	messages := []Message{{Role: RoleUser, Content: "hello"}}

	for i, want := range []string{"first", "second", "first"} {
		resp, err := mock.CallLLM(context.Background(), messages)
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if resp.Content != want {
			t.Errorf("call %d: got %q, want %q", i, resp.Content, want)
		}
		if resp.Role != RoleAssistant {
			t.Errorf("call %d: role = %q, want %q", i, resp.Role, RoleAssistant)
		}
	}

	if mock.GetCallCount() != 3 {
		t.Errorf("call count = %d, want 3", mock.GetCallCount())
	}
}

func TestMockProvider_PatternResponses(t *testing.T) {
	mock := NewMockProvider("test")
	mock.SetResponsePattern(map[string]string{
		"verify":   "verdict: valid",
		"relevant": "verdict: sufficient",
	})

	resp, err := mock.CallLLM(context.Background(), []Message{
		{Role: RoleUser, Content: "Please VERIFY this code"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "verdict: valid" {
		t.Errorf("pattern match got %q, want %q", resp.Content, "verdict: valid")
	}
}

func TestMockProvider_ErrorSimulation(t *testing.T) {
	mock := NewMockProvider("test")
	mock.SetError(true, "rate limited")

	_, err := mock.CallLLM(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected simulated error")
	}
	if err.Error() != "rate limited" {
		t.Errorf("error = %q, want %q", err.Error(), "rate limited")
	}

	mock.Reset()
	if _, err := mock.CallLLM(context.Background(), nil); err != nil {
		t.Fatalf("error after Reset: %v", err)
	}
}
