package core

import (
	"context"
	"testing"

	"github.com/pkg/errors"
)

// scriptedNode is a configurable BaseNode for exercising the phase contract.
type scriptedNode struct {
	prepErr      error
	execFailures int // fail this many Exec calls before succeeding
	execErr      error
	postAction   Action
	postErr      error

	phases    []string
	execCalls int
}

func (s *scriptedNode) Name() string { return "scripted" }

func (s *scriptedNode) Prep(state *testState) (string, error) {
	s.phases = append(s.phases, "prep")
	if s.prepErr != nil {
		return "", s.prepErr
	}
	return "input", nil
}

func (s *scriptedNode) Exec(ctx context.Context, prep string) (string, error) {
	s.phases = append(s.phases, "exec")
	s.execCalls++
	if s.execCalls <= s.execFailures {
		return "", s.execErr
	}
	return prep + ":done", nil
}

func (s *scriptedNode) Post(state *testState, prep string, exec string) (Action, error) {
	s.phases = append(s.phases, "post")
	if s.postErr != nil {
		return "", s.postErr
	}
	state.visited = append(state.visited, exec)
	return s.postAction, nil
}

func TestNode_PhaseOrder(t *testing.T) {
	base := &scriptedNode{postAction: ActionDefault}
	node := NewNode(base, 0)

	state := testState{}
	action, err := node.Run(context.Background(), &state)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if action != ActionDefault {
		t.Errorf("Run() = %q, want %q", action, ActionDefault)
	}

	want := []string{"prep", "exec", "post"}
	if len(base.phases) != len(want) {
		t.Fatalf("phases = %v, want %v", base.phases, want)
	}
	for i := range want {
		if base.phases[i] != want[i] {
			t.Errorf("phases[%d] = %q, want %q", i, base.phases[i], want[i])
		}
	}

	if len(state.visited) != 1 || state.visited[0] != "input:done" {
		t.Errorf("post did not publish exec result into state: %v", state.visited)
	}
}

func TestNode_ExecRetry(t *testing.T) {
	tests := []struct {
		name          string
		execFailures  int
		maxRetries    int
		wantErr       bool
		wantExecCalls int
	}{
		{
			name:          "succeeds on first attempt",
			execFailures:  0,
			maxRetries:    2,
			wantExecCalls: 1,
		},
		{
			name:          "recovers within budget",
			execFailures:  2,
			maxRetries:    2,
			wantExecCalls: 3,
		},
		{
			name:          "fails after budget exhausted",
			execFailures:  3,
			maxRetries:    1,
			wantErr:       true,
			wantExecCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			execErr := errors.New("transient failure")
			base := &scriptedNode{
				execFailures: tt.execFailures,
				execErr:      execErr,
				postAction:   ActionDone,
			}
			node := NewNode(base, tt.maxRetries)

			_, err := node.Run(context.Background(), &testState{})
			if tt.wantErr {
				if !errors.Is(err, execErr) {
					t.Fatalf("Run() error = %v, want wrapped %v", err, execErr)
				}
				// Post must not run when Exec fails for good.
				for _, phase := range base.phases {
					if phase == "post" {
						t.Error("post ran after exhausted exec retries")
					}
				}
			} else if err != nil {
				t.Fatalf("Run() unexpected error: %v", err)
			}

			if base.execCalls != tt.wantExecCalls {
				t.Errorf("exec called %d times, want %d", base.execCalls, tt.wantExecCalls)
			}
		})
	}
}

func TestNode_PrepErrorIsFatal(t *testing.T) {
	prepErr := errors.Wrap(ErrMissingInput, "query")
	base := &scriptedNode{prepErr: prepErr, postAction: ActionDone}
	node := NewNode(base, 3)

	_, err := node.Run(context.Background(), &testState{})
	if !errors.Is(err, ErrMissingInput) {
		t.Fatalf("Run() error = %v, want ErrMissingInput", err)
	}
	if base.execCalls != 0 {
		t.Errorf("exec ran %d times after a prep failure, want 0", base.execCalls)
	}
}

func TestNode_PostErrorPropagates(t *testing.T) {
	postErr := errors.New("judgment rejected")
	base := &scriptedNode{postErr: postErr}
	node := NewNode(base, 0)

	_, err := node.Run(context.Background(), &testState{})
	if !errors.Is(err, postErr) {
		t.Fatalf("Run() error = %v, want wrapped %v", err, postErr)
	}
}

func TestNode_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	base := &scriptedNode{postAction: ActionDone}
	node := NewNode(base, 0)

	_, err := node.Run(ctx, &testState{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if base.execCalls != 0 {
		t.Errorf("exec ran on a cancelled context")
	}
}
