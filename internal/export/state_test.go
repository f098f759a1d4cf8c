package export

import (
	"testing"
)

func TestTargetStateString(t *testing.T) {
	tests := []struct {
		state TargetState
		want  string
	}{
		{StateIdle, "idle"},
		{StateValidating, "validating"},
		{StateGenerating, "generating"},
		{StateCompleted, "completed"},
		{StateFailed, "failed"},
		{StateCancelled, "cancelled"},
		{TargetState(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := []TargetState{StateCompleted, StateFailed, StateCancelled}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []TargetState{StateIdle, StateValidating, StateGenerating} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestAllowedTransition(t *testing.T) {
	tests := []struct {
		from, to TargetState
		want     bool
	}{
		{StateIdle, StateValidating, true},
		{StateIdle, StateCancelled, true},
		{StateIdle, StateGenerating, false},
		{StateIdle, StateCompleted, false},
		{StateValidating, StateGenerating, true},
		{StateValidating, StateFailed, true},
		{StateValidating, StateCancelled, true},
		{StateValidating, StateCompleted, false},
		{StateGenerating, StateCompleted, true},
		{StateGenerating, StateFailed, true},
		{StateGenerating, StateCancelled, true},
		{StateGenerating, StateValidating, false},
		{StateCompleted, StateFailed, false},
		{StateFailed, StateValidating, false},
		{StateCancelled, StateValidating, false},
	}
	for _, tt := range tests {
		if got := allowedTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("allowedTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
