package export

// TargetState tracks one target's progress through the orchestrator's state
// machine: Idle → Validating → Generating → {Completed | Failed | Cancelled}.
type TargetState int

const (
	StateIdle TargetState = iota
	StateValidating
	StateGenerating
	StateCompleted
	StateFailed
	StateCancelled
)

func (s TargetState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateGenerating:
		return "generating"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the state is terminal.
func (s TargetState) IsTerminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateCancelled:
		return true
	default:
		return false
	}
}

// allowedTransition reports whether from → to is a legal state change.
func allowedTransition(from, to TargetState) bool {
	switch from {
	case StateIdle:
		return to == StateValidating || to == StateCancelled
	case StateValidating:
		return to == StateGenerating || to == StateFailed || to == StateCancelled
	case StateGenerating:
		return to == StateCompleted || to == StateFailed || to == StateCancelled
	default:
		return false
	}
}

// RunState is the aggregate outcome of one export call.
type RunState int

const (
	RunPending RunState = iota

	// RunAllDone means every requested target reached a terminal state.
	RunAllDone

	// RunCancelled means cancellation was requested before all targets
	// finished.
	RunCancelled
)

func (s RunState) String() string {
	switch s {
	case RunPending:
		return "pending"
	case RunAllDone:
		return "all_done"
	case RunCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}
