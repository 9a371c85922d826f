package orchestration

// State is the lifecycle stage of a run.
type State int

const (
	// StateCreated is the state before validation succeeds.
	StateCreated State = iota
	// StateRunning means the workers have been spawned.
	StateRunning
	// StateJoining means the orchestrator is waiting for every worker.
	StateJoining
	// StateFinalized means the sink has printed the summary.
	StateFinalized
	// StateAborted means the run failed. No result is returned.
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateJoining:
		return "joining"
	case StateFinalized:
		return "finalized"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	return s == StateFinalized || s == StateAborted
}
