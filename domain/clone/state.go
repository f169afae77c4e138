package clone

import "time"

// State is a step of the clone state machine.
type State string

// State values, in execution order.
const (
	StateStart             State = "start"
	StateDirectoryChecked  State = "directory_checked"
	StateInitialized       State = "initialized"
	StateRemoteAdded       State = "remote_added"
	StateFetched           State = "fetched"
	StateCheckedOut        State = "checked_out"
	StateSubmodulesSynced  State = "submodules_synced"
	StateMetadataExtracted State = "metadata_extracted"
	StateSucceeded         State = "succeeded"
	StateFailed            State = "failed"
)

// IsTerminal returns true if the state ends the run.
func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Progress is a snapshot of a run's state, delivered to reporters.
type Progress struct {
	state     State
	message   string
	errorText string
	updatedAt time.Time
}

// NewProgress creates a Progress in the start state.
func NewProgress() Progress {
	return Progress{state: StateStart, updatedAt: time.Now().UTC()}
}

// State returns the current state.
func (p Progress) State() State { return p.state }

// Message returns the message attached to the last transition.
func (p Progress) Message() string { return p.message }

// Error returns the failure message, if any.
func (p Progress) Error() string { return p.errorText }

// UpdatedAt returns the time of the last transition.
func (p Progress) UpdatedAt() time.Time { return p.updatedAt }

// Advance returns a copy moved to state with message.
func (p Progress) Advance(state State, message string) Progress {
	p.state = state
	p.message = message
	p.updatedAt = time.Now().UTC()
	return p
}

// Fail returns a copy in the failed state.
func (p Progress) Fail(message, errText string) Progress {
	p.state = StateFailed
	p.message = message
	p.errorText = errText
	p.updatedAt = time.Now().UTC()
	return p
}
