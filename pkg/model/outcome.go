package model

// OutcomeState tags the three terminal states of a dispatched call.
type OutcomeState int

const (
	// StateSucceeded means the operation ran; a value may or may not be
	// present (a boolean false result yields a succeeded outcome with an
	// absent value).
	StateSucceeded OutcomeState = iota
	// StateDenied means the authorization gate refused the call. The
	// operation body was never invoked.
	StateDenied
	// StateFailed means a hard failure: unresolved service, malformed
	// envelope, transport fault, or an error from the operation body.
	StateFailed
)

func (s OutcomeState) String() string {
	switch s {
	case StateSucceeded:
		return "succeeded"
	case StateDenied:
		return "denied"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Outcome is the tagged result of a dispatch. Exactly one state applies;
// denial is never surfaced as an error and errors are never surfaced as
// denial.
type Outcome struct {
	state   OutcomeState
	value   any
	message string
	err     error
}

// Succeed builds a succeeded outcome. Pass nil for a void or "no entity"
// result.
func Succeed(value any) Outcome {
	return Outcome{state: StateSucceeded, value: value}
}

// Deny builds a denied outcome. An empty message is an unexplained denial.
func Deny(message string) Outcome {
	return Outcome{state: StateDenied, message: message}
}

// Fail builds a failed outcome carrying the cause.
func Fail(err error) Outcome {
	return Outcome{state: StateFailed, err: err}
}

// State returns the outcome tag.
func (o Outcome) State() OutcomeState { return o.state }

// Value returns the carried value and whether one is present. Only a
// succeeded outcome can carry a value.
func (o Outcome) Value() (any, bool) {
	if o.state != StateSucceeded || o.value == nil {
		return nil, false
	}
	return o.value, true
}

// Message returns the denial reason, empty for unexplained denial or any
// other state.
func (o Outcome) Message() string { return o.message }

// Err returns the failure cause, nil unless the outcome is failed.
func (o Outcome) Err() error { return o.err }
