package domain

import "strings"

type State int

const (
	StateEditing State = iota
	StateValidating
	StateFailed
	StateSubmitting
	StateSucceededTerminal
	StateSucceededReset
	StateDiscarded
)

var stateNames = map[State]string{
	StateEditing:           "editing",
	StateValidating:        "validating",
	StateFailed:            "failed",
	StateSubmitting:        "submitting",
	StateSucceededTerminal: "succeeded_terminal",
	StateSucceededReset:    "succeeded_reset",
	StateDiscarded:         "discarded",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Finished reports whether the session left the authoring view.
func (s State) Finished() bool {
	return s == StateSucceededTerminal || s == StateDiscarded
}

// Outcome is chosen by the submit control and fixed for that submission.
type Outcome int

const (
	// OutcomeTerminal publishes and leaves the authoring view.
	OutcomeTerminal Outcome = iota + 1
	// OutcomeReset publishes and starts a fresh draft in place.
	OutcomeReset
)

func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "terminal", "publish":
		return OutcomeTerminal, nil
	case "reset", "publish_and_add_another":
		return OutcomeReset, nil
	}
	return 0, ErrInvalidOutcome
}

func (o Outcome) Valid() bool {
	return o == OutcomeTerminal || o == OutcomeReset
}

func (o Outcome) String() string {
	switch o {
	case OutcomeTerminal:
		return "terminal"
	case OutcomeReset:
		return "reset"
	}
	return "unknown"
}
