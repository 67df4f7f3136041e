package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAction is returned for any action other than stop or terminate
	ErrInvalidAction = errors.New("not allowed ec2 action")

	// ErrIncorrectInstanceState marks a provider rejection caused by the
	// instance being in a state that does not accept the command
	ErrIncorrectInstanceState = errors.New("incorrect instance state")
)

// Action is an operation performed on an instance
type Action string

const (
	ActionStop      Action = "stop"
	ActionTerminate Action = "terminate"
)

// AllowedActions lists the accepted action names in help order
var AllowedActions = []Action{ActionStop, ActionTerminate}

// ParseAction converts a user supplied name into an Action
func ParseAction(name string) (Action, error) {
	a := Action(name)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q (allowed: stop, terminate)", ErrInvalidAction, name)
	}
	return a, nil
}

// Valid reports whether a is stop or terminate
func (a Action) Valid() bool {
	return a == ActionStop || a == ActionTerminate
}

// PastTense returns the word used in confirmation messages
func (a Action) PastTense() string {
	switch a {
	case ActionStop:
		return "stopped"
	case ActionTerminate:
		return "terminated"
	default:
		return string(a)
	}
}

// ActionResult is the outcome of executing an action on one instance.
// Err holds a soft failure; Performed is false whenever Err is set.
type ActionResult struct {
	Instance  Instance
	Action    Action
	Performed bool
	DryRun    bool
	Err       error
}

// Status returns a short label for reports
func (r ActionResult) Status() string {
	switch {
	case r.Err != nil:
		return "skipped"
	case r.DryRun:
		return "would " + string(r.Action)
	case r.Performed:
		return r.Action.PastTense()
	default:
		return "none"
	}
}

// StateConflictError is returned when the provider rejects a command because
// of the instance's current state, e.g. stopping a pending instance
type StateConflictError struct {
	InstanceID string
	Message    string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("instance %s: %s", e.InstanceID, e.Message)
}

// Unwrap lets errors.Is match ErrIncorrectInstanceState
func (e *StateConflictError) Unwrap() error {
	return ErrIncorrectInstanceState
}
