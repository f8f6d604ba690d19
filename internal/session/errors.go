package session

import (
	"errors"
	"fmt"
)

// InputError is a recoverable rejection of user input. The engine state
// is unchanged when one is returned.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return e.Reason }

var (
	ErrNoDocument        = &InputError{Reason: "no document provided"}
	ErrTooManyDocuments  = &InputError{Reason: "only one document can be uploaded at a time"}
	ErrEmptyDocument     = &InputError{Reason: "the document is empty"}
	ErrEmptyFilterResult = &InputError{Reason: "no questions match this retake filter"}
	ErrNoSelection       = &InputError{Reason: "select an option first"}
	ErrAlreadyAnswered   = &InputError{Reason: "this question has already been answered"}
	ErrUnknownOption     = &InputError{Reason: "that option does not belong to this question"}
	ErrOutOfRange        = &InputError{Reason: "no question at that position"}
)

// ErrSuperseded is returned by an extraction whose result was discarded
// because a newer extraction or a reset started while it ran.
var ErrSuperseded = errors.New("extraction superseded")

// TransitionError reports an operation that is not allowed in the
// current mode.
type TransitionError struct {
	Action string
	From   Mode
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s in %s mode", e.Action, e.From)
}

// IsInputError reports whether err is an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
