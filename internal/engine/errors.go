package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrTimerNotFound: the operation referenced an unknown timer. The
	// caller's problem; never retried here.
	ErrTimerNotFound = errors.New("timer not found")

	// ErrAlreadyStarted: Start was called on a running engine. The engine
	// is a single-owner resource; stop it before starting another branch.
	ErrAlreadyStarted = errors.New("engine already started")

	ErrNotStarted = errors.New("engine not started")

	// ErrAlertNotFound: acknowledgment referenced an alert that is not
	// active, usually because it was already acknowledged or cancelled.
	ErrAlertNotFound = errors.New("alert not found")

	ErrInvalidExtension = errors.New("extension minutes must be positive")

	ErrEmptyBranch = errors.New("branch id is empty")
)

// TransportError wraps a failed backend call. Extension failures carry it
// to the caller; poll failures only surface through the sync status.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
