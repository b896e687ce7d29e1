package taskwarrior

import (
	"errors"
	"fmt"

	"github.com/pengelbrecht/twq/internal/process"
)

// ErrNoTasks is returned when an export matched no valid tasks. It is a
// distinguished empty result, not a failure.
var ErrNoTasks = errors.New("no tasks")

// ExternalError reports that the export command itself failed: it could not
// be launched, exited non-zero, or timed out.
type ExternalError struct {
	Filter string
	Err    error
}

func (e *ExternalError) Error() string {
	if e.Timeout() {
		return fmt.Sprintf("task export %q did not answer in time: %v", e.Filter, e.Err)
	}
	return fmt.Sprintf("task export %q failed: %v", e.Filter, e.Err)
}

func (e *ExternalError) Unwrap() error { return e.Err }

// Timeout reports whether the export was killed after its timeout.
func (e *ExternalError) Timeout() bool {
	var timeoutErr *process.TimeoutError
	return errors.As(e.Err, &timeoutErr)
}

// MalformedOutputError reports that the export printed something that is not
// a sequence of JSON values.
type MalformedOutputError struct {
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed task export output: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }
