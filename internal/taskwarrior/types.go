package taskwarrior

import (
	"fmt"
	"strings"
	"time"
)

// Task statuses as exported by Taskwarrior.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusWaiting   = "waiting"
	StatusDeleted   = "deleted"
	StatusRecurring = "recurring"
)

// timeLayout is Taskwarrior's export timestamp format, always UTC.
const timeLayout = "20060102T150405Z"

// Time is a timestamp in Taskwarrior's export format.
type Time struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "0" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(timeLayout, s)
	if err != nil {
		return fmt.Errorf("parse taskwarrior time %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.Format(timeLayout) + `"`), nil
}

// Annotation is a timestamped note attached to a task.
type Annotation struct {
	Entry       *Time  `json:"entry,omitempty"`
	Description string `json:"description"`
}

// Task is one record from "task export".
//
// ID is reassigned by Taskwarrior as tasks complete and is 0 for completed
// or deleted tasks. UUID is the only identifier stable across two exports,
// so anything that refers back to a task later must carry the UUID.
type Task struct {
	ID          int          `json:"id,omitempty"`
	UUID        string       `json:"uuid"`
	Description string       `json:"description"`
	Status      string       `json:"status,omitempty"`
	Project     string       `json:"project,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Urgency     float64      `json:"urgency"`
	Entry       *Time        `json:"entry,omitempty"`
	Due         *Time        `json:"due,omitempty"`
	Start       *Time        `json:"start,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// IsActive returns true if the task has been started and not stopped.
func (t *Task) IsActive() bool {
	return t.Start != nil && !t.Start.IsZero()
}

// HasDue returns true if the task has a due date.
func (t *Task) HasDue() bool {
	return t.Due != nil && !t.Due.IsZero()
}

// ShortUUID returns the first block of the UUID, as Taskwarrior abbreviates it.
func (t *Task) ShortUUID() string {
	if i := strings.IndexByte(t.UUID, '-'); i > 0 {
		return t.UUID[:i]
	}
	return t.UUID
}
