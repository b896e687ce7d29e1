package taskwarrior

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pengelbrecht/twq/internal/process"
)

// fakeRunner returns canned export output and records the invocation.
type fakeRunner struct {
	stdout  string
	err     error
	name    string
	args    []string
	timeout time.Duration
}

func (f *fakeRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (*process.Result, error) {
	f.name = name
	f.args = args
	f.timeout = timeout
	if f.err != nil {
		return nil, f.err
	}
	return &process.Result{Stdout: []byte(f.stdout)}, nil
}

func TestNewClient(t *testing.T) {
	c := NewClient(&fakeRunner{}, nil)
	if c.Command != "task" {
		t.Errorf("expected Command to be 'task', got %q", c.Command)
	}
	if c.DefaultFilter != "+READY" {
		t.Errorf("expected DefaultFilter to be '+READY', got %q", c.DefaultFilter)
	}
	if c.Timeout != DefaultTimeout {
		t.Errorf("expected Timeout %v, got %v", DefaultTimeout, c.Timeout)
	}
}

func TestExportArgs(t *testing.T) {
	c := NewClient(&fakeRunner{}, nil)

	tests := []struct {
		name   string
		filter string
		want   []string
	}{
		{"empty uses default", "", []string{"+READY"}},
		{"blank uses default", "   ", []string{"+READY"}},
		{"single token", "+work", []string{"+work"}},
		{"several tokens", "+work due:today", []string{"+work", "due:today"}},
		{"quoted value", `project:"Home Stuff" +next`, []string{"project:Home Stuff", "+next"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := append([]string{"rc.verbose=nothing", "rc.json.array=on"}, tt.want...)
			want = append(want, "export")

			got := c.ExportArgs(tt.filter)
			if strings.Join(got, "|") != strings.Join(want, "|") {
				t.Errorf("ExportArgs(%q) = %q, want %q", tt.filter, got, want)
			}
		})
	}
}

func TestExportArgs_CustomDefaultFilter(t *testing.T) {
	c := NewClient(&fakeRunner{}, nil)
	c.DefaultFilter = "status:pending"

	args := c.ExportArgs("")
	if args[2] != "status:pending" {
		t.Errorf("ExportArgs(\"\") = %q, want default filter status:pending", args)
	}
}

func TestList_SortsByUrgencyDescending(t *testing.T) {
	runner := &fakeRunner{stdout: `[
		{"uuid": "A", "description": "` + strings.Repeat("x", 60) + `", "urgency": 1.0},
		{"uuid": "B", "description": "short", "urgency": 5.0}
	]`}
	c := NewClient(runner, nil)

	tasks, err := c.List(context.Background(), "+READY")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].UUID != "B" || tasks[1].UUID != "A" {
		t.Errorf("order = %s, %s; want B, A", tasks[0].UUID, tasks[1].UUID)
	}
	if runner.name != "task" {
		t.Errorf("ran %q, want task", runner.name)
	}
	if runner.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", runner.timeout, DefaultTimeout)
	}
}

func TestList_StableForEqualUrgency(t *testing.T) {
	runner := &fakeRunner{stdout: `[
		{"uuid": "1", "description": "first", "urgency": 2},
		{"uuid": "2", "description": "second"},
		{"uuid": "3", "description": "third", "urgency": 2},
		{"uuid": "4", "description": "fourth", "urgency": 9.5},
		{"uuid": "5", "description": "fifth", "urgency": 0}
	]`}
	c := NewClient(runner, nil)

	tasks, err := c.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	var order []string
	for _, task := range tasks {
		order = append(order, task.UUID)
	}
	if got := strings.Join(order, ","); got != "4,1,3,2,5" {
		t.Errorf("order = %s, want 4,1,3,2,5", got)
	}
	for i := 1; i < len(tasks); i++ {
		if tasks[i].Urgency > tasks[i-1].Urgency {
			t.Errorf("urgency increases at %d: %v > %v", i, tasks[i].Urgency, tasks[i-1].Urgency)
		}
	}
}

func TestList_EmptyOutput(t *testing.T) {
	for _, out := range []string{"", "  \n", "[]", "[\n]\n"} {
		c := NewClient(&fakeRunner{stdout: out}, nil)
		_, err := c.List(context.Background(), "+nothing")
		if !errors.Is(err, ErrNoTasks) {
			t.Errorf("List() with output %q: error = %v, want ErrNoTasks", out, err)
		}
	}
}

func TestList_MalformedOutput(t *testing.T) {
	c := NewClient(&fakeRunner{stdout: "Configuration override rc.verbose:nothing\n{not json"}, nil)

	_, err := c.List(context.Background(), "")
	var malformed *MalformedOutputError
	if !errors.As(err, &malformed) {
		t.Fatalf("List() error = %v, want *MalformedOutputError", err)
	}
	if errors.Is(err, ErrNoTasks) {
		t.Error("malformed output must not be reported as no tasks")
	}
}

func TestList_ExternalFailure(t *testing.T) {
	runner := &fakeRunner{err: &process.ExitError{Command: "task", ExitCode: 2, Stderr: "Unrecognized filter"}}
	c := NewClient(runner, nil)

	_, err := c.List(context.Background(), "bad((")
	var extErr *ExternalError
	if !errors.As(err, &extErr) {
		t.Fatalf("List() error = %v, want *ExternalError", err)
	}
	if extErr.Timeout() {
		t.Error("Timeout() = true for a non-zero exit")
	}
	if !strings.Contains(err.Error(), "Unrecognized filter") {
		t.Errorf("error %q should carry stderr", err.Error())
	}
}

func TestList_Timeout(t *testing.T) {
	runner := &fakeRunner{err: &process.TimeoutError{Command: "task", Timeout: time.Second}}
	c := NewClient(runner, nil)

	_, err := c.List(context.Background(), "")
	var extErr *ExternalError
	if !errors.As(err, &extErr) {
		t.Fatalf("List() error = %v, want *ExternalError", err)
	}
	if !extErr.Timeout() {
		t.Error("Timeout() = false, want true")
	}
	if !strings.Contains(err.Error(), "did not answer in time") {
		t.Errorf("timeout message %q should differ from an exit failure", err.Error())
	}
}

func TestList_DropsInvalidRecords(t *testing.T) {
	runner := &fakeRunner{stdout: `[
		{"uuid": "ok-1", "description": "valid", "urgency": 3},
		{"uuid": "no-desc", "urgency": 10},
		{"description": "no uuid", "urgency": 10},
		"just a string",
		42,
		{"uuid": "bad-type", "description": "urgency is text", "urgency": "high"},
		{"uuid": "ok-2", "description": "also valid"}
	]`}
	c := NewClient(runner, nil)

	tasks, err := c.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 valid tasks, got %d: %+v", len(tasks), tasks)
	}
	if tasks[0].UUID != "ok-1" || tasks[1].UUID != "ok-2" {
		t.Errorf("got %s, %s", tasks[0].UUID, tasks[1].UUID)
	}
	if tasks[1].Urgency != 0 {
		t.Errorf("absent urgency = %v, want 0", tasks[1].Urgency)
	}
	if tasks[1].Tags == nil {
		t.Error("Tags should be normalized to an empty slice")
	}
}

func TestList_AllRecordsInvalidIsNoTasks(t *testing.T) {
	c := NewClient(&fakeRunner{stdout: `[{"uuid": "x"}, 7]`}, nil)

	_, err := c.List(context.Background(), "")
	if !errors.Is(err, ErrNoTasks) {
		t.Errorf("List() error = %v, want ErrNoTasks", err)
	}
}

func TestParseTasks_JSONLines(t *testing.T) {
	input := `{"uuid": "f45a05b3-c12e-42e5-9c9c-333333333333", "description": "Buy milk", "due": "20230101T120000Z", "project": "Groceries", "tags": ["buy", "food"], "annotations": [{"entry": "20230101T120500Z", "description": "almond"}]}
{"uuid": "a45a05b3-c12e-42e5-9c9c-333333333333", "description": "Call mom", "start": "20230102T090000Z"}
`
	c := NewClient(nil, nil)
	tasks, err := c.ParseTasks(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTasks failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	task := tasks[0]
	if task.Project != "Groceries" {
		t.Errorf("Expected Project 'Groceries', got '%s'", task.Project)
	}
	if len(task.Tags) != 2 {
		t.Errorf("Expected 2 tags, got %d", len(task.Tags))
	}
	if len(task.Annotations) != 1 || task.Annotations[0].Description != "almond" {
		t.Errorf("unexpected annotations: %+v", task.Annotations)
	}
	expectedDue := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	if !task.HasDue() || !task.Due.Time.Equal(expectedDue) {
		t.Errorf("Expected Due %v, got %v", expectedDue, task.Due)
	}
	if task.ShortUUID() != "f45a05b3" {
		t.Errorf("ShortUUID() = %q", task.ShortUUID())
	}
	if !tasks[1].IsActive() {
		t.Error("expected second task to be active")
	}
	if task.IsActive() {
		t.Error("expected first task to be inactive")
	}
}

func TestTimeRoundTrip(t *testing.T) {
	var tm Time
	if err := tm.UnmarshalJSON([]byte(`"20240315T081500Z"`)); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	out, err := tm.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(out) != `"20240315T081500Z"` {
		t.Errorf("MarshalJSON = %s", out)
	}

	var zero Time
	if err := zero.UnmarshalJSON([]byte(`""`)); err != nil || !zero.IsZero() {
		t.Errorf("empty time: %v, %v", zero, err)
	}
	if err := zero.UnmarshalJSON([]byte(`"yesterday"`)); err == nil {
		t.Error("expected error for an invalid timestamp")
	}
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"+work", []string{"+work"}},
		{"buy milk +shop due:tomorrow", []string{"buy", "milk", "+shop", "due:tomorrow"}},
		{`project:"Home Stuff"`, []string{"project:Home Stuff"}},
		{`it's broken`, []string{"it's broken"}},
	}
	for _, tt := range tests {
		got := SplitWords(tt.in)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("SplitWords(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
