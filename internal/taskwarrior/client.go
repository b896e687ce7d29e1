// Package taskwarrior reads tasks from the Taskwarrior CLI.
package taskwarrior

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/pengelbrecht/twq/internal/process"
)

// DefaultFilter is used when a list query carries no filter expression.
const DefaultFilter = "+READY"

// DefaultTimeout bounds a single export.
const DefaultTimeout = 8 * time.Second

// exportFlags silence Taskwarrior's chatter and force a JSON array.
var exportFlags = []string{"rc.verbose=nothing", "rc.json.array=on"}

// Runner runs a bounded command. *process.Executor satisfies it.
type Runner interface {
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) (*process.Result, error)
}

// Client wraps the task CLI for exporting tasks.
type Client struct {
	// Command is the path to the task binary. Defaults to "task".
	Command string

	// DefaultFilter replaces an empty filter expression.
	DefaultFilter string

	// Timeout bounds each export (0 = DefaultTimeout).
	Timeout time.Duration

	runner Runner
	logger *slog.Logger
}

// NewClient creates a Client with default settings.
func NewClient(runner Runner, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		Command:       "task",
		DefaultFilter: DefaultFilter,
		Timeout:       DefaultTimeout,
		runner:        runner,
		logger:        logger,
	}
}

// ExportArgs returns the argument vector (without the binary) that exports
// tasks matching filter.
func (c *Client) ExportArgs(filter string) []string {
	args := slices.Clone(exportFlags)
	args = append(args, SplitWords(c.filterOrDefault(filter))...)
	return append(args, "export")
}

// List exports the tasks matching filter, drops invalid records and sorts
// the rest by descending urgency. It returns ErrNoTasks when nothing valid
// matched.
func (c *Client) List(ctx context.Context, filter string) ([]Task, error) {
	filter = c.filterOrDefault(filter)

	res, err := c.runner.Run(ctx, c.Timeout, c.command(), c.ExportArgs(filter)...)
	if err != nil {
		return nil, &ExternalError{Filter: filter, Err: err}
	}

	tasks, err := c.decode(res.Stdout)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}
	SortByUrgency(tasks)
	return tasks, nil
}

// ParseTasks decodes task records from r. It accepts a JSON array, a stream
// of JSON objects (one per line, as hooks and rc.json.array=off produce), or
// any mix of the two. Invalid records are skipped.
func (c *Client) ParseTasks(r io.Reader) ([]Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	return c.decode(data)
}

func (c *Client) decode(data []byte) ([]Task, error) {
	records, err := splitRecords(data)
	if err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(records))
	for i, raw := range records {
		task, err := parseRecord(raw)
		if err != nil {
			c.logger.Warn("dropping task record", "index", i, "reason", err)
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// splitRecords returns every top-level record in data, flattening arrays.
func splitRecords(data []byte) ([]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var records []json.RawMessage
	for {
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &MalformedOutputError{Err: err}
		}
		if len(value) > 0 && value[0] == '[' {
			var items []json.RawMessage
			if err := json.Unmarshal(value, &items); err != nil {
				return nil, &MalformedOutputError{Err: err}
			}
			records = append(records, items...)
			continue
		}
		records = append(records, value)
	}
	return records, nil
}

// parseRecord validates and normalizes one exported record.
func parseRecord(raw json.RawMessage) (Task, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return Task{}, errors.New("record is not an object")
	}

	var task Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return Task{}, fmt.Errorf("decode record: %w", err)
	}

	task.UUID = strings.TrimSpace(task.UUID)
	if task.UUID == "" {
		return Task{}, errors.New("record has no uuid")
	}
	if strings.TrimSpace(task.Description) == "" {
		return Task{}, fmt.Errorf("task %s has no description", task.UUID)
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	return task, nil
}

// SortByUrgency orders tasks by descending urgency. Ties keep their export
// order.
func SortByUrgency(tasks []Task) {
	slices.SortStableFunc(tasks, func(a, b Task) int {
		switch {
		case a.Urgency > b.Urgency:
			return -1
		case a.Urgency < b.Urgency:
			return 1
		default:
			return 0
		}
	})
}

// SplitWords splits s into words using shell quoting rules, so that
// `project:"Home Stuff" +next` yields two words. Input with unbalanced
// quotes is returned as a single word.
func SplitWords(s string) []string {
	words, err := shellquote.Split(s)
	if err != nil {
		return []string{strings.TrimSpace(s)}
	}
	return words
}

func (c *Client) filterOrDefault(filter string) string {
	filter = strings.TrimSpace(filter)
	if filter != "" {
		return filter
	}
	if c.DefaultFilter != "" {
		return c.DefaultFilter
	}
	return DefaultFilter
}

// command returns the task binary path.
func (c *Client) command() string {
	if c.Command != "" {
		return c.Command
	}
	return "task"
}
