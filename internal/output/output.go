// Package output renders routed items and command results for non-interactive
// use, either as tagged text lines or as JSON Lines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/pengelbrecht/twq/internal/command"
	"github.com/pengelbrecht/twq/internal/item"
	"github.com/pengelbrecht/twq/internal/probe"
	"github.com/pengelbrecht/twq/internal/process"
)

// Output formats results for the query and doctor commands.
type Output struct {
	jsonl  bool
	writer io.Writer
}

// New creates an output formatter writing to stdout.
// If jsonl is true, every event is one JSON object per line; otherwise
// lines carry a [PREFIX] tag.
func New(jsonl bool) *Output {
	return &Output{
		jsonl:  jsonl,
		writer: os.Stdout,
	}
}

// SetWriter sets a custom writer (mainly for testing).
func (o *Output) SetWriter(w io.Writer) {
	o.writer = w
}

// Items prints the items returned for q, numbered from 1.
func (o *Output) Items(q item.Query, items []item.Item) {
	if o.jsonl {
		for i, it := range items {
			data := map[string]interface{}{
				"type":   "item",
				"index":  i + 1,
				"query":  q.String(),
				"label":  it.Label,
				"kind":   it.Kind.String(),
				"action": it.Action.Type.String(),
			}
			if it.Detail != "" {
				data["detail"] = it.Detail
			}
			switch it.Action.Type {
			case item.ActionExecute:
				data["command"] = it.Action.Command.Argv
			case item.ActionRequery:
				data["requery"] = it.Action.Query.String()
			}
			o.writeJSON(data)
		}
		return
	}

	if len(items) == 0 {
		fmt.Fprintf(o.writer, "[NONE] no results for %q\n", q.String())
		return
	}

	width := 0
	for _, it := range items {
		width = max(width, runewidth.StringWidth(it.Label))
	}
	for i, it := range items {
		line := fmt.Sprintf("[%s] %2d. %s", tag(it.Kind), i+1, runewidth.FillRight(it.Label, width))
		if target := actionTarget(it.Action); target != "" {
			line += "  -> " + target
		}
		fmt.Fprintln(o.writer, strings.TrimRight(line, " "))
		if it.Detail != "" {
			fmt.Fprintf(o.writer, "        %s\n", it.Detail)
		}
	}
}

// Executed reports the outcome of running cmd.
func (o *Output) Executed(cmd command.Command, result *process.Result, err error) {
	if o.jsonl {
		data := map[string]interface{}{
			"type":    "executed",
			"command": cmd.Argv,
		}
		if result != nil {
			data["exit_code"] = result.ExitCode
			data["duration_ms"] = result.Duration.Milliseconds()
			if out := strings.TrimSpace(string(result.Stdout)); out != "" {
				data["stdout"] = out
			}
		}
		if err != nil {
			data["error"] = err.Error()
		}
		o.writeJSON(data)
		return
	}

	if err != nil {
		fmt.Fprintf(o.writer, "[FAILED] %s\n", cmd.String())
		fmt.Fprintf(o.writer, "[FAILED] %s\n", err.Error())
		return
	}
	fmt.Fprintf(o.writer, "[EXEC] %s\n", cmd.String())
	if result != nil {
		if out := strings.TrimRight(string(result.Stdout), "\n"); out != "" {
			fmt.Fprintln(o.writer, out)
		}
	}
}

// Requery reports that a selected item led to the follow-up query q.
func (o *Output) Requery(q item.Query) {
	if o.jsonl {
		o.writeJSON(map[string]interface{}{
			"type":  "requery",
			"query": q.String(),
		})
	} else {
		fmt.Fprintf(o.writer, "[REQUERY] %s\n", q.String())
	}
}

// Probes prints tool availability.
func (o *Output) Probes(results *probe.Results) {
	if results == nil {
		return
	}
	if o.jsonl {
		for _, r := range results.Results {
			data := map[string]interface{}{
				"type":        "probe",
				"tool":        r.Tool,
				"available":   r.Available,
				"duration_ms": r.Duration.Milliseconds(),
			}
			if r.Version != "" {
				data["version"] = r.Version
			}
			if r.Error != nil {
				data["error"] = r.Error.Error()
			}
			o.writeJSON(data)
		}
		o.writeJSON(map[string]interface{}{
			"type":    "probe_summary",
			"passed":  results.AllAvailable,
			"summary": results.Summary(),
		})
		return
	}

	for _, line := range strings.Split(strings.TrimRight(results.Summary(), "\n"), "\n") {
		fmt.Fprintf(o.writer, "[PROBE] %s\n", strings.TrimSpace(line))
	}
}

// Error outputs an error message.
func (o *Output) Error(err error) {
	if o.jsonl {
		o.writeJSON(map[string]interface{}{
			"type":  "error",
			"error": err.Error(),
		})
	} else {
		fmt.Fprintf(o.writer, "[ERROR] %s\n", err.Error())
	}
}

// tag returns the prefix tag for an item kind.
func tag(k item.Kind) string {
	switch k {
	case item.KindTask:
		return "TASK"
	case item.KindAction:
		return "ACTION"
	case item.KindError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func actionTarget(a item.Action) string {
	switch a.Type {
	case item.ActionExecute:
		return a.Command.String()
	case item.ActionRequery:
		return a.Query.String()
	default:
		return ""
	}
}

// writeJSON writes a JSON object as a single line.
func (o *Output) writeJSON(data map[string]interface{}) {
	b, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintln(o.writer, string(b))
}
