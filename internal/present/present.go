// Package present turns tasks and task identifiers into display items.
package present

import (
	"fmt"
	"strings"

	"github.com/pengelbrecht/twq/internal/command"
	"github.com/pengelbrecht/twq/internal/item"
	"github.com/pengelbrecht/twq/internal/taskwarrior"
)

// dueLayout formats due dates in item details.
const dueLayout = "2006-01-02"

// Presenter builds items for one keyword binding and command builder.
type Presenter struct {
	// ListKeyword prefixes the follow-up query that opens a task's menu.
	ListKeyword string

	// AnnotateKeyword prefixes the follow-up query that annotates a task.
	AnnotateKeyword string

	commands *command.Builder
}

// New creates a Presenter.
func New(listKeyword, annotateKeyword string, commands *command.Builder) *Presenter {
	if commands == nil {
		commands = command.NewBuilder()
	}
	return &Presenter{
		ListKeyword:     listKeyword,
		AnnotateKeyword: annotateKeyword,
		commands:        commands,
	}
}

// Tasks maps tasks, in order, to items. Selecting one resubmits
// "<list keyword> <uuid>", which routes to the task's action menu.
func (p *Presenter) Tasks(tasks []taskwarrior.Task) []item.Item {
	items := make([]item.Item, 0, len(tasks))
	for i := range tasks {
		task := &tasks[i]
		items = append(items, item.New(
			item.KindTask,
			task.Description,
			Detail(task),
			item.Requery(item.Query{Keyword: p.ListKeyword, Argument: task.UUID}),
		))
	}
	return items
}

// Detail summarizes a task's secondary attributes on one line.
func Detail(task *taskwarrior.Task) string {
	parts := []string{fmt.Sprintf("urgency %.1f", task.Urgency)}
	if task.ID > 0 {
		parts = append(parts, fmt.Sprintf("#%d", task.ID))
	}
	if task.IsActive() {
		parts = append(parts, "active")
	}
	if task.Project != "" {
		parts = append(parts, "project:"+task.Project)
	}
	if task.HasDue() {
		parts = append(parts, "due:"+task.Due.Format(dueLayout))
	}
	for _, tag := range task.Tags {
		parts = append(parts, "+"+tag)
	}
	return strings.Join(parts, " • ")
}

// ActionMenu returns the fixed actions for one task. Open is appended only
// when withOpen is true (the opener answered its own probe).
func (p *Presenter) ActionMenu(uuid string, withOpen bool) []item.Item {
	short := shortID(uuid)
	items := []item.Item{
		item.New(item.KindAction, "Mark Done", "task "+short+" done", item.Execute(p.commands.Done(uuid))),
		item.New(item.KindAction, "Start", "task "+short+" start", item.Execute(p.commands.Start(uuid))),
		item.New(item.KindAction, "Stop", "task "+short+" stop", item.Execute(p.commands.Stop(uuid))),
		item.New(item.KindAction, "Annotate", "Add a note to task "+short,
			item.Requery(item.Query{Keyword: p.AnnotateKeyword, Argument: uuid + " "})),
		item.New(item.KindAction, "Delete", "task "+short+" delete (no confirmation)", item.Execute(p.commands.Delete(uuid))),
	}
	if withOpen {
		items = append(items, item.New(item.KindAction, "Open", "Open notes and links for task "+short, item.Execute(p.commands.Open(uuid))))
	}
	return items
}

// AddPrompt is shown while the add keyword has no description yet.
func (p *Presenter) AddPrompt() item.Item {
	return item.New(item.KindInfo, "Please enter a description for the new task.", "", item.Dismiss())
}

// Add offers to create a task from description.
func (p *Presenter) Add(description string) item.Item {
	return item.New(
		item.KindAction,
		fmt.Sprintf("Add task: '%s'", description),
		"Press Enter to add this task to Taskwarrior",
		item.Execute(p.commands.Add(description)),
	)
}

// AnnotateUsage explains the annotate syntax.
func (p *Presenter) AnnotateUsage() item.Item {
	return item.New(item.KindError, fmt.Sprintf("Usage: %s <uuid> <annotation text>", p.AnnotateKeyword), "", item.Dismiss())
}

// AnnotatePrompt is shown while an annotation has a target but no text.
func (p *Presenter) AnnotatePrompt(uuid string) item.Item {
	return item.New(item.KindInfo, fmt.Sprintf("Type a note for task %s...", shortID(uuid)), "", item.Dismiss())
}

// Annotate offers to attach note to the task identified by uuid.
func (p *Presenter) Annotate(uuid, note string) item.Item {
	return item.New(
		item.KindAction,
		fmt.Sprintf("Add annotation to task %s...", shortID(uuid)),
		fmt.Sprintf("Note: '%s'", note),
		item.Execute(p.commands.Annotate(uuid, note)),
	)
}

// NoTasks reports an empty list. It is informational, not an error.
func NoTasks(filter string) item.Item {
	return item.New(item.KindInfo, fmt.Sprintf("No tasks found for filter: '%s'", filter), "", item.Dismiss())
}

// Info creates an informational item.
func Info(label, detail string) item.Item {
	return item.New(item.KindInfo, label, detail, item.Dismiss())
}

// Error creates an error item.
func Error(label, detail string) item.Item {
	return item.New(item.KindError, label, detail, item.Dismiss())
}

// shortID abbreviates a UUID to its first eight characters.
func shortID(uuid string) string {
	runes := []rune(uuid)
	if len(runes) <= 8 {
		return uuid
	}
	return string(runes[:8])
}
