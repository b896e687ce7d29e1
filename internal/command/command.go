// Package command builds the Taskwarrior invocations a user can select.
//
// A Command is an argument vector, never a shell string. Hosts that need a
// single line (for a launcher's "run script" action, or for display) use
// String, which shell-quotes every token.
package command

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// NoConfirm suppresses Taskwarrior's interactive confirmation prompts.
const NoConfirm = "rc.confirmation=off"

// Command is an executable argument vector. Argv[0] is the binary.
type Command struct {
	Argv []string
}

// Name returns the binary to run.
func (c Command) Name() string {
	if len(c.Argv) == 0 {
		return ""
	}
	return c.Argv[0]
}

// Args returns the arguments after the binary.
func (c Command) Args() []string {
	if len(c.Argv) < 2 {
		return nil
	}
	return c.Argv[1:]
}

// IsZero reports whether the command is empty.
func (c Command) IsZero() bool {
	return len(c.Argv) == 0
}

// String renders the command as one shell-safe line.
func (c Command) String() string {
	return shellquote.Join(c.Argv...)
}

// Builder constructs commands for a task binary and an optional opener.
type Builder struct {
	// Task is the Taskwarrior binary. Defaults to "task".
	Task string

	// Opener is the taskopen-style companion binary. Defaults to "taskopen".
	Opener string
}

// NewBuilder creates a Builder with default binaries.
func NewBuilder() *Builder {
	return &Builder{Task: "task", Opener: "taskopen"}
}

// Add creates a task. The description is split into words the way a shell
// would split it, so modifiers like "+tag" or "due:tomorrow" keep working.
func (b *Builder) Add(description string) Command {
	argv := []string{b.task(), NoConfirm, "add"}
	return Command{Argv: append(argv, splitWords(description)...)}
}

// Done marks a task completed.
func (b *Builder) Done(uuid string) Command {
	return b.verb(uuid, "done")
}

// Start marks a task active.
func (b *Builder) Start(uuid string) Command {
	return b.verb(uuid, "start")
}

// Stop clears a task's active mark.
func (b *Builder) Stop(uuid string) Command {
	return b.verb(uuid, "stop")
}

// Delete deletes a task without asking for confirmation.
func (b *Builder) Delete(uuid string) Command {
	return Command{Argv: []string{b.task(), NoConfirm, uuid, "delete"}}
}

// Annotate attaches note to a task. The note stays a single argument.
func (b *Builder) Annotate(uuid, note string) Command {
	return Command{Argv: []string{b.task(), uuid, "annotate", note}}
}

// Open runs the opener for a task.
func (b *Builder) Open(uuid string) Command {
	opener := b.Opener
	if opener == "" {
		opener = "taskopen"
	}
	return Command{Argv: []string{opener, uuid}}
}

func (b *Builder) verb(uuid, verb string) Command {
	return Command{Argv: []string{b.task(), uuid, verb}}
}

func (b *Builder) task() string {
	if b.Task != "" {
		return b.Task
	}
	return "task"
}

func splitWords(s string) []string {
	words, err := shellquote.Split(s)
	if err != nil {
		return strings.Fields(s)
	}
	return words
}
