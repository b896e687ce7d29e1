package command

import (
	"strings"
	"testing"
)

const testUUID = "3b1f9c2a-4e5d-4a11-9c3e-7f2a1b6d9e00"

func TestBuilder(t *testing.T) {
	b := NewBuilder()

	tests := []struct {
		name string
		cmd  Command
		want []string
	}{
		{"add", b.Add("buy milk +shop due:tomorrow"), []string{"task", "rc.confirmation=off", "add", "buy", "milk", "+shop", "due:tomorrow"}},
		{"add quoted", b.Add(`call "Aunt May"`), []string{"task", "rc.confirmation=off", "add", "call", "Aunt May"}},
		{"add unbalanced quote", b.Add("fix bob's bike"), []string{"task", "rc.confirmation=off", "add", "fix", "bob's", "bike"}},
		{"done", b.Done(testUUID), []string{"task", testUUID, "done"}},
		{"start", b.Start(testUUID), []string{"task", testUUID, "start"}},
		{"stop", b.Stop(testUUID), []string{"task", testUUID, "stop"}},
		{"delete", b.Delete(testUUID), []string{"task", "rc.confirmation=off", testUUID, "delete"}},
		{"annotate", b.Annotate(testUUID, "note with spaces"), []string{"task", testUUID, "annotate", "note with spaces"}},
		{"open", b.Open(testUUID), []string{"taskopen", testUUID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if strings.Join(tt.cmd.Argv, "|") != strings.Join(tt.want, "|") {
				t.Errorf("Argv = %q, want %q", tt.cmd.Argv, tt.want)
			}
		})
	}
}

func TestBuilder_CustomBinaries(t *testing.T) {
	b := &Builder{Task: "/opt/tw/bin/task", Opener: "/usr/local/bin/taskopen"}

	if got := b.Done(testUUID).Name(); got != "/opt/tw/bin/task" {
		t.Errorf("Name() = %q", got)
	}
	if got := b.Open(testUUID).Name(); got != "/usr/local/bin/taskopen" {
		t.Errorf("Name() = %q", got)
	}

	var zero Builder
	if got := zero.Stop(testUUID).Name(); got != "task" {
		t.Errorf("zero Builder Name() = %q, want task", got)
	}
	if got := zero.Open(testUUID).Name(); got != "taskopen" {
		t.Errorf("zero Builder opener = %q, want taskopen", got)
	}
}

func TestCommandString_QuotesUserText(t *testing.T) {
	b := NewBuilder()

	tests := []struct {
		name string
		note string
		want string
	}{
		{"spaces", "note with spaces", "task B annotate 'note with spaces'"},
		{"single word", "ok", "task B annotate ok"},
		{"injection", "x; rm -rf ~", "task B annotate 'x; rm -rf ~'"},
		{"subshell", "$(whoami)", `task B annotate \$\(whoami\)`},
		{"single quote", "it's done", `task B annotate 'it'\''s done'`},
		{"empty", "", "task B annotate ''"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Annotate("B", tt.note).String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandAccessors(t *testing.T) {
	cmd := Command{Argv: []string{"task", "abc", "done"}}
	if cmd.Name() != "task" {
		t.Errorf("Name() = %q", cmd.Name())
	}
	if strings.Join(cmd.Args(), " ") != "abc done" {
		t.Errorf("Args() = %q", cmd.Args())
	}
	if cmd.IsZero() {
		t.Error("IsZero() = true for a non-empty command")
	}

	var zero Command
	if !zero.IsZero() || zero.Name() != "" || zero.Args() != nil {
		t.Error("zero Command accessors should be empty")
	}
}
