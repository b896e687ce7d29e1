package item

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pengelbrecht/twq/internal/command"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"short", "short", "short"},
		{"exactly 50", strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{"51", strings.Repeat("b", 51), strings.Repeat("b", 47) + "..."},
		{"60", strings.Repeat("x", 60), strings.Repeat("x", 47) + "..."},
		{"multibyte kept whole", strings.Repeat("é", 55), strings.Repeat("é", 47) + "..."},
		{"multibyte at limit", strings.Repeat("日", 50), strings.Repeat("日", 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in)
			if got != tt.want {
				t.Errorf("Truncate() = %q, want %q", got, tt.want)
			}
			if utf8.RuneCountInString(got) > MaxLabel {
				t.Errorf("Truncate() returned %d runes", utf8.RuneCountInString(got))
			}
		})
	}
}

func TestTruncate_LongDescriptionsKeepPrefix(t *testing.T) {
	for n := 51; n < 120; n += 7 {
		in := strings.Repeat("0123456789", 12)[:n]
		got := Truncate(in)
		if len(got) != 50 {
			t.Fatalf("len(Truncate(%d chars)) = %d, want 50", n, len(got))
		}
		if got[:47] != in[:47] || !strings.HasSuffix(got, "...") {
			t.Errorf("Truncate(%d chars) = %q", n, got)
		}
	}
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		line string
		want Query
	}{
		{"", Query{}},
		{"tl", Query{Keyword: "tl"}},
		{"tl ", Query{Keyword: "tl"}},
		{"tl +work due:today", Query{Keyword: "tl", Argument: "+work due:today"}},
		{"  tl   +work", Query{Keyword: "tl", Argument: "+work"}},
		{"ta abc note with  spaces ", Query{Keyword: "ta", Argument: "abc note with  spaces "}},
		{"ta abc ", Query{Keyword: "ta", Argument: "abc "}},
	}

	for _, tt := range tests {
		if got := ParseQuery(tt.line); got != tt.want {
			t.Errorf("ParseQuery(%q) = %+v, want %+v", tt.line, got, tt.want)
		}
	}
}

func TestQueryString_RoundTrip(t *testing.T) {
	for _, q := range []Query{
		{Keyword: "tl"},
		{Keyword: "tl", Argument: "3b1f9c2a-4e5d-4a11-9c3e-7f2a1b6d9e00"},
		{Keyword: "ta", Argument: "3b1f9c2a-4e5d-4a11-9c3e-7f2a1b6d9e00 "},
	} {
		if got := ParseQuery(q.String()); got != q {
			t.Errorf("ParseQuery(%q) = %+v, want %+v", q.String(), got, q)
		}
	}
}

func TestActions(t *testing.T) {
	cmd := command.Command{Argv: []string{"task", "x", "done"}}

	exec := Execute(cmd)
	if exec.Type != ActionExecute || exec.Command.String() != "task x done" {
		t.Errorf("Execute() = %+v", exec)
	}

	q := Query{Keyword: "tl", Argument: "x"}
	requery := Requery(q)
	if requery.Type != ActionRequery || requery.Query != q {
		t.Errorf("Requery() = %+v", requery)
	}

	if Dismiss().Type != ActionDismiss {
		t.Error("Dismiss() type mismatch")
	}

	for typ, want := range map[ActionType]string{ActionExecute: "execute", ActionRequery: "requery", ActionDismiss: "dismiss"} {
		if typ.String() != want {
			t.Errorf("%d.String() = %q, want %q", typ, typ.String(), want)
		}
	}
}

func TestNew_TruncatesLabel(t *testing.T) {
	it := New(KindTask, strings.Repeat("z", 80), "detail", Dismiss())
	if it.Label != strings.Repeat("z", 47)+"..." {
		t.Errorf("Label = %q", it.Label)
	}
	if it.Kind.String() != "task" {
		t.Errorf("Kind = %v", it.Kind)
	}
}
