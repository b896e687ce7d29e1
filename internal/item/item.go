// Package item defines the selectable entries twq hands to a host, and the
// queries a host feeds back in.
package item

import (
	"strings"
	"unicode/utf8"

	"github.com/pengelbrecht/twq/internal/command"
)

// Label limits.
const (
	MaxLabel  = 50
	keepRunes = MaxLabel - len(ellipsis)
	ellipsis  = "..."
)

// Query is one line of user input: a keyword selecting the intent family
// and a free-text argument.
type Query struct {
	Keyword  string
	Argument string
}

// ParseQuery splits a typed line at its first space. Leading spaces of the
// argument are dropped; trailing ones are kept so a pre-filled
// "ta <uuid> " survives a round trip.
func ParseQuery(line string) Query {
	line = strings.TrimLeft(line, " \t")
	keyword, argument, _ := strings.Cut(line, " ")
	return Query{
		Keyword:  keyword,
		Argument: strings.TrimLeft(argument, " \t"),
	}
}

// String renders the query as the line a user would type.
func (q Query) String() string {
	if q.Argument == "" {
		return q.Keyword
	}
	return q.Keyword + " " + q.Argument
}

// ActionType tags the variant held by an Action.
type ActionType int

const (
	// ActionDismiss closes the result list and does nothing else.
	ActionDismiss ActionType = iota
	// ActionExecute runs Command.
	ActionExecute
	// ActionRequery submits Query to the router again.
	ActionRequery
)

func (t ActionType) String() string {
	switch t {
	case ActionExecute:
		return "execute"
	case ActionRequery:
		return "requery"
	default:
		return "dismiss"
	}
}

// Action is what selecting an item does. Exactly one of Command or Query is
// meaningful, depending on Type.
type Action struct {
	Type    ActionType
	Command command.Command
	Query   Query
}

// Execute returns an action that runs cmd.
func Execute(cmd command.Command) Action {
	return Action{Type: ActionExecute, Command: cmd}
}

// Requery returns an action that resubmits q.
func Requery(q Query) Action {
	return Action{Type: ActionRequery, Query: q}
}

// Dismiss returns an action that does nothing.
func Dismiss() Action {
	return Action{Type: ActionDismiss}
}

// Kind hints how a host may style an item.
type Kind int

const (
	KindTask Kind = iota
	KindAction
	KindInfo
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindTask:
		return "task"
	case KindAction:
		return "action"
	case KindError:
		return "error"
	default:
		return "info"
	}
}

// Item is one selectable entry.
type Item struct {
	Label  string
	Detail string
	Kind   Kind
	Action Action
}

// New creates an item with a truncated label.
func New(kind Kind, label, detail string, action Action) Item {
	return Item{
		Label:  Truncate(label),
		Detail: detail,
		Kind:   kind,
		Action: action,
	}
}

// Truncate shortens s to MaxLabel runes: longer strings keep their first 47
// runes followed by "...".
func Truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxLabel {
		return s
	}
	runes := []rune(s)
	return string(runes[:keepRunes]) + ellipsis
}
