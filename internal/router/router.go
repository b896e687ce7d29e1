// Package router turns one query into display items.
//
// The router holds no state between queries. A multi-step menu is simulated
// by items whose action is a follow-up query: "tl <uuid>" opens the action
// menu for that task, "ta <uuid> " starts an annotation. Every call re-derives
// its context from the query text alone.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pengelbrecht/twq/internal/classify"
	"github.com/pengelbrecht/twq/internal/config"
	"github.com/pengelbrecht/twq/internal/item"
	"github.com/pengelbrecht/twq/internal/present"
	"github.com/pengelbrecht/twq/internal/taskwarrior"
)

// IntentKind selects the handler for a query.
type IntentKind int

const (
	// Unhandled means the keyword is not bound; the host shows nothing.
	Unhandled IntentKind = iota
	AddTask
	ListTasks
	ActionMenu
	Annotate
)

func (k IntentKind) String() string {
	switch k {
	case AddTask:
		return "add"
	case ListTasks:
		return "list"
	case ActionMenu:
		return "menu"
	case Annotate:
		return "annotate"
	default:
		return "unhandled"
	}
}

// Intent is the routing decision for one query.
type Intent struct {
	Kind IntentKind

	// Argument is the query argument as typed.
	Argument string

	// UUID is set for ActionMenu (the normalized identifier).
	UUID string
}

// TaskLister fetches tasks. *taskwarrior.Client satisfies it.
type TaskLister interface {
	List(ctx context.Context, filter string) ([]taskwarrior.Task, error)
}

// Checker reports whether an external tool is usable right now.
// *probe.Prober satisfies it.
type Checker interface {
	Available(ctx context.Context) bool
}

// Router routes queries for one keyword binding.
type Router struct {
	keywords config.Keywords
	tasks    TaskLister
	tool     Checker
	opener   Checker
	present  *present.Presenter
	filter   string
	logger   *slog.Logger
}

// Options wires a Router's collaborators.
type Options struct {
	Keywords config.Keywords

	// Tasks fetches task lists.
	Tasks TaskLister

	// Tool probes the task binary before every query.
	Tool Checker

	// Opener probes the optional opener. Nil means never offer Open.
	Opener Checker

	// Presenter builds items. It must use the same keywords.
	Presenter *present.Presenter

	// DefaultFilter is used for an empty list query. Empty means +READY.
	DefaultFilter string

	Logger *slog.Logger
}

// New creates a Router.
func New(opts Options) *Router {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := opts.Presenter
	if p == nil {
		p = present.New(opts.Keywords.List, opts.Keywords.Annotate, nil)
	}
	filter := strings.TrimSpace(opts.DefaultFilter)
	if filter == "" {
		filter = taskwarrior.DefaultFilter
	}
	return &Router{
		keywords: opts.Keywords,
		tasks:    opts.Tasks,
		tool:     opts.Tool,
		opener:   opts.Opener,
		present:  p,
		filter:   filter,
		logger:   logger,
	}
}

// Keywords returns the router's keyword binding.
func (r *Router) Keywords() config.Keywords {
	return r.keywords
}

// Route classifies q without touching the outside world.
func (r *Router) Route(q item.Query) Intent {
	switch q.Keyword {
	case r.keywords.Add:
		return Intent{Kind: AddTask, Argument: q.Argument}
	case r.keywords.Annotate:
		return Intent{Kind: Annotate, Argument: q.Argument}
	case r.keywords.List:
		if id := classify.Normalize(q.Argument); id != "" {
			return Intent{Kind: ActionMenu, Argument: q.Argument, UUID: id}
		}
		return Intent{Kind: ListTasks, Argument: q.Argument}
	default:
		return Intent{Kind: Unhandled, Argument: q.Argument}
	}
}

// Handle answers q with the items to display. It never panics and never
// returns an error: every failure becomes a single renderable item.
func (r *Router) Handle(ctx context.Context, q item.Query) (items []item.Item) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("query handler panicked", "query", q.String(), "panic", rec)
			items = []item.Item{present.Error("An Unexpected Error Occurred", fmt.Sprint(rec))}
		}
	}()

	if r.tool != nil && !r.tool.Available(ctx) {
		return []item.Item{ToolUnavailable()}
	}

	intent := r.Route(q)
	r.logger.Debug("routing query", "query", q.String(), "intent", intent.Kind.String())

	switch intent.Kind {
	case AddTask:
		return r.addTask(intent.Argument)
	case ListTasks:
		return r.listTasks(ctx, intent.Argument)
	case ActionMenu:
		return r.actionMenu(ctx, intent.UUID)
	case Annotate:
		return r.annotate(intent.Argument)
	default:
		return nil
	}
}

// ToolUnavailable is the single item shown when the task binary is missing.
func ToolUnavailable() item.Item {
	return present.Error("Taskwarrior not found.", "Please ensure 'task' is installed and in your PATH.")
}

func (r *Router) addTask(description string) []item.Item {
	description = strings.TrimSpace(description)
	if description == "" {
		return []item.Item{r.present.AddPrompt()}
	}
	return []item.Item{r.present.Add(description)}
}

func (r *Router) listTasks(ctx context.Context, filter string) []item.Item {
	if strings.TrimSpace(filter) == "" {
		filter = r.filter
	}

	tasks, err := r.tasks.List(ctx, filter)
	if err != nil {
		return []item.Item{r.listError(filter, err)}
	}
	return r.present.Tasks(tasks)
}

func (r *Router) listError(filter string, err error) item.Item {
	if errors.Is(err, taskwarrior.ErrNoTasks) {
		return present.NoTasks(filter)
	}

	r.logger.Warn("listing tasks failed", "filter", filter, "error", err)

	var extErr *taskwarrior.ExternalError
	var malformed *taskwarrior.MalformedOutputError
	switch {
	case errors.As(err, &extErr) && extErr.Timeout():
		return present.Error("Taskwarrior did not respond in time", err.Error())
	case errors.As(err, &extErr):
		return present.Error("Taskwarrior reported an error", err.Error())
	case errors.As(err, &malformed):
		return present.Error("Could not read Taskwarrior's output", err.Error())
	default:
		return present.Error("An Unexpected Error Occurred", err.Error())
	}
}

func (r *Router) actionMenu(ctx context.Context, uuid string) []item.Item {
	withOpen := r.opener != nil && r.opener.Available(ctx)
	return r.present.ActionMenu(uuid, withOpen)
}

func (r *Router) annotate(argument string) []item.Item {
	argument = strings.TrimLeft(argument, " \t")
	uuid, note, found := strings.Cut(argument, " ")
	if !found || !classify.IsTaskRef(uuid) {
		return []item.Item{r.present.AnnotateUsage()}
	}
	if strings.TrimSpace(note) == "" {
		return []item.Item{r.present.AnnotatePrompt(uuid)}
	}
	return []item.Item{r.present.Annotate(uuid, note)}
}
