// Package tui is an interactive launcher: a query line on top, the routed
// items below. Typing re-routes the query; Enter performs the selected
// item's action.
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pengelbrecht/twq/internal/command"
	"github.com/pengelbrecht/twq/internal/config"
	"github.com/pengelbrecht/twq/internal/item"
	"github.com/pengelbrecht/twq/internal/process"
	"github.com/pengelbrecht/twq/internal/taskwarrior"
)

// Handler answers a query with items. *router.Router satisfies it.
type Handler interface {
	Handle(ctx context.Context, q item.Query) []item.Item
}

// Runner runs a selected command to completion. *process.Executor satisfies it.
type Runner interface {
	Exec(ctx context.Context, name string, args ...string) (*process.Result, error)
}

// Config holds TUI configuration.
type Config struct {
	Keywords config.Keywords
	Router   Handler
	Executor Runner

	// DefaultFilter is shown in the placeholder. Empty means +READY.
	DefaultFilter string

	// Query pre-fills the input and is routed immediately.
	Query string

	Logger *slog.Logger
}

// Outcome records the command the launcher ran before closing.
type Outcome struct {
	Command command.Command
	Result  *process.Result
	Err     error
}

// Message types for asynchronous work.
type (
	// resultsMsg carries the items for query number seq.
	resultsMsg struct {
		seq   int
		query item.Query
		items []item.Item
	}

	// executedMsg signals a selected command finished.
	executedMsg struct {
		cmd    command.Command
		result *process.Result
		err    error
	}
)

// Model is the launcher model.
type Model struct {
	keywords config.Keywords
	router   Handler
	executor Runner
	logger   *slog.Logger
	ctx      context.Context

	// Embedded bubbles components
	input   textinput.Model
	results list.Model
	help    help.Model
	keys    KeyMap

	// State
	seq      int
	loading  bool
	running  string
	outcome  *Outcome
	err      error
	quitting bool

	// Dimensions
	width  int
	height int
}

// New creates a launcher model.
func New(cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ti := textinput.New()
	ti.Prompt = "› "
	filter := cfg.DefaultFilter
	if filter == "" {
		filter = taskwarrior.DefaultFilter
	}
	ti.Placeholder = cfg.Keywords.List + " " + filter
	ti.PromptStyle = lipgloss.NewStyle().Foreground(primaryColor)
	ti.SetValue(cfg.Query)
	ti.CursorEnd()
	ti.Focus()

	return Model{
		keywords: cfg.Keywords,
		router:   cfg.Router,
		executor: cfg.Executor,
		logger:   logger,
		ctx:      context.Background(),
		input:    ti,
		results:  newResultList(),
		help:     help.New(),
		keys:     DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.input.Value() != "" {
		cmds = append(cmds, m.queryCmd(m.seq, item.ParseQuery(m.input.Value())))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-10, 10)
		m.help.Width = msg.Width
		m.results.SetSize(msg.Width, max(msg.Height-chromeHeight, minListHeight))
		return m, nil

	case resultsMsg:
		if msg.seq != m.seq {
			// A newer query is in flight; its results win.
			return m, nil
		}
		m.loading = false
		cmd := m.results.SetItems(toListItems(msg.items))
		m.results.Select(0)
		return m, cmd

	case executedMsg:
		m.running = ""
		m.outcome = &Outcome{Command: msg.cmd, Result: msg.result, Err: msg.err}
		if msg.err != nil {
			// Stay open so the query can be fixed or another item picked.
			m.logger.Warn("command failed", "command", msg.cmd.String(), "error", msg.err)
			m.err = msg.err
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.running != "" && !key.Matches(msg, m.keys.Quit) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.results.CursorUp()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.results.CursorDown()
		return m, nil

	case key.Matches(msg, m.keys.Complete):
		if it, ok := m.selected(); ok && it.Action.Type == item.ActionRequery {
			return m.setQuery(it.Action.Query.String())
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if m.loading {
			m.settle()
		}
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.perform(it)
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	query := m.requery()
	return m, tea.Batch(cmd, query)
}

// perform carries out a selected item's action.
func (m Model) perform(it item.Item) (tea.Model, tea.Cmd) {
	switch it.Action.Type {
	case item.ActionExecute:
		m.running = it.Action.Command.String()
		m.err = nil
		return m, m.execCmd(it.Action.Command)
	case item.ActionRequery:
		return m.setQuery(it.Action.Query.String())
	default:
		m.quitting = true
		return m, tea.Quit
	}
}

// setQuery replaces the input text and routes it.
func (m Model) setQuery(line string) (tea.Model, tea.Cmd) {
	m.input.SetValue(line)
	m.input.CursorEnd()
	query := m.requery()
	return m, query
}

// requery bumps the sequence number and routes the current input.
func (m *Model) requery() tea.Cmd {
	m.seq++
	m.loading = true
	m.err = nil
	return m.queryCmd(m.seq, item.ParseQuery(m.input.Value()))
}

// settle routes the current input synchronously so Enter never acts on
// items from an older query. The pending async result is dropped by seq.
func (m *Model) settle() {
	m.seq++
	m.loading = false
	var items []item.Item
	if m.router != nil {
		items = m.router.Handle(m.ctx, item.ParseQuery(m.input.Value()))
	}
	index := m.results.Index()
	m.results.SetItems(toListItems(items))
	m.results.Select(min(index, max(len(items)-1, 0)))
}

func (m Model) queryCmd(seq int, q item.Query) tea.Cmd {
	router, ctx := m.router, m.ctx
	return func() tea.Msg {
		var items []item.Item
		if router != nil {
			items = router.Handle(ctx, q)
		}
		return resultsMsg{seq: seq, query: q, items: items}
	}
}

func (m Model) execCmd(c command.Command) tea.Cmd {
	executor, ctx := m.executor, m.ctx
	return func() tea.Msg {
		if executor == nil || c.IsZero() {
			return executedMsg{cmd: c}
		}
		result, err := executor.Exec(ctx, c.Name(), c.Args()...)
		return executedMsg{cmd: c, result: result, err: err}
	}
}

func (m Model) selected() (item.Item, bool) {
	r, ok := m.results.SelectedItem().(resultItem)
	if !ok {
		return item.Item{}, false
	}
	return r.it, true
}

// Outcome returns the executed command, or nil if none ran.
func (m Model) Outcome() *Outcome {
	return m.outcome
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderInput(),
		m.renderStatus(),
		m.results.View(),
		m.renderFooter(),
	)
}
