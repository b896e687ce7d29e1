package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pengelbrecht/twq/internal/command"
	"github.com/pengelbrecht/twq/internal/config"
	"github.com/pengelbrecht/twq/internal/present"
	"github.com/pengelbrecht/twq/internal/probe"
	"github.com/pengelbrecht/twq/internal/process"
	"github.com/pengelbrecht/twq/internal/router"
	"github.com/pengelbrecht/twq/internal/taskwarrior"
)

// app is everything one command needs, wired from config.
type app struct {
	cfg         *config.Config
	logger      *slog.Logger
	executor    *process.Executor
	tasks       *taskwarrior.Client
	taskProbe   *probe.Prober
	openerProbe *probe.Prober
	router      *router.Router

	closers []io.Closer
}

// newApp loads config and wires the collaborators. Interactive commands log
// only to --log-file so stderr output cannot corrupt the screen.
func newApp(cmd *cobra.Command, interactive bool) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	logFile, _ := cmd.Flags().GetString("log-file")
	debug, _ := cmd.Flags().GetBool("debug")

	a := &app{cfg: cfg}
	var logOut io.Writer
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		a.closers = append(a.closers, f)
		logOut = f
	case !interactive:
		logOut = cmd.ErrOrStderr()
	}
	a.logger = newLogger(logOut, debug, logFile != "")
	a.wire()
	return a, nil
}

// newLogger builds the process logger. A nil writer discards everything.
func newLogger(w io.Writer, debug, toFile bool) *slog.Logger {
	if w == nil {
		return slog.New(slog.DiscardHandler)
	}
	level := slog.LevelError
	switch {
	case debug:
		level = slog.LevelDebug
	case toFile:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (a *app) wire() {
	cfg := a.cfg
	a.executor = process.New()

	a.tasks = taskwarrior.NewClient(a.executor, a.logger)
	a.tasks.Command = cfg.TaskCommand
	a.tasks.DefaultFilter = cfg.DefaultFilter
	a.tasks.Timeout = cfg.ExportTimeout

	a.taskProbe = a.newProber(cfg.TaskCommand)
	a.openerProbe = a.newProber(cfg.OpenerCommand)

	commands := &command.Builder{Task: cfg.TaskCommand, Opener: cfg.OpenerCommand}
	a.router = router.New(router.Options{
		Keywords:      cfg.Keywords,
		Tasks:         a.tasks,
		Tool:          a.taskProbe,
		Opener:        a.openerProbe,
		Presenter:     present.New(cfg.Keywords.List, cfg.Keywords.Annotate, commands),
		DefaultFilter: cfg.DefaultFilter,
		Logger:        a.logger,
	})
}

func (a *app) newProber(tool string) *probe.Prober {
	p := probe.New(tool, a.executor, a.logger)
	p.Timeout = a.cfg.ProbeTimeout
	p.TTL = a.cfg.ProbeCacheTTL
	return p
}

// Close releases the log file, if any.
func (a *app) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
