package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/pengelbrecht/twq/internal/config"
	"github.com/pengelbrecht/twq/internal/item"
	"github.com/pengelbrecht/twq/internal/output"
)

const replPrompt = "twq> "

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive line-mode query loop",
	Long: `Repl reads queries line by line. Each result is numbered; type the number to
select it. A follow-up query is pre-filled on the next line so it can be
completed, e.g. the annotation text after "ta <uuid> ".

Type "help" for commands, "exit" or Ctrl-D to leave.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		in, err := newLineInput(filepath.Join(config.Dir(), "history"))
		if err != nil {
			a.logger.Debug("readline unavailable, using plain input", "error", err)
		}
		defer in.Close()

		out := output.New(false)
		out.SetWriter(cmd.OutOrStdout())
		return runREPL(cmd.Context(), a, in, out, cmd.OutOrStdout())
	},
}

var replCommands = []string{
	"<keyword> [argument]   route a query",
	"<n>                    select item n",
	"help                   show this list",
	"exit                   leave",
}

type lineInput interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// prefiller is implemented by inputs that can seed the next line.
type prefiller interface {
	Prefill(text string)
}

type basicLineInput struct {
	reader *bufio.Reader
	out    io.Writer
}

func newBasicLineInput(in io.Reader, out io.Writer) *basicLineInput {
	return &basicLineInput{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (b *basicLineInput) ReadLine(prompt string) (string, error) {
	if b.out != nil {
		fmt.Fprint(b.out, prompt)
	}
	line, err := b.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (b *basicLineInput) Close() error { return nil }

type readlineInput struct {
	instance *readline.Instance
}

func newReadlineInput(historyPath string) (*readlineInput, error) {
	if historyPath != "" {
		if err := os.MkdirAll(filepath.Dir(historyPath), 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	instance, err := readline.NewEx(&readline.Config{
		Prompt:            replPrompt,
		HistoryFile:       historyPath,
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, err
	}
	return &readlineInput{instance: instance}, nil
}

func (r *readlineInput) ReadLine(prompt string) (string, error) {
	r.instance.SetPrompt(prompt)
	return r.instance.Readline()
}

func (r *readlineInput) Prefill(text string) {
	_, _ = r.instance.WriteStdin([]byte(text))
}

func (r *readlineInput) Close() error {
	if r == nil || r.instance == nil {
		return nil
	}
	return r.instance.Close()
}

func newLineInput(historyPath string) (lineInput, error) {
	readlineReader, err := newReadlineInput(historyPath)
	if err == nil {
		return readlineReader, nil
	}
	return newBasicLineInput(os.Stdin, os.Stdout), err
}

func printREPLCommands(out io.Writer) {
	fmt.Fprintln(out, "commands:")
	for _, cmd := range replCommands {
		fmt.Fprintf(out, "  %s\n", cmd)
	}
}

// runREPL reads queries until EOF or "exit". Numbers select from the most
// recent result list.
func runREPL(ctx context.Context, a *app, in lineInput, out *output.Output, w io.Writer) error {
	var items []item.Item
	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := in.ReadLine(replPrompt)
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		trimmed := strings.TrimSpace(line)
		switch trimmed {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "help", "?":
			printREPLCommands(w)
			continue
		}

		if n, err := strconv.Atoi(trimmed); err == nil {
			if n < 1 || n > len(items) {
				out.Error(fmt.Errorf("no item %d", n))
				continue
			}
			next, done, err := perform(ctx, a, out, items[n-1])
			if done || err != nil {
				items = nil
				continue
			}
			items = a.router.Handle(ctx, next)
			out.Items(next, items)
			if p, ok := in.(prefiller); ok && strings.HasSuffix(next.Argument, " ") {
				p.Prefill(next.String())
			}
			continue
		}

		q := item.ParseQuery(line)
		items = a.router.Handle(ctx, q)
		out.Items(q, items)
	}
}
