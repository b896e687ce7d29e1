package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pengelbrecht/twq/internal/item"
	"github.com/pengelbrecht/twq/internal/output"
)

var queryCmd = &cobra.Command{
	Use:   "query <keyword> [argument...]",
	Short: "Route one query and print the resulting items",
	Long: `Query routes a single line and prints the items it produces, without a TUI.

Use --select to act on an item: a task item leads to its action menu, an
action item runs its command. Repeat --select to walk through menus, e.g.

  twq query tl +home -s 1 -s 1     mark the most urgent +home task done`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonl, _ := cmd.Flags().GetBool("jsonl")
		selections, _ := cmd.Flags().GetIntSlice("select")

		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		out := output.New(jsonl)
		out.SetWriter(cmd.OutOrStdout())
		return runQuery(cmd.Context(), a, out, strings.Join(args, " "), selections)
	},
}

// runQuery routes line, prints the items, then follows each selection in turn.
func runQuery(ctx context.Context, a *app, out *output.Output, line string, selections []int) error {
	q := item.ParseQuery(line)
	items := a.router.Handle(ctx, q)
	out.Items(q, items)

	for _, n := range selections {
		if n < 1 || n > len(items) {
			err := fmt.Errorf("no item %d for %q (have %d)", n, q.String(), len(items))
			out.Error(err)
			return err
		}

		next, done, err := perform(ctx, a, out, items[n-1])
		if err != nil || done {
			return err
		}
		q = next
		items = a.router.Handle(ctx, q)
		out.Items(q, items)
	}
	return nil
}

// perform carries out one item's action. It returns the follow-up query for
// a requery, or done when nothing further can be selected.
func perform(ctx context.Context, a *app, out *output.Output, it item.Item) (item.Query, bool, error) {
	switch it.Action.Type {
	case item.ActionExecute:
		c := it.Action.Command
		result, err := a.executor.Exec(ctx, c.Name(), c.Args()...)
		out.Executed(c, result, err)
		if err == nil {
			a.taskProbe.Invalidate()
		}
		return item.Query{}, true, err
	case item.ActionRequery:
		out.Requery(it.Action.Query)
		return it.Action.Query, false, nil
	default:
		return item.Query{}, true, nil
	}
}
