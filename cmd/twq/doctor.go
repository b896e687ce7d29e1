package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pengelbrecht/twq/internal/output"
	"github.com/pengelbrecht/twq/internal/probe"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that Taskwarrior and the opener are installed",
	Long: `Doctor probes the task binary and the optional opener with --version and
prints what it found. It exits non-zero when task itself is unavailable; a
missing opener only hides the Open action.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonl, _ := cmd.Flags().GetBool("jsonl")

		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		task := a.taskProbe.Check(cmd.Context())
		opener := a.openerProbe.Check(cmd.Context())
		results := probe.NewResults([]*probe.Result{task, opener})

		out := output.New(jsonl)
		out.SetWriter(cmd.OutOrStdout())
		out.Probes(results)
		if !jsonl {
			kw := a.cfg.Keywords
			fmt.Fprintf(cmd.OutOrStdout(), "[CONFIG] keywords: add=%s list=%s annotate=%s\n", kw.Add, kw.List, kw.Annotate)
			fmt.Fprintf(cmd.OutOrStdout(), "[CONFIG] default filter: %s\n", a.cfg.DefaultFilter)
		}

		if !task.Available {
			return errors.New("taskwarrior not found: please ensure 'task' is installed and in your PATH")
		}
		return nil
	},
}
