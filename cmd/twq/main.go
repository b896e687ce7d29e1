package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pengelbrecht/twq/internal/config"
	"github.com/pengelbrecht/twq/internal/output"
	"github.com/pengelbrecht/twq/internal/tui"
	"github.com/pengelbrecht/twq/internal/update"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "twq",
	Short: "Query-driven launcher for Taskwarrior",
	Long: `twq turns one line of text into a Taskwarrior view. A keyword selects the
intent (add, list, annotate) and the rest of the line is its argument:

  tadd buy milk +errand      offer to add a task
  tl +home                   list matching tasks by urgency
  tl <uuid>                  show the actions for one task
  ta <uuid> call back Tue    offer to annotate a task

Selecting a task leads to its action menu; selecting an action runs it.
Run without a subcommand to open the interactive launcher.`,
	Version:       version,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLauncher(cmd, strings.Join(args, " "))
	},
}

var runCmd = &cobra.Command{
	Use:   "run [query...]",
	Short: "Open the interactive launcher",
	Long: `Run opens a full-screen launcher. Typing re-routes the query, Enter performs
the selected item's action and Tab completes a follow-up query.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLauncher(cmd, strings.Join(args, " "))
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and check for updates",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "twq %s\n", version)
		checker := update.NewChecker(version, config.Dir(), nil)
		if notice := checker.Notice(cmd.Context()); notice != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), notice)
		}
	},
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade twq to the latest version",
	Long:  `Downloads the latest GitHub release and replaces the running binary in-place.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Current version: %s\n", version)
		fmt.Fprintln(out, "Checking for updates...")

		release, err := update.Upgrade(cmd.Context(), version)
		if err != nil {
			if errors.Is(err, update.ErrDevBuild) {
				fmt.Fprintln(cmd.ErrOrStderr(), update.Instructions(update.DetectInstallMethod()))
			}
			return err
		}
		fmt.Fprintf(out, "Upgraded to %s\n", release.Version)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default $XDG_CONFIG_HOME/twq/config.yaml)")
	rootCmd.PersistentFlags().String("log-file", "", "append logs to this file")
	rootCmd.PersistentFlags().Bool("debug", false, "log debug detail")

	queryCmd.Flags().Bool("jsonl", false, "Output JSON Lines instead of text")
	queryCmd.Flags().IntSliceP("select", "s", nil, "Select item N (1-based); repeat to follow menus")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")

	doctorCmd.Flags().Bool("jsonl", false, "Output JSON Lines instead of text")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(upgradeCmd)
}

// runLauncher opens the TUI and reports what it ran.
func runLauncher(cmd *cobra.Command, initial string) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	outcome, err := tui.Run(cmd.Context(), tui.Config{
		Keywords:      a.cfg.Keywords,
		DefaultFilter: a.cfg.DefaultFilter,
		Router:        a.router,
		Executor:      a.executor,
		Query:         initial,
		Logger:        a.logger,
	})
	if err != nil {
		return err
	}
	if outcome == nil {
		return nil
	}

	out := output.New(false)
	out.SetWriter(cmd.OutOrStdout())
	out.Executed(outcome.Command, outcome.Result, outcome.Err)
	return outcome.Err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
