//go:build linux

// Package app wires the memwatch command line.
package app

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pranshuparmar/memwatch/internal/output"
	"github.com/pranshuparmar/memwatch/internal/proc"
	"github.com/pranshuparmar/memwatch/internal/render"
	"github.com/pranshuparmar/memwatch/internal/supervisor"
	"github.com/pranshuparmar/memwatch/internal/tui"
)

var (
	flagInterval int
	flagUnit     string
	flagJSON     bool
	flagNoColor  bool
	flagWatch    bool
)

var rootCmd = &cobra.Command{
	Use:   "memwatch [flags] -- <command> [args...]",
	Short: "Run a command and watch the memory of its process tree",
	Long: `memwatch runs a command and continuously reports the aggregate resident
and virtual memory of the command and all of its descendants on a single
refreshing status line, while relaying the command's output.

Examples:
  memwatch -- make -j8
  memwatch --interval 250 -- python train.py
  memwatch --unit mb -- node server.js
  memwatch --watch -- cargo build`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         runRoot,
}

func init() {
	rootCmd.Flags().IntVarP(&flagInterval, "interval", "i", 500, "sampling interval in milliseconds")
	rootCmd.Flags().StringVar(&flagUnit, "unit", "auto", "unit for memory values: auto|kb|mb|gb")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "print the final summary as JSON")
	rootCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "disable colors")
	rootCmd.Flags().BoolVar(&flagWatch, "watch", false, "interactive TUI mode instead of the status line")
}

func runRoot(cmd *cobra.Command, args []string) error {
	argv := args
	if n := cmd.ArgsLenAtDash(); n >= 0 {
		argv = args[n:]
	}
	if len(argv) == 0 {
		return fmt.Errorf("no command given\nUsage: %s", cmd.UseLine())
	}

	if flagInterval <= 0 {
		return fmt.Errorf("invalid interval %dms: must be positive", flagInterval)
	}
	interval := time.Duration(flagInterval) * time.Millisecond

	unit, err := render.ParseUnit(flagUnit)
	if err != nil {
		return err
	}

	if flagWatch {
		return runWatch(cmd, argv, interval, unit)
	}

	sup := supervisor.New(
		supervisor.Config{Interval: interval, Unit: unit},
		proc.Default(),
		render.NewTerminal(cmd.OutOrStdout(), cmd.ErrOrStderr()),
	)

	sum, err := sup.Run(argv)
	if err != nil {
		return err
	}

	return report(cmd, sum, unit)
}

// runWatch supervises the child through the interactive dashboard.
func runWatch(cmd *cobra.Command, argv []string, interval time.Duration, unit render.Unit) error {
	child, err := supervisor.Spawn(argv)
	if err != nil {
		return err
	}

	model := tui.New(tui.Options{
		Command:  argv,
		Child:    child,
		FS:       proc.Default(),
		Interval: interval,
		Unit:     unit,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		// The child may still be running; do not leave it orphaned.
		child.Kill()
		return fmt.Errorf("error running tui: %w", err)
	}

	m, ok := final.(tui.Model)
	if !ok {
		return fmt.Errorf("unexpected tui model type %T", final)
	}
	return report(cmd, m.Summary(), unit)
}

func report(cmd *cobra.Command, sum output.Summary, unit render.Unit) error {
	if flagJSON {
		return output.PrintJSON(cmd.OutOrStdout(), sum)
	}
	output.PrintText(cmd.ErrOrStderr(), sum, unit, !flagNoColor)
	return nil
}

// Execute runs the root command. The exit status reflects only whether
// memwatch itself ran; the child's exit code is part of the summary.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
