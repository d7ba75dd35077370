package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"commute-harmony/internal/logging"
	"commute-harmony/internal/session"
	"commute-harmony/internal/tui"
)

const tuiLogFile = "harmony-debug.log"

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal UI (default)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), a)
		},
	}
}

func runTUI(ctx context.Context, a *app) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return usageError{msg: "the terminal UI needs a terminal; use `harmony recommend` for piped output"}
	}

	// Log lines would tear the alternate screen, so they go to a file with
	// --debug and nowhere otherwise.
	var logOut io.Writer = io.Discard
	if a.opts.Debug {
		f, err := os.OpenFile(tuiLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	level := a.cfg.Log.Level
	if a.opts.Debug {
		level = "debug"
	}
	logging.Init(logging.Config{Level: level, Format: a.cfg.Log.Format, Output: logOut})

	machine := session.New(a.recommender, a.cfg.Recommend.DefaultTheme)
	_, err := tui.NewProgram(tui.New(ctx, machine, a.skin)).Run()
	return err
}
