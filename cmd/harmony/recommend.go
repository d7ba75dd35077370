package main

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"commute-harmony/internal/ai"
	"commute-harmony/internal/output"
	"commute-harmony/internal/render"
	"commute-harmony/internal/session"
)

type recommendOptions struct {
	JSON    bool
	Plain   bool
	Quiet   bool
	Verbose bool
	NoInput bool
}

func newRecommendCmd(a *app) *cobra.Command {
	var ro recommendOptions
	cmd := &cobra.Command{
		Use:   "recommend [theme]",
		Short: "Fetch one set of recommendations and print it",
		Long: `Fetch seven songs for a theme and print them.

The theme comes from the arguments, then from piped stdin, and falls back to
the configured default theme.`,
		Example: `  harmony recommend 비 오는 날
  echo "몽환적인 팝" | harmony recommend --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			theme := strings.TrimSpace(strings.Join(args, " "))
			if theme == "" && !ro.NoInput && !term.IsTerminal(int(os.Stdin.Fd())) {
				theme = readPromptFromStdin(os.Stdin)
			}
			return runRecommend(cmd, a, ro, theme)
		},
	}
	f := cmd.Flags()
	f.SortFlags = false
	f.BoolVar(&ro.JSON, "json", false, "Output machine-readable JSON")
	f.BoolVar(&ro.Plain, "plain", false, "Disable decorative formatting")
	f.BoolVarP(&ro.Quiet, "quiet", "q", false, "One line per song")
	f.BoolVarP(&ro.Verbose, "verbose", "v", false, "Enable verbose diagnostics")
	f.BoolVar(&ro.NoInput, "no-input", false, "Do not read a theme from stdin")
	return cmd
}

func runRecommend(cmd *cobra.Command, a *app, ro recommendOptions, theme string) error {
	out := output.New(output.Options{
		JSON:    ro.JSON,
		Plain:   ro.Plain,
		Quiet:   ro.Quiet,
		Verbose: ro.Verbose,
		NoColor: a.opts.NoColor || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb",
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
	})

	machine := session.New(a.recommender, a.cfg.Recommend.DefaultTheme)
	t, ok := machine.Submit(theme)
	if !ok {
		t, _ = machine.Start()
	}
	out.Debug("provider: " + a.recommender.Name() + ", theme: " + t.Theme)
	if !ro.Quiet && !ro.JSON {
		out.Info(out.Gray(render.LoadingText))
	}

	machine.Fetch(cmd.Context(), t)
	st := machine.State()
	if ro.Verbose && st.Status == session.StatusSuccess {
		if err := ai.CheckComposition(st.Result); err != nil {
			out.Warn(err.Error())
		}
	}

	if ro.JSON {
		if err := out.EmitJSON(st); err != nil {
			return err
		}
	} else {
		out.Page(render.Build(st, a.skin))
	}
	if cmd.Context().Err() != nil {
		return cmd.Context().Err()
	}
	if st.Status == session.StatusError {
		return errReported
	}
	return nil
}

func readPromptFromStdin(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	lines := []string{}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.TrimSpace(strings.Join(lines, " "))
}
