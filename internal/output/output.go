package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-json"

	"commute-harmony/internal/render"
)

type Options struct {
	JSON    bool
	Plain   bool
	Quiet   bool
	Verbose bool
	NoColor bool
	Stdout  io.Writer
	Stderr  io.Writer
}

type Output struct {
	JSON    bool
	Plain   bool
	Quiet   bool
	Verbose bool

	stdout io.Writer
	stderr io.Writer

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	gray   *color.Color
	bold   *color.Color
	accent *color.Color
}

func New(opts Options) *Output {
	if opts.NoColor || opts.Plain {
		color.NoColor = true
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Output{
		JSON:    opts.JSON,
		Plain:   opts.Plain,
		Quiet:   opts.Quiet,
		Verbose: opts.Verbose,
		stdout:  opts.Stdout,
		stderr:  opts.Stderr,
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow),
		red:     color.New(color.FgRed),
		gray:    color.New(color.FgHiBlack),
		bold:    color.New(color.Bold),
		accent:  color.New(color.FgHiBlue, color.Bold),
	}
}

func (o *Output) Green(s string) string  { return o.green.Sprint(s) }
func (o *Output) Yellow(s string) string { return o.yellow.Sprint(s) }
func (o *Output) Red(s string) string    { return o.red.Sprint(s) }
func (o *Output) Gray(s string) string   { return o.gray.Sprint(s) }
func (o *Output) Bold(s string) string   { return o.bold.Sprint(s) }
func (o *Output) Accent(s string) string { return o.accent.Sprint(s) }

func (o *Output) Info(msg string) {
	if o.JSON || o.Quiet {
		return
	}
	fmt.Fprintln(o.stdout, msg)
}

func (o *Output) Warn(msg string) {
	if o.JSON || o.Quiet {
		return
	}
	fmt.Fprintln(o.stderr, o.Yellow(msg))
}

func (o *Output) Debug(msg string) {
	if o.JSON || !o.Verbose {
		return
	}
	fmt.Fprintln(o.stderr, o.Gray(msg))
}

func (o *Output) Error(msg string) {
	fmt.Fprintln(o.stderr, o.Red(msg))
}

func (o *Output) Print(msg string) {
	if o.JSON {
		return
	}
	fmt.Fprintln(o.stdout, msg)
}

func (o *Output) EmitJSON(v any) error {
	enc := json.NewEncoder(o.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Page prints a rendered page. Only the final states are meaningful here;
// the recommend command blocks until the fetch resolves.
func (o *Output) Page(p render.Page) {
	switch {
	case p.Error:
		o.Error(render.ErrorHeading)
		o.Error(p.ErrorMessage)
	case p.Success:
		o.cards(p)
	}
}

func (o *Output) cards(p render.Page) {
	if !o.Quiet {
		o.Print(o.Gray(render.SelectionLabel))
	}
	o.Print(o.Bold(p.ThemeTitle))
	o.Print("")
	for _, c := range p.Cards {
		tag := o.Gray("[" + c.Tag + "]")
		if c.Domestic {
			tag = o.Accent("[" + c.Tag + "]")
		}
		if o.Quiet {
			o.Print(fmt.Sprintf("%d. %s - %s", c.Rank, c.Title, c.Artist))
			continue
		}
		o.Print(fmt.Sprintf("%s %s %s", o.Accent(fmt.Sprintf("%02d", c.Rank)), tag, o.Gray(c.Genre)))
		o.Print("   " + o.Bold(c.Title) + " - " + c.Artist)
		o.Print("   " + c.Reason)
		o.Print("   " + o.Gray(c.ListenURL))
		o.Print("")
	}
	if o.Quiet {
		return
	}
	parts := make([]string, 0, len(p.Summary))
	for _, s := range p.Summary {
		parts = append(parts, fmt.Sprintf("%s %s", o.Green(fmt.Sprint(s.Count)), s.Label))
	}
	o.Print(render.SummaryHeading + ": " + strings.Join(parts, " / "))
	o.Print(o.Gray(render.SummaryNote))
}
