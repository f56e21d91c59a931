// Package tui prints the interactive surfaces: the banner, service health and answers.
package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Printer writes styled output. Colour and markdown rendering are only used when
// the destination is a terminal.
type Printer struct {
	w       io.Writer
	profile termenv.Profile
	render  func(string) (string, error)
}

// NewPrinter detects whether w is a terminal.
func NewPrinter(w io.Writer) *Printer {
	if IsTerminal(w) {
		return &Printer{w: w, profile: termenv.ColorProfile(), render: NewRenderer()}
	}
	return NewPlainPrinter(w)
}

// NewPlainPrinter never styles its output.
func NewPlainPrinter(w io.Writer) *Printer {
	return &Printer{w: w, profile: termenv.Ascii}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Health prints one service status line.
func (p *Printer) Health(name string, ok bool) {
	mark, state, color := "✓", "healthy", "#22c55e"
	if !ok {
		mark, state, color = "✗", "unavailable", "#ef4444"
	}
	line := fmt.Sprintf("  %s %s: %s", mark, name, state)
	p.println(p.profile.String(line).Foreground(p.profile.Color(color)).String())
}

// Answer prints a final answer, rendered as markdown on a terminal.
func (p *Printer) Answer(text string) {
	if p.render != nil {
		if out, err := p.render(text); err == nil {
			fmt.Fprint(p.w, out)
			return
		}
	}
	p.println(strings.TrimRight(text, "\n"))
}

// Error prints a per-query failure without ending the session.
func (p *Printer) Error(err error) {
	p.println(p.profile.String("Error: " + err.Error()).Foreground(p.profile.Color("#ef4444")).String())
}

// Info prints a dimmed status line.
func (p *Printer) Info(format string, args ...any) {
	p.println(p.profile.String(fmt.Sprintf(format, args...)).Faint().String())
}

func (p *Printer) println(s string) {
	fmt.Fprintln(p.w, s)
}
