package shell

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Default colors, matching the traditional sprint palette.
const (
	dimColor     = "#555555"
	commandColor = "#00ffff"
	errorColor   = "#ff0000"
)

// Printer renders the fenced command framing with terminal colors. Colors
// are degraded automatically when the destination is not a color terminal.
type Printer struct {
	out *termenv.Output
}

// NewPrinter creates a Printer writing to w. When color is false all styling
// is stripped.
func NewPrinter(w io.Writer, color bool) *Printer {
	profile := termenv.Ascii
	if color {
		profile = termenv.EnvColorProfile()
	}
	return &Printer{out: termenv.NewOutput(w, termenv.WithProfile(profile))}
}

// NewStdoutPrinter creates a Printer for os.Stdout. Color is enabled only
// when stdout is an interactive terminal, unless disabled explicitly.
func NewStdoutPrinter(noColor bool) *Printer {
	color := !noColor && (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
	return &Printer{out: termenv.NewOutput(os.Stdout, termenv.WithProfile(profileFor(color)))}
}

func profileFor(color bool) termenv.Profile {
	if color {
		return termenv.EnvColorProfile()
	}
	return termenv.Ascii
}

// Dim styles fence, info, and prompt text.
func (p *Printer) Dim(s string) string {
	return p.out.String(s).Foreground(p.out.Color(dimColor)).String()
}

// Command styles the echoed command line.
func (p *Printer) Command(s string) string {
	return p.out.String(s).Foreground(p.out.Color(commandColor)).Bold().String()
}

// Error styles the failure banner.
func (p *Printer) Error(s string) string {
	return p.out.String(s).Foreground(p.out.Color(errorColor)).Bold().Italic().String()
}

// Print writes s without a newline.
func (p *Printer) Print(s string) {
	io.WriteString(p.out, s)
}

// Println writes s followed by a newline.
func (p *Printer) Println(s string) {
	io.WriteString(p.out, s+"\n")
}
