package console

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Status icons
const (
	IconStep    = "→"
	IconSuccess = "✓"
	IconWarn    = "⚠"
	IconFail    = "✗"
	IconInfo    = "ℹ"
)

var (
	colorPass = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	colorWarn = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	colorFail = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	colorMute = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	colorInfo = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
)

// Printer writes operator-facing progress lines.
type Printer struct {
	w     io.Writer
	color bool

	step    lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	info    lipgloss.Style
	muted   lipgloss.Style
}

// NewPrinter creates a printer writing to w. With color false every line is
// plain text.
func NewPrinter(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		color:   color,
		step:    r.NewStyle().Bold(true).Foreground(colorInfo),
		success: r.NewStyle().Foreground(colorPass),
		warn:    r.NewStyle().Foreground(colorWarn),
		fail:    r.NewStyle().Bold(true).Foreground(colorFail),
		info:    r.NewStyle().Foreground(colorInfo),
		muted:   r.NewStyle().Foreground(colorMute),
	}
}

// Discard returns a printer that writes nothing.
func Discard() *Printer {
	return NewPrinter(io.Discard, false)
}

// Step announces the start of a workflow step.
func (p *Printer) Step(format string, args ...any) {
	p.line(p.step, IconStep, format, args...)
}

// Success reports a completed step.
func (p *Printer) Success(format string, args ...any) {
	p.line(p.success, IconSuccess, format, args...)
}

// Warn reports a recoverable problem.
func (p *Printer) Warn(format string, args ...any) {
	p.line(p.warn, IconWarn, format, args...)
}

// Fail reports a failed step.
func (p *Printer) Fail(format string, args ...any) {
	p.line(p.fail, IconFail, format, args...)
}

// Info prints a secondary detail line.
func (p *Printer) Info(format string, args ...any) {
	p.line(p.info, IconInfo, format, args...)
}

// Detail prints an indented muted line, such as a URL or a message body.
func (p *Printer) Detail(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	if p.color {
		text = p.muted.Render(text)
	}
	fmt.Fprintf(p.w, "  %s\n", text)
}

func (p *Printer) line(style lipgloss.Style, icon, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	if p.color {
		icon = style.Render(icon)
	}
	fmt.Fprintf(p.w, "%s %s\n", icon, text)
}

// ColorEnabled reports whether styled output should be written to f.
// NO_COLOR, noColor, or a non-terminal disable it.
func ColorEnabled(f *os.File, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return IsTerminal(f)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}
