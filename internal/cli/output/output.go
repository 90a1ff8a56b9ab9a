// Package output renders command results in text, markdown or JSON,
// with terminal styling when stdout is a TTY.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Mode selects the output format.
type Mode string

const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// StyleSet holds the lipgloss styles used across commands. The zero
// value renders text unstyled.
type StyleSet struct {
	Bold    lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
	Path    lipgloss.Style
}

func styledSet() StyleSet {
	return StyleSet{
		Bold:    lipgloss.NewStyle().Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Path:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
	}
}

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	styles StyleSet
}

// NewRenderer creates a renderer. ModeAuto picks text with styling
// when out is a terminal, plain text otherwise.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}

	styled := false
	if mode == ModeAuto {
		mode = ModeText
		if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			styled = true
		}
	}

	var styles StyleSet
	if styled {
		styles = styledSet()
	}

	return &Renderer{out: out, errOut: errOut, mode: mode, styles: styles}
}

// EffectiveMode returns the resolved output mode.
func (r *Renderer) EffectiveMode() Mode { return r.mode }

// Styles returns the active style set.
func (r *Renderer) Styles() StyleSet { return r.styles }

// Println writes a line to standard output.
func (r *Renderer) Println(a ...any) {
	fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to standard output.
func (r *Renderer) Printf(format string, a ...any) {
	fmt.Fprintf(r.out, format, a...)
}

// Errorf writes formatted text to error output.
func (r *Renderer) Errorf(format string, a ...any) {
	fmt.Fprintf(r.errOut, format, a...)
}

// Success writes a success line.
func (r *Renderer) Success(msg string) {
	r.Println(r.styles.Success.Render(msg))
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
