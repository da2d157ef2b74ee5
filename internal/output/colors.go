package output

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorScheme defines the colors used for different elements in the output
type ColorScheme struct {
	Method      *color.Color
	URL         *color.Color
	StatusOK    *color.Color
	StatusWarn  *color.Color
	StatusError *color.Color
	HeaderKey   *color.Color
	HeaderValue *color.Color
	Success     *color.Color
	Error       *color.Color
	Highlight   *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	scheme := &ColorScheme{
		Method:      color.New(color.FgBlue, color.Bold),
		URL:         color.New(color.FgCyan),
		StatusOK:    color.New(color.FgGreen, color.Bold),
		StatusWarn:  color.New(color.FgYellow, color.Bold),
		StatusError: color.New(color.FgRed, color.Bold),
		HeaderKey:   color.New(color.FgYellow),
		HeaderValue: color.New(color.FgWhite),
		Success:     color.New(color.FgGreen),
		Error:       color.New(color.FgRed),
		Highlight:   color.New(color.FgMagenta, color.Bold),
	}
	for _, c := range scheme.all() {
		c.EnableColor()
	}
	return scheme
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()
	for _, c := range scheme.all() {
		c.DisableColor()
	}
	return scheme
}

// NewColorScheme picks the default scheme when colors are wanted and out is
// a terminal, and the colorless one otherwise.
func NewColorScheme(noColor bool, out io.Writer) *ColorScheme {
	if noColor || !IsTerminal(out) {
		return NoColorScheme()
	}
	return DefaultColorScheme()
}

// Status returns the color for an HTTP status code.
func (s *ColorScheme) Status(code int) *color.Color {
	switch {
	case code >= 200 && code < 300:
		return s.StatusOK
	case code >= 300 && code < 400:
		return s.StatusWarn
	default:
		return s.StatusError
	}
}

func (s *ColorScheme) all() []*color.Color {
	return []*color.Color{
		s.Method, s.URL, s.StatusOK, s.StatusWarn, s.StatusError,
		s.HeaderKey, s.HeaderValue, s.Success, s.Error, s.Highlight,
	}
}

// IsTerminal reports whether out is a terminal.
func IsTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SuccessIcon returns a checkmark symbol with appropriate color
func (s *ColorScheme) SuccessIcon() string {
	return s.Success.Sprint("✓")
}

// ErrorIcon returns an X symbol with appropriate color
func (s *ColorScheme) ErrorIcon() string {
	return s.Error.Sprint("✗")
}
