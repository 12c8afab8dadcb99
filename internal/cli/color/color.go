// Package color renders ANSI escape sequences for terminal output.
package color

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const reset = "\033[0m"

// SGR parameters accepted by New.
const (
	FgBlack   = 30
	FgRed     = 31
	FgGreen   = 32
	FgYellow  = 33
	FgBlue    = 34
	FgMagenta = 35
	FgCyan    = 36
	FgWhite   = 37

	Bold      = 1
	Dim       = 2
	Underline = 4
)

// NoColor suppresses escape sequences entirely. Set it when output is
// piped or captured, so tables and status lines stay plain text.
var NoColor = false

// Color is an immutable set of SGR attributes.
type Color struct {
	attrs []int
}

// New builds a Color from the given SGR attributes.
func New(attrs ...int) *Color {
	return &Color{attrs: attrs}
}

func (c *Color) wrap(s string) string {
	if NoColor || len(c.attrs) == 0 {
		return s
	}
	var seq strings.Builder
	seq.WriteString("\033[")
	for i, attr := range c.attrs {
		if i > 0 {
			seq.WriteByte(';')
		}
		seq.WriteString(strconv.Itoa(attr))
	}
	seq.WriteByte('m')
	seq.WriteString(s)
	seq.WriteString(reset)
	return seq.String()
}

// Printf writes the formatted string to stdout wrapped in this color.
func (c *Color) Printf(format string, a ...interface{}) {
	fmt.Print(c.wrap(fmt.Sprintf(format, a...)))
}

// Fprintf writes the formatted string to w wrapped in this color.
func (c *Color) Fprintf(w io.Writer, format string, a ...interface{}) {
	fmt.Fprint(w, c.wrap(fmt.Sprintf(format, a...)))
}

// Sprintf returns the formatted string wrapped in this color.
func (c *Color) Sprintf(format string, a ...interface{}) string {
	return c.wrap(fmt.Sprintf(format, a...))
}
