// Package format colours the status lines printed by the CLI.
package format

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Some color ANSI codes
var (
	Reset     = []byte("\033[0m")
	Green     = []byte("\033[32m")
	Yellow    = []byte("\033[33m")
	BrightRed = []byte("\033[31;1m")
)

// MessageKind selects the colour of a message.
type MessageKind uint8

const (
	Success MessageKind = iota
	Failure
	Usage
)

// A Colorizer wraps messages in ANSI color codes.  A nil *Colorizer is valid
// and prints messages as they are.
type Colorizer struct {
	MessageColorCodes [3][]byte
	ResetCode         []byte
}

// DefaultColorizer is the colour scheme used when colours are enabled.
var DefaultColorizer = Colorizer{
	MessageColorCodes: [3][]byte{Green, BrightRed, Yellow},
	ResetCode:         Reset,
}

// Print writes msg to w, coloured according to its kind.
func (c *Colorizer) Print(w io.Writer, kind MessageKind, msg string) error {
	if c == nil {
		_, err := io.WriteString(w, msg)
		return err
	}
	_, err := fmt.Fprintf(w, "%s%s%s", c.MessageColorCodes[kind], msg, c.ResetCode)
	return err
}

// IsTerminal reports whether f is a terminal, including cygwin and msys ones.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ColorMode says when colours are enabled.
type ColorMode uint8

const (
	ColorAuto ColorMode = iota // only on terminals
	ColorAlways
	ColorNever
)

// ParseColorMode parses the value of the -color flag.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "auto", "":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid -color value: %q (use auto, always, or never)", s)
	}
}

// ColorizerFor returns the colorizer to use for f in the given mode, together
// with a writer for f which understands ANSI codes on every platform.  The
// colorizer is nil when colours are disabled.
func ColorizerFor(mode ColorMode, f *os.File) (*Colorizer, io.Writer) {
	enabled := mode == ColorAlways || (mode == ColorAuto && IsTerminal(f))
	if !enabled {
		return nil, colorable.NewNonColorable(f)
	}
	return &DefaultColorizer, colorable.NewColorable(f)
}
