// Package render styles diagnostic output for terminals.
//
// Styles are bound to a lipgloss renderer whose color profile is fixed up
// front from the --color setting, so output written to a pipe or a file
// carries no escape sequences unless colors were forced.
package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorMode selects when escape sequences are emitted.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a --color value. Empty means auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	default:
		return "", fmt.Errorf("unknown color mode %q (expected auto, always, never)", s)
	}
}

// Profile resolves a mode to a termenv profile. tty reports whether the
// destination is a terminal and only matters for ColorAuto.
func Profile(mode ColorMode, tty bool) termenv.Profile {
	switch mode {
	case ColorAlways:
		return termenv.ANSI256
	case ColorNever:
		return termenv.Ascii
	default:
		if tty {
			return termenv.ANSI256
		}
		return termenv.Ascii
	}
}

// NewRenderer returns a lipgloss renderer for w with the profile chosen by
// mode.
func NewRenderer(w io.Writer, mode ColorMode, tty bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(Profile(mode, tty))
	return r
}
