// Package style implements the GNU coding-style line checks.
//
// Every check inspects one line of text in isolation and reports at most one
// diagnostic, for the first match on the line. Checks hold no state between
// calls, so a single set built by NewRunner is reused for a whole patch.
package style

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dkoosis/gnustyle/pkg/diag"
)

// Check IDs, in the order the Runner applies them.
const (
	IDLineLength           = "line-length"
	IDSpacesAsTabs         = "spaces-as-tabs"
	IDTrailingWhitespace   = "trailing-whitespace"
	IDSentenceSeparator    = "sentence-separator"
	IDSentenceEndOfComment = "sentence-end-of-comment"
	IDSentenceDotEnd       = "sentence-dot-end"
	IDFunctionParenthesis  = "function-parenthesis"
	IDSquareBracket        = "square-bracket"
	IDClosingParenthesis   = "closing-parenthesis"
	IDBracesOnSeparateLine = "braces-on-separate-line"
	IDTrailingOperator     = "trailing-operator"
)

// WidthMode selects how line-length counts characters.
type WidthMode string

const (
	// WidthRunes counts code points.
	WidthRunes WidthMode = "runes"
	// WidthCells counts terminal display cells (wide characters count twice).
	WidthCells WidthMode = "cells"
)

// Defaults used by DefaultConfig.
const (
	DefaultLineLimit = 80
	DefaultTabWidth  = 8
	DefaultMarker    = "█"
)

// ErrInvalidConfig is returned by NewRunner for unusable settings.
var ErrInvalidConfig = errors.New("invalid style config")

// Check inspects a single line and optionally produces a diagnostic.
type Check interface {
	ID() string
	Message() string
	Check(file string, line int, text string) (diag.Diagnostic, bool)
}

// Config carries the settings shared by all checks.
type Config struct {
	LineLimit int
	TabWidth  int
	// Marker replaces each rune of an offending whitespace span.
	Marker string
	// Highlight wraps the offending span. Nil leaves it unchanged.
	Highlight func(span string) string
	WidthMode WidthMode
	// Disabled lists check IDs that the Runner skips.
	Disabled []string
}

// DefaultConfig returns the GNU defaults: 80 columns, tab stop 8.
func DefaultConfig() Config {
	return Config{
		LineLimit: DefaultLineLimit,
		TabWidth:  DefaultTabWidth,
		Marker:    DefaultMarker,
		WidthMode: WidthRunes,
	}
}

func (c Config) validate() error {
	if c.LineLimit <= 0 {
		return fmt.Errorf("%w: line limit must be positive, got %d", ErrInvalidConfig, c.LineLimit)
	}
	if c.TabWidth <= 0 {
		return fmt.Errorf("%w: tab width must be positive, got %d", ErrInvalidConfig, c.TabWidth)
	}
	switch c.WidthMode {
	case "", WidthRunes, WidthCells:
	default:
		return fmt.Errorf("%w: unknown width mode %q (expected runes, cells)", ErrInvalidConfig, c.WidthMode)
	}
	return nil
}

func (c Config) mark(span string) string {
	if c.Highlight == nil {
		return span
	}
	return c.Highlight(span)
}

// blank replaces every rune of span with the marker glyph before highlighting.
func (c Config) blank(span string) string {
	marker := c.Marker
	if marker == "" {
		marker = DefaultMarker
	}
	return c.mark(strings.Repeat(marker, utf8.RuneCountInString(span)))
}

// runeColumn converts a byte offset into text to a rune offset.
func runeColumn(text string, byteOffset int) int {
	return utf8.RuneCountInString(text[:byteOffset])
}
