package style

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/gnustyle/pkg/diag"
)

// Character classes matching Unicode \w, \s and \S of the GNU scripts.
const (
	wordClass     = `[\p{L}\p{N}_]`
	spaceClass    = `[\t\n\v\f\r\x1c-\x1f\x{85}\p{Z}]`
	nonSpaceClass = `[^\t\n\v\f\r\x1c-\x1f\x{85}\p{Z}]`
)

var classes = strings.NewReplacer(`\w`, wordClass, `\s`, spaceClass, `\S`, nonSpaceClass)

// gnuPattern compiles a pattern written with \w, \s and \S shorthands.
func gnuPattern(pattern string) *regexp.Regexp {
	return regexp.MustCompile(classes.Replace(pattern))
}

var (
	trailingWhitespaceRe   = gnuPattern(`(\s+)$`)
	sentenceSeparatorRe    = gnuPattern(`\w\.(\s|\s{3,})\w`)
	sentenceEndOfCommentRe = gnuPattern(`\w\.(\s{0,1}|\s{3,})\*/`)
	sentenceDotEndRe       = gnuPattern(`\w(\s*\*/)`)
	functionParenthesisRe  = gnuPattern(`\w(\s{2,})?(\()`)
	squareBracketRe        = gnuPattern(`\w\s+(\[)`)
	closingParenthesisRe   = gnuPattern(`\S\s+(\))`)
	bracesRe               = gnuPattern(`(\)|else)\s*({)`)
	trailingOperatorRe     = gnuPattern(`^\s.*(([^a-zA-Z_]\*)|([-%<=&|^?])|([^*]/)|([^:][+]))$`)
)

// LineLength flags lines whose tab-expanded width exceeds the limit.
type LineLength struct {
	cfg     Config
	tab     string
	message string
}

// NewLineLength returns the line-length check.
func NewLineLength(cfg Config) *LineLength {
	return &LineLength{
		cfg:     cfg,
		tab:     strings.Repeat(" ", cfg.TabWidth),
		message: fmt.Sprintf("lines should not exceed %d characters", cfg.LineLimit),
	}
}

// ID implements Check.
func (c *LineLength) ID() string { return IDLineLength }

// Message implements Check.
func (c *LineLength) Message() string { return c.message }

// Check implements Check. The rendered line is the expanded line with
// everything past the limit highlighted.
func (c *LineLength) Check(file string, line int, text string) (diag.Diagnostic, bool) {
	expanded := strings.ReplaceAll(text, "\t", c.tab)
	cut, over := c.cut(expanded)
	if !over {
		return diag.Diagnostic{}, false
	}
	rendered := expanded[:cut] + c.cfg.mark(expanded[cut:])
	return diag.New(IDLineLength, file, line, c.cfg.LineLimit, c.message, rendered), true
}

// cut returns the byte offset of the first rune past the limit.
func (c *LineLength) cut(s string) (int, bool) {
	width := 0
	for i, r := range s {
		w := 1
		if c.cfg.WidthMode == WidthCells {
			w = runewidth.RuneWidth(r)
		}
		if width+w > c.cfg.LineLimit {
			return i, true
		}
		width += w
	}
	return len(s), false
}

// SpacesAsTabs flags a run of tab-width spaces that should be a tab.
type SpacesAsTabs struct {
	cfg     Config
	run     string
	message string
}

// NewSpacesAsTabs returns the spaces-as-tabs check.
func NewSpacesAsTabs(cfg Config) *SpacesAsTabs {
	return &SpacesAsTabs{
		cfg:     cfg,
		run:     strings.Repeat(" ", cfg.TabWidth),
		message: fmt.Sprintf("blocks of %d spaces should be replaced with tabs", cfg.TabWidth),
	}
}

// ID implements Check.
func (c *SpacesAsTabs) ID() string { return IDSpacesAsTabs }

// Message implements Check.
func (c *SpacesAsTabs) Message() string { return c.message }

// Check implements Check. The column is the first run; every run is marked.
func (c *SpacesAsTabs) Check(file string, line int, text string) (diag.Diagnostic, bool) {
	i := strings.Index(text, c.run)
	if i < 0 {
		return diag.Diagnostic{}, false
	}
	rendered := strings.ReplaceAll(text, c.run, c.cfg.blank(c.run))
	return diag.New(IDSpacesAsTabs, file, line, runeColumn(text, i), c.message, rendered), true
}

// PatternCheck reports the first match of a regular expression, positioned
// at one of its capture groups.
type PatternCheck struct {
	cfg     Config
	id      string
	message string
	re      *regexp.Regexp
	group   int
	// blankSpan replaces the span with marker glyphs instead of keeping it.
	blankSpan bool
	// skip disables the check on lines containing it.
	skip string
}

// ID implements Check.
func (c *PatternCheck) ID() string { return c.id }

// Message implements Check.
func (c *PatternCheck) Message() string { return c.message }

// Check implements Check.
func (c *PatternCheck) Check(file string, line int, text string) (diag.Diagnostic, bool) {
	if c.skip != "" && strings.Contains(text, c.skip) {
		return diag.Diagnostic{}, false
	}
	m := c.re.FindStringSubmatchIndex(text)
	if m == nil {
		return diag.Diagnostic{}, false
	}
	start, end := m[2*c.group], m[2*c.group+1]
	if start < 0 {
		start, end = m[0], m[1]
	}

	span := text[start:end]
	marked := c.cfg.mark(span)
	if c.blankSpan {
		marked = c.cfg.blank(span)
	}
	rendered := text[:start] + marked + text[end:]
	return diag.New(c.id, file, line, runeColumn(text, start), c.message, rendered), true
}

// NewTrailingWhitespace returns the trailing-whitespace check.
func NewTrailingWhitespace(cfg Config) *PatternCheck {
	return &PatternCheck{
		cfg:       cfg,
		id:        IDTrailingWhitespace,
		message:   "trailing whitespace",
		re:        trailingWhitespaceRe,
		group:     1,
		blankSpan: true,
	}
}

// NewSentenceSeparator returns the check for one or three-plus spaces
// between sentences; GNU style wants exactly two.
func NewSentenceSeparator(cfg Config) *PatternCheck {
	return &PatternCheck{
		cfg:       cfg,
		id:        IDSentenceSeparator,
		message:   "dot, space, space, new sentence",
		re:        sentenceSeparatorRe,
		group:     1,
		blankSpan: true,
	}
}

// NewSentenceEndOfComment returns the check for anything but two spaces
// between a final dot and the comment close.
func NewSentenceEndOfComment(cfg Config) *PatternCheck {
	return &PatternCheck{
		cfg:       cfg,
		id:        IDSentenceEndOfComment,
		message:   "dot, space, space, end of comment",
		re:        sentenceEndOfCommentRe,
		group:     1,
		blankSpan: true,
	}
}

// NewSentenceDotEnd returns the check for a comment that closes right after
// a word, without the dot.
func NewSentenceDotEnd(cfg Config) *PatternCheck {
	return &PatternCheck{
		cfg:     cfg,
		id:      IDSentenceDotEnd,
		message: "dot, space, space before end of comment",
		re:      sentenceDotEndRe,
		group:   1,
	}
}

// NewFunctionParenthesis returns the check for the single space between a
// function name and its parenthesis. Macro definitions are exempt.
func NewFunctionParenthesis(cfg Config) *PatternCheck {
	return &PatternCheck{
		cfg:     cfg,
		id:      IDFunctionParenthesis,
		message: "there should be exactly one space between function name and parenthesis",
		re:      functionParenthesisRe,
		group:   2,
		skip:    "#define",
	}
}

// NewSquareBracket returns the check for a space before '['.
func NewSquareBracket(cfg Config) *PatternCheck {
	return &PatternCheck{
		cfg:     cfg,
		id:      IDSquareBracket,
		message: "there should be no space before a left square bracket",
		re:      squareBracketRe,
		group:   1,
	}
}

// NewClosingParenthesis returns the check for a space before ')'.
func NewClosingParenthesis(cfg Config) *PatternCheck {
	return &PatternCheck{
		cfg:     cfg,
		id:      IDClosingParenthesis,
		message: "there should be no space before closing parenthesis",
		re:      closingParenthesisRe,
		group:   1,
	}
}

// NewBracesOnSeparateLine returns the check for '{' on the line of a ')'
// or else. Compound literals are reported too.
func NewBracesOnSeparateLine(cfg Config) *PatternCheck {
	return &PatternCheck{
		cfg:     cfg,
		id:      IDBracesOnSeparateLine,
		message: "braces should be on a separate line",
		re:      bracesRe,
		group:   2,
	}
}

// NewTrailingOperator returns the check for a binary operator left at the
// end of an indented line.
func NewTrailingOperator(cfg Config) *PatternCheck {
	return &PatternCheck{
		cfg:     cfg,
		id:      IDTrailingOperator,
		message: "trailing operator",
		re:      trailingOperatorRe,
		group:   1,
	}
}

// All returns every check in application order.
func All(cfg Config) []Check {
	return []Check{
		NewLineLength(cfg),
		NewSpacesAsTabs(cfg),
		NewTrailingWhitespace(cfg),
		NewSentenceSeparator(cfg),
		NewSentenceEndOfComment(cfg),
		NewSentenceDotEnd(cfg),
		NewFunctionParenthesis(cfg),
		NewSquareBracket(cfg),
		NewClosingParenthesis(cfg),
		NewBracesOnSeparateLine(cfg),
		NewTrailingOperator(cfg),
	}
}
