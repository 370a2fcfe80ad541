// Package report groups diagnostics and writes them in the supported output
// formats.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dkoosis/gnustyle/pkg/diag"
	"github.com/dkoosis/gnustyle/pkg/render"
	"github.com/dkoosis/gnustyle/pkg/sarif"
	"github.com/dkoosis/gnustyle/pkg/style"
)

// Process exit statuses.
const (
	ExitOK         = 0
	ExitViolations = 1
	ExitError      = 2
	ExitDependency = 3
)

// DefaultQuickfixFile is the file vim's :cfile reads by default.
const DefaultQuickfixFile = "errors.err"

// StandardsURI documents the rules behind every check.
const StandardsURI = "https://www.gnu.org/prep/standards/standards.html#Formatting"

// ErrDependency marks a missing external dependency. Errors wrapping it exit
// with ExitDependency.
var ErrDependency = errors.New("required dependency unavailable")

// Category is every diagnostic sharing one message.
type Category struct {
	Message     string
	Diagnostics []diag.Diagnostic
}

// Group buckets diagnostics by message. Categories are sorted by message;
// diagnostics keep their collection order within a category.
func Group(diags []diag.Diagnostic) []Category {
	index := map[string]int{}
	var out []Category
	for _, d := range diags {
		i, ok := index[d.Message]
		if !ok {
			i = len(out)
			index[d.Message] = i
			out = append(out, Category{Message: d.Message})
		}
		out[i].Diagnostics = append(out[i].Diagnostics, d)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Message < out[j].Message })
	return out
}

// ExitCode returns ExitViolations when any diagnostic exists.
func ExitCode(diags []diag.Diagnostic) int {
	if len(diags) > 0 {
		return ExitViolations
	}
	return ExitOK
}

// Writer renders diagnostics to an output stream.
type Writer struct {
	out   io.Writer
	theme render.Theme
	// Version is recorded as the SARIF driver version.
	Version string
}

// NewWriter returns a Writer for out styled with theme.
func NewWriter(out io.Writer, theme render.Theme) *Writer {
	return &Writer{out: out, theme: theme}
}

// WriteStdio prints each category under a numbered header, one rendered
// line per diagnostic, followed by a blank line.
func (w *Writer) WriteStdio(diags []diag.Diagnostic) error {
	for n, c := range Group(diags) {
		header := fmt.Sprintf("=== ERROR type #%d: %s (%d error(s)) ===", n+1, c.Message, len(c.Diagnostics))
		if _, err := fmt.Fprintln(w.out, w.theme.Header.Render(header)); err != nil {
			return err
		}
		for _, d := range c.Diagnostics {
			if _, err := fmt.Fprintln(w.out, w.theme.Location.Render(d.Location())+d.Rendered); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w.out); err != nil {
			return err
		}
	}
	return nil
}

// WriteQuickfix writes one "file:line:col:message" line per diagnostic to
// path, in collection order. The file is created even when there is nothing
// to report, so a stale list never survives a clean run. A summary goes to
// the output stream when diagnostics exist.
func (w *Writer) WriteQuickfix(path string, diags []diag.Diagnostic) error {
	if path == "" {
		path = DefaultQuickfixFile
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create quickfix file: %w", err)
	}
	for _, d := range diags {
		if _, err := fmt.Fprintln(f, d.String()); err != nil {
			f.Close()
			return fmt.Errorf("write quickfix file: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close quickfix file: %w", err)
	}

	if len(diags) == 0 {
		return nil
	}
	summary := fmt.Sprintf("%d error(s) written to %s file.", len(diags), path)
	_, err = fmt.Fprintln(w.out, w.theme.Summary.Render(summary))
	return err
}

// WriteSARIF writes a SARIF document with every catalog entry as a rule and
// one error-level result per diagnostic.
func (w *Writer) WriteSARIF(diags []diag.Diagnostic, catalog []style.Entry) error {
	b := sarif.NewBuilder("gnustyle", w.Version).SetInformationURI(StandardsURI)
	for _, e := range catalog {
		b.AddRule(e.ID, e.Title, e.Message)
	}
	for _, d := range diags {
		col := 0
		if d.Column != diag.NoColumn {
			col = d.Column + 1
		}
		b.AddResult(d.Check, sarif.LevelError, d.Message, d.File, d.Line, col)
	}
	_, err := b.WriteTo(w.out)
	return err
}
