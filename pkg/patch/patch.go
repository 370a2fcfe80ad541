// Package patch adapts unified diffs into per-file line records.
//
// Parsing is delegated to sourcegraph/go-diff; this package only walks hunk
// bodies to number the lines of the post-patch file.
package patch

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/dkoosis/gnustyle/internal/detect"
)

// DefaultTestsuiteMarker excludes files under GCC-style testsuite directories.
const DefaultTestsuiteMarker = "testsuite"

const devNull = "/dev/null"

// ErrMalformed is returned when input cannot be read as a unified diff.
var ErrMalformed = errors.New("malformed patch")

// Kind classifies a hunk line.
type Kind int

const (
	Context Kind = iota
	Added
	Removed
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "context"
	}
}

// Line is one line of a hunk.
type Line struct {
	Kind Kind
	// Number is the 1-based line in the post-patch file, 0 when the line has
	// no place there.
	Number int
	// Text excludes the diff prefix and the trailing newline.
	Text string
}

// Checkable reports whether the line is added and has a target line number.
func (l Line) Checkable() bool {
	return l.Kind == Added && l.Number > 0
}

// Hunk is a contiguous block of changes.
type Hunk struct {
	NewStart int
	Section  string
	Lines    []Line
}

// File is one file added or modified by the patch.
type File struct {
	Path     string // target path, VCS prefix stripped
	OrigPath string
	New      bool
	Hunks    []Hunk
}

// AddedLines returns the checkable lines of every hunk in order.
func (f File) AddedLines() []Line {
	var out []Line
	for _, h := range f.Hunks {
		for _, l := range h.Lines {
			if l.Checkable() {
				out = append(out, l)
			}
		}
	}
	return out
}

// Parse reads a multi-file unified diff. Deleted files are skipped; new
// files come first, then modified files, each in patch order.
// Whitespace-only input yields no files and no error.
func Parse(data []byte) ([]File, error) {
	switch detect.Sniff(data) {
	case detect.Empty:
		return nil, nil
	case detect.Unknown:
		return nil, fmt.Errorf("%w: no diff headers found", ErrMalformed)
	}

	fds, err := diff.ParseMultiFileDiff(normalizeHeaders(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var added, modified []File
	for _, fd := range fds {
		if fd.NewName == devNull {
			continue
		}
		f := File{
			Path:     TargetPath(fd.NewName),
			OrigPath: TargetPath(fd.OrigName),
			New:      fd.OrigName == devNull,
		}
		for _, h := range fd.Hunks {
			f.Hunks = append(f.Hunks, convertHunk(h))
		}
		if f.New {
			added = append(added, f)
		} else {
			modified = append(modified, f)
		}
	}
	return append(added, modified...), nil
}

func convertHunk(h *diff.Hunk) Hunk {
	out := Hunk{
		NewStart: int(h.NewStartLine),
		Section:  h.Section,
	}

	body := bytes.TrimSuffix(h.Body, []byte("\n"))
	if len(body) == 0 {
		return out
	}

	next := out.NewStart
	for _, raw := range strings.Split(string(body), "\n") {
		if raw == "" {
			// Some tools strip the leading space of blank context lines.
			out.Lines = append(out.Lines, Line{Kind: Context, Number: next})
			next++
			continue
		}
		switch raw[0] {
		case '+':
			out.Lines = append(out.Lines, Line{Kind: Added, Number: next, Text: raw[1:]})
			next++
		case '-':
			out.Lines = append(out.Lines, Line{Kind: Removed, Text: raw[1:]})
		case '\\':
			// "\ No newline at end of file"
		default:
			out.Lines = append(out.Lines, Line{Kind: Context, Number: next, Text: raw[1:]})
			next++
		}
	}
	return out
}

// TargetPath strips the "a/" or "b/" prefix git puts on diff paths.
func TargetPath(name string) string {
	if name == devNull {
		return name
	}
	for _, prefix := range []string{"b/", "a/"} {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimPrefix(name, prefix)
		}
	}
	return name
}

// Exclude drops files whose path contains marker. It returns the kept files
// and the paths that were skipped. An empty marker keeps everything.
func Exclude(files []File, marker string) (kept []File, skipped []string) {
	if marker == "" {
		return files, nil
	}
	for _, f := range files {
		if strings.Contains(f.Path, marker) {
			skipped = append(skipped, f.Path)
			continue
		}
		kept = append(kept, f)
	}
	return kept, skipped
}
