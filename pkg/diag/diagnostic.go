// Package diag defines the diagnostic value produced by style checks.
package diag

import "fmt"

// NoColumn marks a diagnostic that applies to the whole line.
const NoColumn = -1

// Diagnostic is a single style violation on an added line.
type Diagnostic struct {
	File     string
	Line     int
	Column   int // rune offset into the line, NoColumn when unknown
	Message  string
	Rendered string // the line with the offending span marked
	Check    string // ID of the check that produced it
}

// New constructs a Diagnostic value.
func New(check, file string, line, column int, message, rendered string) Diagnostic {
	return Diagnostic{
		File:     file,
		Line:     line,
		Column:   column,
		Message:  message,
		Rendered: rendered,
		Check:    check,
	}
}

// Location formats the diagnostic position as "file:line:column:".
// An unknown column prints as -1.
func (d Diagnostic) Location() string {
	return fmt.Sprintf("%s:%d:%d:", d.File, d.Line, d.Column)
}

// String returns the quickfix form "file:line:column:message".
func (d Diagnostic) String() string {
	return d.Location() + d.Message
}
