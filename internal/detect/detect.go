// Package detect sniffs patch input to determine its flavour.
package detect

import (
	"bytes"
)

// Format represents a recognized patch flavour.
type Format int

const (
	Unknown Format = iota
	Empty          // nothing but whitespace
	Git            // git diff / format-patch output
	Unified        // plain diff -u output
)

func (f Format) String() string {
	switch f {
	case Empty:
		return "empty"
	case Git:
		return "git"
	case Unified:
		return "unified"
	default:
		return "unknown"
	}
}

// Sniff examines input to determine the patch flavour.
// Git wins over Unified when both header styles are present.
func Sniff(data []byte) Format {
	if len(bytes.TrimSpace(data)) == 0 {
		return Empty
	}

	sawOld := false
	unified := false
	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSuffix(line, []byte("\r"))
		switch {
		case bytes.HasPrefix(line, []byte("diff --git ")):
			return Git
		case bytes.HasPrefix(line, []byte("--- ")):
			sawOld = true
			continue
		case sawOld && bytes.HasPrefix(line, []byte("+++ ")):
			unified = true
		}
		sawOld = false
	}

	if unified {
		return Unified
	}
	return Unknown
}
