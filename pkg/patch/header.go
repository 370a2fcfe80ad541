package patch

import (
	"bytes"
	"regexp"
	"strconv"
	"time"
)

// Timestamp layouts go-diff accepts after the tab of a file header.
var headerTimeLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
}

var hunkHeaderRe = regexp.MustCompile(`^@@ -\d+(?:,(\d+))? \+\d+(?:,(\d+))? @@`)

// normalizeHeaders drops the tab-separated suffix of "---" and "+++" file
// headers when it is not a timestamp go-diff can read, such as svn's
// "(revision 209000)" or a ctime date. Hunk bodies are left untouched, so a
// removed line that itself starts with "-- " is never rewritten.
func normalizeHeaders(data []byte) []byte {
	lines := bytes.SplitAfter(data, []byte("\n"))
	out := make([]byte, 0, len(data))
	oldLeft, newLeft := 0, 0

	for _, line := range lines {
		body := bytes.TrimRight(line, "\r\n")

		if oldLeft > 0 || newLeft > 0 {
			switch {
			case len(body) == 0 || body[0] == ' ':
				oldLeft--
				newLeft--
			case body[0] == '-':
				oldLeft--
			case body[0] == '+':
				newLeft--
			case body[0] == '\\':
			default:
				oldLeft, newLeft = 0, 0
				out = append(out, normalizeHeaderLine(line, body)...)
				continue
			}
			out = append(out, line...)
			continue
		}

		if m := hunkHeaderRe.FindSubmatch(body); m != nil {
			oldLeft, newLeft = hunkCount(m[1]), hunkCount(m[2])
			out = append(out, line...)
			continue
		}
		out = append(out, normalizeHeaderLine(line, body)...)
	}
	return out
}

func normalizeHeaderLine(line, body []byte) []byte {
	if !bytes.HasPrefix(body, []byte("--- ")) && !bytes.HasPrefix(body, []byte("+++ ")) {
		return line
	}
	tab := bytes.IndexByte(body, '\t')
	if tab < 0 {
		return line
	}
	suffix := string(bytes.TrimSpace(body[tab+1:]))
	for _, layout := range headerTimeLayouts {
		if _, err := time.Parse(layout, suffix); err == nil {
			return line
		}
	}
	fixed := append([]byte{}, body[:tab]...)
	return append(fixed, line[len(body):]...)
}

// hunkCount reads an optional hunk range length; a missing length means 1.
func hunkCount(b []byte) int {
	if len(b) == 0 {
		return 1
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return 0
	}
	return n
}
