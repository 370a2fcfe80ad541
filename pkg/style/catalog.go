package style

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Entry describes one check for listings.
type Entry struct {
	ID      string
	Title   string
	Message string
}

// Catalog lists every check, enabled or not, in application order.
func Catalog(cfg Config) []Entry {
	caser := cases.Title(language.English)
	checks := All(cfg)
	out := make([]Entry, 0, len(checks))
	for _, c := range checks {
		out = append(out, Entry{
			ID:      c.ID(),
			Title:   caser.String(strings.ReplaceAll(c.ID(), "-", " ")),
			Message: c.Message(),
		})
	}
	return out
}
