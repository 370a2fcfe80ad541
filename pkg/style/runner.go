package style

import (
	"fmt"

	"github.com/dkoosis/gnustyle/pkg/diag"
	"github.com/dkoosis/gnustyle/pkg/patch"
)

// Runner applies an ordered set of checks to added lines.
type Runner struct {
	checks []Check
}

// NewRunner builds the check set described by cfg. Unknown IDs in
// cfg.Disabled are rejected so a typo does not silently re-enable a check.
func NewRunner(cfg Config) (*Runner, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	all := All(cfg)
	disabled := make(map[string]bool, len(cfg.Disabled))
	for _, id := range cfg.Disabled {
		if !knownID(all, id) {
			return nil, fmt.Errorf("%w: unknown check %q", ErrInvalidConfig, id)
		}
		disabled[id] = true
	}

	r := &Runner{}
	for _, c := range all {
		if !disabled[c.ID()] {
			r.checks = append(r.checks, c)
		}
	}
	return r, nil
}

func knownID(checks []Check, id string) bool {
	for _, c := range checks {
		if c.ID() == id {
			return true
		}
	}
	return false
}

// Checks returns the enabled checks in application order.
func (r *Runner) Checks() []Check {
	return append([]Check(nil), r.checks...)
}

// CheckLine runs every check against one line. A line may produce several
// diagnostics, one per triggered check, in check order.
func (r *Runner) CheckLine(file string, line int, text string) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, c := range r.checks {
		if d, ok := c.Check(file, line, text); ok {
			out = append(out, d)
		}
	}
	return out
}

// CheckFiles runs CheckLine over every added line with a known target
// number, in patch order.
func (r *Runner) CheckFiles(files []patch.File) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, f := range files {
		for _, l := range f.AddedLines() {
			out = append(out, r.CheckLine(f.Path, l.Number, l.Text)...)
		}
	}
	return out
}
