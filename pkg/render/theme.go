package render

import (
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the styles used for checker output.
type Theme struct {
	Name string
	// Span marks the offending part of a rendered line.
	Span     lipgloss.Style
	Header   lipgloss.Style
	Location lipgloss.Style
	Summary  lipgloss.Style
}

// Mark styles an offending span. Tabs inside the span are kept as they are.
func (t Theme) Mark(span string) string {
	return t.Span.Render(span)
}

var themes = map[string]func(*lipgloss.Renderer) Theme{
	"default": DefaultTheme,
	"orca":    OrcaTheme,
	"mono":    MonoTheme,
}

// DefaultTheme returns the vivid red-on-default theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Name:     "default",
		Span:     span(r).Foreground(lipgloss.Color("196")).Bold(true), // red
		Header:   r.NewStyle().Bold(true),
		Location: r.NewStyle().Foreground(lipgloss.Color("39")),  // blue
		Summary:  r.NewStyle().Foreground(lipgloss.Color("214")), // orange
	}
}

// OrcaTheme returns a muted theme.
func OrcaTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Name:     "orca",
		Span:     span(r).Foreground(lipgloss.Color("167")).Bold(true), // muted red
		Header:   r.NewStyle().Bold(true),
		Location: r.NewStyle().Foreground(lipgloss.Color("75")),  // pale blue
		Summary:  r.NewStyle().Foreground(lipgloss.Color("179")), // muted gold
	}
}

// MonoTheme returns a theme without colors. Spans are still bold when the
// renderer emits escape sequences.
func MonoTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Name:     "mono",
		Span:     span(r).Bold(true),
		Header:   r.NewStyle().Bold(true),
		Location: r.NewStyle(),
		Summary:  r.NewStyle(),
	}
}

func span(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().TabWidth(lipgloss.NoTabConversion)
}

// Plain returns a theme that never emits escape sequences.
func Plain() Theme {
	return MonoTheme(NewRenderer(io.Discard, ColorNever, false))
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string, r *lipgloss.Renderer) Theme {
	if fn, ok := themes[name]; ok {
		return fn(r)
	}
	return DefaultTheme(r)
}

// IsTheme reports whether name is a known theme.
func IsTheme(name string) bool {
	_, ok := themes[name]
	return ok
}

// ThemeNames lists the known themes in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
