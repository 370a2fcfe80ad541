package sarif

import (
	"encoding/json"
	"fmt"
	"io"
)

// Builder accumulates a single-run SARIF document.
type Builder struct {
	doc   Document
	rules map[string]int
}

// NewBuilder creates a builder for the given tool.
func NewBuilder(toolName, toolVersion string) *Builder {
	return &Builder{
		doc: Document{
			Version: Version,
			Schema:  Schema,
			Runs: []Run{{
				Tool:    Tool{Driver: Driver{Name: toolName, Version: toolVersion}},
				Results: []Result{},
			}},
		},
		rules: map[string]int{},
	}
}

func (b *Builder) run() *Run { return &b.doc.Runs[0] }

// SetInformationURI records where the tool's rules are documented.
func (b *Builder) SetInformationURI(uri string) *Builder {
	b.run().Tool.Driver.InformationURI = uri
	return b
}

// AddRule registers a rule. Registering an ID twice keeps the first entry.
func (b *Builder) AddRule(id, name, description string) *Builder {
	if _, ok := b.rules[id]; ok {
		return b
	}
	drv := &b.run().Tool.Driver
	b.rules[id] = len(drv.Rules)
	drv.Rules = append(drv.Rules, Rule{ID: id, Name: name, ShortDescription: Message{Text: description}})
	return b
}

// AddResult appends a result. line and col are 1-based; zero omits them.
// Unregistered rule IDs are registered on the fly with the message as
// description.
func (b *Builder) AddResult(ruleID, level, message, file string, line, col int) *Builder {
	b.AddRule(ruleID, "", message)
	r := Result{
		RuleID:    ruleID,
		RuleIndex: b.rules[ruleID],
		Level:     level,
		Message:   Message{Text: message},
	}
	if file != "" {
		r.Locations = []Location{{
			PhysicalLocation: PhysicalLocation{
				ArtifactLocation: ArtifactLocation{URI: file},
				Region:           Region{StartLine: line, StartColumn: col},
			},
		}}
	}
	b.run().Results = append(b.run().Results, r)
	return b
}

// Document returns the constructed document.
func (b *Builder) Document() *Document {
	return &b.doc
}

// WriteTo writes the document as indented JSON to w.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	data, err := json.MarshalIndent(b.doc, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshal sarif: %w", err)
	}
	data = append(data, '\n')
	n, err := w.Write(data)
	return int64(n), err
}
