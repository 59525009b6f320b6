package validator

import (
	"strings"

	"github.com/promptgate/promptgate/pkg/mdtext"
	"github.com/promptgate/promptgate/pkg/types"
)

// commandSections are the Markdown headings every command document must
// carry, exact case, in canonical reporting order.
var commandSections = []string{"## Description", "## Usage", "## Parameters", "## Examples"}

// CommandValidator checks the structural contract of command documents.
type CommandValidator struct{}

// NewCommandValidator creates the command-document validator.
func NewCommandValidator() *CommandValidator {
	return &CommandValidator{}
}

func (v *CommandValidator) Name() string { return "command-sections" }

// AppliesTo matches documents that live under a commands directory.
func (v *CommandValidator) AppliesTo(doc *types.Document) bool {
	return doc.Category == types.CategoryCommand && doc.Source == types.SourceDirectory
}

// Run reports missing headings as one combined error and warns when the
// Usage section lacks a code block showing the command format.
func (v *CommandValidator) Run(doc *types.Document) Partial {
	var p Partial

	var missing []string
	for _, heading := range commandSections {
		if !mdtext.HasHeadingExact(doc.Content, heading) {
			missing = append(missing, heading)
		}
	}
	if len(missing) > 0 {
		p.Errors = append(p.Errors, "Missing command sections: "+strings.Join(missing, ", "))
	}

	if mdtext.HasHeadingExact(doc.Content, "## Usage") {
		section, found, warnings := mdtext.ExtractSection(doc.Content, "## Usage")
		p.Warnings = append(p.Warnings, warnings...)
		if found && !mdtext.HasCodeBlock(section.Body) {
			p.Warnings = append(p.Warnings, "Usage section should include command format example")
		}
	}

	return p
}
