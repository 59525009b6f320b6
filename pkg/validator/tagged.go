package validator

import (
	"fmt"
	"strings"

	"github.com/promptgate/promptgate/pkg/mdtext"
	"github.com/promptgate/promptgate/pkg/types"
)

// requiredTags are the tagged sections every tagged document must carry, in
// canonical reporting order.
var requiredTags = []string{"role", "activation", "instructions", "output_format"}

// recognizedTags gates applicability: a document with at least one of these
// opened is treated as a tagged document.
var recognizedTags = []string{"role", "activation", "instructions", "output_format", "context"}

// TaggedSectionValidator checks that a tagged document declares all required
// sections and that its tags nest correctly.
type TaggedSectionValidator struct{}

// NewTaggedSectionValidator creates the tagged-section validator.
func NewTaggedSectionValidator() *TaggedSectionValidator {
	return &TaggedSectionValidator{}
}

func (v *TaggedSectionValidator) Name() string { return "tagged-sections" }

// AppliesTo reports whether the document opens at least one recognized
// section tag (outside code blocks).
func (v *TaggedSectionValidator) AppliesTo(doc *types.Document) bool {
	open := mdtext.OpenTagNames(doc.Content)
	for _, name := range open {
		for _, known := range recognizedTags {
			if name == known {
				return true
			}
		}
	}
	return false
}

// Run reports missing required sections as one combined error (canonical
// order, missing names only) and surfaces tag-balance issues as errors.
func (v *TaggedSectionValidator) Run(doc *types.Document) Partial {
	var p Partial

	present := make(map[string]bool)
	for _, name := range mdtext.OpenTagNames(doc.Content) {
		present[name] = true
	}

	var missing []string
	for _, name := range requiredTags {
		if !present[name] {
			missing = append(missing, "<"+name+">")
		}
	}
	if len(missing) > 0 {
		p.Errors = append(p.Errors, "Missing required sections: "+strings.Join(missing, ", "))
	}

	for _, issue := range mdtext.CheckTagBalance(doc.Content) {
		p.Errors = append(p.Errors, fmt.Sprintf("%s (line %d)", issue.Message, issue.Line))
	}

	return p
}
