package validator

import (
	"fmt"

	"github.com/promptgate/promptgate/pkg/matcher"
	"github.com/promptgate/promptgate/pkg/types"
)

// SecurityScanner runs the pattern matcher over raw document content.
// It applies to every document; its findings are advisory and never block
// validity.
type SecurityScanner struct {
	matcher matcher.Matcher
}

// NewSecurityScanner creates the security-scanner descriptor.
func NewSecurityScanner(m matcher.Matcher) *SecurityScanner {
	return &SecurityScanner{matcher: m}
}

func (v *SecurityScanner) Name() string { return "security-scan" }

func (v *SecurityScanner) AppliesTo(doc *types.Document) bool { return true }

func (v *SecurityScanner) Run(doc *types.Document) Partial {
	var p Partial

	findings, err := v.matcher.Match([]byte(doc.Content))
	if err != nil {
		p.Errors = append(p.Errors, fmt.Sprintf("security scan failed: %v", err))
		return p
	}
	p.Findings = findings
	return p
}
