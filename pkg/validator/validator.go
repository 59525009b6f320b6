// Package validator holds the structural validators, the security scanner
// descriptor, and the quality scorer, organized as a table-driven registry.
//
// Each validator is a pure function of the document: it returns a fresh
// Partial and keeps no per-call state, so descriptors are safely shared
// across workers without locking.
package validator

import (
	"fmt"

	"github.com/promptgate/promptgate/pkg/types"
)

// Partial is one validator's contribution to a document's result.
type Partial struct {
	Errors   []string
	Warnings []string
	Findings []types.SecurityFinding

	// Score is set only by the quality scorer; nil leaves the result's
	// score untouched.
	Score *int
}

// MergeInto folds this partial into a document result.
func (p Partial) MergeInto(res *types.ValidationResult) {
	res.Errors = append(res.Errors, p.Errors...)
	res.Warnings = append(res.Warnings, p.Warnings...)
	res.SecurityFindings = append(res.SecurityFindings, p.Findings...)
	if p.Score != nil {
		res.QualityScore = *p.Score
	}
}

// Descriptor pairs an applicability predicate with a check. Descriptors are
// static configuration: created once at startup, read-only thereafter.
type Descriptor interface {
	Name() string
	AppliesTo(doc *types.Document) bool
	Run(doc *types.Document) Partial
}

// Registry is an ordered, immutable list of descriptors. The orchestrator
// iterates it in registration order for every document.
type Registry struct {
	descriptors []Descriptor
}

// NewRegistry creates a registry with the given descriptors in order.
func NewRegistry(descriptors ...Descriptor) *Registry {
	ds := make([]Descriptor, len(descriptors))
	copy(ds, descriptors)
	return &Registry{descriptors: ds}
}

// Descriptors returns the registered descriptors in registration order.
func (r *Registry) Descriptors() []Descriptor {
	ds := make([]Descriptor, len(r.descriptors))
	copy(ds, r.descriptors)
	return ds
}

// scoreOf is a convenience for building Partial.Score values.
func scoreOf(n int) *int {
	return &n
}

// RunSafely executes a descriptor, converting a panic into an
// error-producing partial so one failing validator cannot take the whole
// file down.
func RunSafely(d Descriptor, doc *types.Document) (p Partial) {
	defer func() {
		if r := recover(); r != nil {
			p = Partial{Errors: []string{
				fmt.Sprintf("validator %s failed: %v", d.Name(), r),
			}}
		}
	}()
	return d.Run(doc)
}
