package sarif

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/promptgate/promptgate/pkg/types"
)

// SARIF 2.1.0 constants
const (
	SchemaURI   = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	Version     = "2.1.0"
	ToolName    = "promptgate"
	ToolVersion = "0.1.0"
)

// Synthetic rule IDs for results that do not originate from a security
// rule: structural errors and advisory warnings.
const (
	StructureRuleID = "promptgate.structure"
	AdviceRuleID    = "promptgate.advice"
)

// Report is the top-level SARIF report structure
type Report struct {
	Schema  string `json:"$schema"`
	Version string `json:"version"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single invocation of the tool
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

// Tool describes the analysis tool
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver contains tool metadata
type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Rules   []Rule `json:"rules,omitempty"`
}

// Rule represents a detection rule
type Rule struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	ShortDescription ShortDescription `json:"shortDescription"`
	HelpURI          string           `json:"helpUri,omitempty"`
}

// ShortDescription contains rule description text
type ShortDescription struct {
	Text string `json:"text"`
}

// Result represents a single reported issue
type Result struct {
	RuleID    string     `json:"ruleId"`
	Level     string     `json:"level"`
	Message   Message    `json:"message"`
	Locations []Location `json:"locations"`
}

// Message contains the result message
type Message struct {
	Text string `json:"text"`
}

// Location describes where a result was found
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation specifies file location
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           *Region          `json:"region,omitempty"`
}

// ArtifactLocation identifies the file
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region specifies the line range
type Region struct {
	StartLine int `json:"startLine"`
}

// NewReport creates a new SARIF report with initialized structure
func NewReport() *Report {
	return &Report{
		Schema:  SchemaURI,
		Version: Version,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:    ToolName,
						Version: ToolVersion,
						Rules:   []Rule{},
					},
				},
				Results: []Result{},
			},
		},
	}
}

// AddRule adds a security rule to the report metadata
func (r *Report) AddRule(rule *types.Rule) {
	sarifRule := Rule{
		ID:   rule.ID,
		Name: rule.Name,
		ShortDescription: ShortDescription{
			Text: rule.Description,
		},
	}

	if len(rule.References) > 0 {
		sarifRule.HelpURI = rule.References[0]
	}

	r.Runs[0].Tool.Driver.Rules = append(r.Runs[0].Tool.Driver.Rules, sarifRule)
}

// AddValidationResult maps one document result into SARIF results:
// structural errors at level "error", warnings and security findings at
// level "warning". Security findings carry their originating rule ID and a
// line region; structural issues use synthetic rule IDs.
func (r *Report) AddValidationResult(res *types.ValidationResult) {
	uri := formatFileURI(res.Path)

	for _, msg := range res.Errors {
		r.append(Result{
			RuleID:    StructureRuleID,
			Level:     "error",
			Message:   Message{Text: msg},
			Locations: locations(uri, 0),
		})
	}
	for _, msg := range res.Warnings {
		r.append(Result{
			RuleID:    AdviceRuleID,
			Level:     "warning",
			Message:   Message{Text: msg},
			Locations: locations(uri, 0),
		})
	}
	for _, f := range res.SecurityFindings {
		r.append(Result{
			RuleID:    f.RuleID,
			Level:     "warning",
			Message:   Message{Text: f.Message},
			Locations: locations(uri, f.Line),
		})
	}
}

func (r *Report) append(result Result) {
	r.Runs[0].Results = append(r.Runs[0].Results, result)
}

// locations builds the single-location list. Line 0 means no line is known
// and the region is omitted.
func locations(uri string, line int) []Location {
	loc := Location{
		PhysicalLocation: PhysicalLocation{
			ArtifactLocation: ArtifactLocation{URI: uri},
		},
	}
	if line > 0 {
		loc.PhysicalLocation.Region = &Region{StartLine: line}
	}
	return []Location{loc}
}

// ToJSON serializes the report to JSON bytes
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// formatFileURI converts a file path to SARIF URI format
// Absolute paths get file:// prefix, relative paths stay as-is
func formatFileURI(path string) string {
	if filepath.IsAbs(path) {
		path = filepath.ToSlash(path)
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return "file://" + path
	}
	return filepath.ToSlash(path)
}
