// Package classify maps documents to corpus categories.
//
// Classification is a total function: an ordered list of directory-name
// rules is tried first, then an ordered list of content-keyword rules, and
// anything left over is "general". First match wins within each list.
package classify

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/promptgate/promptgate/pkg/types"
)

// dirRule matches a directory-name fragment anywhere in the document's
// parent path.
type dirRule struct {
	fragment string
	category types.Category
}

// contentRule matches a keyword anywhere in the lowercased content.
type contentRule struct {
	keyword  string
	category types.Category
}

// Rule order is significant: earlier rules shadow later ones.
var dirRules = []dirRule{
	{"commands", types.CategoryCommand},
	{"security", types.CategorySecurity},
	{"test", types.CategoryTesting},
	{"git", types.CategoryGit},
	{"mcp", types.CategoryMCP},
	{"doc", types.CategoryDocumentation},
	{"deploy", types.CategoryDeployment},
	{"refactor", types.CategoryRefactoring},
	{"initial", types.CategoryInitialization},
}

var contentRules = []contentRule{
	{"command", types.CategoryCommand},
	{"security", types.CategorySecurity},
	{"vulnerab", types.CategorySecurity},
	{"test", types.CategoryTesting},
	{"git", types.CategoryGit},
	{"mcp", types.CategoryMCP},
	{"document", types.CategoryDocumentation},
	{"deploy", types.CategoryDeployment},
	{"refactor", types.CategoryRefactoring},
	{"initial", types.CategoryInitialization},
}

// Classify determines a document's category from its path and content.
// Never returns an empty category.
func Classify(path, content string) (types.Category, types.ClassificationSource) {
	segments := dirSegments(path)
	for _, rule := range dirRules {
		for _, seg := range segments {
			if strings.Contains(seg, rule.fragment) {
				return rule.category, types.SourceDirectory
			}
		}
	}

	lower := strings.ToLower(content)
	for _, rule := range contentRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.category, types.SourceContent
		}
	}

	return types.CategoryGeneral, types.SourceDefault
}

// Document builds a classified Document from a path and its content.
func Document(path, content string) *types.Document {
	category, source := Classify(path, content)
	return &types.Document{
		Path:     path,
		Content:  content,
		Category: category,
		Source:   source,
	}
}

// dirSegments returns the lowercased directory components of p, excluding
// the filename itself.
func dirSegments(p string) []string {
	dir := path.Dir(filepath.ToSlash(p))
	if dir == "." || dir == "/" {
		return nil
	}
	parts := strings.Split(dir, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || p == "." {
			continue
		}
		out = append(out, strings.ToLower(p))
	}
	return out
}
