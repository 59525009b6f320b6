package types

// Category classifies a document by its role in a prompt/command corpus.
// Classification selects context-sensitive validation and scoring rules.
type Category string

const (
	CategoryCommand        Category = "command"
	CategorySecurity       Category = "security"
	CategoryTesting        Category = "testing"
	CategoryGit            Category = "git"
	CategoryMCP            Category = "mcp"
	CategoryDocumentation  Category = "documentation"
	CategoryDeployment     Category = "deployment"
	CategoryRefactoring    Category = "refactoring"
	CategoryInitialization Category = "initialization"
	CategoryGeneral        Category = "general"

	// CategoryUtility is never produced by the classifier but is honored by
	// the quality scorer: utility documents are exempt from the
	// safety-keyword deduction. Callers supplying pre-classified documents
	// may use it.
	CategoryUtility Category = "utility"
)

// ClassificationSource records which rule family decided a document's category.
type ClassificationSource string

const (
	SourceDirectory ClassificationSource = "directory"
	SourceContent   ClassificationSource = "content"
	SourceDefault   ClassificationSource = "default"
)
