package types

// Document is a single corpus file under validation.
// Immutable once constructed; category and source are derived by the
// classifier before any validator runs.
type Document struct {
	Path     string
	Content  string
	Category Category
	Source   ClassificationSource
}
