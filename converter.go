package dq

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML page body into Markdown.
	Convert(html string) (string, error)
}
