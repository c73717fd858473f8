package dq

// SearchResult is an index entry matched by a search, with its score.
type SearchResult struct {
	Entry IndexEntry `json:"entry"`
	Score int        `json:"score"`
}

// Searcher ranks a docset's index entries against a keyword.
type Searcher interface {
	// Search returns entries whose name matches keyword, best match first.
	Search(index *Index, keyword string) []SearchResult
}

// Outliner lists the headings of a page body.
type Outliner interface {
	Outline(html string) ([]Heading, error)
}

// Heading is one heading of a page.
type Heading struct {
	Level int
	Text  string
	ID    string
}
