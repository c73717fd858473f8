package mock

import "github.com/fwojciec/dq"

var (
	_ dq.Searcher = (*Searcher)(nil)
	_ dq.Outliner = (*Outliner)(nil)
)

// Searcher is a mock implementation of dq.Searcher.
type Searcher struct {
	SearchFn func(index *dq.Index, keyword string) []dq.SearchResult
}

func (s *Searcher) Search(index *dq.Index, keyword string) []dq.SearchResult {
	return s.SearchFn(index, keyword)
}

// Outliner is a mock implementation of dq.Outliner.
type Outliner struct {
	OutlineFn func(html string) ([]dq.Heading, error)
}

func (o *Outliner) Outline(html string) ([]dq.Heading, error) {
	return o.OutlineFn(html)
}
