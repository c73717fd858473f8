// Package fuzzy ranks index entries against a keyword using
// github.com/sahilm/fuzzy.
package fuzzy

import (
	"cmp"
	"slices"

	"github.com/fwojciec/dq"
	"github.com/sahilm/fuzzy"
)

// Ensure Searcher implements dq.Searcher at compile time.
var _ dq.Searcher = (*Searcher)(nil)

// Searcher matches keywords against entry names. Characters of the keyword
// must appear in order; adjacent and word-start matches score higher.
type Searcher struct {
	// Limit caps the number of results. Zero means no limit.
	Limit int
}

// NewSearcher creates a new Searcher returning at most limit results.
func NewSearcher(limit int) *Searcher {
	return &Searcher{Limit: limit}
}

// Search returns the entries of index whose names match keyword, best match
// first. Entries with equal scores keep their index order.
func (s *Searcher) Search(index *dq.Index, keyword string) []dq.SearchResult {
	if index == nil || keyword == "" {
		return nil
	}

	matches := fuzzy.FindFromNoSort(keyword, entryNames(index.Entries))
	slices.SortStableFunc(matches, func(a, b fuzzy.Match) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if s.Limit > 0 && len(matches) > s.Limit {
		matches = matches[:s.Limit]
	}

	results := make([]dq.SearchResult, len(matches))
	for i, m := range matches {
		results[i] = dq.SearchResult{
			Entry: index.Entries[m.Index],
			Score: m.Score,
		}
	}
	return results
}

// entryNames adapts index entries to fuzzy.Source.
type entryNames []dq.IndexEntry

func (e entryNames) String(i int) string { return e[i].Name }

func (e entryNames) Len() int { return len(e) }
