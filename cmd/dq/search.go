package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/fwojciec/dq"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	index, err := c.index(deps)
	if err != nil {
		return deps.fail(err)
	}

	results := deps.Searcher.Search(index, c.Keyword)
	if c.Max > 0 && len(results) > c.Max {
		results = results[:c.Max]
	}

	out := deps.stdout()
	switch c.Format {
	case "json":
		if results == nil {
			results = []dq.SearchResult{}
		}
		return json.NewEncoder(out).Encode(results)
	case "table":
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPATH\tTYPE\tSCORE")
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", r.Entry.Name, r.Entry.Path, r.Entry.Type, r.Score)
		}
		return w.Flush()
	default:
		for _, r := range results {
			fmt.Fprintln(out, r.Entry.Path)
		}
		return nil
	}
}

// index loads the docset's index, downloading the docset first if needed.
func (c *SearchCmd) index(deps *Dependencies) (*dq.Index, error) {
	docsets, err := deps.Catalog.Docsets(deps.Ctx)
	if err != nil {
		return nil, err
	}
	d, err := dq.FindDocset(docsets, c.Slug)
	if err != nil {
		return nil, err
	}

	if !c.NoUpdate {
		if err := ensureDocset(deps, d); err != nil {
			return nil, err
		}
	}

	var index dq.Index
	if err := deps.Cache.Read(deps.Ctx, d.IndexKey(), &index); err != nil {
		if dq.ErrorCode(err) == dq.ENOTFOUND {
			return nil, dq.Errorf(dq.ENOTFOUND, "docset %q is not downloaded. Run 'dq update %s'", d.Slug, d.Slug)
		}
		return nil, err
	}
	return &index, nil
}
