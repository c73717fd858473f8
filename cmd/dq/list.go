package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fwojciec/dq"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	docsets, err := deps.Catalog.Docsets(deps.Ctx)
	if err != nil {
		return deps.fail(err)
	}

	if c.Installed {
		var installed []*dq.Docset
		for _, d := range docsets {
			if deps.Cache.Exists(d.IndexKey()) {
				installed = append(installed, d)
			}
		}
		docsets = installed
	}

	out := deps.stdout()
	if len(docsets) == 0 {
		if c.Installed {
			fmt.Fprintln(out, "No docsets installed. Use 'dq update' to download one.")
		} else {
			fmt.Fprintln(out, "No docsets found.")
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, d := range docsets {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Slug, d.Name, d.Release, humanize.IBytes(uint64(max(d.DBSize, 0))))
	}
	return w.Flush()
}
