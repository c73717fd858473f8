package main

import (
	"fmt"

	"github.com/fwojciec/dq"
)

// Run executes the update command.
func (c *UpdateCmd) Run(deps *Dependencies) error {
	if !c.All && len(c.Slugs) == 0 {
		err := dq.Errorf(dq.EINVALID, "no docsets given. Name docsets to update or pass --all")
		return deps.fail(err)
	}

	deps.Catalog.Force = c.Force
	deps.Updater.Force = c.Force
	if c.Limit > 0 {
		deps.Updater.Concurrency = c.Limit
	}

	result, err := deps.Updater.UpdateAll(deps.Ctx, dq.Selection{All: c.All, Slugs: c.Slugs})
	if err != nil {
		return deps.fail(err)
	}

	out := deps.stdout()
	switch {
	case result.Total() == 0:
		fmt.Fprintln(out, "No docsets to update. Run 'dq list' to see available docsets.")
	case result.Skipped == 0:
		fmt.Fprintf(out, "Updated %d docsets\n", result.Updated)
	default:
		fmt.Fprintf(out, "Updated %d docsets, %d already up to date\n", result.Updated, result.Skipped)
	}
	return nil
}

// ensureDocset downloads d unless its current generation is cached.
func ensureDocset(deps *Dependencies, d *dq.Docset) error {
	if deps.Cache.Exists(d.IndexKey()) {
		return nil
	}
	_, err := deps.Updater.UpdateAll(deps.Ctx, dq.Selection{Slugs: []string{d.Slug}})
	return err
}
