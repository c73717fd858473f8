package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/dq"
)

// Run executes the cat command.
func (c *CatCmd) Run(deps *Dependencies) error {
	body, err := c.page(deps)
	if err != nil {
		return deps.fail(err)
	}

	switch {
	case c.Toc:
		headings, err := deps.Outliner.Outline(body)
		if err != nil {
			return deps.fail(err)
		}
		out := deps.stdout()
		for _, h := range headings {
			indent := strings.Repeat("  ", max(h.Level-1, 0))
			if h.ID != "" {
				fmt.Fprintf(out, "%s%s (%s#%s)\n", indent, h.Text, pagePath(c.Path), h.ID)
			} else {
				fmt.Fprintf(out, "%s%s\n", indent, h.Text)
			}
		}
		return nil
	case c.Raw:
		fmt.Fprint(deps.stdout(), body)
		return nil
	default:
		md, err := deps.Converter.Convert(body)
		if err != nil {
			return deps.fail(err)
		}
		fmt.Fprintln(deps.stdout(), strings.TrimRight(md, "\n"))
		return nil
	}
}

// page returns the cached body of the requested page, downloading the
// docset first when it is missing.
func (c *CatCmd) page(deps *Dependencies) (string, error) {
	docsets, err := deps.Catalog.Docsets(deps.Ctx)
	if err != nil {
		return "", err
	}
	d, err := dq.FindDocset(docsets, c.Slug)
	if err != nil {
		return "", err
	}
	key, err := d.PageKey(pagePath(c.Path))
	if err != nil {
		return "", err
	}

	if !c.NoUpdate && !deps.Cache.Exists(key) {
		if err := ensureDocset(deps, d); err != nil {
			return "", err
		}
	}

	data, err := deps.Cache.ReadRaw(deps.Ctx, key)
	if dq.ErrorCode(err) == dq.ENOTFOUND {
		return "", dq.Errorf(dq.ENOTFOUND, "page %q not found in %s", pagePath(c.Path), d.Slug)
	} else if err != nil {
		return "", err
	}
	return string(data), nil
}

// pagePath strips the fragment from a page path.
func pagePath(p string) string {
	if i := strings.IndexByte(p, '#'); i >= 0 {
		return p[:i]
	}
	return p
}
