package mirror

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fwojciec/dq"
	"golang.org/x/sync/errgroup"
)

// Default pool sizes.
const (
	DefaultConcurrency       = 5
	DefaultUnpackConcurrency = 4
)

// DefaultDocumentsURL is the base URL serving docset indexes and bundles.
const DefaultDocumentsURL = "https://documents.devdocs.io"

// Updater brings the cached generations of selected docsets up to date.
type Updater struct {
	Catalog    *Catalog
	Cache      dq.Cache
	Downloader dq.Downloader
	Progress   dq.ProgressTree

	// DocumentsURL is the base URL of the per-docset resources.
	DocumentsURL string

	// Concurrency bounds how many docsets are updated at once.
	Concurrency int

	// UnpackConcurrency bounds how many pages of one docset are written at
	// once. It is independent of Concurrency.
	UnpackConcurrency int

	// Force updates docsets whose current generation is already cached.
	Force bool
}

// Result holds the outcome of an update.
type Result struct {
	// Updated counts docsets that were downloaded and unpacked.
	Updated int
	// Skipped counts docsets whose current generation was already cached.
	Skipped int
}

// Total returns the number of selected docsets.
func (r *Result) Total() int {
	return r.Updated + r.Skipped
}

// UpdateAll updates every docset of the catalog matched by sel.
//
// At most Concurrency docsets are in flight. The first failure cancels the
// remaining work: no further docsets start, docsets in flight stop at their
// next I/O, and the error is returned once all of them have exited.
func (u *Updater) UpdateAll(ctx context.Context, sel dq.Selection) (*Result, error) {
	docsets, err := u.Catalog.Docsets(ctx)
	if err != nil {
		return nil, err
	}
	selected := sel.Filter(docsets)

	root := u.Progress.AddRoot()
	if len(selected) == 0 {
		root.Finish("No docsets to update")
		return &Result{}, nil
	}
	root.SetTotal(int64(len(selected)))

	var updated, skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency())

	for _, d := range selected {
		if gctx.Err() != nil {
			break
		}
		if !u.Force && u.Cache.Exists(d.IndexKey()) {
			skipped.Add(1)
			root.Inc(1)
			continue
		}

		g.Go(func() error {
			self := u.Progress.AddMessage(root)
			defer u.Progress.Remove(self)
			self.SetMessage(label(d))

			if _, err := u.UpdateDocset(gctx, d, self); err != nil {
				return dq.WrapError(dq.ErrorCode(err), err, "update %s", d.Slug)
			}
			updated.Add(1)
			root.Inc(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{Updated: int(updated.Load()), Skipped: int(skipped.Load())}
	root.Finish(summary(result))
	return result, nil
}

func (u *Updater) documentsURL() string {
	base := u.DocumentsURL
	if base == "" {
		base = DefaultDocumentsURL
	}
	return strings.TrimRight(base, "/")
}

func (u *Updater) concurrency() int {
	if u.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return u.Concurrency
}

func (u *Updater) unpackConcurrency() int {
	if u.UnpackConcurrency <= 0 {
		return DefaultUnpackConcurrency
	}
	return u.UnpackConcurrency
}

func label(d *dq.Docset) string {
	if d.Name == "" {
		return d.Slug
	}
	if d.Version != "" {
		return d.Name + " " + d.Version
	}
	return d.Name
}

func summary(r *Result) string {
	switch {
	case r.Skipped == 0:
		return fmt.Sprintf("All docsets updated (%d)", r.Updated)
	case r.Updated == 0:
		return fmt.Sprintf("All docsets up to date (%d)", r.Skipped)
	default:
		return fmt.Sprintf("All docsets updated (%d updated, %d up to date)", r.Updated, r.Skipped)
	}
}
