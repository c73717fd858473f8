package mirror

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync/atomic"

	"github.com/fwojciec/dq"
	"golang.org/x/sync/errgroup"
)

// UpdateDocset downloads one generation of d and stores it in the cache.
//
// The index and the page bundle are downloaded concurrently under two child
// indicators of self. If either download fails nothing is written. Pages are
// then unpacked to slug/mtime/db/<path>/_index, and the index is written
// last, so an existing index.json marks a complete generation.
func (u *Updater) UpdateDocset(ctx context.Context, d *dq.Docset, self dq.Progress) (*dq.Index, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var (
		index  dq.Index
		bundle dq.Bundle
	)

	indexBar := u.Progress.AddChild(self, -1)
	defer u.Progress.Remove(indexBar)
	indexBar.SetMessage("index.json")

	bundleBar := u.Progress.AddChild(self, -1)
	defer u.Progress.Remove(bundleBar)
	bundleBar.SetMessage("db.json")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := Fetch[dq.Index](gctx, u.Downloader, u.documentsURL()+d.IndexPath(), indexBar)
		if err != nil {
			return err
		}
		index = v
		indexBar.Finish("index.json")
		return nil
	})
	g.Go(func() error {
		v, err := Fetch[dq.Bundle](gctx, u.Downloader, u.documentsURL()+d.BundlePath(), bundleBar)
		if err != nil {
			return err
		}
		bundle = v
		bundleBar.Finish("db.json")
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := u.unpack(ctx, d, bundle, self); err != nil {
		return nil, err
	}

	if err := u.Cache.Write(ctx, d.IndexKey(), &index); err != nil {
		return nil, err
	}
	self.Finish(label(d))
	return &index, nil
}

// unpack writes every page of bundle to its own file with at most
// UnpackConcurrency writes in flight. All page paths are checked before
// the first write.
func (u *Updater) unpack(ctx context.Context, d *dq.Docset, bundle dq.Bundle, parent dq.Progress) error {
	paths := slices.Sorted(maps.Keys(bundle))
	keys := make([]string, len(paths))
	for i, p := range paths {
		key, err := d.PageKey(p)
		if err != nil {
			return err
		}
		keys[i] = key
	}

	bar := u.Progress.AddMessage(parent)
	defer u.Progress.Remove(bar)
	total := len(paths)
	bar.SetMessage(fmt.Sprintf("unpacked 0/%d", total))

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.unpackConcurrency())
	for i, p := range paths {
		if gctx.Err() != nil {
			break
		}
		key, content := keys[i], bundle[p]
		g.Go(func() error {
			if err := u.Cache.WriteRaw(gctx, key, []byte(content)); err != nil {
				return err
			}
			bar.SetMessage(fmt.Sprintf("unpacked %d/%d", done.Add(1), total))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	bar.Finish(fmt.Sprintf("unpacked %d/%d", total, total))
	return nil
}
