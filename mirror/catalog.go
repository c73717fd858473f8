package mirror

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/dq"
)

// DefaultMetaURL is the base URL of the docset catalog.
const DefaultMetaURL = "https://devdocs.io"

// DefaultTTL is how long a cached catalog stays fresh.
const DefaultTTL = 24 * time.Hour

// Catalog provides the list of available docsets, refreshing the cached
// copy when it is stale.
type Catalog struct {
	Cache      dq.Cache
	Downloader dq.Downloader
	Progress   dq.ProgressTree

	// MetaURL is the base URL serving /docs.json.
	MetaURL string
	TTL     time.Duration
	Force   bool

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Docsets returns the catalog. It is read from the cache while the cache is
// fresh and downloaded otherwise. The refresh time, taken once the new
// catalog has been stored, is recorded only after that store succeeds.
func (c *Catalog) Docsets(ctx context.Context) ([]*dq.Docset, error) {
	now := c.now()

	// A missing or unreadable meta file means the catalog was never
	// refreshed successfully.
	var meta dq.CacheMeta
	if err := c.Cache.Read(ctx, dq.MetaKey, &meta); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		meta = dq.CacheMeta{}
	}

	refresh := ShouldRefresh(meta, now, c.ttl(), c.Force) || !c.Cache.Exists(dq.DocsetsKey)

	var bar dq.Progress
	if refresh {
		bar = c.Progress.AddChild(nil, -1)
		bar.SetMessage(dq.DocsetsKey)
		defer c.Progress.Remove(bar)
	}

	docsets, err := FetchOrRead[[]*dq.Docset](ctx, c.Cache, c.Downloader, dq.DocsetsKey, c.url(), bar, !refresh)
	if err != nil {
		return nil, err
	}

	if refresh {
		if err := c.Cache.Write(ctx, dq.MetaKey, dq.CacheMeta{LastModified: c.now().Unix()}); err != nil {
			return nil, err
		}
		bar.Finish(dq.DocsetsKey)
	}
	return docsets, nil
}

func (c *Catalog) url() string {
	base := c.MetaURL
	if base == "" {
		base = DefaultMetaURL
	}
	return strings.TrimRight(base, "/") + "/docs.json"
}

func (c *Catalog) ttl() time.Duration {
	if c.TTL <= 0 {
		return DefaultTTL
	}
	return c.TTL
}

func (c *Catalog) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
