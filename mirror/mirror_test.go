package mirror_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/dq"
	"github.com/fwojciec/dq/fs"
	"github.com/fwojciec/dq/mirror"
	"github.com/fwojciec/dq/mock"
	"github.com/fwojciec/dq/progress"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const (
	metaURL      = "https://meta.test"
	documentsURL = "https://docs.test"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// remote serves canned JSON bodies by URL and records every request.
type remote struct {
	mu       sync.Mutex
	bodies   map[string][]byte
	requests []string
	delay    time.Duration
}

func newRemote() *remote {
	return &remote{bodies: make(map[string][]byte)}
}

func (r *remote) serve(t *testing.T, url string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bodies[url] = data
}

func (r *remote) serveRaw(url string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bodies[url] = data
}

func (r *remote) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func (r *remote) requested(url string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for _, u := range r.requests {
		if u == url {
			n++
		}
	}
	return n
}

func (r *remote) downloader() *mock.Downloader {
	return &mock.Downloader{
		DownloadFn: func(ctx context.Context, url string, p dq.Progress) ([]byte, error) {
			if err := ctx.Err(); err != nil {
				return nil, dq.WrapError(dq.ENETWORK, err, "download %s", url)
			}
			r.mu.Lock()
			r.requests = append(r.requests, url)
			data, ok := r.bodies[url]
			delay := r.delay
			r.mu.Unlock()

			if delay > 0 {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return nil, dq.WrapError(dq.ENETWORK, ctx.Err(), "download %s", url)
				}
			}
			if !ok {
				return nil, dq.Errorf(dq.ENETWORK, "download %s: HTTP 404", url)
			}
			if p != nil {
				p.UpdateTemplate(int64(len(data)))
				p.SetPosition(int64(len(data)))
			}
			return data, nil
		},
	}
}

func newCache() *fs.Cache {
	return fs.NewCache("/cache", fs.WithFs(afero.NewMemMapFs()))
}

func docset(slug string, mtime int64) *dq.Docset {
	return &dq.Docset{Name: slug, Slug: slug, Type: slug, Mtime: mtime}
}

// serveDocset registers the index and a one-page bundle of d.
func serveDocset(t *testing.T, r *remote, d *dq.Docset) {
	t.Helper()
	r.serve(t, documentsURL+d.IndexPath(), dq.Index{
		Entries: []dq.IndexEntry{{Name: d.Slug + " intro", Path: "intro", Type: "guide"}},
		Types:   []dq.IndexType{{Name: "guide", Count: 1, Slug: "guide"}},
	})
	r.serve(t, documentsURL+d.BundlePath(), dq.Bundle{"intro": "<h1>" + d.Slug + "</h1>"})
}

// writeFreshCatalog stores docsets and a meta file recorded at testNow.
func writeFreshCatalog(t *testing.T, cache dq.Cache, docsets []*dq.Docset) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, cache.Write(ctx, dq.DocsetsKey, docsets))
	require.NoError(t, cache.Write(ctx, dq.MetaKey, dq.CacheMeta{LastModified: testNow.Unix()}))
}

func newUpdater(cache dq.Cache, r *remote, tree dq.ProgressTree) *mirror.Updater {
	dl := r.downloader()
	return &mirror.Updater{
		Catalog: &mirror.Catalog{
			Cache:      cache,
			Downloader: dl,
			Progress:   tree,
			MetaURL:    metaURL,
			TTL:        time.Hour,
			Now:        func() time.Time { return testNow },
		},
		Cache:        cache,
		Downloader:   dl,
		Progress:     tree,
		DocumentsURL: documentsURL,
	}
}

func hiddenTree() *progress.Tree {
	return progress.Hidden()
}
