package mirror_test

import (
	"context"
	"testing"

	"github.com/fwojciec/dq"
	"github.com/fwojciec/dq/mirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchOrRead(t *testing.T) {
	t.Parallel()

	const (
		key = "go/1/index.json"
		url = documentsURL + "/go/index.json?1"
	)
	want := dq.Index{Entries: []dq.IndexEntry{{Name: "fmt", Path: "fmt/index", Type: "package"}}}

	t.Run("downloads once when skipping cached values", func(t *testing.T) {
		t.Parallel()

		r := newRemote()
		r.serve(t, url, want)
		cache := newCache()
		dl := r.downloader()

		first, err := mirror.FetchOrRead[dq.Index](context.Background(), cache, dl, key, url, nil, true)
		require.NoError(t, err)
		second, err := mirror.FetchOrRead[dq.Index](context.Background(), cache, dl, key, url, nil, true)
		require.NoError(t, err)

		assert.Equal(t, 1, r.count())
		assert.Equal(t, want, first)
		assert.Equal(t, want, second)
	})

	t.Run("downloads every time when not skipping", func(t *testing.T) {
		t.Parallel()

		r := newRemote()
		r.serve(t, url, want)
		cache := newCache()
		dl := r.downloader()

		for range 2 {
			_, err := mirror.FetchOrRead[dq.Index](context.Background(), cache, dl, key, url, nil, false)
			require.NoError(t, err)
		}

		assert.Equal(t, 2, r.count())
	})

	t.Run("caches the downloaded value", func(t *testing.T) {
		t.Parallel()

		r := newRemote()
		r.serve(t, url, want)
		cache := newCache()

		_, err := mirror.FetchOrRead[dq.Index](context.Background(), cache, r.downloader(), key, url, nil, false)
		require.NoError(t, err)

		var got dq.Index
		require.NoError(t, cache.Read(context.Background(), key, &got))
		assert.Equal(t, want, got)
	})

	t.Run("download failure writes nothing", func(t *testing.T) {
		t.Parallel()

		r := newRemote()
		cache := newCache()

		_, err := mirror.FetchOrRead[dq.Index](context.Background(), cache, r.downloader(), key, url, nil, false)

		assert.Equal(t, dq.ENETWORK, dq.ErrorCode(err))
		assert.False(t, cache.Exists(key))
	})

	t.Run("malformed body writes nothing", func(t *testing.T) {
		t.Parallel()

		r := newRemote()
		r.serveRaw(url, []byte(`{"entries": [`))
		cache := newCache()

		_, err := mirror.FetchOrRead[dq.Index](context.Background(), cache, r.downloader(), key, url, nil, false)

		assert.Equal(t, dq.EPARSE, dq.ErrorCode(err))
		assert.Contains(t, dq.ErrorMessage(err), url)
		assert.False(t, cache.Exists(key))
	})

	t.Run("corrupt cached value is a parse error", func(t *testing.T) {
		t.Parallel()

		r := newRemote()
		cache := newCache()
		require.NoError(t, cache.WriteRaw(context.Background(), key, []byte("not json")))

		_, err := mirror.FetchOrRead[dq.Index](context.Background(), cache, r.downloader(), key, url, nil, true)

		assert.Equal(t, dq.EPARSE, dq.ErrorCode(err))
		assert.Zero(t, r.count())
	})
}

func TestFetch(t *testing.T) {
	t.Parallel()

	t.Run("reports progress and decodes", func(t *testing.T) {
		t.Parallel()

		const url = documentsURL + "/go/db.json?1"
		r := newRemote()
		r.serve(t, url, dq.Bundle{"a": "b"})

		tree := hiddenTree()
		bar := tree.AddChild(tree.AddRoot(), -1)
		got, err := mirror.Fetch[dq.Bundle](context.Background(), r.downloader(), url, bar)

		require.NoError(t, err)
		assert.Equal(t, dq.Bundle{"a": "b"}, got)
	})
}
