package mirror

import (
	"context"
	"encoding/json"

	"github.com/fwojciec/dq"
)

// Fetch downloads url and decodes its JSON body into a T.
// Nothing is written to the cache.
func Fetch[T any](ctx context.Context, dl dq.Downloader, url string, p dq.Progress) (T, error) {
	var v T
	data, err := dl.Download(ctx, url, p)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, dq.WrapError(dq.EPARSE, err, "parse %s", url)
	}
	return v, nil
}

// FetchOrRead returns the value cached under key when skipIfCached is set
// and the key exists. Otherwise it downloads url, decodes it and caches it
// under key before returning it. A failed download or decode leaves the
// cache untouched.
func FetchOrRead[T any](ctx context.Context, cache dq.Cache, dl dq.Downloader, key, url string, p dq.Progress, skipIfCached bool) (T, error) {
	if skipIfCached && cache.Exists(key) {
		var v T
		if err := cache.Read(ctx, key, &v); err != nil {
			var zero T
			return zero, err
		}
		return v, nil
	}

	v, err := Fetch[T](ctx, dl, url, p)
	if err != nil {
		return v, err
	}
	if err := cache.Write(ctx, key, v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
