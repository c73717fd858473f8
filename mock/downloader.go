package mock

import (
	"context"

	"github.com/fwojciec/dq"
)

var _ dq.Downloader = (*Downloader)(nil)

// Downloader is a mock implementation of dq.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, url string, p dq.Progress) ([]byte, error)
}

func (d *Downloader) Download(ctx context.Context, url string, p dq.Progress) ([]byte, error) {
	return d.DownloadFn(ctx, url, p)
}
