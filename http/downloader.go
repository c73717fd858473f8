// Package http provides an HTTP implementation of dq.Downloader.
package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/dq"
	"golang.org/x/time/rate"
)

// DefaultTimeout is the default timeout for a whole download.
// Content bundles of large docsets run to tens of megabytes.
const DefaultTimeout = 5 * time.Minute

const chunkSize = 32 * 1024

// Ensure Downloader implements dq.Downloader at compile time.
var _ dq.Downloader = (*Downloader)(nil)

// Downloader retrieves resources over HTTP, reporting bytes received.
// Failed requests are not retried.
type Downloader struct {
	client    *http.Client
	timeout   time.Duration
	limiter   *rate.Limiter
	userAgent string
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithTimeout sets the timeout for each download.
// Defaults to DefaultTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(dl *Downloader) {
		dl.timeout = d
	}
}

// WithRateLimit limits how many requests start per second.
// A non-positive rps disables limiting, which is the default.
func WithRateLimit(rps float64) Option {
	return func(dl *Downloader) {
		if rps <= 0 {
			dl.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		dl.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(dl *Downloader) {
		dl.userAgent = ua
	}
}

// NewDownloader creates a new HTTP Downloader.
func NewDownloader(opts ...Option) *Downloader {
	dl := &Downloader{
		timeout:   DefaultTimeout,
		limiter:   rate.NewLimiter(rate.Inf, 0),
		userAgent: "dq",
	}
	for _, opt := range opts {
		opt(dl)
	}

	dl.client = &http.Client{
		Timeout: dl.timeout,
	}

	return dl
}

// Download retrieves the body at url. When p is not nil it is switched to a
// determinate or indeterminate byte template depending on whether the
// response declares its length, and its position follows the bytes read.
func (dl *Downloader) Download(ctx context.Context, url string, p dq.Progress) ([]byte, error) {
	if err := dl.limiter.Wait(ctx); err != nil {
		return nil, dq.WrapError(dq.ENETWORK, err, "download %s", url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, dq.WrapError(dq.ENETWORK, err, "download %s", url)
	}
	req.Header.Set("User-Agent", dl.userAgent)

	resp, err := dl.client.Do(req)
	if err != nil {
		return nil, dq.WrapError(dq.ENETWORK, err, "download %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, dq.Errorf(dq.ENETWORK, "download %s: HTTP %d", url, resp.StatusCode)
	}

	if p != nil {
		p.UpdateTemplate(resp.ContentLength)
	}

	var buf bytes.Buffer
	if resp.ContentLength > 0 {
		buf.Grow(int(resp.ContentLength))
	}

	chunk := make([]byte, chunkSize)
	var downloaded int64
	for {
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			downloaded += int64(n)
			if p != nil {
				p.SetPosition(downloaded)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, dq.WrapError(dq.ENETWORK, err, "download %s", url)
		}
	}

	return buf.Bytes(), nil
}
