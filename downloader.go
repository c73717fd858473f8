package dq

import "context"

// Downloader retrieves remote resources.
type Downloader interface {
	// Download returns the body of the resource at url.
	// Byte progress is reported on p, which may be nil.
	// Returns ENETWORK on transport failures and non-200 responses.
	Download(ctx context.Context, url string, p Progress) ([]byte, error)
}
