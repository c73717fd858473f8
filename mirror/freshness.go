// Package mirror keeps a local cache of docsets in sync with the remote
// documentation service.
//
// The Catalog decides whether the cached docset list is fresh and refreshes
// it when it is not. The Updater fans out over the selected docsets with a
// bounded pool, and each docset is fetched and unpacked by a unit of work
// that has its own, independent page-write pool.
package mirror

import (
	"time"

	"github.com/fwojciec/dq"
)

// ShouldRefresh reports whether the catalog must be fetched again.
// It is true when force is set or when more than ttl has passed since the
// last refresh recorded in meta. A zero meta counts as never refreshed.
func ShouldRefresh(meta dq.CacheMeta, now time.Time, ttl time.Duration, force bool) bool {
	if force {
		return true
	}
	return now.Sub(time.Unix(meta.LastModified, 0)) > ttl
}
