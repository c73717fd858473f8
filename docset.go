package dq

import (
	"path"
	"strconv"
	"strings"
)

// Cache keys for the top-level files.
const (
	MetaKey    = "meta.json"
	DocsetsKey = "docsets.json"
)

// Docset represents one remote documentation corpus.
// A docset is identified by its Slug; Mtime identifies the generation of its
// data and is part of every cache key and URL derived from it.
type Docset struct {
	Name    string            `json:"name"`
	Slug    string            `json:"slug"`
	Type    string            `json:"type"`
	Links   map[string]string `json:"links,omitempty"`
	Version string            `json:"version,omitempty"`
	Release string            `json:"release,omitempty"`
	Mtime   int64             `json:"mtime"`
	DBSize  int64             `json:"db_size"`
}

// Validate returns an error if the docset cannot be mapped to cache keys.
func (d *Docset) Validate() error {
	if d.Slug == "" {
		return Errorf(EINVALID, "docset slug required")
	}
	if strings.ContainsAny(d.Slug, `/\`) || d.Slug == "." || d.Slug == ".." {
		return Errorf(EINVALID, "invalid docset slug %q", d.Slug)
	}
	return nil
}

// BaseDirectory returns the cache directory of this generation: slug/mtime.
func (d *Docset) BaseDirectory() string {
	return path.Join(d.Slug, strconv.FormatInt(d.Mtime, 10))
}

// IndexKey returns the cache key of the docset's index.
func (d *Docset) IndexKey() string {
	return path.Join(d.BaseDirectory(), "index.json")
}

// PageKey returns the cache key of an unpacked page body.
// Paths containing a "#fragment" are rejected; callers holding an entry path
// strip the fragment first.
func (d *Docset) PageKey(pagePath string) (string, error) {
	if strings.ContainsRune(pagePath, '#') {
		return "", Errorf(EINVALID, "invalid page path %q: fragment", pagePath)
	}
	for _, seg := range strings.Split(pagePath, "/") {
		if seg == ".." {
			return "", Errorf(EINVALID, "invalid page path %q: path traversal", pagePath)
		}
	}
	clean := path.Clean("/" + pagePath)
	if clean == "/" {
		return "", Errorf(EINVALID, "invalid page path %q: empty", pagePath)
	}
	return path.Join(d.BaseDirectory(), "db", clean, "_index"), nil
}

// IndexPath returns the remote path of the docset's index resource.
func (d *Docset) IndexPath() string {
	return "/" + d.Slug + "/index.json?" + strconv.FormatInt(d.Mtime, 10)
}

// BundlePath returns the remote path of the docset's content bundle.
func (d *Docset) BundlePath() string {
	return "/" + d.Slug + "/db.json?" + strconv.FormatInt(d.Mtime, 10)
}

// FindDocset returns the docset with the given slug.
// Returns ENOTFOUND if no docset matches.
func FindDocset(docsets []*Docset, slug string) (*Docset, error) {
	for _, d := range docsets {
		if d.Slug == slug {
			return d, nil
		}
	}
	return nil, Errorf(ENOTFOUND, "docset %q not found", slug)
}

// IndexEntry is one page or symbol inside a docset.
type IndexEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

// IndexType is a facet of a docset's index: a type name and its entry count.
type IndexType struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Slug  string `json:"slug"`
}

// Index is a docset's full index.
type Index struct {
	Entries []IndexEntry `json:"entries"`
	Types   []IndexType  `json:"types"`
}

// Bundle maps relative page paths to raw page bodies.
// Bundles are unpacked into one file per page and never cached whole.
type Bundle map[string]string

// CacheMeta records when the catalog was last refreshed, in Unix seconds.
type CacheMeta struct {
	LastModified int64 `json:"last_modified"`
}

// Selection chooses which docsets an update touches.
type Selection struct {
	All   bool
	Slugs []string
}

// Match reports whether the docset is selected.
func (s Selection) Match(d *Docset) bool {
	if s.All {
		return true
	}
	for _, slug := range s.Slugs {
		if slug == d.Slug {
			return true
		}
	}
	return false
}

// Filter returns the selected docsets in catalog order.
func (s Selection) Filter(docsets []*Docset) []*Docset {
	var selected []*Docset
	for _, d := range docsets {
		if s.Match(d) {
			selected = append(selected, d)
		}
	}
	return selected
}
