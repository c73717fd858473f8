// Package dq provides an offline mirror of documentation sets.
// It downloads the docset catalog and each selected docset's index and page
// bundle from a remote service, keeps them in a local file cache, and lets
// the CLI search indexes and display pages without network access.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., fs/, http/, toml/).
package dq
