package main

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/dq"
	"github.com/fwojciec/dq/mirror"
	"github.com/fwojciec/dq/progress"
	"github.com/fwojciec/dq/toml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Config    *toml.Config
	Progress  *progress.Tree
	Cache     dq.Cache
	Catalog   *mirror.Catalog
	Updater   *mirror.Updater
	Searcher  dq.Searcher
	Converter dq.Converter
	Outliner  dq.Outliner
}

// stdout stops the progress display and returns the writer for command
// output, so that no later frame draws over it.
func (d *Dependencies) stdout() io.Writer {
	if d.Progress != nil {
		d.Progress.Stop()
	}
	return d.Stdout
}

// fail erases the progress display and reports err as the only output.
func (d *Dependencies) fail(err error) error {
	if d.Progress != nil {
		d.Progress.Clear()
	}
	fmt.Fprintf(d.Stderr, "error: %s\n", dq.ErrorMessage(err))
	return err
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	ConfigFile string           `name:"config" short:"c" env:"DQ_CONFIG" default:"${config_path}" help:"Path to the configuration file"`
	CacheDir   string           `help:"Override the cache directory"`
	NoProgress bool             `help:"Do not draw progress bars"`
	Verbose    bool             `short:"v" help:"Log downloads and cache writes"`
	Debug      bool             `help:"Log every page written"`
	Version    kong.VersionFlag `help:"Print version and exit"`

	Update UpdateCmd `cmd:"" help:"Download or refresh docsets"`
	List   ListCmd   `cmd:"" help:"List available docsets"`
	Search SearchCmd `cmd:"" help:"Search a docset's index"`
	Cat    CatCmd    `cmd:"" help:"Print a page of a docset"`
	Conf   ConfigCmd `cmd:"" name:"config" help:"Print the effective configuration"`
}

// UpdateCmd is the "update" subcommand.
type UpdateCmd struct {
	Slugs []string `arg:"" optional:"" help:"Docsets to update"`
	All   bool     `short:"a" help:"Update every docset"`
	Force bool     `short:"f" help:"Refresh the catalog and re-download cached docsets"`
	Limit int      `short:"l" help:"Docsets to update concurrently (overrides the configuration)"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Installed bool `short:"i" help:"Only list downloaded docsets"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Slug     string `arg:"" help:"Docset to search"`
	Keyword  string `arg:"" help:"Fuzzy search keyword"`
	Format   string `enum:"text,json,table" default:"text" help:"Output format (text, json, table)"`
	Max      int    `short:"n" default:"0" help:"Maximum number of results (0 for all)"`
	NoUpdate bool   `help:"Do not download the docset if it is missing"`
}

// CatCmd is the "cat" subcommand.
type CatCmd struct {
	Slug     string `arg:"" help:"Docset of the page"`
	Path     string `arg:"" help:"Page path, as listed by search"`
	NoUpdate bool   `help:"Do not download the docset if the page is missing"`
	Raw      bool   `help:"Print the page HTML unconverted"`
	Toc      bool   `help:"Print the page's headings instead of its body"`
}

// ConfigCmd is the "config" subcommand.
type ConfigCmd struct{}
