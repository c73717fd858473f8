package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/dq"
	"github.com/fwojciec/dq/fs"
	"github.com/fwojciec/dq/fuzzy"
	"github.com/fwojciec/dq/goquery"
	"github.com/fwojciec/dq/htmltomarkdown"
	dqhttp "github.com/fwojciec/dq/http"
	"github.com/fwojciec/dq/mirror"
	"github.com/fwojciec/dq/progress"
	dqslog "github.com/fwojciec/dq/slog"
	"github.com/fwojciec/dq/toml"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		// Application errors have already been reported by the command.
		var appErr *dq.Error
		if !errors.As(err, &appErr) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Downloader replaces the HTTP downloader when set. Used in tests.
	Downloader dq.Downloader
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("dq"),
		kong.Description("Offline mirror of devdocs.io documentation."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Vars{"version": version, "config_path": toml.DefaultPath()},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'dq --help' to see available commands")
	}

	switch args[0] {
	case "help", "--help", "-h", "--version":
		_, _ = parser.Parse(args[:1])
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := toml.ReadFile(cli.ConfigFile)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", dq.ErrorMessage(err))
		return err
	}
	if cli.CacheDir != "" {
		cfg.CacheDir = cli.CacheDir
	}
	deps.Config = cfg

	logger := newLogger(stderr, cli.Verbose, cli.Debug)

	var cache dq.Cache = fs.NewCache(cfg.CacheDir)
	cache = dqslog.NewLoggingCache(cache, logger)

	downloader := m.Downloader
	if downloader == nil {
		downloader = dqhttp.NewDownloader(
			dqhttp.WithTimeout(time.Duration(cfg.Timeout)),
			dqhttp.WithRateLimit(cfg.RequestsPerSecond),
			dqhttp.WithUserAgent("dq/"+version),
		)
	}
	downloader = dqslog.NewLoggingDownloader(downloader, logger)

	tree := newProgressTree(stderr, cfg.Progress && !cli.NoProgress && !cli.Verbose && !cli.Debug)
	defer tree.Stop()

	catalog := &mirror.Catalog{
		Cache:      cache,
		Downloader: downloader,
		Progress:   tree,
		MetaURL:    cfg.MetaURL,
		TTL:        cfg.TTL(),
	}

	deps.Progress = tree
	deps.Cache = cache
	deps.Catalog = catalog
	deps.Updater = &mirror.Updater{
		Catalog:           catalog,
		Cache:             cache,
		Downloader:        downloader,
		Progress:          tree,
		DocumentsURL:      cfg.DocumentsURL,
		Concurrency:       cfg.Limit,
		UnpackConcurrency: cfg.UnpackLimit,
	}
	deps.Searcher = fuzzy.NewSearcher(0)
	deps.Converter = htmltomarkdown.NewConverter()
	deps.Outliner = goquery.NewOutliner()

	return kongCtx.Run(deps)
}

// newLogger returns a text logger on w at the requested verbosity, or a
// logger that discards everything.
func newLogger(w io.Writer, verbose, debug bool) *slog.Logger {
	switch {
	case debug:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case verbose:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.DiscardHandler)
	}
}

// newProgressTree draws progress on w when enabled and w is a terminal.
func newProgressTree(w io.Writer, enabled bool) *progress.Tree {
	f, ok := w.(*os.File)
	if !ok {
		return progress.Hidden()
	}
	return progress.ForTerminal(f, enabled)
}
