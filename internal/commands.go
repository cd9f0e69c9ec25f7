package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/topictree/internal/catalog"
	"github.com/starford/topictree/internal/mcpserver"
	"github.com/starford/topictree/internal/storage"
)

// ErrWarnings is returned by Check in strict mode when the build has warnings.
var ErrWarnings = errors.New("catalog has unresolved topics")

func buildOnce(ctx context.Context, cfg *Config, logger *slog.Logger) (*catalog.Snapshot, error) {
	store, err := storage.NewFS(cfg.Site.Root)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	layout := catalog.Layout{TopicsFile: cfg.Site.TopicsFile, EntriesDir: cfg.Site.EntriesDir}
	return catalog.Build(ctx, store, layout, logger)
}

// Check builds the catalog once without persisting it and prints every
// warning followed by a summary. A malformed topic file is returned as an
// error; in strict mode so is any warning.
func Check(ctx context.Context, strict bool, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := newLogger(app.config, os.Stderr)

	snap, err := buildOnce(ctx, app.config, logger)
	if err != nil {
		return err
	}

	for _, w := range snap.Warnings {
		fmt.Fprintln(app.out, w.String())
	}
	fmt.Fprintf(app.out, "%d topics, %d entries, %d warnings\n",
		snap.Tree.CountTopics(), len(snap.Entries), len(snap.Warnings))

	if strict && len(snap.Warnings) > 0 {
		return fmt.Errorf("%w: %d", ErrWarnings, len(snap.Warnings))
	}
	return nil
}

// Tree builds the catalog once and prints the indented tree dump.
func Tree(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := newLogger(app.config, os.Stderr)

	snap, err := buildOnce(ctx, app.config, logger)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(app.out, snap.Tree.String())
	return err
}

// ServeMCP builds the catalog and serves MCP over stdio. Logs go to stderr
// since stdout carries the protocol.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	svc, closeIndex, err := openCatalog(cfg, logger)
	if err != nil {
		return err
	}
	defer closeIndex() //nolint:errcheck

	if _, err := svc.Rebuild(ctx); err != nil {
		logger.Warn("initial build failed", slog.String("error", err.Error()))
	}

	if cfg.Watch.Enabled {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := svc.Watch(watchCtx, cfg.Watch.Debounce, nil); err != nil {
				logger.Error("watcher stopped", slog.String("error", err.Error()))
			}
		}()
	}

	logger.Info("MCP server starting on stdio", slog.String("version", app.version))
	return mcpserver.New(svc, app.version).ServeStdio()
}
