// Package preview serves the built site locally, rebuilding it whenever
// the documentation sources or the coverage report change.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/covpage/internal/builder"
	"git.home.luguber.info/inful/covpage/internal/logfields"
)

// Server watches the source tree and serves the rendered output.
type Server struct {
	builder  *builder.Builder
	addr     string
	metrics  http.Handler // optional /metrics endpoint
	debounce time.Duration
}

// New creates a preview server. A nil metrics handler disables the
// /metrics endpoint.
func New(b *builder.Builder, addr string, metrics http.Handler) *Server {
	return &Server{
		builder:  b,
		addr:     addr,
		metrics:  metrics,
		debounce: 500 * time.Millisecond,
	}
}

// Run builds once, then serves the output directory and rebuilds on source
// changes until the context is canceled. The initial build must succeed;
// later rebuild failures are logged and the last good output keeps being
// served.
func (s *Server) Run(ctx context.Context) error {
	cfg := s.builder.Config()
	if err := s.builder.Build(ctx); err != nil {
		return fmt.Errorf("initial build: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchRecursive(watcher, cfg.Site.DocsDir); err != nil {
		return err
	}
	// The report directory may not exist yet; watch it when it does.
	if _, err := os.Stat(cfg.Coverage.HTMLReportDir); err == nil {
		if err := watchRecursive(watcher, cfg.Coverage.HTMLReportDir); err != nil {
			return err
		}
	}

	rebuild := newDebouncer(s.debounce, func() {
		if err := s.builder.Build(context.Background()); err != nil {
			slog.Error("Rebuild failed, serving last good output", logfields.Error(err))
		}
	})
	defer rebuild.Stop()

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(cfg.Site.Output)))
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Serving site", slog.String("addr", s.addr), logfields.Dir(cfg.Site.Output))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// Pick up newly created subdirectories.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			slog.Debug("Source changed", logfields.Path(event.Name))
			rebuild.Trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", logfields.Error(err))
		}
	}
}

// watchRecursive adds root and every directory below it to the watcher.
func watchRecursive(watcher *fsnotify.Watcher, root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	return nil
}
