package builder

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/covpage/internal/logfields"
	"git.home.luguber.info/inful/covpage/internal/site"
)

// stageCollectFiles walks the docs directory and registers every source
// file in the virtual collection: Markdown files as pages, everything else
// as assets copied verbatim later.
func stageCollectFiles(ctx context.Context, bs *BuildState) error {
	docsDir := bs.Builder.cfg.Site.DocsDir
	info, err := os.Stat(docsDir)
	if err != nil {
		return fmt.Errorf("docs directory %s: %w", docsDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("docs path %s is not a directory", docsDir)
	}

	err = filepath.WalkDir(docsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if path == docsDir {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(docsDir, path)
		if err != nil {
			return err
		}
		bs.Files.Put(site.NewFile(rel, path))
		return nil
	})
	if err != nil {
		return fmt.Errorf("collect files from %s: %w", docsDir, err)
	}

	slog.Info("Collected source files",
		logfields.Dir(docsDir),
		slog.Int("count", bs.Files.Len()))
	return nil
}
