package coverage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/covpage/internal/config"
	"git.home.luguber.info/inful/covpage/internal/logfields"
)

// tmpIndexName holds the rendered coverage page outside the merge target
// while the report directory replaces it.
const tmpIndexName = ".coverage-tmp.html"

// mergeState carries the resolved paths of one merge through its steps.
type mergeState struct {
	siteDir   string // rendered output root
	pageDir   string // siteDir/pagePath, the merge target
	canonical string // rendered location of the synthesized page
	tmpIndex  string // holding path during the merge
	reportDir string // externally produced report source
}

// mergeStep is one named, order-dependent step of the merge sequence.
type mergeStep struct {
	name string
	fn   func(*mergeState) error
}

// errReportMissing aborts the remaining steps without failing the build.
var errReportMissing = fmt.Errorf("html report directory does not exist")

// OnPostBuild merges the coverage report directory into the rendered site.
//
// The sequence preserves the synthesized page under a temporary name,
// replaces the target directory with a copy of the report, renames the
// report's own index.html to covindex.html, restores the synthesized page
// into the canonical slot, and repairs the report's internal links to its
// renamed root. The steps are order-dependent; an interrupted merge leaves
// the tree inconsistent and must be redone from a fresh build.
//
// A missing report directory is the one recoverable condition: it is
// logged as a warning and leaves the target in the post-removal state.
// Every other filesystem failure is fatal and propagates.
func (p *Plugin) OnPostBuild(cfg *config.Config) error {
	st := newMergeState(cfg)

	steps := []mergeStep{
		{"hold_page", holdRenderedPage},
		{"clear_target", clearTarget},
		{"copy_report", copyReport},
		{"rename_report_index", renameReportIndex},
		{"restore_page", restoreRenderedPage},
		{"rewrite_links", rewriteReportLinks},
	}
	for _, step := range steps {
		if err := step.fn(st); err != nil {
			if err == errReportMissing {
				slog.Warn("No such HTML report directory, skipping coverage report merge",
					logfields.Dir(st.reportDir))
				return nil
			}
			return fmt.Errorf("coverage merge step %s: %w", step.name, err)
		}
	}
	slog.Info("Merged coverage report into site", logfields.Dir(st.pageDir))
	return nil
}

func newMergeState(cfg *config.Config) *mergeState {
	siteDir := cfg.Site.Output
	pageDir := filepath.Join(siteDir, filepath.FromSlash(cfg.Coverage.PagePath))
	canonical := pageDir + ".html"
	if cfg.Site.DirectoryURLs() {
		canonical = filepath.Join(pageDir, "index.html")
	}
	return &mergeState{
		siteDir:   siteDir,
		pageDir:   pageDir,
		canonical: canonical,
		tmpIndex:  filepath.Join(siteDir, tmpIndexName),
		reportDir: cfg.Coverage.HTMLReportDir,
	}
}

// holdRenderedPage moves the rendered coverage page out of the merge
// target so clearing the directory does not destroy it.
func holdRenderedPage(st *mergeState) error {
	if err := os.Rename(st.canonical, st.tmpIndex); err != nil {
		return fmt.Errorf("hold rendered page %s: %w", st.canonical, err)
	}
	return nil
}

// clearTarget removes the merge target subtree. Absence means
// already-clean, not an error.
func clearTarget(st *mergeState) error {
	if err := os.RemoveAll(st.pageDir); err != nil {
		return fmt.Errorf("remove %s: %w", st.pageDir, err)
	}
	return nil
}

// copyReport copies the report tree wholesale into the merge target.
func copyReport(st *mergeState) error {
	if _, err := os.Stat(st.reportDir); os.IsNotExist(err) {
		return errReportMissing
	} else if err != nil {
		return fmt.Errorf("stat report directory %s: %w", st.reportDir, err)
	}
	if err := os.CopyFS(st.pageDir, os.DirFS(st.reportDir)); err != nil {
		return fmt.Errorf("copy report %s to %s: %w", st.reportDir, st.pageDir, err)
	}
	return nil
}

// renameReportIndex frees the index.html slot for the synthesized page.
func renameReportIndex(st *mergeState) error {
	src := filepath.Join(st.pageDir, "index.html")
	dst := filepath.Join(st.pageDir, "covindex.html")
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("rename report index: %w", err)
	}
	return nil
}

// restoreRenderedPage moves the held page back into its canonical slot.
func restoreRenderedPage(st *mergeState) error {
	if err := os.Rename(st.tmpIndex, st.canonical); err != nil {
		return fmt.Errorf("restore rendered page to %s: %w", st.canonical, err)
	}
	return nil
}

// rewriteReportLinks repairs links inside the report's own pages, which
// were authored assuming their root was still named index.html. Only files
// directly inside the merge target are rewritten, matching the flat layout
// coverage generators produce.
func rewriteReportLinks(st *mergeState) error {
	entries, err := os.ReadDir(st.pageDir)
	if err != nil {
		return fmt.Errorf("read %s: %w", st.pageDir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".html" || entry.Name() == "index.html" {
			continue
		}
		path := filepath.Join(st.pageDir, entry.Name())
		// #nosec G304 -- path is constrained to the merge target directory
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		rewritten := strings.ReplaceAll(string(data), `href="index.html"`, `href="covindex.html"`)
		if rewritten == string(data) {
			continue
		}
		if err := os.WriteFile(path, []byte(rewritten), 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
