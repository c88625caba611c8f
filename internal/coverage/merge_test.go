package coverage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git.home.luguber.info/inful/covpage/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func mergeConfig(t *testing.T, directoryURLs bool) (*config.Config, string, string) {
	t.Helper()
	siteDir := t.TempDir()
	reportDir := t.TempDir()

	cfg := config.Default()
	cfg.Site.Output = siteDir
	cfg.Site.UseDirectoryURLs = &directoryURLs
	cfg.Coverage.HTMLReportDir = reportDir
	return cfg, siteDir, reportDir
}

func TestMergeDirectoryURLs(t *testing.T) {
	cfg, siteDir, reportDir := mergeConfig(t, true)

	writeFile(t, filepath.Join(siteDir, "coverage", "index.html"), "SYNTHESIZED")
	writeFile(t, filepath.Join(reportDir, "index.html"), `REPORT <a href="other.html">o</a>`)
	writeFile(t, filepath.Join(reportDir, "other.html"), `<a href="index.html">back</a>`)
	writeFile(t, filepath.Join(reportDir, "assets", "app.css"), "body{}")

	if err := New().OnPostBuild(cfg); err != nil {
		t.Fatalf("merge: %v", err)
	}

	if got := readFile(t, filepath.Join(siteDir, "coverage", "index.html")); got != "SYNTHESIZED" {
		t.Fatalf("canonical slot must hold the synthesized page, got %q", got)
	}
	if got := readFile(t, filepath.Join(siteDir, "coverage", "covindex.html")); !strings.HasPrefix(got, "REPORT") {
		t.Fatalf("covindex.html must be the former report root, got %q", got)
	}
	other := readFile(t, filepath.Join(siteDir, "coverage", "other.html"))
	if !strings.Contains(other, `href="covindex.html"`) || strings.Contains(other, `href="index.html"`) {
		t.Fatalf("link not repaired: %q", other)
	}
	if got := readFile(t, filepath.Join(siteDir, "coverage", "assets", "app.css")); got != "body{}" {
		t.Fatalf("asset not copied untouched: %q", got)
	}
	if _, err := os.Stat(filepath.Join(siteDir, tmpIndexName)); !os.IsNotExist(err) {
		t.Fatal("temporary holding file must be gone after a successful merge")
	}
	// The report source is never mutated.
	if got := readFile(t, filepath.Join(reportDir, "other.html")); !strings.Contains(got, `href="index.html"`) {
		t.Fatalf("source report was mutated: %q", got)
	}
}

func TestMergeFileURLs(t *testing.T) {
	cfg, siteDir, reportDir := mergeConfig(t, false)

	writeFile(t, filepath.Join(siteDir, "coverage.html"), "SYNTHESIZED")
	writeFile(t, filepath.Join(reportDir, "index.html"), "REPORT")
	writeFile(t, filepath.Join(reportDir, "other.html"), `<a href="index.html">back</a>`)

	if err := New().OnPostBuild(cfg); err != nil {
		t.Fatalf("merge: %v", err)
	}

	if got := readFile(t, filepath.Join(siteDir, "coverage.html")); got != "SYNTHESIZED" {
		t.Fatalf("sibling canonical slot must hold the synthesized page, got %q", got)
	}
	if got := readFile(t, filepath.Join(siteDir, "coverage", "covindex.html")); got != "REPORT" {
		t.Fatalf("covindex.html: %q", got)
	}
	if _, err := os.Stat(filepath.Join(siteDir, "coverage", "index.html")); !os.IsNotExist(err) {
		t.Fatal("no index.html may exist inside the merge target with file-style URLs")
	}
	other := readFile(t, filepath.Join(siteDir, "coverage", "other.html"))
	if !strings.Contains(other, `href="covindex.html"`) {
		t.Fatalf("link not repaired: %q", other)
	}
}

func TestMergeMissingReportWarnsAndContinues(t *testing.T) {
	cfg, siteDir, _ := mergeConfig(t, true)
	cfg.Coverage.HTMLReportDir = filepath.Join(siteDir, "does-not-exist")

	writeFile(t, filepath.Join(siteDir, "coverage", "index.html"), "SYNTHESIZED")
	writeFile(t, filepath.Join(siteDir, "coverage", "stale.html"), "STALE")

	if err := New().OnPostBuild(cfg); err != nil {
		t.Fatalf("missing report must not fail the build: %v", err)
	}

	// Post-removal, pre-copy state: the target subtree is gone, never half
	// repopulated, and the held page sits at the temporary path.
	if _, err := os.Stat(filepath.Join(siteDir, "coverage")); !os.IsNotExist(err) {
		t.Fatal("target subtree must be cleared")
	}
	if got := readFile(t, filepath.Join(siteDir, tmpIndexName)); got != "SYNTHESIZED" {
		t.Fatalf("held page missing from temporary path: %q", got)
	}
}

func TestMergeMissingRenderedPageIsFatal(t *testing.T) {
	cfg, _, reportDir := mergeConfig(t, true)
	writeFile(t, filepath.Join(reportDir, "index.html"), "REPORT")

	if err := New().OnPostBuild(cfg); err == nil {
		t.Fatal("absent rendered page must be a fatal error")
	}
}

func TestMergeReportWithoutIndexIsFatal(t *testing.T) {
	cfg, siteDir, reportDir := mergeConfig(t, true)
	writeFile(t, filepath.Join(siteDir, "coverage", "index.html"), "SYNTHESIZED")
	writeFile(t, filepath.Join(reportDir, "other.html"), "no root here")

	if err := New().OnPostBuild(cfg); err == nil {
		t.Fatal("report without index.html must be a fatal error")
	}
}
