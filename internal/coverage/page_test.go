package coverage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git.home.luguber.info/inful/covpage/internal/config"
	"git.home.luguber.info/inful/covpage/internal/site"
)

const placeholder = "{{mkdocs-coverage}}"

func boolPtr(b bool) *bool { return &b }

func TestCovindexURL(t *testing.T) {
	if got := CovindexURL("coverage", true); got != "covindex.html" {
		t.Fatalf("directory URLs: %s", got)
	}
	if got := CovindexURL("coverage", false); got != "coverage/covindex.html" {
		t.Fatalf("file URLs: %s", got)
	}
}

func TestBuildPageStandalone(t *testing.T) {
	page := BuildPage("covindex.html", "", placeholder, nil)

	if !strings.HasPrefix(page, styleBlock) {
		t.Fatal("standalone page must start with the title-hiding style block")
	}
	if !strings.Contains(page, `id="coviframe"`) {
		t.Fatal("iframe id missing")
	}
	if !strings.Contains(page, `src="covindex.html"`) {
		t.Fatal("iframe src missing")
	}
	if !strings.Contains(page, "coviframe.contentWindow.location.reload()") {
		t.Fatal("reload-on-click script missing")
	}
}

func TestBuildPageStandaloneHideDisabled(t *testing.T) {
	page := BuildPage("covindex.html", "", placeholder, boolPtr(false))
	if strings.Contains(page, "<style>") {
		t.Fatal("explicit hide=false must suppress the style block")
	}
	if !strings.Contains(page, `id="coviframe"`) {
		t.Fatal("iframe missing")
	}
}

func TestBuildPageAppendsToUserContent(t *testing.T) {
	user := "# Coverage\n\nSome prose."
	for _, hide := range []*bool{nil, boolPtr(false)} {
		page := BuildPage("covindex.html", user, placeholder, hide)
		if !strings.HasPrefix(page, user+"\n\n") {
			t.Fatalf("user content must come first, separated by a blank line: %q", page[:40])
		}
		if strings.Contains(page, "<style>") {
			t.Fatal("append branch must not include the style block unless hide is explicitly true")
		}
	}

	page := BuildPage("covindex.html", user, placeholder, boolPtr(true))
	if !strings.Contains(page, "<style>") {
		t.Fatal("explicit hide=true must include the style block")
	}
	if !strings.HasPrefix(page, user+"\n\n") {
		t.Fatal("style block belongs to the appended block, not the page start")
	}
}

func TestBuildPagePlaceholderSubstitution(t *testing.T) {
	user := "# Coverage\n\nbefore\n" + placeholder + "\nafter"
	page := BuildPage("covindex.html", user, placeholder, nil)

	if strings.Contains(page, placeholder) {
		t.Fatal("placeholder not substituted")
	}
	if !strings.HasPrefix(page, "# Coverage\n\nbefore\n") || !strings.HasSuffix(page, "\nafter") {
		t.Fatal("content around the placeholder must be preserved")
	}
	if !strings.Contains(page, `id="coviframe"`) {
		t.Fatal("iframe not inserted at placeholder")
	}
	if strings.Contains(page, "<style>") {
		t.Fatal("style block requires explicit hide=true when user content exists")
	}

	withStyle := BuildPage("covindex.html", user, placeholder, boolPtr(true))
	if !strings.Contains(withStyle, "<style>") {
		t.Fatal("hide=true must prefix the substituted block with the style block")
	}
}

func TestOnFilesIdempotentReplace(t *testing.T) {
	cfg := config.Default()
	p := New()
	files := site.NewFiles()
	files.Put(site.NewGeneratedFile("index.md", "# Home"))

	p.OnFiles(files, cfg)
	p.OnFiles(files, cfg)

	if files.Len() != 2 {
		t.Fatalf("expected 2 entries (index + coverage), got %d", files.Len())
	}
	f := files.Get("coverage.md")
	if f == nil || !f.IsGenerated() {
		t.Fatal("coverage.md must be a generated entry")
	}
	content, err := f.ContentString()
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	if !strings.Contains(content, `src="covindex.html"`) {
		t.Fatalf("directory-URL covindex src expected, got %q", content)
	}
	if strings.Count(content, `id="coviframe"`) != 1 {
		t.Fatalf("re-synthesis must replace, not wrap, the generated page: %q", content)
	}
}

func TestOnFilesUsesExistingUserPage(t *testing.T) {
	cfg := config.Default()
	off := false
	cfg.Site.UseDirectoryURLs = &off

	userPage := filepath.Join(t.TempDir(), "coverage.md")
	if err := os.WriteFile(userPage, []byte("# My coverage\n\n"+placeholder), 0644); err != nil {
		t.Fatalf("write user page: %v", err)
	}

	p := New()
	files := site.NewFiles()
	files.Put(site.NewFile("coverage.md", userPage))

	p.OnFiles(files, cfg)

	content, err := files.Get("coverage.md").ContentString()
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	if !strings.HasPrefix(content, "# My coverage\n\n") {
		t.Fatal("user content must be preserved")
	}
	if !strings.Contains(content, `src="coverage/covindex.html"`) {
		t.Fatalf("file-URL style must point into the page subtree, got %q", content)
	}
}
