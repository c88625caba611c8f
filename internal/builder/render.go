package builder

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/covpage/internal/logfields"
	"git.home.luguber.info/inful/covpage/internal/site"
)

// markdown keeps raw HTML passthrough on: generated pages embed style,
// iframe and script blocks directly in their Markdown.
var markdown = goldmark.New(goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()))

// pageShell is the minimal HTML document every rendered page is wrapped
// in. Plugins that need theme-level styling inject their own style blocks
// through the page Markdown instead.
const pageShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{ .PageTitle }} - {{ .SiteTitle }}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 0; color: #1f2933; }
nav { padding: 0.75rem 2rem; border-bottom: 1px solid #d2d6dc; }
nav a { margin-right: 1rem; color: #1e88e5; text-decoration: none; }
main { max-width: 60rem; margin: 0 auto; padding: 1rem 2rem; }
</style>
</head>
<body>
<nav>{{ range .Nav }}<a href="{{ .URL }}">{{ .Title }}</a>{{ end }}</nav>
<main><article>
{{ .Content }}
</article></main>
</body>
</html>
`

var shellTemplate = template.Must(template.New("page").Parse(pageShell))

type navEntry struct {
	Title string
	URL   string
}

type shellData struct {
	SiteTitle string
	PageTitle string
	Nav       []navEntry
	Content   template.HTML
}

// OutputPath returns the site-relative rendered location of a page.
// Directory-style URLs render "foo" to foo/index.html; file-style URLs
// render it to foo.html. Pages named index always render in place.
func OutputPath(pagePath string, directoryURLs bool) string {
	if pagePath == "index" || strings.HasSuffix(pagePath, "/index") {
		return pagePath + ".html"
	}
	if directoryURLs {
		return path.Join(pagePath, "index.html")
	}
	return pagePath + ".html"
}

// PageURL returns the site-absolute URL of a page for navigation links.
func PageURL(pagePath string, directoryURLs bool) string {
	if !directoryURLs {
		return "/" + pagePath + ".html"
	}
	if pagePath == "index" {
		return "/"
	}
	return "/" + strings.TrimSuffix(pagePath, "/index") + "/"
}

// stageRenderPages renders every Markdown entry through Goldmark into the
// page shell and writes it to the output tree.
func stageRenderPages(ctx context.Context, bs *BuildState) error {
	cfg := bs.Builder.cfg
	dirURLs := cfg.Site.DirectoryURLs()
	nav := buildNav(bs.Files, dirURLs)

	for _, f := range bs.Files.Markdown() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		source, err := f.Content()
		if err != nil {
			return err
		}

		var body bytes.Buffer
		if err := markdown.Convert(source, &body); err != nil {
			return fmt.Errorf("render %s: %w", f.SrcPath, err)
		}

		outPath := filepath.Join(cfg.Site.Output, filepath.FromSlash(OutputPath(f.PagePath(), dirURLs)))
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return fmt.Errorf("create directory for %s: %w", outPath, err)
		}

		var page bytes.Buffer
		data := shellData{
			SiteTitle: cfg.Site.Title,
			PageTitle: pageTitle(f.PagePath(), source),
			Nav:       nav,
			Content:   template.HTML(body.String()), // #nosec G203 -- rendered from trusted site sources
		}
		if err := shellTemplate.Execute(&page, data); err != nil {
			return fmt.Errorf("render page shell for %s: %w", f.SrcPath, err)
		}
		if err := os.WriteFile(outPath, page.Bytes(), 0644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		slog.Debug("Rendered page", logfields.Page(f.PagePath()), logfields.Path(outPath))
	}

	slog.Info("Rendered all pages", slog.Int("count", len(bs.Files.Markdown())))
	return nil
}

// stageCopyAssets copies non-Markdown collected files into the output tree
// unchanged.
func stageCopyAssets(ctx context.Context, bs *BuildState) error {
	cfg := bs.Builder.cfg
	count := 0
	for _, f := range bs.Files.All() {
		if f.IsMarkdown() {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		data, err := f.Content()
		if err != nil {
			return err
		}
		outPath := filepath.Join(cfg.Site.Output, filepath.FromSlash(f.SrcPath))
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return fmt.Errorf("create directory for %s: %w", outPath, err)
		}
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return fmt.Errorf("copy asset %s: %w", outPath, err)
		}
		count++
	}
	if count > 0 {
		slog.Info("Copied assets", slog.Int("count", count))
	}
	return nil
}

func buildNav(files *site.Files, directoryURLs bool) []navEntry {
	var nav []navEntry
	for _, f := range files.Markdown() {
		// Top-level pages only; sections get reachable through their parent.
		if strings.Contains(f.PagePath(), "/") {
			continue
		}
		title := titleCase(f.PagePath())
		if f.PagePath() == "index" {
			title = "Home"
		}
		nav = append(nav, navEntry{Title: title, URL: PageURL(f.PagePath(), directoryURLs)})
	}
	return nav
}

// pageTitle derives a page title from the first level-one heading, falling
// back to the title-cased page name.
func pageTitle(pagePath string, source []byte) string {
	for _, line := range strings.Split(string(source), "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return titleCase(path.Base(pagePath))
}

// titleCase converts a string to title case (portable alternative to
// strings.Title).
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}
	return strings.Join(words, " ")
}
