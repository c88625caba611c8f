// Package coverage integrates an externally generated HTML coverage report
// into the documentation site. During file collection it synthesizes a
// virtual page embedding the report in an iframe; after rendering it merges
// the report directory into the output tree, renaming the report's own
// index.html so it does not collide with the site's page at the same path.
package coverage

import (
	"log/slog"

	"git.home.luguber.info/inful/covpage/internal/config"
	"git.home.luguber.info/inful/covpage/internal/logfields"
	"git.home.luguber.info/inful/covpage/internal/plugin"
	"git.home.luguber.info/inful/covpage/internal/site"
)

// Plugin implements the coverage report integration as a pair of build
// hooks. Both hooks belong to one build invocation and share only the
// build configuration; the plugin itself is stateless.
type Plugin struct{}

// New creates the coverage plugin.
func New() *Plugin { return &Plugin{} }

// Metadata implements plugin.Plugin.
func (p *Plugin) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        "coverage",
		Version:     "v1.0.0",
		Description: "Embeds an HTML coverage report as a documentation page",
	}
}

// OnFiles synthesizes the coverage page and registers it in the file
// collection, replacing any prior entry at the same path. It always
// succeeds: an absent or unreadable user-authored page is a handled state,
// not a failure.
func (p *Plugin) OnFiles(files *site.Files, cfg *config.Config) *site.Files {
	cov := cfg.Coverage
	srcPath := cov.PagePath + ".md"
	covindex := CovindexURL(cov.PagePath, cfg.Site.DirectoryURLs())

	// Only a user-authored source page counts as user content; a stale
	// generated entry from a previous synthesis is replaced wholesale.
	var userContent string
	if existing := files.Get(srcPath); existing != nil && !existing.IsGenerated() {
		content, err := existing.ContentString()
		if err != nil {
			slog.Warn("Could not read user coverage page, generating a standalone one",
				logfields.File(srcPath), logfields.Error(err))
		} else {
			userContent = content
		}
	}

	content := BuildPage(covindex, userContent, cov.InplacePlaceholder, cov.HidePageTitle)
	files.Put(site.NewGeneratedFile(srcPath, content))
	slog.Debug("Registered generated coverage page", logfields.Page(cov.PagePath))
	return files
}
