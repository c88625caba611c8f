package commands

import (
	"fmt"

	"git.home.luguber.info/inful/covpage/internal/coverage"
)

// MergeCmd implements the 'merge' command: it runs only the post-render
// merge against a site rendered by another tool. The rendered coverage
// page must already exist at its canonical slot (page_path/index.html or
// page_path.html, depending on URL style).
type MergeCmd struct {
	SiteDir string `arg:"" help:"Rendered site directory to merge the report into"`
}

func (m *MergeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Site.Output = m.SiteDir
	return coverage.New().OnPostBuild(cfg)
}
