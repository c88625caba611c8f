package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/covpage/internal/linkcheck"
)

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct {
	SiteDir string `arg:"" optional:"" help:"Rendered site directory (defaults to the configured output)"`
}

func (v *VerifyCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	siteDir := cfg.Site.Output
	if v.SiteDir != "" {
		siteDir = v.SiteDir
	}
	covDir := filepath.Join(siteDir, filepath.FromSlash(cfg.Coverage.PagePath))

	issues, err := linkcheck.CheckDir(covDir)
	if err != nil {
		return err
	}
	for _, issue := range issues {
		fmt.Println(issue)
	}
	if len(issues) > 0 {
		return fmt.Errorf("%d link problem(s) in %s", len(issues), covDir)
	}
	fmt.Printf("No link problems in %s\n", covDir)
	return nil
}
