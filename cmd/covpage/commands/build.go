package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/covpage/internal/builder"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory for the generated site (overrides config)"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if b.Output != "" {
		cfg.Site.Output = b.Output
	}

	registry, err := newRegistry()
	if err != nil {
		return err
	}
	return builder.New(cfg, registry, nil).Build(context.Background())
}
