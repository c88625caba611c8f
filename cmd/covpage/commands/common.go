package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/covpage/internal/config"
	"git.home.luguber.info/inful/covpage/internal/coverage"
	"git.home.luguber.info/inful/covpage/internal/plugin"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"covpage.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build  BuildCmd  `cmd:"" help:"Build the documentation site with the coverage report merged in"`
	Merge  MergeCmd  `cmd:"" help:"Merge the coverage report into an already rendered site"`
	Init   InitCmd   `cmd:"" help:"Initialize a new configuration file"`
	Serve  ServeCmd  `cmd:"" help:"Build, then serve the site and rebuild on source changes"`
	Verify VerifyCmd `cmd:"" help:"Check links inside the merged coverage subtree"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads the configuration file, falling back to built-in
// defaults when the default config file is simply absent.
func loadConfig(root *CLI) (*config.Config, error) {
	if _, err := os.Stat(root.Config); os.IsNotExist(err) && root.Config == "covpage.yaml" {
		slog.Debug("No configuration file found, using defaults")
		return config.Default(), nil
	}
	return config.Load(root.Config)
}

// newRegistry assembles the plugin registry used by every build-driving
// command. The coverage plugin is currently the only built-in.
func newRegistry() (*plugin.Registry, error) {
	registry := plugin.NewRegistry()
	if err := registry.Register(coverage.New()); err != nil {
		return nil, err
	}
	return registry, nil
}
