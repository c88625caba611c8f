package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Coverage CoverageConfig `yaml:"coverage"`
	Serve    ServeConfig    `yaml:"serve"`
}

// SiteConfig describes the documentation site build.
type SiteConfig struct {
	Title   string `yaml:"title"`
	DocsDir string `yaml:"docs_dir"`
	Output  string `yaml:"output"`
	// UseDirectoryURLs controls the output naming convention: when on, a
	// page "foo" renders to foo/index.html; when off, to foo.html.
	// Unset defaults to on.
	UseDirectoryURLs *bool `yaml:"use_directory_urls,omitempty"`
}

// DirectoryURLs resolves the URL-style switch (unset means on).
func (s SiteConfig) DirectoryURLs() bool {
	return s.UseDirectoryURLs == nil || *s.UseDirectoryURLs
}

// CoverageConfig configures the coverage report integration.
type CoverageConfig struct {
	// PagePath is the site-relative location (no extension) of the
	// generated coverage page and of the merged report subtree.
	PagePath string `yaml:"page_path"`
	// HTMLReportDir is the externally produced HTML report directory
	// copied into the output tree.
	HTMLReportDir string `yaml:"html_report_dir"`
	// HidePageTitle forces (true) or suppresses (false) the style block
	// hiding the page title and sidebar. Unset means hide only when no
	// user-authored page exists.
	HidePageTitle *bool `yaml:"hide_page_title,omitempty"`
	// InplacePlaceholder is the literal token substituted inside a
	// user-authored coverage page.
	InplacePlaceholder string `yaml:"inplace_placeholder"`
}

// ServeConfig configures the serve command.
type ServeConfig struct {
	Addr    string `yaml:"addr"`
	Metrics bool   `yaml:"metrics"`
}

// Default configuration values.
const (
	DefaultTitle         = "Documentation"
	DefaultDocsDir       = "docs"
	DefaultOutput        = "./site"
	DefaultPagePath      = "coverage"
	DefaultHTMLReportDir = "htmlcov"
	DefaultPlaceholder   = "{{mkdocs-coverage}}"
	DefaultServeAddr     = ":8000"
)

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env if present; existing process environment wins.
	_ = godotenv.Load()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration with all defaults applied, for callers
// that run without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = DefaultTitle
	}
	if c.Site.DocsDir == "" {
		c.Site.DocsDir = DefaultDocsDir
	}
	if c.Site.Output == "" {
		c.Site.Output = DefaultOutput
	}
	if c.Coverage.PagePath == "" {
		c.Coverage.PagePath = DefaultPagePath
	}
	if c.Coverage.HTMLReportDir == "" {
		c.Coverage.HTMLReportDir = DefaultHTMLReportDir
	}
	if c.Coverage.InplacePlaceholder == "" {
		c.Coverage.InplacePlaceholder = DefaultPlaceholder
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultServeAddr
	}
}

const exampleConfig = `# covpage configuration
site:
  title: "Project Documentation"
  docs_dir: docs
  output: ./site
  # use_directory_urls: true

coverage:
  # Site-relative path of the coverage page.
  page_path: coverage
  # Directory containing the externally generated HTML coverage report.
  html_report_dir: htmlcov
  # hide_page_title: true
  # inplace_placeholder: "{{mkdocs-coverage}}"

serve:
  addr: ":8000"
  metrics: false
`

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
