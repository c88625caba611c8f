// Package plugin provides the build hook system. Plugins participate in a
// build at two points: transforming the virtual file collection before
// rendering, and post-processing the output tree after all pages are
// written to disk.
package plugin

import (
	"fmt"

	"git.home.luguber.info/inful/covpage/internal/config"
	"git.home.luguber.info/inful/covpage/internal/site"
)

// Plugin is the common surface every plugin implements.
type Plugin interface {
	// Metadata returns the plugin's metadata (name, version, description).
	Metadata() Metadata
}

// FilesTransformer is implemented by plugins that modify the virtual file
// collection during the file-collection phase, before any rendering.
type FilesTransformer interface {
	Plugin

	// OnFiles transforms the collection in place and returns it. It has no
	// failure path: malformed or absent inputs are valid, handled states.
	OnFiles(files *site.Files, cfg *config.Config) *site.Files
}

// PostBuilder is implemented by plugins that run after the site has been
// rendered to disk. Errors returned here are fatal to the build.
type PostBuilder interface {
	Plugin

	// OnPostBuild performs filesystem side effects against the rendered
	// output tree.
	OnPostBuild(cfg *config.Config) error
}

// Metadata describes a plugin's identity.
type Metadata struct {
	// Name is the unique plugin identifier (e.g., "coverage").
	Name string

	// Version is the semantic version (e.g., "v1.0.0").
	Version string

	// Description provides a human-readable summary of the plugin's purpose.
	Description string
}

// String returns a human-readable representation of the plugin metadata.
func (m Metadata) String() string {
	return fmt.Sprintf("%s@%s", m.Name, m.Version)
}

// Validate checks if the plugin metadata is valid.
func (m Metadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	return nil
}
