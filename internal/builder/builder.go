// Package builder runs the documentation site build: it collects Markdown
// sources into a virtual file collection, lets plugins transform the
// collection, renders every page to the output tree, and finally hands
// control to post-build plugins for filesystem-level integration work.
package builder

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/covpage/internal/config"
	"git.home.luguber.info/inful/covpage/internal/logfields"
	"git.home.luguber.info/inful/covpage/internal/metrics"
	"git.home.luguber.info/inful/covpage/internal/plugin"
)

// Builder orchestrates one or more sequential site builds.
type Builder struct {
	cfg      *config.Config
	registry *plugin.Registry
	recorder metrics.Recorder
}

// New creates a Builder. A nil recorder disables metrics.
func New(cfg *config.Config, registry *plugin.Registry, recorder metrics.Recorder) *Builder {
	if registry == nil {
		registry = plugin.NewRegistry()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Builder{cfg: cfg, registry: registry, recorder: recorder}
}

// Config returns the build configuration.
func (b *Builder) Config() *config.Config { return b.cfg }

// Build runs the full pipeline once. The build is strictly sequential; the
// output directory is exclusively owned by the build for its duration.
func (b *Builder) Build(ctx context.Context) error {
	buildID := uuid.NewString()
	slog.Info("Starting site build",
		logfields.BuildID(buildID),
		logfields.Dir(b.cfg.Site.Output))

	bs := newBuildState(b)
	stages := []StageDef{
		{StageCollectFiles, stageCollectFiles},
		{StagePluginFiles, stagePluginFiles},
		{StageRenderPages, stageRenderPages},
		{StageCopyAssets, stageCopyAssets},
		{StagePostBuild, stagePostBuild},
	}

	err := runStages(ctx, bs, stages, b.recorder)
	elapsed := time.Since(bs.start)
	b.recorder.ObserveBuildDuration(elapsed)

	switch {
	case err != nil:
		b.recorder.IncBuildOutcome("failed")
		slog.Error("Build failed", logfields.BuildID(buildID), logfields.Error(err))
		return err
	case len(bs.Warnings) > 0:
		b.recorder.IncBuildOutcome("warning")
		slog.Warn("Build finished with warnings",
			logfields.BuildID(buildID),
			slog.Int("warnings", len(bs.Warnings)),
			logfields.DurationMS(float64(elapsed.Milliseconds())))
	default:
		b.recorder.IncBuildOutcome("success")
		slog.Info("Build finished",
			logfields.BuildID(buildID),
			slog.Int("pages", len(bs.Files.Markdown())),
			logfields.DurationMS(float64(elapsed.Milliseconds())))
	}
	return nil
}

// stagePluginFiles runs registered file-collection hooks in order.
func stagePluginFiles(_ context.Context, bs *BuildState) error {
	for _, hook := range bs.Builder.registry.FilesTransformers() {
		bs.Files = hook.OnFiles(bs.Files, bs.Builder.cfg)
		slog.Debug("Applied files hook", slog.String("plugin", hook.Metadata().Name))
	}
	return nil
}

// stagePostBuild runs registered post-build hooks in order. Hook errors are
// fatal to the build.
func stagePostBuild(_ context.Context, bs *BuildState) error {
	for _, hook := range bs.Builder.registry.PostBuilders() {
		if err := hook.OnPostBuild(bs.Builder.cfg); err != nil {
			return err
		}
	}
	return nil
}
