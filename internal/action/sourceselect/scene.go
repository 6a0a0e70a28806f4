package sourceselect

import (
	"context"

	"go.uber.org/zap"

	"github.com/hrko/obs-dynamic-path/internal/host"
	"github.com/hrko/obs-dynamic-path/internal/settings"
)

// SceneFollower keeps the selected source in sync with the current program
// scene. It is used instead of manual selection when source-mode is "scene".
type SceneFollower struct {
	settings *settings.Settings
	scenes   host.SceneGetter
	log      *zap.Logger
}

func NewSceneFollower(s *settings.Settings, scenes host.SceneGetter, log *zap.Logger) *SceneFollower {
	if log == nil {
		log = zap.NewNop()
	}
	return &SceneFollower{
		settings: s,
		scenes:   scenes,
		log:      log,
	}
}

// Sync copies the current scene name into the settings.
func (f *SceneFollower) Sync(ctx context.Context) {
	name, err := f.scenes.CurrentSceneName(ctx)
	if err != nil {
		f.log.Error("failed to get current scene", zap.Error(err))
		return
	}
	f.settings.SetSelectedSource(name)
	f.log.Debug("selected source follows scene", zap.String("scene", name))
}

func (f *SceneFollower) HandleFrontendEvent(ctx context.Context, event host.FrontendEvent) {
	switch event {
	case host.EventSceneChanged, host.EventRecordingStarting:
		f.Sync(ctx)
	}
}
