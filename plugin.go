package main

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hrko/obs-dynamic-path/internal/action/recordpath"
	"github.com/hrko/obs-dynamic-path/internal/action/sourceselect"
	"github.com/hrko/obs-dynamic-path/internal/config"
	"github.com/hrko/obs-dynamic-path/internal/host"
	"github.com/hrko/obs-dynamic-path/internal/logging"
	"github.com/hrko/obs-dynamic-path/internal/obs"
	"github.com/hrko/obs-dynamic-path/internal/pathtemplate"
	"github.com/hrko/obs-dynamic-path/internal/settings"
)

type plugin struct {
	settings  *settings.Settings
	expander  *pathtemplate.Expander
	responder *recordpath.Responder
	primer    *recordpath.Primer
	selection *sourceselect.Callback
	follower  *sourceselect.SceneFollower
	log       *zap.Logger
}

type obsHost interface {
	host.Frontend
	host.SourceLister
	host.SceneGetter
}

func newPlugin(cfg config.Config, h obsHost, log *zap.Logger) *plugin {
	s := settings.New()
	s.SetString(settings.KeyPathTemplate, cfg.PathTemplate)
	s.SetSelectedSource(cfg.SelectedSource)

	p := &plugin{
		settings:  s,
		expander:  pathtemplate.NewExpander(s),
		selection: sourceselect.New(s, h, log.Named("sourceselect")),
		log:       log,
	}
	p.responder = recordpath.NewResponder(h, p.expander, log.Named("recordpath"))
	p.primer = recordpath.NewPrimer(p.responder)
	if cfg.SourceMode == config.SourceModeScene {
		p.follower = sourceselect.NewSceneFollower(s, h, log.Named("scene"))
	}
	return p
}

// handlers returns the frontend event callbacks in dispatch order. The scene
// follower must run before the responder reads the selection.
func (p *plugin) handlers() []host.EventHandler {
	var hs []host.EventHandler
	if p.follower != nil {
		hs = append(hs, p.follower)
	}
	return append(hs, p.responder, p.primer)
}

// applyConfig is the properties "modified" callback for config file edits.
func (p *plugin) applyConfig(cfg config.Config) {
	p.settings.SetString(settings.KeyPathTemplate, cfg.PathTemplate)
	if p.follower != nil {
		return
	}
	p.selection.Modified(map[string]string{
		settings.KeySelectedSource: cfg.SelectedSource,
	})
}

func runPlugin(ctx context.Context, opts *options) error {
	log := opts.log
	client, err := obs.Connect(opts.cfg.Address, opts.cfg.Password, log.Named("obs"))
	if err != nil {
		return err
	}
	defer client.Close()
	if opts.cfg.BaseDir != "" {
		client.SetBaseDir(opts.cfg.BaseDir)
	}

	p := newPlugin(opts.cfg, client, log)
	if p.follower != nil {
		p.follower.Sync(ctx)
	}
	if err := p.responder.Prime(ctx); err != nil {
		log.Error("failed to prime recording path", zap.Error(err))
	}
	watching := config.Watch(opts.v, func(cfg config.Config) {
		if lvl, err := logging.ParseLevel(cfg.LogLevel); err == nil {
			opts.level.SetLevel(lvl)
		}
		p.applyConfig(cfg)
	}, func(err error) {
		log.Warn("config change rejected", zap.Error(err))
	})

	log.Info(pluginDescription+" loaded.",
		zap.String("template", opts.cfg.PathTemplate),
		zap.String("sourceMode", opts.cfg.SourceMode),
		zap.Bool("watchingConfig", watching),
	)

	// client restores the base record directory on exit; it runs last.
	handlers := append(p.handlers(), client)
	err = client.Serve(ctx, handlers...)
	if errors.Is(err, context.Canceled) {
		log.Info("shutting down")
		return nil
	}
	return err
}
