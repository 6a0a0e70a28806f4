// Package obs connects the plugin to OBS Studio through obs-websocket v5.
package obs

import (
	"context"
	"sync"

	"github.com/andreykaipov/goobs"
	"github.com/andreykaipov/goobs/api/requests/config"
	"github.com/andreykaipov/goobs/api/requests/inputs"
	"github.com/andreykaipov/goobs/api/requests/scenes"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hrko/obs-dynamic-path/internal/host"
)

// recordDirectory is the profile setting OBS derives the recording output path
// from.
type recordDirectory interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, dir string) error
}

type Client struct {
	ws     *goobs.Client
	recDir recordDirectory
	log    *zap.Logger

	mu      sync.Mutex
	baseDir string
	rewrote bool
}

func Connect(address, password string, log *zap.Logger) (*Client, error) {
	ws, err := goobs.New(address, goobs.WithPassword(password))
	if err != nil {
		return nil, errors.Wrapf(err, "connect to obs-websocket at %s", address)
	}
	version, err := ws.General.GetVersion()
	if err != nil {
		ws.Disconnect()
		return nil, errors.Wrap(err, "get obs version")
	}
	c := newClient(ws, wsRecordDirectory{ws: ws}, log)
	c.log.Info("connected to OBS",
		zap.String("address", address),
		zap.String("obsVersion", version.ObsVersion),
		zap.String("websocketVersion", version.ObsWebSocketVersion),
	)
	return c, nil
}

func newClient(ws *goobs.Client, recDir recordDirectory, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		ws:     ws,
		recDir: recDir,
		log:    log,
	}
}

// SetBaseDir fixes the directory recordings are expanded from. Without it the
// record directory OBS reports on first use becomes the base.
func (c *Client) SetBaseDir(dir string) {
	c.mu.Lock()
	c.baseDir = dir
	c.mu.Unlock()
}

func (c *Client) BaseDir(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.baseDir != "" {
		return c.baseDir, nil
	}
	dir, err := c.recDir.Get(ctx)
	if err != nil {
		return "", err
	}
	c.baseDir = dir
	return dir, nil
}

func (c *Client) RecordingOutput(ctx context.Context) (host.Output, error) {
	if c.recDir == nil {
		return nil, nil
	}
	base, err := c.BaseDir(ctx)
	if err != nil {
		return nil, err
	}
	if base == "" {
		return nil, nil
	}
	return &recordOutput{client: c, path: base}, nil
}

// RestoreBaseDir points OBS back at the base directory after a rewrite. It runs
// when OBS exits or the plugin disconnects; between recordings OBS keeps the
// primed directory.
func (c *Client) RestoreBaseDir(ctx context.Context) error {
	c.mu.Lock()
	base, rewrote := c.baseDir, c.rewrote
	c.mu.Unlock()
	if !rewrote || base == "" {
		return nil
	}
	if err := c.recDir.Set(ctx, base); err != nil {
		return err
	}
	c.mu.Lock()
	c.rewrote = false
	c.mu.Unlock()
	c.log.Debug("record directory restored", zap.String("dir", base))
	return nil
}

func (c *Client) HandleFrontendEvent(ctx context.Context, event host.FrontendEvent) {
	switch event {
	case host.EventExit:
		if err := c.RestoreBaseDir(ctx); err != nil {
			c.log.Error("failed to restore record directory", zap.Error(err))
		}
	}
}

func (c *Client) ListSources(ctx context.Context) ([]host.Source, error) {
	var sources []host.Source
	inputList, err := c.ws.Inputs.GetInputList(&inputs.GetInputListParams{})
	if err != nil {
		return nil, errors.Wrap(err, "get input list")
	}
	for _, in := range inputList.Inputs {
		sources = append(sources, host.Source{
			Name: in.InputName,
			Kind: in.InputKind,
			Type: host.SourceTypeInput,
		})
	}
	sceneList, err := c.ws.Scenes.GetSceneList(&scenes.GetSceneListParams{})
	if err != nil {
		return nil, errors.Wrap(err, "get scene list")
	}
	for _, sc := range sceneList.Scenes {
		sources = append(sources, host.Source{
			Name: sc.SceneName,
			Kind: "scene",
			Type: host.SourceTypeScene,
		})
	}
	return sources, nil
}

func (c *Client) CurrentSceneName(ctx context.Context) (string, error) {
	resp, err := c.ws.Scenes.GetCurrentProgramScene(&scenes.GetCurrentProgramSceneParams{})
	if err != nil {
		return "", errors.Wrap(err, "get current program scene")
	}
	return resp.CurrentProgramSceneName, nil
}

// Serve delivers host events to handlers until ctx is done or the websocket
// connection closes. Events are handled one at a time on a single goroutine.
func (c *Client) Serve(ctx context.Context, handlers ...host.EventHandler) error {
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		c.ws.Listen(func(event any) {
			if ev := Dispatch(ctx, event, handlers); ev != host.EventUnknown {
				c.log.Debug("frontend event", zap.Stringer("event", ev))
			}
		})
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-closed:
		return errors.New("obs-websocket connection closed")
	}
}

func (c *Client) Close() error {
	if err := c.RestoreBaseDir(context.Background()); err != nil {
		c.log.Warn("failed to restore record directory on close", zap.Error(err))
	}
	return c.ws.Disconnect()
}

type recordOutput struct {
	client   *Client
	path     string
	released bool
}

func (o *recordOutput) Path() string {
	return o.path
}

func (o *recordOutput) SetPath(ctx context.Context, path string) error {
	if o.released {
		return errors.New("recording output already released")
	}
	if err := o.client.recDir.Set(ctx, path); err != nil {
		return err
	}
	o.path = path
	o.client.mu.Lock()
	o.client.rewrote = true
	o.client.mu.Unlock()
	return nil
}

func (o *recordOutput) Release() {
	o.released = true
}

type wsRecordDirectory struct {
	ws *goobs.Client
}

func (d wsRecordDirectory) Get(context.Context) (string, error) {
	resp, err := d.ws.Config.GetRecordDirectory(&config.GetRecordDirectoryParams{})
	if err != nil {
		return "", errors.Wrap(err, "get record directory")
	}
	return resp.RecordDirectory, nil
}

func (d wsRecordDirectory) Set(_ context.Context, dir string) error {
	params := config.NewSetRecordDirectoryParams().WithRecordDirectory(dir)
	if _, err := d.ws.Config.SetRecordDirectory(params); err != nil {
		return errors.Wrapf(err, "set record directory %s", dir)
	}
	return nil
}
