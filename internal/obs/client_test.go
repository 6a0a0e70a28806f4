package obs

import (
	"context"
	"testing"

	"github.com/andreykaipov/goobs/api/events"
	"github.com/pkg/errors"

	"github.com/hrko/obs-dynamic-path/internal/host"
)

type fakeRecordDirectory struct {
	dir    string
	sets   []string
	getErr error
	setErr error
}

func (d *fakeRecordDirectory) Get(context.Context) (string, error) {
	return d.dir, d.getErr
}

func (d *fakeRecordDirectory) Set(_ context.Context, dir string) error {
	if d.setErr != nil {
		return d.setErr
	}
	d.dir = dir
	d.sets = append(d.sets, dir)
	return nil
}

func TestMapEvent(t *testing.T) {
	tests := []struct {
		name  string
		event any
		want  host.FrontendEvent
	}{
		{"starting", &events.RecordStateChanged{OutputState: outputStarting}, host.EventRecordingStarting},
		{"started", &events.RecordStateChanged{OutputState: outputStarted, OutputActive: true}, host.EventRecordingStarted},
		{"stopping", &events.RecordStateChanged{OutputState: outputStopping}, host.EventRecordingStopping},
		{"stopped", &events.RecordStateChanged{OutputState: outputStopped}, host.EventRecordingStopped},
		{"paused", &events.RecordStateChanged{OutputState: "OBS_WEBSOCKET_OUTPUT_PAUSED"}, host.EventUnknown},
		{"scene", &events.CurrentProgramSceneChanged{SceneName: "Gameplay"}, host.EventSceneChanged},
		{"exit", &events.ExitStarted{}, host.EventExit},
		{"stream", &events.StreamStateChanged{OutputState: outputStarting}, host.EventUnknown},
		{"nil", nil, host.EventUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapEvent(tt.event); got != tt.want {
				t.Fatalf("MapEvent() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDispatchPreservesHandlerOrder(t *testing.T) {
	var order []string
	first := host.EventHandlerFunc(func(_ context.Context, ev host.FrontendEvent) {
		order = append(order, "first:"+ev.String())
	})
	second := host.EventHandlerFunc(func(_ context.Context, ev host.FrontendEvent) {
		order = append(order, "second:"+ev.String())
	})
	handlers := []host.EventHandler{first, second}

	Dispatch(context.Background(), &events.RecordStateChanged{OutputState: outputStarting}, handlers)
	Dispatch(context.Background(), &events.InputCreated{}, handlers)

	if len(order) != 2 || order[0] != "first:RecordingStarting" || order[1] != "second:RecordingStarting" {
		t.Fatalf("unexpected dispatch order: %v", order)
	}
}

func TestRecordingOutputRewriteAndRestore(t *testing.T) {
	rec := &fakeRecordDirectory{dir: "/home/me/Videos"}
	c := newClient(nil, rec, nil)
	ctx := context.Background()

	out, err := c.RecordingOutput(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if out.Path() != "/home/me/Videos" {
		t.Fatalf("unexpected base path %s", out.Path())
	}
	if err := out.SetPath(ctx, "/home/me/Videos/2024-03-07/Webcam"); err != nil {
		t.Fatal(err)
	}
	out.Release()

	// A second recording still expands from the base directory.
	out, err = c.RecordingOutput(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if out.Path() != "/home/me/Videos" {
		t.Fatalf("expected base path on second output, got %s", out.Path())
	}
	out.Release()

	c.HandleFrontendEvent(ctx, host.EventRecordingStopped)
	if rec.dir != "/home/me/Videos/2024-03-07/Webcam" {
		t.Fatalf("expected stop to keep the expanded directory, got %s", rec.dir)
	}

	c.HandleFrontendEvent(ctx, host.EventExit)
	if rec.dir != "/home/me/Videos" {
		t.Fatalf("expected record directory to be restored, got %s", rec.dir)
	}
	if len(rec.sets) != 2 {
		t.Fatalf("expected rewrite and restore, got %v", rec.sets)
	}

	c.HandleFrontendEvent(ctx, host.EventExit)
	if len(rec.sets) != 2 {
		t.Fatalf("restore without rewrite should be a no-op, got %v", rec.sets)
	}
}

func TestSetBaseDirOverridesHost(t *testing.T) {
	rec := &fakeRecordDirectory{dir: "/home/me/Videos"}
	c := newClient(nil, rec, nil)
	c.SetBaseDir("/srv/recordings")

	out, err := c.RecordingOutput(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if out.Path() != "/srv/recordings" {
		t.Fatalf("expected configured base, got %s", out.Path())
	}
}

func TestRecordingOutputUnavailable(t *testing.T) {
	c := newClient(nil, &fakeRecordDirectory{}, nil)
	out, err := c.RecordingOutput(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if out != nil {
		t.Fatalf("expected no output for empty record directory, got %+v", out)
	}

	c = newClient(nil, &fakeRecordDirectory{getErr: errors.New("not identified")}, nil)
	if _, err := c.RecordingOutput(context.Background()); err == nil {
		t.Fatal("expected error from record directory lookup")
	}
}

func TestSetPathAfterReleaseFails(t *testing.T) {
	rec := &fakeRecordDirectory{dir: "/rec"}
	c := newClient(nil, rec, nil)
	out, err := c.RecordingOutput(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	out.Release()
	if err := out.SetPath(context.Background(), "/rec/x"); err == nil {
		t.Fatal("expected error after release")
	}
	if len(rec.sets) != 0 {
		t.Fatalf("released output must not touch OBS, got %v", rec.sets)
	}
}
