package recordpath

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/hrko/obs-dynamic-path/internal/action/sourceselect"
	"github.com/hrko/obs-dynamic-path/internal/host"
	"github.com/hrko/obs-dynamic-path/internal/pathtemplate"
	"github.com/hrko/obs-dynamic-path/internal/settings"
)

type fakeOutput struct {
	path     string
	released int
	setErr   error
}

func (o *fakeOutput) Path() string { return o.path }

func (o *fakeOutput) SetPath(_ context.Context, path string) error {
	if o.setErr != nil {
		return o.setErr
	}
	o.path = path
	return nil
}

func (o *fakeOutput) Release() { o.released++ }

type fakeFrontend struct {
	output *fakeOutput
	calls  int
}

func (f *fakeFrontend) RecordingOutput(context.Context) (host.Output, error) {
	f.calls++
	if f.output == nil {
		return nil, nil
	}
	return f.output, nil
}

type countingExpander struct {
	calls int
	err   error
	fn    func()
}

func (e *countingExpander) Expand(base string) (string, error) {
	e.calls++
	if e.fn != nil {
		e.fn()
	}
	if e.err != nil {
		return "", e.err
	}
	return filepath.Join(base, "expanded"), nil
}

func newExpander(s *settings.Settings) *pathtemplate.Expander {
	e := pathtemplate.NewExpander(s)
	e.Now = func() time.Time { return time.Date(2024, time.March, 7, 9, 30, 0, 0, time.Local) }
	return e
}

func TestRecordingStartingRewritesPath(t *testing.T) {
	base := t.TempDir()
	s := settings.New()
	s.SetSelectedSource("Webcam")
	out := &fakeOutput{path: base}
	r := NewResponder(&fakeFrontend{output: out}, newExpander(s), nil)

	r.HandleFrontendEvent(context.Background(), host.EventRecordingStarting)

	want := filepath.Join(base, "2024-03-07", "Webcam")
	if out.path != want {
		t.Fatalf("expected output path %s, got %s", want, out.path)
	}
	if out.released != 1 {
		t.Fatalf("expected output to be released once, got %d", out.released)
	}
	if r.State() != StateIdle {
		t.Fatalf("expected responder to return to Idle, got %s", r.State())
	}
}

func TestSelectionChangeIsReadFresh(t *testing.T) {
	base := t.TempDir()
	s := settings.New()
	cb := sourceselect.New(s, nil, nil)
	cb.Modified(map[string]string{settings.KeySelectedSource: "Webcam"})

	out := &fakeOutput{path: base}
	r := NewResponder(&fakeFrontend{output: out}, newExpander(s), nil)
	r.HandleFrontendEvent(context.Background(), host.EventRecordingStarting)
	if want := filepath.Join(base, "2024-03-07", "Webcam"); out.path != want {
		t.Fatalf("expected %s, got %s", want, out.path)
	}

	cb.Modified(map[string]string{settings.KeySelectedSource: "Capture Card"})
	out.path = base
	r.HandleFrontendEvent(context.Background(), host.EventRecordingStarting)
	if want := filepath.Join(base, "2024-03-07", "Capture Card"); out.path != want {
		t.Fatalf("expected %s, got %s", want, out.path)
	}
}

func TestNoOutputIsNoop(t *testing.T) {
	base := t.TempDir()
	expander := &countingExpander{}
	frontend := &fakeFrontend{}
	r := NewResponder(frontend, expander, nil)

	r.HandleFrontendEvent(context.Background(), host.EventRecordingStarting)

	if frontend.calls != 1 {
		t.Fatalf("expected one output lookup, got %d", frontend.calls)
	}
	if expander.calls != 0 {
		t.Fatalf("expected no expansion, got %d", expander.calls)
	}
	entries, err := os.ReadDir(base)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no directories to be created, found %d entries", len(entries))
	}
}

func TestOtherEventsAreIgnored(t *testing.T) {
	frontend := &fakeFrontend{output: &fakeOutput{path: "/rec"}}
	r := NewResponder(frontend, &countingExpander{}, nil)

	for _, ev := range []host.FrontendEvent{
		host.EventRecordingStarted,
		host.EventRecordingStopping,
		host.EventRecordingStopped,
		host.EventSceneChanged,
		host.EventExit,
	} {
		r.HandleFrontendEvent(context.Background(), ev)
	}
	if frontend.calls != 0 {
		t.Fatalf("expected no output lookups, got %d", frontend.calls)
	}
}

func TestExpandFailureKeepsPathAndReleases(t *testing.T) {
	out := &fakeOutput{path: "/rec"}
	expander := &countingExpander{err: errors.New("read-only file system")}
	r := NewResponder(&fakeFrontend{output: out}, expander, nil)

	r.HandleFrontendEvent(context.Background(), host.EventRecordingStarting)

	if out.path != "/rec" {
		t.Fatalf("expected path to stay unchanged, got %s", out.path)
	}
	if out.released != 1 {
		t.Fatalf("expected output to be released, got %d", out.released)
	}
	if r.State() != StateIdle {
		t.Fatalf("expected Idle after failure, got %s", r.State())
	}
}

func TestSetPathFailureReleases(t *testing.T) {
	out := &fakeOutput{path: "/rec", setErr: errors.New("websocket closed")}
	r := NewResponder(&fakeFrontend{output: out}, &countingExpander{}, nil)

	r.HandleFrontendEvent(context.Background(), host.EventRecordingStarting)

	if out.released != 1 {
		t.Fatalf("expected output to be released, got %d", out.released)
	}
}

func TestReentrantEventIsDropped(t *testing.T) {
	out := &fakeOutput{path: "/rec"}
	expander := &countingExpander{}
	r := NewResponder(&fakeFrontend{output: out}, expander, nil)
	expander.fn = func() {
		if r.State() != StateRewriting {
			t.Errorf("expected Rewriting during expansion, got %s", r.State())
		}
		r.HandleFrontendEvent(context.Background(), host.EventRecordingStarting)
	}

	r.HandleFrontendEvent(context.Background(), host.EventRecordingStarting)

	if expander.calls != 1 {
		t.Fatalf("expected nested event to be dropped, got %d expansions", expander.calls)
	}
}

func TestPrimeRewritesBeforeRecording(t *testing.T) {
	out := &fakeOutput{path: "/rec"}
	r := NewResponder(&fakeFrontend{output: out}, &countingExpander{}, nil)

	if err := r.Prime(context.Background()); err != nil {
		t.Fatal(err)
	}
	if out.path != filepath.Join("/rec", "expanded") {
		t.Fatalf("unexpected primed path %s", out.path)
	}
	if out.released != 1 {
		t.Fatalf("expected output to be released, got %d", out.released)
	}
}

func TestPrimeReturnsExpandError(t *testing.T) {
	out := &fakeOutput{path: "/rec"}
	r := NewResponder(&fakeFrontend{output: out}, &countingExpander{err: errors.New("read-only file system")}, nil)

	if err := r.Prime(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
	if out.path != "/rec" {
		t.Fatalf("expected path to stay unchanged, got %s", out.path)
	}
}

func TestPrimerActsOnlyOnRecordingStopped(t *testing.T) {
	frontend := &fakeFrontend{output: &fakeOutput{path: "/rec"}}
	expander := &countingExpander{}
	p := NewPrimer(NewResponder(frontend, expander, nil))

	for _, ev := range []host.FrontendEvent{
		host.EventRecordingStarting,
		host.EventRecordingStarted,
		host.EventRecordingStopping,
		host.EventSceneChanged,
		host.EventExit,
	} {
		p.HandleFrontendEvent(context.Background(), ev)
	}
	if expander.calls != 0 {
		t.Fatalf("expected no expansion, got %d", expander.calls)
	}

	p.HandleFrontendEvent(context.Background(), host.EventRecordingStopped)
	if expander.calls != 1 {
		t.Fatalf("expected one expansion on stop, got %d", expander.calls)
	}
}
