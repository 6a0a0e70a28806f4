package recordpath

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hrko/obs-dynamic-path/internal/host"
)

type State int

const (
	StateIdle State = iota
	StateRewriting
)

func (s State) String() string {
	if s == StateRewriting {
		return "Rewriting"
	}
	return "Idle"
}

type PathExpander interface {
	Expand(base string) (string, error)
}

// Responder rewrites the recording output path when a recording is starting.
type Responder struct {
	frontend host.Frontend
	expander PathExpander
	log      *zap.Logger

	mu    sync.Mutex
	state State
}

func NewResponder(frontend host.Frontend, expander PathExpander, log *zap.Logger) *Responder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Responder{
		frontend: frontend,
		expander: expander,
		log:      log,
	}
}

func (r *Responder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Responder) HandleFrontendEvent(ctx context.Context, event host.FrontendEvent) {
	if event != host.EventRecordingStarting {
		return
	}
	if !r.enter() {
		r.log.Warn("recording start event dropped, previous rewrite still running")
		return
	}
	defer r.leave()

	if err := r.rewrite(ctx); err != nil {
		r.log.Error("failed to rewrite recording path", zap.Error(err))
	}
}

// Prime rewrites the output path ahead of the next recording. Hosts that
// resolve the file name before the starting event reaches the plugin only see
// a primed path.
func (r *Responder) Prime(ctx context.Context) error {
	if !r.enter() {
		return errors.New("rewrite already running")
	}
	defer r.leave()
	return r.rewrite(ctx)
}

// Primer primes the output path whenever a recording stops, so the following
// recording starts in the expanded directory.
type Primer struct {
	responder *Responder
}

func NewPrimer(r *Responder) *Primer {
	return &Primer{responder: r}
}

func (p *Primer) HandleFrontendEvent(ctx context.Context, event host.FrontendEvent) {
	if event != host.EventRecordingStopped {
		return
	}
	if err := p.responder.Prime(ctx); err != nil {
		p.responder.log.Error("failed to prime recording path", zap.Error(err))
	}
}

func (r *Responder) enter() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateRewriting {
		return false
	}
	r.state = StateRewriting
	return true
}

func (r *Responder) leave() {
	r.mu.Lock()
	r.state = StateIdle
	r.mu.Unlock()
}

func (r *Responder) rewrite(ctx context.Context) error {
	output, err := r.frontend.RecordingOutput(ctx)
	if err != nil {
		return err
	}
	if output == nil {
		r.log.Debug("no recording output available")
		return nil
	}
	defer output.Release()

	current := output.Path()
	expanded, err := r.expander.Expand(current)
	if err != nil {
		return err
	}
	if err := output.SetPath(ctx, expanded); err != nil {
		return err
	}
	r.log.Info("recording path rewritten",
		zap.String("from", current),
		zap.String("to", expanded),
	)
	return nil
}
