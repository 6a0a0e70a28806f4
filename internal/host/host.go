// Package host describes the narrow slice of the OBS frontend the plugin talks
// to. Everything behind these interfaces belongs to the host.
package host

import "context"

type FrontendEvent int

const (
	EventUnknown FrontendEvent = iota
	EventRecordingStarting
	EventRecordingStarted
	EventRecordingStopping
	EventRecordingStopped
	EventSceneChanged
	EventExit
)

func (e FrontendEvent) String() string {
	switch e {
	case EventRecordingStarting:
		return "RecordingStarting"
	case EventRecordingStarted:
		return "RecordingStarted"
	case EventRecordingStopping:
		return "RecordingStopping"
	case EventRecordingStopped:
		return "RecordingStopped"
	case EventSceneChanged:
		return "SceneChanged"
	case EventExit:
		return "Exit"
	default:
		return "Unknown"
	}
}

// Output is a handle to the host's recording output. Callers must Release it.
type Output interface {
	Path() string
	SetPath(ctx context.Context, path string) error
	Release()
}

type Frontend interface {
	// RecordingOutput returns nil without error when the host has no
	// recording output.
	RecordingOutput(ctx context.Context) (Output, error)
}

type SourceType string

const (
	SourceTypeInput      SourceType = "input"
	SourceTypeScene      SourceType = "scene"
	SourceTypeFilter     SourceType = "filter"
	SourceTypeTransition SourceType = "transition"
)

type Source struct {
	Name string     `json:"name"`
	Kind string     `json:"kind"`
	Type SourceType `json:"type"`
}

type SourceLister interface {
	ListSources(ctx context.Context) ([]Source, error)
}

// EventHandler is implemented by plugin components and invoked by the host
// adapter for each frontend event, one at a time.
type EventHandler interface {
	HandleFrontendEvent(ctx context.Context, event FrontendEvent)
}

type EventHandlerFunc func(ctx context.Context, event FrontendEvent)

func (f EventHandlerFunc) HandleFrontendEvent(ctx context.Context, event FrontendEvent) {
	f(ctx, event)
}

type SceneGetter interface {
	CurrentSceneName(ctx context.Context) (string, error)
}
