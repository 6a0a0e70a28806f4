package obs

import (
	"context"

	"github.com/andreykaipov/goobs/api/events"

	"github.com/hrko/obs-dynamic-path/internal/host"
)

const (
	outputStarting = "OBS_WEBSOCKET_OUTPUT_STARTING"
	outputStarted  = "OBS_WEBSOCKET_OUTPUT_STARTED"
	outputStopping = "OBS_WEBSOCKET_OUTPUT_STOPPING"
	outputStopped  = "OBS_WEBSOCKET_OUTPUT_STOPPED"
)

// MapEvent translates an obs-websocket event into the frontend event the
// native plugin API would have delivered.
func MapEvent(event any) host.FrontendEvent {
	switch e := event.(type) {
	case *events.RecordStateChanged:
		switch e.OutputState {
		case outputStarting:
			return host.EventRecordingStarting
		case outputStarted:
			return host.EventRecordingStarted
		case outputStopping:
			return host.EventRecordingStopping
		case outputStopped:
			return host.EventRecordingStopped
		}
	case *events.CurrentProgramSceneChanged:
		return host.EventSceneChanged
	case *events.ExitStarted:
		return host.EventExit
	}
	return host.EventUnknown
}

// Dispatch delivers event to every handler in order. Unknown events are
// dropped.
func Dispatch(ctx context.Context, event any, handlers []host.EventHandler) host.FrontendEvent {
	ev := MapEvent(event)
	if ev == host.EventUnknown {
		return ev
	}
	for _, h := range handlers {
		h.HandleFrontendEvent(ctx, ev)
	}
	return ev
}
