package newsletter

import (
	"context"

	"newsletter-feed/internal/domain/entity"
)

// User-facing reasons for the unavailable state. They never include
// upstream diagnostics.
const (
	ReasonNoNewsletters = "No newsletters found"
	ReasonUnavailable   = "Unable to load newsletter"
)

// Status is the kind of thing the display shows.
type Status int

const (
	StatusLoading Status = iota + 1
	StatusUnavailable
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusUnavailable:
		return "unavailable"
	case StatusReady:
		return "ready"
	default:
		return "unknown"
	}
}

// DisplayState is the input of a Renderer.
type DisplayState struct {
	Status     Status
	Newsletter *entity.Newsletter
	Reason     string
}

// Loading is shown while a resolution is in flight.
func Loading() DisplayState {
	return DisplayState{Status: StatusLoading}
}

// Unavailable carries a human-readable reason.
func Unavailable(reason string) DisplayState {
	return DisplayState{Status: StatusUnavailable, Reason: reason}
}

// Ready carries the record to display.
func Ready(n *entity.Newsletter) DisplayState {
	return DisplayState{Status: StatusReady, Newsletter: n}
}

// Fragment is rendered markup that replaces a container's content.
type Fragment string

// Renderer turns a DisplayState into a Fragment. Implementations must be
// deterministic and free of side effects.
type Renderer interface {
	Render(state DisplayState) Fragment
}

// Container is the single render target. Replace swaps its whole content.
type Container interface {
	Replace(ctx context.Context, fragment Fragment) error
}
