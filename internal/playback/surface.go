package playback

import (
	"github.com/ivlev/roundreplay/internal/narration"
)

// Surface is the shared camera and round state the scheduler writes to.
// While a timeline is playing or paused the scheduler is its only writer.
// Implementations must not call back into the scheduler.
type Surface interface {
	PanTo(x, y, zoom float64)
	ResetCamera()
	SetHighlightedPlayers(ids []string)
	SetFocusLabel(text string)
	SetIsAnimating(flag bool)
	SetPositions(players []narration.PlayerPosition)
}

// Driver supplies frame steps. Start arranges for step to be called once per
// frame with the seconds elapsed since the previous frame, until the returned
// cancel func is called. Start must not invoke step synchronously.
type Driver interface {
	Start(step func(dt float64)) (cancel func())
}

// Fanout mirrors every call to each surface in order
func Fanout(surfaces ...Surface) Surface {
	return fanout(surfaces)
}

type fanout []Surface

func (f fanout) PanTo(x, y, zoom float64) {
	for _, s := range f {
		s.PanTo(x, y, zoom)
	}
}

func (f fanout) ResetCamera() {
	for _, s := range f {
		s.ResetCamera()
	}
}

func (f fanout) SetHighlightedPlayers(ids []string) {
	for _, s := range f {
		s.SetHighlightedPlayers(ids)
	}
}

func (f fanout) SetFocusLabel(text string) {
	for _, s := range f {
		s.SetFocusLabel(text)
	}
}

func (f fanout) SetIsAnimating(flag bool) {
	for _, s := range f {
		s.SetIsAnimating(flag)
	}
}

func (f fanout) SetPositions(players []narration.PlayerPosition) {
	for _, s := range f {
		s.SetPositions(players)
	}
}
