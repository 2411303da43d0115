package playback

import (
	"github.com/ivlev/roundreplay/internal/director"
	"github.com/ivlev/roundreplay/internal/narration"
)

// Applier pushes the per-moment state (highlights, label, player positions)
// to the surface when playback enters a moment.
type Applier struct {
	timeline   *director.Timeline
	surface    Surface
	labelWidth int
}

// NewApplier creates an Applier. labelWidth <= 0 uses the default width.
func NewApplier(tl *director.Timeline, surface Surface, labelWidth int) *Applier {
	if labelWidth <= 0 {
		labelWidth = narration.DefaultLabelWidth
	}
	return &Applier{timeline: tl, surface: surface, labelWidth: labelWidth}
}

// Apply pushes moment i. Positions are only replaced when a snapshot exists
// for i; otherwise the previous positions stay on the surface.
func (a *Applier) Apply(i int) {
	if i < 0 || i >= a.timeline.MomentCount() {
		return
	}
	m := a.timeline.Moments[i]

	highlight := make([]string, len(m.HighlightPlayers))
	copy(highlight, m.HighlightPlayers)
	a.surface.SetHighlightedPlayers(highlight)

	a.surface.SetFocusLabel(narration.Truncate(m.Narration, a.labelWidth))
	a.surface.SetIsAnimating(true)

	if snap, ok := a.timeline.Snapshot(i); ok {
		a.surface.SetPositions(snap.Positions())
	}
}
