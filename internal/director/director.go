package director

import (
	"log"
	"math"

	"github.com/ivlev/roundreplay/internal/camera"
	"github.com/ivlev/roundreplay/internal/narration"
)

// Director turns narrated moments into a fixed-pace camera timeline
type Director struct {
	PanDuration   float64 // Camera travel time into each moment (seconds)
	HoldDuration  float64 // Time the camera rests on each moment (seconds)
	ResetDuration float64 // Travel back to the resting view at the end
	MinZoom       float64 // Zoom values <= 0 are clamped up to this
	Logger        *log.Logger
}

// NewDirector creates a new Director with default settings
func NewDirector() *Director {
	return &Director{
		PanDuration:   1.2,
		HoldDuration:  3.0,
		ResetDuration: 1.2,
		MinZoom:       0.1,
	}
}

// Build normalizes the moments and lays out one segment per moment plus a
// trailing reset segment. An empty moment list yields an empty timeline.
// Snapshots pair with moments by position; a shorter list is allowed.
func (d *Director) Build(moments []narration.Moment, snapshots []narration.Snapshot) *Timeline {
	tl := &Timeline{
		PanDuration:   nonNegative(d.PanDuration),
		HoldDuration:  nonNegative(d.HoldDuration),
		ResetDuration: nonNegative(d.ResetDuration),
		Snapshots:     append([]narration.Snapshot(nil), snapshots...),
	}

	if len(moments) == 0 {
		return tl
	}

	tl.Moments = d.normalize(moments)

	slot := tl.PanDuration + tl.HoldDuration
	from := camera.Resting
	for i, m := range tl.Moments {
		to := camera.Transform{X: m.Focus.X, Y: m.Focus.Y, Zoom: m.Zoom}
		tl.Segments = append(tl.Segments, Segment{
			Start:        float64(i) * slot,
			PanDuration:  tl.PanDuration,
			HoldDuration: tl.HoldDuration,
			From:         from,
			To:           to,
			MomentIndex:  i,
		})
		from = to
	}

	tl.Segments = append(tl.Segments, Segment{
		Start:       float64(len(tl.Moments)) * slot,
		PanDuration: tl.ResetDuration,
		From:        from,
		To:          camera.Resting,
		MomentIndex: ResetIndex,
	})

	return tl
}

// normalize copies the moments, re-deriving indices from position and
// clamping zoom. Focus coordinates pass through untouched.
func (d *Director) normalize(moments []narration.Moment) []narration.Moment {
	minZoom := d.MinZoom
	if minZoom <= 0 {
		minZoom = 0.1
	}

	out := make([]narration.Moment, len(moments))
	reindexed := false
	for i, m := range moments {
		if m.Index != i {
			reindexed = true
			m.Index = i
		}
		if m.Zoom <= 0 || math.IsNaN(m.Zoom) {
			d.logf("[!] Moment %d: zoom %.3f clamped to %.3f", i, m.Zoom, minZoom)
			m.Zoom = minZoom
		}
		if m.HighlightPlayers == nil {
			m.HighlightPlayers = []string{}
		} else {
			m.HighlightPlayers = append([]string(nil), m.HighlightPlayers...)
		}
		out[i] = m
	}

	if reindexed {
		d.logf("[!] Moment indices were not contiguous from 0, re-derived from order")
	}

	return out
}

func (d *Director) logf(format string, args ...any) {
	if d.Logger != nil {
		d.Logger.Printf(format, args...)
	}
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
