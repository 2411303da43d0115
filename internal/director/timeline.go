package director

import (
	"github.com/ivlev/roundreplay/internal/camera"
	"github.com/ivlev/roundreplay/internal/narration"
)

// ResetIndex marks the trailing segment that returns the camera to rest
const ResetIndex = -1

// Segment is one timed unit of playback: a pan phase followed by a hold
type Segment struct {
	Start        float64
	PanDuration  float64
	HoldDuration float64
	From         camera.Transform
	To           camera.Transform
	MomentIndex  int
}

// Duration is the pan plus hold length of the segment
func (s Segment) Duration() float64 {
	return s.PanDuration + s.HoldDuration
}

// End is the timeline offset where the segment finishes
func (s Segment) End() float64 {
	return s.Start + s.Duration()
}

// IsReset reports whether this is the trailing reset segment
func (s Segment) IsReset() bool {
	return s.MomentIndex == ResetIndex
}

// TransformAt returns the camera local seconds into the segment. The
// transform eases over the pan phase and is pinned to To afterwards.
func (s Segment) TransformAt(local float64) camera.Transform {
	return camera.Interpolate(s.From, s.To, local, s.PanDuration)
}

// Timeline is an immutable, ordered list of segments built from one moment list
type Timeline struct {
	Moments       []narration.Moment
	Snapshots     []narration.Snapshot
	Segments      []Segment
	PanDuration   float64
	HoldDuration  float64
	ResetDuration float64
}

// MomentCount is the number of narrated moments (reset segment excluded)
func (t *Timeline) MomentCount() int {
	return len(t.Moments)
}

// Empty reports whether the timeline has nothing to play
func (t *Timeline) Empty() bool {
	return len(t.Segments) == 0
}

// Slot is the length of one moment: pan plus hold
func (t *Timeline) Slot() float64 {
	return t.PanDuration + t.HoldDuration
}

// Duration is N × (pan + hold) + reset, or 0 for an empty timeline
func (t *Timeline) Duration() float64 {
	if t.Empty() {
		return 0
	}
	return float64(t.MomentCount())*t.Slot() + t.ResetDuration
}

// MomentStart is the timeline offset where moment i begins
func (t *Timeline) MomentStart(i int) float64 {
	return float64(i) * t.Slot()
}

// SegmentAt returns the index of the segment running at elapsed. Times past
// the end map to the reset segment; ok is false for an empty timeline.
func (t *Timeline) SegmentAt(elapsed float64) (int, bool) {
	if t.Empty() {
		return 0, false
	}
	for i := len(t.Segments) - 1; i > 0; i-- {
		if elapsed >= t.Segments[i].Start {
			return i, true
		}
	}
	return 0, true
}

// Snapshot returns the snapshot paired with moment i, if there is one
func (t *Timeline) Snapshot(i int) (narration.Snapshot, bool) {
	if i < 0 || i >= len(t.Snapshots) {
		return narration.Snapshot{}, false
	}
	return t.Snapshots[i], true
}
