package engine

import (
	"github.com/ivlev/roundreplay/internal/camera"
	"github.com/ivlev/roundreplay/internal/narration"
)

// trackRecorder is a surface that writes every camera move into a Track at
// the export clock's current time.
type trackRecorder struct {
	track *camera.Track
	now   float64
	label string
}

func newTrackRecorder(fps int) *trackRecorder {
	r := &trackRecorder{track: &camera.Track{Version: "1.0", FPS: fps}}
	r.track.Add(camera.Keyframe{Time: 0, Transform: camera.Resting})
	return r
}

func (r *trackRecorder) PanTo(x, y, zoom float64) {
	r.track.Add(camera.Keyframe{Time: r.now, Transform: camera.Transform{X: x, Y: y, Zoom: zoom}, Label: r.label})
}

func (r *trackRecorder) ResetCamera() {
	r.track.Add(camera.Keyframe{Time: r.now, Transform: camera.Resting})
}

func (r *trackRecorder) SetFocusLabel(text string) {
	r.label = text
}

func (r *trackRecorder) SetHighlightedPlayers(ids []string)               {}
func (r *trackRecorder) SetIsAnimating(flag bool)                         {}
func (r *trackRecorder) SetPositions(players []narration.PlayerPosition) {}
