package camera

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Track is a recorded camera path, one keyframe per sampled step
type Track struct {
	Version   string     `yaml:"version"`
	FPS       int        `yaml:"fps"`
	Duration  float64    `yaml:"duration"`
	Keyframes []Keyframe `yaml:"keyframes"`
}

// Keyframe is one recorded camera pose with the label showing at that moment
type Keyframe struct {
	Time      float64   `yaml:"time"`            // Time offset in seconds
	Transform Transform `yaml:"transform"`       // Camera at that time
	Label     string    `yaml:"label,omitempty"` // Focus label shown at that time
}

// Add appends a keyframe. A run of identical keyframes is collapsed to its
// first and last entry so holds still sample correctly.
func (t *Track) Add(kf Keyframe) {
	if n := len(t.Keyframes); n >= 2 && sameFrame(t.Keyframes[n-1], kf) && sameFrame(t.Keyframes[n-2], kf) {
		t.Keyframes[n-1].Time = kf.Time
	} else {
		t.Keyframes = append(t.Keyframes, kf)
	}
	if kf.Time > t.Duration {
		t.Duration = kf.Time
	}
}

func sameFrame(a, b Keyframe) bool {
	return a.Transform == b.Transform && a.Label == b.Label
}

// Sample returns the camera at time at, interpolating linearly between keyframes
func (t *Track) Sample(at float64) Transform {
	kfs := t.Keyframes
	if len(kfs) == 0 {
		return Resting
	}

	if at <= kfs[0].Time {
		return kfs[0].Transform
	}
	if at >= kfs[len(kfs)-1].Time {
		return kfs[len(kfs)-1].Transform
	}

	for i := 0; i < len(kfs)-1; i++ {
		prev, next := kfs[i], kfs[i+1]
		if at >= prev.Time && at < next.Time {
			delta := next.Time - prev.Time
			if delta <= 0 {
				return next.Transform
			}
			f := (at - prev.Time) / delta
			return Transform{
				X:    Lerp(prev.Transform.X, next.Transform.X, f),
				Y:    Lerp(prev.Transform.Y, next.Transform.Y, f),
				Zoom: Lerp(prev.Transform.Zoom, next.Transform.Zoom, f),
			}
		}
	}

	return kfs[len(kfs)-1].Transform
}

// Decimate keeps one keyframe per step seconds plus the final one
func (t *Track) Decimate(step float64) *Track {
	out := &Track{Version: t.Version, FPS: t.FPS, Duration: t.Duration}
	if step <= 0 || len(t.Keyframes) == 0 {
		out.Keyframes = append(out.Keyframes, t.Keyframes...)
		return out
	}

	next := t.Keyframes[0].Time
	for _, kf := range t.Keyframes {
		if kf.Time >= next {
			out.Keyframes = append(out.Keyframes, kf)
			next = kf.Time + step
		}
	}
	last := t.Keyframes[len(t.Keyframes)-1]
	if out.Keyframes[len(out.Keyframes)-1].Time != last.Time {
		out.Keyframes = append(out.Keyframes, last)
	}
	return out
}

// WriteTrack writes a camera track to a YAML file
func WriteTrack(track *Track, path string) error {
	data, err := yaml.Marshal(track)
	if err != nil {
		return fmt.Errorf("marshal track: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// ReadTrack reads a camera track from a YAML file
func ReadTrack(path string) (*Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var track Track
	if err := yaml.Unmarshal(data, &track); err != nil {
		return nil, fmt.Errorf("parse track %s: %w", path, err)
	}

	return &track, nil
}
