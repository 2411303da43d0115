package director

import (
	"bytes"
	"log"
	"math"
	"strings"
	"testing"

	"github.com/ivlev/roundreplay/internal/camera"
	"github.com/ivlev/roundreplay/internal/narration"
)

func roundMoments() []narration.Moment {
	return []narration.Moment{
		{Index: 0, Focus: narration.Point{X: 0.2, Y: 0.3}, Zoom: 2, Narration: "Entry"},
		{Index: 1, Focus: narration.Point{X: 0.5, Y: 0.5}, Zoom: 1.5, Narration: "Trade"},
		{Index: 2, Focus: narration.Point{X: 0.8, Y: 0.7}, Zoom: 3, Narration: "Plant"},
	}
}

func TestBuildSegments(t *testing.T) {
	tl := NewDirector().Build(roundMoments(), nil)

	// 3 moments + reset
	if len(tl.Segments) != 4 {
		t.Fatalf("Expected 4 segments, got %d", len(tl.Segments))
	}

	if tl.Segments[0].From != camera.Resting {
		t.Errorf("First segment should start from Resting, got %+v", tl.Segments[0].From)
	}
	for i := 1; i < 3; i++ {
		if tl.Segments[i].From != tl.Segments[i-1].To {
			t.Errorf("Segment %d should start where %d ended", i, i-1)
		}
		if tl.Segments[i].MomentIndex != i {
			t.Errorf("Segment %d has moment index %d", i, tl.Segments[i].MomentIndex)
		}
	}

	want := camera.Transform{X: 0.8, Y: 0.7, Zoom: 3}
	if tl.Segments[2].To != want {
		t.Errorf("Expected %+v, got %+v", want, tl.Segments[2].To)
	}

	reset := tl.Segments[3]
	if !reset.IsReset() || reset.To != camera.Resting || reset.From != want {
		t.Errorf("Unexpected reset segment: %+v", reset)
	}
	if math.Abs(reset.Start-3*4.2) > 1e-9 {
		t.Errorf("Reset should start at %f, got %f", 3*4.2, reset.Start)
	}
}

func TestDurationFormula(t *testing.T) {
	d := NewDirector()

	for n := 0; n <= 6; n++ {
		moments := make([]narration.Moment, n)
		for i := range moments {
			moments[i] = narration.Moment{Index: i, Zoom: 1}
		}
		tl := d.Build(moments, nil)

		want := float64(n)*4.2 + d.ResetDuration
		if n == 0 {
			want = 0
		}
		if math.Abs(tl.Duration()-want) > 1e-9 {
			t.Errorf("N=%d: expected duration %f, got %f", n, want, tl.Duration())
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	tl := NewDirector().Build(nil, []narration.Snapshot{{}})

	if !tl.Empty() || tl.MomentCount() != 0 {
		t.Errorf("Expected empty timeline, got %d segments", len(tl.Segments))
	}
	if _, ok := tl.SegmentAt(0); ok {
		t.Error("SegmentAt should report false on empty timeline")
	}
}

func TestBuildNormalizes(t *testing.T) {
	var buf bytes.Buffer
	d := NewDirector()
	d.Logger = log.New(&buf, "", 0)

	input := []narration.Moment{
		{Index: 4, Focus: narration.Point{X: 1.4, Y: -0.2}, Zoom: 0},
		{Index: 9, Zoom: -3, HighlightPlayers: []string{"p2"}},
		{Index: 2, Zoom: math.NaN()},
	}
	tl := d.Build(input, nil)

	for i, m := range tl.Moments {
		if m.Index != i {
			t.Errorf("Moment %d: index not re-derived, got %d", i, m.Index)
		}
		if m.Zoom != d.MinZoom {
			t.Errorf("Moment %d: expected zoom clamped to %f, got %f", i, d.MinZoom, m.Zoom)
		}
		if m.HighlightPlayers == nil {
			t.Errorf("Moment %d: highlight must not be nil", i)
		}
	}

	// Focus is passed through unclamped
	if tl.Segments[0].To.X != 1.4 || tl.Segments[0].To.Y != -0.2 {
		t.Errorf("Focus should pass through, got %+v", tl.Segments[0].To)
	}

	// Input left untouched
	if input[0].Index != 4 || input[0].Zoom != 0 {
		t.Errorf("Build must not mutate input: %+v", input[0])
	}

	if !strings.Contains(buf.String(), "re-derived") {
		t.Errorf("Expected re-index warning, got log %q", buf.String())
	}
}

func TestSegmentAt(t *testing.T) {
	tl := NewDirector().Build(roundMoments(), nil)

	tests := []struct {
		elapsed float64
		want    int
	}{
		{0, 0},
		{4.1, 0},
		{4.2, 1},
		{9, 2},
		{12.7, 3},
		{100, 3},
	}
	for _, tt := range tests {
		got, ok := tl.SegmentAt(tt.elapsed)
		if !ok || got != tt.want {
			t.Errorf("SegmentAt(%.1f) = %d, want %d", tt.elapsed, got, tt.want)
		}
	}
}

func TestSegmentTransformAtPinsDuringHold(t *testing.T) {
	tl := NewDirector().Build(roundMoments(), nil)
	seg := tl.Segments[1]

	for _, local := range []float64{1.2, 2, 4.19} {
		if got := seg.TransformAt(local); got != seg.To {
			t.Errorf("At %.2f expected pinned %+v, got %+v", local, seg.To, got)
		}
	}
	if got := seg.TransformAt(0); got != seg.From {
		t.Errorf("At 0 expected %+v, got %+v", seg.From, got)
	}
}

func TestSnapshotMismatchTolerated(t *testing.T) {
	snaps := []narration.Snapshot{{Players: []narration.PlayerSnapshotEntry{{PlayerID: "p1"}}}}
	tl := NewDirector().Build(roundMoments(), snaps)

	if _, ok := tl.Snapshot(0); !ok {
		t.Error("Expected snapshot at 0")
	}
	if _, ok := tl.Snapshot(2); ok {
		t.Error("Expected no snapshot at 2")
	}
	if _, ok := tl.Snapshot(-1); ok {
		t.Error("Expected no snapshot at -1")
	}
}
