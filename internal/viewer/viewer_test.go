package viewer

import (
	"io"
	"log"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ivlev/roundreplay/internal/camera"
	"github.com/ivlev/roundreplay/internal/driver"
	"github.com/ivlev/roundreplay/internal/narration"
	"github.com/ivlev/roundreplay/internal/playback"
	"github.com/ivlev/roundreplay/internal/surface"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name   string
		cam    camera.Transform
		x, y   float64
		wx, wy float32
	}{
		{"resting centre", camera.Resting, 0.5, 0.5, 640, 360},
		{"resting corner", camera.Resting, 0, 0, 640 - 360, 0},
		{"zoomed focus is centred", camera.Transform{X: 0.2, Y: 0.3, Zoom: 2}, 0.2, 0.3, 640, 360},
		{"zoomed offset", camera.Transform{X: 0.5, Y: 0.5, Zoom: 2}, 0.6, 0.5, 640 + 144, 360},
	}

	for _, tt := range tests {
		x, y := project(tt.cam, tt.x, tt.y, 1280, 720)
		if x != tt.wx || y != tt.wy {
			t.Errorf("%s: expected (%.1f, %.1f), got (%.1f, %.1f)", tt.name, tt.wx, tt.wy, x, y)
		}
	}
}

func TestSeekTarget(t *testing.T) {
	tests := []struct {
		current, delta, count, want int
	}{
		{-1, 1, 3, 0},
		{-1, -1, 3, 2},
		{0, -1, 3, 0},
		{1, 1, 3, 2},
		{2, 1, 3, 2},
		{0, 1, 0, 0},
	}
	for _, tt := range tests {
		if got := seekTarget(tt.current, tt.delta, tt.count); got != tt.want {
			t.Errorf("seekTarget(%d, %d, %d) = %d, want %d", tt.current, tt.delta, tt.count, got, tt.want)
		}
	}
}

func TestPlayerColor(t *testing.T) {
	if playerColor(narration.PlayerPosition{Side: narration.SideAttack, IsAlive: true}) != attackCol {
		t.Error("Expected attack colour")
	}
	if playerColor(narration.PlayerPosition{Side: narration.SideDefense, IsAlive: true}) != defenseCol {
		t.Error("Expected defense colour")
	}
	if playerColor(narration.PlayerPosition{Side: narration.SideAttack}) != deadCol {
		t.Error("Expected dead colour")
	}
}

func TestUpdateStepsPlaybackAndKeys(t *testing.T) {
	quiet := log.New(io.Discard, "", 0)
	store := surface.NewStore()
	frame := driver.NewFrame()
	player := playback.NewPlayer(store, frame, playback.Options{Logger: quiet})
	player.BuildTimeline([]narration.Moment{
		{Focus: narration.Point{X: 0.3, Y: 0.3}, Zoom: 2, Narration: "Entry"},
		{Focus: narration.Point{X: 0.7, Y: 0.7}, Zoom: 2, Narration: "Plant"},
	}, nil)

	g := New(Config{Store: store, Player: player, Frame: frame, TPS: 10})

	keys := map[ebiten.Key]bool{}
	g.pressed = func(k ebiten.Key) bool { return keys[k] }

	keys[ebiten.KeySpace] = true
	g.Update()
	if !player.IsPlaying() {
		t.Fatal("Space should start playback")
	}
	if c := player.Cursor(); c.Elapsed < 0.099 || c.Elapsed > 0.101 {
		t.Errorf("Expected one 0.1s step, got %f", c.Elapsed)
	}

	// Held key does not toggle again
	g.Update()
	if !player.IsPlaying() {
		t.Error("Holding space must not pause")
	}

	keys[ebiten.KeySpace] = false
	keys[ebiten.KeyArrowRight] = true
	g.Update()
	if player.CurrentMomentIndex() != 1 {
		t.Errorf("Right arrow should seek to moment 1, got %d", player.CurrentMomentIndex())
	}

	keys[ebiten.KeyArrowRight] = false
	keys[ebiten.KeyS] = true
	g.Update()
	if player.CurrentMomentIndex() != -1 || store.Snapshot().Camera != camera.Resting {
		t.Error("S should stop and reset the camera")
	}

	keys[ebiten.KeyS] = false
	keys[ebiten.KeyH] = true
	g.Update()
	if g.showHUD {
		t.Error("H should hide the HUD")
	}
}
