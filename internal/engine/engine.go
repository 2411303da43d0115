package engine

import (
	"context"
	"fmt"
	"image"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/ivlev/roundreplay/internal/camera"
	"github.com/ivlev/roundreplay/internal/config"
	"github.com/ivlev/roundreplay/internal/director"
	"github.com/ivlev/roundreplay/internal/driver"
	"github.com/ivlev/roundreplay/internal/narration"
	"github.com/ivlev/roundreplay/internal/playback"
	"github.com/ivlev/roundreplay/internal/renderer"
	"github.com/ivlev/roundreplay/internal/surface"
	"github.com/ivlev/roundreplay/internal/system"
	"github.com/ivlev/roundreplay/internal/video"
)

// Project runs one narration script in one of the output modes
type Project struct {
	Config  *config.Config
	Encoder video.VideoEncoder
	Logger  *log.Logger

	script *narration.Script
}

func NewProject(cfg *config.Config, ve video.VideoEncoder, logger *log.Logger) *Project {
	if logger == nil {
		logger = log.Default()
	}
	return &Project{
		Config:  cfg,
		Encoder: ve,
		Logger:  logger,
	}
}

// Report summarises an export run
type Report struct {
	Moments   int
	Duration  float64
	Frames    int
	Keyframes int
	Wall      time.Duration
	TrackPath string
	VideoPath string
	Stats     system.Stats
}

// LoadScript reads the configured script. A directory input resolves to
// the newest script inside it.
func (p *Project) LoadScript() (*narration.Script, error) {
	path := p.Config.InputPath
	if path == "" {
		return nil, fmt.Errorf("no input script given")
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("input not found: %w", err)
	}
	if fi.IsDir() {
		path, err = narration.FindLatestScript(path)
		if err != nil {
			return nil, err
		}
		p.Logger.Printf("[*] Using latest script: %s", path)
	}

	script, err := narration.ReadScript(path)
	if err != nil {
		return nil, err
	}
	p.script = script
	p.Config.InputPath = path

	p.Logger.Printf("[*] Script: %s | Moments: %d | Snapshots: %d", filepath.Base(path), len(script.Moments), len(script.Snapshots))
	return script, nil
}

// Script returns the loaded script, or nil before LoadScript
func (p *Project) Script() *narration.Script {
	return p.script
}

// Director builds timelines with the configured timings
func (p *Project) Director() *director.Director {
	d := director.NewDirector()
	if p.Config.PanDuration > 0 {
		d.PanDuration = p.Config.PanDuration
	}
	if p.Config.HoldDuration > 0 {
		d.HoldDuration = p.Config.HoldDuration
	}
	if p.Config.ResetDuration > 0 {
		d.ResetDuration = p.Config.ResetDuration
	}
	if p.Config.MinZoom > 0 {
		d.MinZoom = p.Config.MinZoom
	}
	d.Logger = p.Logger
	return d
}

// NewPlayer creates a player for the project's timings
func (p *Project) NewPlayer(s playback.Surface, drv playback.Driver) *playback.Player {
	return playback.NewPlayer(s, drv, playback.Options{
		Director:   p.Director(),
		LabelWidth: p.Config.LabelWidth,
		Logger:     p.Logger,
	})
}

// Export plays the script to completion on a stepped clock, records the
// camera path to a YAML track and, when OutputVideo is set, renders it
// over the map image.
func (p *Project) Export(ctx context.Context) (*Report, error) {
	if p.script == nil {
		if _, err := p.LoadScript(); err != nil {
			return nil, err
		}
	}
	startTime := time.Now()

	fps := p.Config.FPS
	if fps <= 0 {
		fps = 60
	}
	dt := 1 / float64(fps)

	frame := driver.NewFrame()
	store := surface.NewStore()
	rec := newTrackRecorder(fps)
	player := p.NewPlayer(playback.Fanout(store, rec), frame)

	h := player.BuildTimeline(p.script.Moments, p.script.Snapshots)
	total := h.Timeline().Duration()
	maxFrames := int(math.Ceil(total*float64(fps))) + 2

	fmt.Println("--- [PROJECT: ROUND REPLAY] ---")
	fmt.Printf("[*] Moments: %d | Duration: %.2fs | %d FPS\n", h.Timeline().MomentCount(), total, fps)
	fmt.Println("-------------------------------")

	player.Play()
	frames := 0
	for frame.Active() > 0 && frames < maxFrames {
		if err := ctx.Err(); err != nil {
			player.Close()
			return nil, err
		}
		frames++
		rec.now = float64(frames) * dt
		frame.Advance(dt)
	}
	if frame.Active() > 0 {
		player.Close()
		return nil, fmt.Errorf("playback did not complete within %d frames", maxFrames)
	}

	track := rec.track
	if p.Config.KeyframeStep > 0 {
		track = track.Decimate(p.Config.KeyframeStep)
	}

	trackPath := p.Config.OutputTrack
	if trackPath == "" {
		// Kept out of the script directory so FindLatestScript never picks it
		trackPath = narration.GenerateScriptPath(filepath.Join(filepath.Dir(p.Config.InputPath), "tracks"), "track")
	}
	if err := os.MkdirAll(filepath.Dir(trackPath), 0755); err != nil {
		return nil, fmt.Errorf("create track directory: %w", err)
	}
	if err := camera.WriteTrack(track, trackPath); err != nil {
		return nil, fmt.Errorf("write track: %w", err)
	}
	fmt.Printf("[+++] Camera track saved: %s (%d keyframes)\n", trackPath, len(track.Keyframes))

	report := &Report{
		Moments:   h.Timeline().MomentCount(),
		Duration:  total,
		Frames:    frames,
		Keyframes: len(track.Keyframes),
		TrackPath: trackPath,
	}

	if p.Config.OutputVideo != "" {
		if err := p.encodeVideo(ctx, track, total); err != nil {
			return nil, err
		}
		report.VideoPath = p.Config.OutputVideo
		fmt.Printf("[+++] Video saved: %s\n", p.Config.OutputVideo)
	}

	report.Wall = time.Since(startTime)
	if st, err := system.ProcessStats(); err == nil {
		report.Stats = st
	}

	if p.Config.ShowStats {
		p.printReport(report)
	}
	return report, nil
}

func (p *Project) encodeVideo(ctx context.Context, track *camera.Track, duration float64) error {
	if p.Encoder == nil {
		return fmt.Errorf("no video encoder configured")
	}

	var img image.Image
	if p.Config.MapImage != "" {
		path, err := system.FindLatestImage(p.Config.MapImage)
		if err != nil {
			return fmt.Errorf("map image: %w", err)
		}
		img, err = video.LoadMap(path)
		if err != nil {
			return err
		}
	} else {
		img = video.BlankMap(1024)
	}

	params := config.SegmentParams{
		Width:    p.Config.Width,
		Height:   p.Config.Height,
		FPS:      p.Config.FPS,
		Duration: duration,
		Filter:   renderer.GenerateZoomPanFilter(track, p.Config.Width, p.Config.Height, p.Config.FPS),
	}

	fmt.Printf("[*] Encoding %dx%d with %s...\n", params.Width, params.Height, p.Config.VideoEncoder)
	if err := p.Encoder.Encode(ctx, img, p.Config.OutputVideo, params, p.Config.VideoEncoder, p.Config.Quality); err != nil {
		return fmt.Errorf("encode video: %w", err)
	}
	return nil
}

func (p *Project) printReport(r *Report) {
	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Moments: %d\n"+
			"Timeline: %.2fs (%d frames)\n"+
			"Keyframes: %d\n"+
			"Total Time: %.2fs\n"+
			"Process: %s\n"+
			"----------------------------\n",
		p.Config.BuildVersion, r.Moments, r.Duration, r.Frames, r.Keyframes, r.Wall.Seconds(), r.Stats,
	)
	fmt.Print(report)

	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Moments: %d | Timeline: %.2fs | Frames: %d | Total: %.2fs | RSS: %d\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.InputPath),
		r.Moments,
		r.Duration,
		r.Frames,
		r.Wall.Seconds(),
		r.Stats.RSSBytes,
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		p.Logger.Printf("[!] Failed to write benchmark.log: %v", err)
	}
}
