package playback

import (
	"log"
	"sync"

	"github.com/ivlev/roundreplay/internal/director"
	"github.com/ivlev/roundreplay/internal/narration"
)

// Options configures a Player
type Options struct {
	Director   *director.Director
	LabelWidth int
	Logger     *log.Logger
}

// Player owns the live timeline of one playback session. Building a new
// timeline detaches the previous one before anything else happens, so a
// superseded timeline never writes to the surface again.
type Player struct {
	mu         sync.Mutex
	surface    Surface
	driver     Driver
	director   *director.Director
	labelWidth int
	logger     *log.Logger

	live   *Scheduler
	builds int
}

// NewPlayer creates a Player writing to surface and clocked by driver
func NewPlayer(surface Surface, driver Driver, opts Options) *Player {
	d := opts.Director
	if d == nil {
		d = director.NewDirector()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if d.Logger == nil {
		d.Logger = logger
	}
	return &Player{
		surface:    surface,
		driver:     driver,
		director:   d,
		labelWidth: opts.LabelWidth,
		logger:     logger,
	}
}

// BuildTimeline cancels the live timeline, if any, and replaces it with one
// built from moments and snapshots. It never fails.
func (p *Player) BuildTimeline(moments []narration.Moment, snapshots []narration.Snapshot) *Scheduler {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.live != nil {
		p.live.Detach()
		p.logger.Printf("[*] Previous timeline cancelled (build #%d)", p.builds)
	}

	tl := p.director.Build(moments, snapshots)
	p.live = NewScheduler(tl, p.surface, p.driver, p.labelWidth, p.logger)
	p.builds++

	p.logger.Printf("[*] Timeline #%d: %d moments, %d snapshots, %.2fs",
		p.builds, tl.MomentCount(), len(tl.Snapshots), tl.Duration())

	return p.live
}

// Live returns the current timeline handle, or nil before the first build
func (p *Player) Live() *Scheduler {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live
}

// Play starts or resumes the live timeline
func (p *Player) Play() {
	if s := p.Live(); s != nil {
		s.Play()
	}
}

// Pause freezes the live timeline
func (p *Player) Pause() {
	if s := p.Live(); s != nil {
		s.Pause()
	}
}

// Stop resets the live timeline and the shared camera
func (p *Player) Stop() {
	if s := p.Live(); s != nil {
		s.Stop()
	}
}

// SeekToMoment jumps the live timeline to moment i (clamped)
func (p *Player) SeekToMoment(i int) {
	if s := p.Live(); s != nil {
		s.SeekToMoment(i)
	}
}

// Toggle pauses a playing timeline and plays otherwise
func (p *Player) Toggle() {
	s := p.Live()
	if s == nil {
		return
	}
	if s.IsPlaying() {
		s.Pause()
	} else {
		s.Play()
	}
}

// Cursor reports the live position; an idle cursor before the first build
func (p *Player) Cursor() Cursor {
	if s := p.Live(); s != nil {
		return s.Cursor()
	}
	return Cursor{MomentIndex: -1, State: Idle}
}

// CurrentMomentIndex is -1 when idle, completed or nothing is built
func (p *Player) CurrentMomentIndex() int {
	return p.Cursor().MomentIndex
}

// IsPlaying reports whether the live timeline is running
func (p *Player) IsPlaying() bool {
	return p.Cursor().Playing
}

// Close detaches the live timeline, as when the owning view goes away
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.live != nil {
		p.live.Detach()
		p.live = nil
	}
}
