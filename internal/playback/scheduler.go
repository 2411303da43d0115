package playback

import (
	"log"
	"math"
	"sync"

	"github.com/ivlev/roundreplay/internal/director"
)

// State of a scheduler
type State int

const (
	Idle State = iota
	Playing
	Paused
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Cursor is the observable playback position
type Cursor struct {
	Elapsed     float64
	MomentIndex int // -1 when idle or completed
	Playing     bool
	State       State
}

// Scheduler plays one timeline against the surface. Every frame callback
// carries the generation it was armed with; pausing, stopping, completing
// or detaching bumps the generation so callbacks already in flight become
// no-ops.
type Scheduler struct {
	mu       sync.Mutex
	timeline *director.Timeline
	surface  Surface
	driver   Driver
	applier  *Applier
	logger   *log.Logger

	state     State
	elapsed   float64
	current   int
	nextApply int  // next moment natural playback will apply
	segment   int  // segment the camera is in, -1 before the first step
	pinned    bool // camera already sits on the segment target
	animating bool

	gen      uint64
	cancel   func()
	detached bool
}

// NewScheduler creates an idle scheduler for tl
func NewScheduler(tl *director.Timeline, surface Surface, driver Driver, labelWidth int, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		timeline: tl,
		surface:  surface,
		driver:   driver,
		applier:  NewApplier(tl, surface, labelWidth),
		logger:   logger,
		current:  -1,
		segment:  -1,
	}
}

// Timeline returns the timeline being played
func (s *Scheduler) Timeline() *director.Timeline {
	return s.timeline
}

// Play starts from the beginning when idle or completed and resumes when
// paused. An empty timeline completes at once without side effects.
func (s *Scheduler) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.detached || s.state == Playing {
		return
	}

	if s.timeline.Empty() {
		s.state = Completed
		s.current = -1
		return
	}

	if s.state == Idle || s.state == Completed {
		s.rewind()
	}

	s.state = Playing
	s.arm()
}

// Pause freezes the clock. No-op unless playing.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.detached || s.state != Playing {
		return
	}

	s.disarm()
	s.state = Paused
}

// Stop cancels playback, clears highlights and label and returns the camera
// to rest.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.detached || s.timeline.Empty() {
		return
	}

	s.disarm()
	s.rewind()
	s.animating = false

	s.surface.SetHighlightedPlayers([]string{})
	s.surface.SetFocusLabel("")
	s.surface.SetIsAnimating(false)
	s.surface.ResetCamera()

	s.state = Idle
}

// SeekToMoment jumps the clock to the start of moment i, clamped to the
// valid range. Highlights, label and positions are not re-applied for the
// target or any skipped moment; the camera follows on the next frame. A
// seek from idle or completed leaves the scheduler paused at the target.
func (s *Scheduler) SeekToMoment(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.timeline.MomentCount()
	if s.detached || n == 0 {
		return
	}

	if i < 0 {
		i = 0
	}
	if i > n-1 {
		i = n - 1
	}

	s.elapsed = s.timeline.MomentStart(i)
	s.current = i
	s.nextApply = i + 1
	s.segment = i
	s.pinned = false

	if s.state == Idle || s.state == Completed {
		s.state = Paused
	}
}

// Detach silences the scheduler for good. Nothing it armed fires afterwards,
// the handle reports idle and the surface is left as is.
func (s *Scheduler) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.disarm()
	s.detached = true
	s.state = Idle
	s.animating = false
	s.rewind()
}

// Cursor returns the current playback position
func (s *Scheduler) Cursor() Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Cursor{
		Elapsed:     s.elapsed,
		MomentIndex: s.current,
		Playing:     s.state == Playing,
		State:       s.state,
	}
}

// CurrentMomentIndex is -1 when idle or completed
func (s *Scheduler) CurrentMomentIndex() int {
	return s.Cursor().MomentIndex
}

// IsPlaying reports whether the clock is running
func (s *Scheduler) IsPlaying() bool {
	return s.Cursor().Playing
}

// State returns the scheduler state
func (s *Scheduler) State() State {
	return s.Cursor().State
}

func (s *Scheduler) rewind() {
	s.elapsed = 0
	s.current = -1
	s.nextApply = 0
	s.segment = -1
	s.pinned = false
}

func (s *Scheduler) arm() {
	s.gen++
	gen := s.gen
	s.cancel = s.driver.Start(func(dt float64) {
		s.step(gen, dt)
	})
}

func (s *Scheduler) disarm() {
	s.gen++
	if s.cancel != nil {
		cancel := s.cancel
		s.cancel = nil
		cancel()
	}
}

func (s *Scheduler) step(gen uint64, dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.detached || gen != s.gen || s.state != Playing {
		return
	}

	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		dt = 0
	}
	s.elapsed += dt

	tl := s.timeline

	// Enter every moment the clock reached, strictly in order
	for s.nextApply < tl.MomentCount() && s.elapsed >= tl.MomentStart(s.nextApply) {
		i := s.nextApply
		s.finishSegment()
		s.nextApply++
		s.current = i
		s.segment = i
		s.pinned = false
		s.applier.Apply(i)
		s.animating = true
	}

	if s.elapsed >= tl.Duration() {
		s.complete()
		return
	}

	idx, _ := tl.SegmentAt(s.elapsed)
	if idx != s.segment {
		s.finishSegment()
		s.segment = idx
		s.pinned = false
	}

	seg := tl.Segments[idx]
	local := s.elapsed - seg.Start
	tr := seg.TransformAt(local)
	s.surface.PanTo(tr.X, tr.Y, tr.Zoom)

	if local >= seg.PanDuration || seg.IsReset() {
		if local >= seg.PanDuration {
			s.pinned = true
		}
		s.endAnimating()
	}
}

// finishSegment lands the camera exactly on the current segment target if a
// frame skipped past the end of its pan.
func (s *Scheduler) finishSegment() {
	if s.segment < 0 || s.segment >= len(s.timeline.Segments) {
		return
	}
	if !s.pinned {
		to := s.timeline.Segments[s.segment].To
		s.surface.PanTo(to.X, to.Y, to.Zoom)
		s.pinned = true
	}
	s.endAnimating()
}

func (s *Scheduler) endAnimating() {
	if s.animating {
		s.animating = false
		s.surface.SetIsAnimating(false)
	}
}

func (s *Scheduler) complete() {
	s.finishSegment()
	s.disarm()

	s.surface.SetHighlightedPlayers([]string{})
	s.surface.SetFocusLabel("")
	s.surface.ResetCamera()

	s.state = Completed
	s.current = -1
	s.elapsed = s.timeline.Duration()
	s.nextApply = s.timeline.MomentCount()
	s.segment = -1
	s.pinned = false

	s.logger.Printf("[*] Timeline completed: %d moments, %.2fs", s.timeline.MomentCount(), s.elapsed)
}
