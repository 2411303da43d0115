package session

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ivlev/roundreplay/internal/narration"
	"github.com/ivlev/roundreplay/internal/playback"
)

// Session is one viewing session: the player it owns and whether a script
// has been loaded into it yet. It lives from process start until Close.
type Session struct {
	ID        uuid.UUID
	StartedAt time.Time

	player *playback.Player
	logger *log.Logger

	mu     sync.Mutex
	loads  int
	closed bool
}

// New starts a session around player
func New(player *playback.Player, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	s := &Session{
		ID:        uuid.New(),
		StartedAt: time.Now(),
		player:    player,
		logger:    logger,
	}
	logger.Printf("[*] Session %s started", s.ID)
	return s
}

// Player returns the session's player
func (s *Session) Player() *playback.Player {
	return s.player
}

// Load builds a timeline for script, replacing any previous one. With
// autoPlay set, only the first load of the session starts playback.
// It reports whether this was the first load.
func (s *Session) Load(script *narration.Script, autoPlay bool) (*playback.Scheduler, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, false
	}
	first := s.loads == 0
	s.loads++

	h := s.player.BuildTimeline(script.Moments, script.Snapshots)
	if first && autoPlay {
		h.Play()
	}
	return h, first
}

// MarkLoaded records a load that happened outside Load
func (s *Session) MarkLoaded() {
	s.mu.Lock()
	s.loads++
	s.mu.Unlock()
}

// Loaded reports whether anything has been loaded in this session
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads > 0
}

// Loads is the number of loads so far
func (s *Session) Loads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

// Uptime is the time since the session started
func (s *Session) Uptime() time.Duration {
	return time.Since(s.StartedAt)
}

// Close detaches the live timeline. Loads never overlap it and later loads
// are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.player.Close()
	s.logger.Printf("[*] Session %s closed after %s (%d loads)", s.ID, s.Uptime().Round(time.Millisecond), s.loads)
}
