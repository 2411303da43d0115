package surface

import (
	"sync"

	"github.com/ivlev/roundreplay/internal/camera"
	"github.com/ivlev/roundreplay/internal/narration"
)

// State is a copy of everything the shared surface holds
type State struct {
	Camera      camera.Transform           `json:"camera"`
	Highlighted []string                   `json:"highlighted"`
	FocusLabel  string                     `json:"focusLabel"`
	Animating   bool                       `json:"animating"`
	Players     []narration.PlayerPosition `json:"players"`
	Version     uint64                     `json:"version"`
}

// Store is the in-memory shared state surface. Readers may run on any
// goroutine; Version increases on every write.
type Store struct {
	mu    sync.RWMutex
	state State
}

// NewStore creates a store with the camera at rest
func NewStore() *Store {
	return &Store{state: State{
		Camera:      camera.Resting,
		Highlighted: []string{},
		Players:     []narration.PlayerPosition{},
	}}
}

func (s *Store) PanTo(x, y, zoom float64) {
	s.mu.Lock()
	s.state.Camera = camera.Transform{X: x, Y: y, Zoom: zoom}
	s.state.Version++
	s.mu.Unlock()
}

func (s *Store) ResetCamera() {
	s.mu.Lock()
	s.state.Camera = camera.Resting
	s.state.Version++
	s.mu.Unlock()
}

func (s *Store) SetHighlightedPlayers(ids []string) {
	cp := make([]string, len(ids))
	copy(cp, ids)

	s.mu.Lock()
	s.state.Highlighted = cp
	s.state.Version++
	s.mu.Unlock()
}

func (s *Store) SetFocusLabel(text string) {
	s.mu.Lock()
	s.state.FocusLabel = text
	s.state.Version++
	s.mu.Unlock()
}

func (s *Store) SetIsAnimating(flag bool) {
	s.mu.Lock()
	s.state.Animating = flag
	s.state.Version++
	s.mu.Unlock()
}

// SetPositions replaces the whole player list at once
func (s *Store) SetPositions(players []narration.PlayerPosition) {
	cp := make([]narration.PlayerPosition, len(players))
	copy(cp, players)

	s.mu.Lock()
	s.state.Players = cp
	s.state.Version++
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.state
	out.Highlighted = append([]string{}, s.state.Highlighted...)
	out.Players = append([]narration.PlayerPosition{}, s.state.Players...)
	return out
}

// IsHighlighted reports whether playerID is in the highlight set
func (s *Store) IsHighlighted(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.state.Highlighted {
		if id == playerID {
			return true
		}
	}
	return false
}
