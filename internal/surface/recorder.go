package surface

import (
	"fmt"
	"sync"

	"github.com/ivlev/roundreplay/internal/camera"
	"github.com/ivlev/roundreplay/internal/narration"
)

// Surface method names as recorded
const (
	MethodPanTo        = "panTo"
	MethodResetCamera  = "resetCamera"
	MethodHighlight    = "setHighlightedPlayers"
	MethodFocusLabel   = "setFocusLabel"
	MethodAnimating    = "setIsAnimating"
	MethodSetPositions = "setPositions"
)

// Call is one recorded surface call
type Call struct {
	Method    string
	Transform camera.Transform
	IDs       []string
	Label     string
	Flag      bool
	Players   []narration.PlayerPosition
}

func (c Call) String() string {
	switch c.Method {
	case MethodPanTo:
		return fmt.Sprintf("%s(%.3f, %.3f, %.3f)", c.Method, c.Transform.X, c.Transform.Y, c.Transform.Zoom)
	case MethodHighlight:
		return fmt.Sprintf("%s(%v)", c.Method, c.IDs)
	case MethodFocusLabel:
		return fmt.Sprintf("%s(%q)", c.Method, c.Label)
	case MethodAnimating:
		return fmt.Sprintf("%s(%v)", c.Method, c.Flag)
	case MethodSetPositions:
		return fmt.Sprintf("%s(%d players)", c.Method, len(c.Players))
	default:
		return c.Method + "()"
	}
}

// Recorder captures every surface call in order. OnCall, when set, runs
// after each call is recorded.
type Recorder struct {
	mu     sync.Mutex
	calls  []Call
	OnCall func(Call)
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	hook := r.OnCall
	r.mu.Unlock()

	if hook != nil {
		hook(c)
	}
}

func (r *Recorder) PanTo(x, y, zoom float64) {
	r.record(Call{Method: MethodPanTo, Transform: camera.Transform{X: x, Y: y, Zoom: zoom}})
}

func (r *Recorder) ResetCamera() {
	r.record(Call{Method: MethodResetCamera})
}

func (r *Recorder) SetHighlightedPlayers(ids []string) {
	r.record(Call{Method: MethodHighlight, IDs: append([]string{}, ids...)})
}

func (r *Recorder) SetFocusLabel(text string) {
	r.record(Call{Method: MethodFocusLabel, Label: text})
}

func (r *Recorder) SetIsAnimating(flag bool) {
	r.record(Call{Method: MethodAnimating, Flag: flag})
}

func (r *Recorder) SetPositions(players []narration.PlayerPosition) {
	r.record(Call{Method: MethodSetPositions, Players: append([]narration.PlayerPosition{}, players...)})
}

// Calls returns a copy of everything recorded so far
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Len is the number of recorded calls
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// Filter returns the recorded calls of one method
func (r *Recorder) Filter(method string) []Call {
	var out []Call
	for _, c := range r.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Count is the number of recorded calls of one method
func (r *Recorder) Count(method string) int {
	return len(r.Filter(method))
}

// Last returns the last call of method, if any
func (r *Recorder) Last(method string) (Call, bool) {
	calls := r.Filter(method)
	if len(calls) == 0 {
		return Call{}, false
	}
	return calls[len(calls)-1], true
}

// Reset drops all recorded calls
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}
