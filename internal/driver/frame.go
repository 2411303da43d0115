package driver

import "sync"

// Frame is a driver stepped by its owner: a game loop, an offline export or
// a test. Each Advance delivers dt to every active callback in the order
// they were started.
type Frame struct {
	mu     sync.Mutex
	nextID uint64
	steps  []frameStep
	frames int
}

type frameStep struct {
	id   uint64
	step func(dt float64)
}

// NewFrame creates a Frame driver with no callbacks
func NewFrame() *Frame {
	return &Frame{}
}

// Start registers step until the returned cancel is called
func (f *Frame) Start(step func(dt float64)) func() {
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.steps = append(f.steps, frameStep{id: id, step: step})
	f.mu.Unlock()

	return func() { f.remove(id) }
}

func (f *Frame) remove(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, s := range f.steps {
		if s.id == id {
			f.steps = append(f.steps[:i:i], f.steps[i+1:]...)
			return
		}
	}
}

// Advance delivers one frame of dt seconds. Callbacks cancelled by an
// earlier callback in the same frame are skipped.
func (f *Frame) Advance(dt float64) {
	f.mu.Lock()
	pending := make([]frameStep, len(f.steps))
	copy(pending, f.steps)
	f.frames++
	f.mu.Unlock()

	for _, s := range pending {
		if f.active(s.id) {
			s.step(dt)
		}
	}
}

func (f *Frame) active(id uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.steps {
		if s.id == id {
			return true
		}
	}
	return false
}

// Active is the number of registered callbacks
func (f *Frame) Active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.steps)
}

// Frames is the number of Advance calls so far
func (f *Frame) Frames() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}

// RunUntilIdle advances in dt steps until no callback is registered or
// maxFrames is reached, and returns the frames delivered.
func (f *Frame) RunUntilIdle(dt float64, maxFrames int) int {
	n := 0
	for n < maxFrames && f.Active() > 0 {
		f.Advance(dt)
		n++
	}
	return n
}
