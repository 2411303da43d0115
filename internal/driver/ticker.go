package driver

import (
	"sync"
	"time"
)

// Ticker drives callbacks from the wall clock at a fixed rate. Each
// callback gets its own goroutine; cancel never blocks, so it is safe to
// call from inside the callback.
type Ticker struct {
	Interval time.Duration
}

// NewTicker creates a Ticker firing fps times per second
func NewTicker(fps int) *Ticker {
	if fps <= 0 {
		fps = 60
	}
	return &Ticker{Interval: time.Second / time.Duration(fps)}
}

// Start begins delivering frames to step
func (t *Ticker) Start(step func(dt float64)) func() {
	done := make(chan struct{})
	var once sync.Once

	go func() {
		tk := time.NewTicker(t.Interval)
		defer tk.Stop()

		last := time.Now()
		for {
			select {
			case <-done:
				return
			case now := <-tk.C:
				select {
				case <-done:
					return
				default:
				}
				dt := now.Sub(last).Seconds()
				last = now
				step(dt)
			}
		}
	}()

	return func() {
		once.Do(func() { close(done) })
	}
}
