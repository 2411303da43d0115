package driver

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestFrameAdvanceOrder(t *testing.T) {
	f := NewFrame()

	var calls []string
	f.Start(func(dt float64) { calls = append(calls, "a") })
	f.Start(func(dt float64) { calls = append(calls, "b") })

	f.Advance(0.5)
	f.Advance(0.5)

	want := []string{"a", "b", "a", "b"}
	if len(calls) != len(want) {
		t.Fatalf("Expected %v, got %v", want, calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("Call %d: expected %s, got %s", i, want[i], calls[i])
		}
	}
	if f.Frames() != 2 {
		t.Errorf("Expected 2 frames, got %d", f.Frames())
	}
}

func TestFrameCancelInsideFrame(t *testing.T) {
	f := NewFrame()

	var cancelB func()
	bCalls := 0
	f.Start(func(dt float64) { cancelB() })
	cancelB = f.Start(func(dt float64) { bCalls++ })

	f.Advance(1)
	if bCalls != 0 {
		t.Errorf("Callback cancelled earlier in the frame must not run, ran %d times", bCalls)
	}
	if f.Active() != 1 {
		t.Errorf("Expected 1 active callback, got %d", f.Active())
	}
}

func TestFrameCancelSelfAndRunUntilIdle(t *testing.T) {
	f := NewFrame()

	total := 0.0
	var cancel func()
	cancel = f.Start(func(dt float64) {
		total += dt
		if total >= 1 {
			cancel()
		}
	})
	cancel2 := f.Start(func(dt float64) {})
	cancel2()
	cancel2() // idempotent

	n := f.RunUntilIdle(0.25, 100)
	if n != 4 {
		t.Errorf("Expected 4 frames, got %d", n)
	}
	if f.Active() != 0 {
		t.Errorf("Expected no active callbacks, got %d", f.Active())
	}
}

func TestTickerDeliversAndCancels(t *testing.T) {
	tk := NewTicker(200)

	var count atomic.Int32
	cancel := tk.Start(func(dt float64) {
		if dt < 0 {
			t.Errorf("Negative dt %f", dt)
		}
		count.Add(1)
	})

	deadline := time.Now().Add(2 * time.Second)
	for count.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	cancel()

	if count.Load() < 3 {
		t.Fatalf("Expected at least 3 ticks, got %d", count.Load())
	}

	// Allow an in-flight tick to land, then expect silence
	time.Sleep(20 * time.Millisecond)
	after := count.Load()
	time.Sleep(50 * time.Millisecond)
	if count.Load() != after {
		t.Errorf("Ticks continued after cancel: %d -> %d", after, count.Load())
	}
}
