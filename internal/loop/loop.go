// Package loop provides the single-threaded scheduler that drives the layout
// engine, the flow animation and gesture handling.
//
// All scene state is owned by the loop goroutine. Other goroutines hand work to
// it with Post or Call. Timers (After) and per-frame callbacks (EachFrame) are
// only ever invoked on the loop goroutine, so they observe a consistent view of
// shared node positions without locking.
//
// The loop runs on a clock it owns. Advance moves that clock forward
// synchronously and is used by tests and headless rendering; Run advances it
// from a wall-clock ticker.
package loop

import (
	"container/heap"
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultFrameInterval approximates a 60Hz display refresh
const DefaultFrameInterval = 16 * time.Millisecond

// ErrStopped is returned by Call when the loop is no longer running
var ErrStopped = errors.New("loop stopped")

// Handle identifies a scheduled timer or frame callback
type Handle struct {
	id        uint64
	cancelled bool
}

// Cancel prevents the callback from firing again. Safe to call on nil handles
// and more than once. Must be called from the loop goroutine.
func (h *Handle) Cancel() {
	if h != nil {
		h.cancelled = true
	}
}

// Active reports whether the callback can still fire
func (h *Handle) Active() bool {
	return h != nil && !h.cancelled
}

type timer struct {
	handle *Handle
	when   time.Duration
	fn     func()
	pos    int
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].when == h[j].when {
		return h[i].handle.id < h[j].handle.id
	}
	return h[i].when < h[j].when
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].pos = i
	h[j].pos = j
}
func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.pos = len(*h)
	*h = append(*h, t)
}
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

type frame struct {
	handle *Handle
	fn     func(now time.Duration) bool
}

// Loop is a cooperative scheduler with its own clock
type Loop struct {
	interval time.Duration

	now    time.Duration
	nextID uint64
	timers timerHeap
	frames []*frame
	frameN uint64

	mu      sync.Mutex
	posted  []func()
	wake    chan struct{}
	running bool
	done    chan struct{}
}

// New creates a loop that produces a frame every interval
func New(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Loop{
		interval: interval,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Now returns the loop clock
func (l *Loop) Now() time.Duration {
	return l.now
}

// Frames returns the number of frames produced so far
func (l *Loop) Frames() uint64 {
	return l.frameN
}

// FrameInterval returns the time between frames
func (l *Loop) FrameInterval() time.Duration {
	return l.interval
}

// After schedules fn to run once, d after the current clock
func (l *Loop) After(d time.Duration, fn func()) *Handle {
	if d < 0 {
		d = 0
	}
	h := l.newHandle()
	heap.Push(&l.timers, &timer{handle: h, when: l.now + d, fn: fn})
	return h
}

// EachFrame runs fn on every frame, starting with the next one, until it
// returns false or the handle is cancelled
func (l *Loop) EachFrame(fn func(now time.Duration) bool) *Handle {
	h := l.newHandle()
	l.frames = append(l.frames, &frame{handle: h, fn: fn})
	return h
}

func (l *Loop) newHandle() *Handle {
	l.nextID++
	return &Handle{id: l.nextID}
}

// Post queues fn to run on the loop goroutine. Safe from any goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.posted = append(l.posted, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Call runs fn on the loop goroutine and waits for it to finish
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	l.Post(func() {
		defer close(finished)
		fn()
	})

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Drain runs all posted work on the calling goroutine
func (l *Loop) Drain() {
	for {
		l.mu.Lock()
		work := l.posted
		l.posted = nil
		l.mu.Unlock()

		if len(work) == 0 {
			return
		}
		for _, fn := range work {
			fn()
		}
	}
}

// Advance moves the clock forward by d, producing one frame per interval.
// Timers fire at their scheduled time, before the frame that follows them.
func (l *Loop) Advance(d time.Duration) {
	target := l.now + d
	for l.now < target {
		step := l.interval
		if remaining := target - l.now; remaining < step {
			step = remaining
		}
		l.step(l.now + step)
	}
	l.Drain()
}

// AdvanceFrames produces n frames
func (l *Loop) AdvanceFrames(n int) {
	for i := 0; i < n; i++ {
		l.step(l.now + l.interval)
	}
	l.Drain()
}

func (l *Loop) step(until time.Duration) {
	l.Drain()
	l.fireTimers(until)
	l.now = until
	l.Drain()
	l.runFrames()
}

func (l *Loop) fireTimers(until time.Duration) {
	for len(l.timers) > 0 && l.timers[0].when <= until {
		t := heap.Pop(&l.timers).(*timer)
		if t.handle.cancelled {
			continue
		}
		t.handle.cancelled = true
		if t.when > l.now {
			l.now = t.when
		}
		t.fn()
	}
}

func (l *Loop) runFrames() {
	l.frameN++
	current := l.frames
	l.frames = nil

	kept := make([]*frame, 0, len(current))
	for _, f := range current {
		if f.handle.cancelled {
			continue
		}
		if f.fn(l.now) && !f.handle.cancelled {
			kept = append(kept, f)
		} else {
			f.handle.cancelled = true
		}
	}

	// Callbacks registered during this frame start on the next one
	l.frames = append(kept, l.frames...)
}

// Pending returns the number of live timers and frame callbacks
func (l *Loop) Pending() int {
	n := 0
	for _, t := range l.timers {
		if !t.handle.cancelled {
			n++
		}
	}
	for _, f := range l.frames {
		if !f.handle.cancelled {
			n++
		}
	}
	return n
}

// Run drives the loop from the wall clock until ctx is cancelled. Posted work
// runs as soon as it arrives; frames are produced every interval.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return errors.New("loop already running")
	}
	l.running = true
	l.mu.Unlock()
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			l.Drain()
			return ctx.Err()

		case <-l.wake:
			l.Drain()

		case tick := <-ticker.C:
			elapsed := tick.Sub(last)
			last = tick
			// Catch up after a stall without replaying every missed frame
			if elapsed > 4*l.interval {
				elapsed = 4 * l.interval
			}
			l.step(l.now + elapsed)
		}
	}
}
