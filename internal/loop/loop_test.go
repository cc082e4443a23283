package loop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopAfter(t *testing.T) {
	t.Run("fires at scheduled time in order", func(t *testing.T) {
		l := New(10 * time.Millisecond)
		var fired []string
		var at []time.Duration

		l.After(25*time.Millisecond, func() {
			fired = append(fired, "b")
			at = append(at, l.Now())
		})
		l.After(5*time.Millisecond, func() {
			fired = append(fired, "a")
			at = append(at, l.Now())
		})

		l.Advance(20 * time.Millisecond)
		assert.Equal(t, []string{"a"}, fired)

		l.Advance(20 * time.Millisecond)
		assert.Equal(t, []string{"a", "b"}, fired)
		assert.Equal(t, []time.Duration{5 * time.Millisecond, 25 * time.Millisecond}, at)
	})

	t.Run("same instant keeps scheduling order", func(t *testing.T) {
		l := New(10 * time.Millisecond)
		var fired []int
		for i := 0; i < 5; i++ {
			i := i
			l.After(time.Millisecond, func() { fired = append(fired, i) })
		}

		l.Advance(10 * time.Millisecond)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, fired)
	})

	t.Run("cancelled timers never fire", func(t *testing.T) {
		l := New(10 * time.Millisecond)
		fired := false
		h := l.After(time.Millisecond, func() { fired = true })
		h.Cancel()

		l.Advance(50 * time.Millisecond)
		assert.False(t, fired)
		assert.False(t, h.Active())
		assert.Zero(t, l.Pending())
	})
}

func TestLoopEachFrame(t *testing.T) {
	t.Run("runs once per frame until false", func(t *testing.T) {
		l := New(10 * time.Millisecond)
		calls := 0
		h := l.EachFrame(func(now time.Duration) bool {
			calls++
			return calls < 3
		})

		l.AdvanceFrames(10)
		assert.Equal(t, 3, calls)
		assert.False(t, h.Active())
	})

	t.Run("callbacks registered in a frame start next frame", func(t *testing.T) {
		l := New(10 * time.Millisecond)
		var order []string
		l.EachFrame(func(now time.Duration) bool {
			order = append(order, "outer")
			l.EachFrame(func(now time.Duration) bool {
				order = append(order, "inner")
				return false
			})
			return false
		})

		l.AdvanceFrames(1)
		assert.Equal(t, []string{"outer"}, order)
		l.AdvanceFrames(1)
		assert.Equal(t, []string{"outer", "inner"}, order)
	})

	t.Run("cancel from inside another callback", func(t *testing.T) {
		l := New(10 * time.Millisecond)
		calls := 0
		var victim *Handle
		l.EachFrame(func(now time.Duration) bool {
			victim.Cancel()
			return false
		})
		victim = l.EachFrame(func(now time.Duration) bool {
			calls++
			return true
		})

		l.AdvanceFrames(3)
		assert.Zero(t, calls)
	})
}

func TestLoopAdvance(t *testing.T) {
	l := New(16 * time.Millisecond)
	l.Advance(100 * time.Millisecond)

	assert.Equal(t, 100*time.Millisecond, l.Now())
	assert.Equal(t, uint64(7), l.Frames())
}

func TestLoopPostAndDrain(t *testing.T) {
	l := New(10 * time.Millisecond)
	var order []int
	l.Post(func() {
		order = append(order, 1)
		l.Post(func() { order = append(order, 2) })
	})

	l.Drain()
	assert.Equal(t, []int{1, 2}, order)
}

func TestLoopRun(t *testing.T) {
	l := New(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()

	var frames int
	err := l.Call(context.Background(), func() {
		l.EachFrame(func(now time.Duration) bool {
			frames++
			return true
		})
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		var seen int
		if err := l.Call(context.Background(), func() { seen = frames }); err != nil {
			return false
		}
		return seen >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
	assert.ErrorIs(t, l.Call(context.Background(), func() {}), ErrStopped)
}

func TestLoopCallContext(t *testing.T) {
	l := New(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Nobody drives the loop, so only the context can end the call
	assert.ErrorIs(t, l.Call(ctx, func() {}), context.Canceled)
}
