package ticker_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campainly/campaigner/pkg/ticker"
)

func TestTicker_StopsCalling(t *testing.T) {
	var calls atomic.Int32
	tk := ticker.Start(time.Millisecond, func() { calls.Add(1) })

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)

	tk.Stop()
	tk.Stop()
	<-tk.Done()

	after := calls.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
}

func TestTicker_StopFromCallback(t *testing.T) {
	var tk *ticker.Ticker
	var mu sync.Mutex
	mu.Lock()
	tk = ticker.Start(time.Millisecond, func() {
		mu.Lock()
		defer mu.Unlock()
		tk.Stop()
	})
	mu.Unlock()

	select {
	case <-tk.Done():
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop")
	}
}

func TestRotator(t *testing.T) {
	seen := make(chan int, 16)
	r := ticker.NewRotator(4, time.Millisecond, func(i int) {
		select {
		case seen <- i:
		default:
		}
	})
	defer r.Stop()

	got := []int{<-seen, <-seen, <-seen, <-seen}
	assert.Equal(t, []int{1, 2, 3, 0}, got)
}

func TestRotator_SingleItemNeverStarts(t *testing.T) {
	r := ticker.NewRotator(1, time.Millisecond, func(int) { t.Error("unexpected tick") })
	time.Sleep(5 * time.Millisecond)
	r.Stop()
	assert.Equal(t, 0, r.Index())
}

func TestReveal(t *testing.T) {
	var frames []string
	err := ticker.Reveal(context.Background(), "héllo", time.Microsecond, func(s string) {
		frames = append(frames, s)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"h", "hé", "hél", "héll", "héllo"}, frames)
}

func TestReveal_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ticker.Reveal(ctx, "abc", time.Hour, func(string) {})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReveal_Empty(t *testing.T) {
	var frames []string
	require.NoError(t, ticker.Reveal(context.Background(), "", time.Hour, func(s string) {
		frames = append(frames, s)
	}))
	assert.Equal(t, []string{""}, frames)
}
