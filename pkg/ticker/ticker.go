// Package ticker provides the cancellable timers used for cosmetic
// animation and polling. Each timer is an object owned by the component
// that started it and must be stopped when that component is torn down.
package ticker

import (
	"context"
	"sync"
	"time"
)

// Ticker calls a function at a fixed interval until stopped.
type Ticker struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// Start runs fn every interval on its own goroutine. The first call
// happens one interval after Start.
func Start(interval time.Duration, fn func()) *Ticker {
	t := &Ticker{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		tk := time.NewTicker(interval)
		defer tk.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-tk.C:
				// a stop that raced the tick wins
				select {
				case <-t.stop:
					return
				default:
				}
				fn()
			}
		}
	}()

	return t
}

// Stop cancels the ticker. It is safe to call more than once and from
// inside the tick function.
func (t *Ticker) Stop() {
	if t == nil {
		return
	}
	t.once.Do(func() { close(t.stop) })
}

// Done is closed once the ticker goroutine has exited.
func (t *Ticker) Done() <-chan struct{} {
	return t.done
}

// Rotator cycles an index over n items every interval.
type Rotator struct {
	mu    sync.Mutex
	index int
	n     int
	t     *Ticker
}

// NewRotator starts rotating over n items. onChange, when non-nil, is
// called with each new index.
func NewRotator(n int, interval time.Duration, onChange func(int)) *Rotator {
	r := &Rotator{n: n}
	if n <= 1 {
		return r
	}
	r.t = Start(interval, func() {
		r.mu.Lock()
		r.index = (r.index + 1) % r.n
		idx := r.index
		r.mu.Unlock()
		if onChange != nil {
			onChange(idx)
		}
	})
	return r
}

// Index returns the current position.
func (r *Rotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

// Stop halts the rotation.
func (r *Rotator) Stop() {
	r.t.Stop()
}

// Reveal emits successively longer prefixes of text, one rune per
// interval, and returns once the full text has been emitted. Only ctx
// cancellation ends it early, in which case ctx.Err() is returned.
func Reveal(ctx context.Context, text string, interval time.Duration, frame func(string)) error {
	runes := []rune(text)
	if len(runes) == 0 {
		frame("")
		return nil
	}

	tk := time.NewTicker(interval)
	defer tk.Stop()

	for i := 1; i <= len(runes); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tk.C:
		}
		frame(string(runes[:i]))
	}
	return nil
}
