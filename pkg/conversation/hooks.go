package conversation

import "sync"

// ChangeHook is called with the state after every change.
type ChangeHook func(Snapshot)

type hooks struct {
	mu       sync.RWMutex
	onChange []ChangeHook
}

func (h *hooks) add(fn ChangeHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

func (h *hooks) trigger(s Snapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onChange {
		fn(s)
	}
}
