package conversation

import (
	"context"
	"encoding/json"

	"github.com/campainly/campaigner/pkg/logging"
	"github.com/campainly/campaigner/pkg/types"
)

// Restore loads a previously persisted snapshot. It must run before the
// first Send. A missing or unreadable snapshot leaves the defaults in
// place; failures are logged and never returned.
func (s *Store) Restore(ctx context.Context) {
	if s.cfg.storage == nil {
		return
	}
	log := logging.FromContext(ctx)

	raw, ok := s.cfg.storage.Get(s.cfg.storageKey)
	if !ok || raw == "" {
		return
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		log.Debug().Err(err).Str("key", s.cfg.storageKey).Msg("Ignoring unreadable conversation snapshot")
		return
	}

	s.mu.Lock()
	s.id = snap.ConversationID
	s.messages = types.CloneMessages(snap.Messages)
	s.complete = snap.IsComplete
	s.mu.Unlock()

	log.Debug().
		Str("conversation_id", snap.ConversationID).
		Int("messages", len(snap.Messages)).
		Msg("Restored conversation")
	s.changed()
}

// persist writes snap under the storage key, or removes the key when
// there is nothing to keep.
func (s *Store) persist(snap Snapshot) {
	st := s.cfg.storage
	if st == nil {
		return
	}
	log := logging.Default()

	if snap.Empty() {
		if err := st.Remove(s.cfg.storageKey); err != nil {
			log.Debug().Err(err).Msg("Failed to remove conversation snapshot")
		}
		return
	}

	data, err := json.Marshal(snap)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to encode conversation snapshot")
		return
	}
	if err := st.Set(s.cfg.storageKey, string(data)); err != nil {
		log.Debug().Err(err).Msg("Failed to persist conversation snapshot")
	}
}
