package memory

import (
	"sync"
)

// Turn is one role-tagged message in a client's conversation buffer.
type Turn struct {
	Role    string
	Message string
}

// maxTurns caps the context window fed back into generation.
const maxTurns = 50

// Store keeps a per-client rolling conversation buffer, created lazily on
// first append and kept for the process lifetime. It feeds prior turns back
// into the prompt; the transcript store is the durable record.
type Store struct {
	mu      sync.Mutex
	buffers map[string][]Turn
}

func NewStore() *Store {
	return &Store{buffers: make(map[string][]Turn)}
}

func (s *Store) Append(clientID, role, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := append(s.buffers[clientID], Turn{Role: role, Message: message})
	if len(buf) > maxTurns {
		buf = buf[len(buf)-maxTurns:]
	}
	s.buffers[clientID] = buf
}

// Turns returns a copy of the client's buffer in order.
func (s *Store) Turns(clientID string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := s.buffers[clientID]
	out := make([]Turn, len(buf))
	copy(out, buf)
	return out
}
