package debounce

import "sync"

// Sequencer hands out increasing tickets per channel so a response can be
// checked against the most recent request before it is applied.
type Sequencer struct {
	mu     sync.Mutex
	latest map[string]uint64
}

func NewSequencer() *Sequencer {
	return &Sequencer{latest: make(map[string]uint64)}
}

// Next issues a ticket newer than every previous one on channel
func (s *Sequencer) Next(channel string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[channel]++
	return s.latest[channel]
}

// Latest reports whether ticket is still the newest on channel
func (s *Sequencer) Latest(channel string, ticket uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[channel] == ticket
}
