package cloner

import (
	"fmt"
	"sync"

	"github.com/klatu-labs/wincloner/internal/domain"
	"github.com/klatu-labs/wincloner/internal/ports"
)

// session guards the one-time transition of the medium into programmable
// mode. Once open it stays open for the process lifetime; re-entering
// programming mode is unnecessary and the primitive may be unsafe to invoke
// repeatedly in rapid succession. A failed attempt leaves the session
// closed, and the next ensureReady call retries.
type session struct {
	mu       sync.Mutex
	medium   ports.Medium
	open     bool
	capacity int64
}

func newSession(medium ports.Medium) *session {
	return &session{medium: medium}
}

// ensureReady opens the session if necessary and returns the medium's
// capacity in bytes. Idempotent while open: subsequent calls return the
// cached capacity without touching the device.
func (s *session) ensureReady() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return s.capacity, nil
	}
	if err := s.medium.EnterProgrammingMode(); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrMediumUnavailable, err)
	}
	capacity, err := s.medium.Capacity()
	if err != nil {
		return 0, fmt.Errorf("%w: capacity query: %v", domain.ErrMediumUnavailable, err)
	}
	s.open = true
	s.capacity = capacity
	return capacity, nil
}
