package auth

import (
	"io"
	"time"
)

// SetClock replaces the time source used by the service.
func (s *TokenService) SetClock(now func() time.Time) {
	s.now = now
}

// SetRandom replaces the randomness source used for token IDs.
func (s *TokenService) SetRandom(r io.Reader) {
	s.random = r
}
