package inapas

import (
	"sync"
	"time"

	domainerrors "niaga/internal/domain/errors"
)

// attemptTTL bounds how long a pending login attempt stays valid before its
// callback must arrive.
const attemptTTL = 10 * time.Minute

// attemptStore tracks the single pending login attempt: the state value and
// PKCE code verifier generated when the authorization URL was built.
//
// Beginning a new attempt replaces any earlier one (last-write-wins), which
// silently invalidates an in-flight login that has not yet reached the
// callback; its eventual callback fails the state check cleanly. Consume
// clears the slot unconditionally so a replayed callback can never reuse a
// verifier.
type attemptStore struct {
	mu        sync.Mutex
	state     string
	verifier  string
	createdAt time.Time
}

func newAttemptStore() *attemptStore {
	return &attemptStore{}
}

// Begin records a fresh state/verifier pair as the pending attempt.
func (s *attemptStore) Begin(state, codeVerifier string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state
	s.verifier = codeVerifier
	s.createdAt = time.Now()
}

// Consume validates the callback state and hands out the stored verifier.
// The pending attempt is cleared before returning, regardless of outcome.
func (s *attemptStore) Consume(state string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	storedState := s.state
	storedVerifier := s.verifier
	expired := !s.createdAt.IsZero() && time.Since(s.createdAt) > attemptTTL

	s.state = ""
	s.verifier = ""
	s.createdAt = time.Time{}

	if expired {
		return "", domainerrors.ErrMissingVerifier.WrapMessage("login attempt expired")
	}

	if storedState != "" && storedState != state {
		return "", domainerrors.ErrStateMismatch.WrapMessage("callback state does not match pending attempt")
	}

	if storedVerifier == "" {
		return "", domainerrors.ErrMissingVerifier.WrapMessage("no pending code verifier")
	}

	return storedVerifier, nil
}
