// Package auth keeps the identity of the logged-in user for the lifetime of
// the process and completes the GitHub OAuth callback that establishes it.
package auth

import (
	"errors"
	"sync"

	"bugghost-client/models"
)

// ErrAlreadyLoggedIn is returned by SetUser when a user is already stored.
// Call Logout first.
var ErrAlreadyLoggedIn = errors.New("a user is already logged in")

// Store holds at most one authenticated user. It is in memory only.
type Store struct {
	mu   sync.RWMutex
	user *models.AuthenticatedUser
}

var (
	defaultStore *Store
	defaultOnce  sync.Once
)

// Default returns the process-wide store.
func Default() *Store {
	defaultOnce.Do(func() {
		defaultStore = &Store{}
	})
	return defaultStore
}

func (s *Store) SetUser(u models.AuthenticatedUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user != nil {
		return ErrAlreadyLoggedIn
	}
	s.user = &u
	return nil
}

// User returns the stored user, if any.
func (s *Store) User() (models.AuthenticatedUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return models.AuthenticatedUser{}, false
	}
	return *s.user, true
}

func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}
