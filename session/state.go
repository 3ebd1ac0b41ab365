// Package session holds client-side application state: who is signed in and
// which filter is applied to the customer list.
package session

import (
	"sync"

	"clientconnect-backend/models"
)

// AuthState is either anonymous or authenticated.
type AuthState int

const (
	Anonymous AuthState = iota
	Authenticated
)

func (s AuthState) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// State is safe for concurrent use. The zero value is not ready; use New.
type State struct {
	mu      sync.RWMutex
	user    *models.User
	token   string
	loading bool
	err     string
	filters models.FilterCriteria
}

// New returns an anonymous state with default filters.
func New() *State {
	return &State{filters: models.DefaultFilterCriteria()}
}

// Snapshot is a consistent copy of the state.
type Snapshot struct {
	Auth    AuthState
	User    *models.User
	Token   string
	Loading bool
	Error   string
	Filters models.FilterCriteria
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Auth:    s.authLocked(),
		Token:   s.token,
		Loading: s.loading,
		Error:   s.err,
		Filters: s.filters,
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

func (s *State) authLocked() AuthState {
	if s.user != nil && s.token != "" {
		return Authenticated
	}
	return Anonymous
}

func (s *State) Auth() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authLocked()
}

func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *State) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *State) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *State) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LoginStarted marks a request in flight and clears the previous error.
func (s *State) LoginStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.err = ""
}

// LoginSucceeded stores the user and token.
func (s *State) LoginSucceeded(user *models.User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.user = &u
	s.token = token
	s.loading = false
	s.err = ""
}

// LoginFailed records the error. The current user, if any, is kept.
func (s *State) LoginFailed(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.err = message
}

func (s *State) RegisterStarted() { s.LoginStarted() }

func (s *State) RegisterSucceeded(user *models.User, token string) { s.LoginSucceeded(user, token) }

func (s *State) RegisterFailed(message string) { s.LoginFailed(message) }

// Logout returns to anonymous. Filters are kept.
func (s *State) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
	s.loading = false
	s.err = ""
}

// ClearUser drops the session after a registration flow completes.
func (s *State) ClearUser() { s.Logout() }

func (s *State) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// SetFilters replaces the active criteria. An empty status means "All".
func (s *State) SetFilters(f models.FilterCriteria) {
	if f.StatusFilter == "" {
		f.StatusFilter = models.StatusAll
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = f
}

func (s *State) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = models.DefaultFilterCriteria()
}

func (s *State) Filters() models.FilterCriteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// Visible applies the active filters to customers, keeping their order.
func (s *State) Visible(customers []models.Customer) []models.Customer {
	return models.ApplyFilter(customers, s.Filters())
}
