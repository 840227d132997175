// Package uistate holds the small amount of client UI state shared across
// pages: whether the modal is open and the current theme.
package uistate

import (
	"sync"
	"time"
)

// Theme is the UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Snapshot is a copy of the state at one moment.
type Snapshot struct {
	ModalOpen bool  `json:"isModalOpen"`
	Theme     Theme `json:"theme"`
}

// State is the UI state of one browser session. Changes only happen through
// its methods.
type State struct {
	mu        sync.RWMutex
	modalOpen bool
	theme     Theme
}

// New returns a state with the modal closed and the light theme.
func New() *State {
	return &State{theme: ThemeLight}
}

// OpenModal opens the modal.
func (s *State) OpenModal() {
	s.mu.Lock()
	s.modalOpen = true
	s.mu.Unlock()
}

// CloseModal closes the modal.
func (s *State) CloseModal() {
	s.mu.Lock()
	s.modalOpen = false
	s.mu.Unlock()
}

// ToggleTheme switches between light and dark and returns the new theme.
func (s *State) ToggleTheme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.theme == ThemeDark {
		s.theme = ThemeLight
	} else {
		s.theme = ThemeDark
	}
	return s.theme
}

// Snapshot returns the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{ModalOpen: s.modalOpen, Theme: s.theme}
}

type registered struct {
	state *State
	seen  time.Time
}

// Registry hands out one State per session id. States unused for ttl are
// dropped, matching the session lifetime.
type Registry struct {
	mu        sync.Mutex
	states    map[string]*registered
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewRegistry creates an empty registry; ttl <= 0 keeps states forever.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		states: make(map[string]*registered),
		ttl:    ttl,
		now:    time.Now,
	}
}

// For returns the state of sessionID, creating it on first use.
func (r *Registry) For(sessionID string) *State {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if r.ttl > 0 && now.Sub(r.lastSweep) >= r.ttl {
		for id, reg := range r.states {
			if now.Sub(reg.seen) >= r.ttl {
				delete(r.states, id)
			}
		}
		r.lastSweep = now
	}
	reg, ok := r.states[sessionID]
	if ok && r.ttl > 0 && now.Sub(reg.seen) >= r.ttl {
		ok = false
	}
	if !ok {
		reg = &registered{state: New()}
		r.states[sessionID] = reg
	}
	reg.seen = now
	return reg.state
}

// Forget drops the state of sessionID.
func (r *Registry) Forget(sessionID string) {
	r.mu.Lock()
	delete(r.states, sessionID)
	r.mu.Unlock()
}

// Len returns the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}
