package session

import "sync"

// Identity identifies an authenticated user.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// State holds the current authenticated identity, if any. It is the single
// source of truth for "who is signed in" and broadcasts every transition
// between no-user and some-user, or between two different users.
type State struct {
	mu       sync.RWMutex
	current  *Identity
	handlers []func(current *Identity)
}

func NewState() *State {
	return &State{}
}

// Current returns the signed-in identity or nil.
func (s *State) Current() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	id := *s.current
	return &id
}

// OnChange registers a handler invoked on every identity transition.
// Handlers are called synchronously, outside the state lock.
func (s *State) OnChange(handler func(current *Identity)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// Set replaces the current identity and notifies handlers if it actually
// changed. Setting the same user id twice is not a transition.
func (s *State) Set(identity *Identity) {
	s.mu.Lock()
	if !changed(s.current, identity) { // same user twice is not a transition
		s.mu.Unlock()
		return
	}
	if identity != nil {
		copied := *identity
		s.current = &copied
	} else {
		s.current = nil
	}
	handlers := make([]func(*Identity), len(s.handlers))
	copy(handlers, s.handlers)
	current := s.current
	s.mu.Unlock()

	for _, handler := range handlers {
		handler(current)
	}
}

// Clear signs the current user out.
func (s *State) Clear() {
	s.Set(nil)
}

func changed(old, next *Identity) bool {
	if old == nil && next == nil {
		return false
	}
	if old == nil || next == nil {
		return true
	}
	return old.ID != next.ID
}
