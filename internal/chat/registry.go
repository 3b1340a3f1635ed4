package chat

import (
	"sort"
	"sync"
)

// Registry is the source of truth for who is online. It tracks every live
// session from the moment it connects; a session with an empty name is
// connected but has not joined yet, so it receives broadcasts without
// appearing in the roster.
//
// The hub loop is the only writer, but the websocket handler and tests read
// concurrently, so access is guarded by a RWMutex.
type Registry struct {
	mu       sync.RWMutex
	sessions map[*Session]string
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[*Session]string)}
}

// Add registers a freshly connected, unbound session.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s] = ""
}

// Bind attaches a display name to a session. Any non-empty name is accepted
// verbatim, duplicates included; rebinding overwrites. Returns false if the
// name is empty or the session is not registered.
func (r *Registry) Bind(s *Session, name string) bool {
	if name == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s]; !ok {
		return false
	}
	r.sessions[s] = name
	return true
}

// Name returns the session's bound display name, if it has joined.
func (r *Registry) Name(s *Session) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.sessions[s]
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// Remove deregisters a session and reports whether it was still registered.
// If the session had joined, its name comes back exactly once so the caller
// can announce the departure; an empty name means it never joined.
func (r *Registry) Remove(s *Session) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := r.sessions[s]
	if !ok {
		return "", false
	}
	delete(r.sessions, s)
	return name, true
}

// Sessions snapshots the live session set, joined or not.
func (r *Registry) Sessions() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.sessions))
	for s := range r.sessions {
		out = append(out, s)
	}
	return out
}

// CurrentNames snapshots the roster: every bound name, duplicates preserved,
// sorted so the list is stable for clients and tests.
func (r *Registry) CurrentNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sessions))
	for _, name := range r.sessions {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
