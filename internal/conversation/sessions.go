package conversation

import "sync"

// Registry holds live sessions in memory. Sessions are not persisted; a
// restart starts every conversation over.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session with the given ID, or a fresh one when the
// ID is empty or unknown.
func (r *Registry) GetOrCreate(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id != "" {
		if s, ok := r.sessions[id]; ok {
			return s
		}
	}
	s := newSession()
	r.sessions[s.ID] = s
	return s
}

// Delete forgets a session. Unknown IDs are a no-op.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len reports how many sessions are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
