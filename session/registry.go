package session

import (
	"sync"

	"github.com/segmentio/ksuid"

	"langlab_backend/models"
)

// Registry tracks live sessions by id.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Controller
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Controller)}
}

// Create opens a session for a hydrated course and registers it.
func (r *Registry) Create(course *models.Course, deps Deps) *Controller {
	ctl := New(ksuid.New().String(), course, deps)
	r.mu.Lock()
	r.sessions[ctl.ID()] = ctl
	r.mu.Unlock()
	return ctl
}

func (r *Registry) Get(id string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctl, ok := r.sessions[id]
	return ctl, ok
}

// Remove closes and forgets a session. Reports whether it existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	ctl, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		ctl.Close()
	}
	return ok
}

// CloseAll shuts every session down, flushing pending progress writes.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	ctls := make([]*Controller, 0, len(r.sessions))
	for _, ctl := range r.sessions {
		ctls = append(ctls, ctl)
	}
	r.sessions = make(map[string]*Controller)
	r.mu.Unlock()

	for _, ctl := range ctls {
		ctl.Close()
	}
}
