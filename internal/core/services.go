package core

import (
	"github.com/go-chi/chi/v5"
)

// Service is the interface that every HTTP service module implements. The edge
// router mounts each registered service under "/" + Name().
type Service interface {
	// Name returns the unique identifier for this service (e.g., "files").
	// It doubles as the service's path prefix.
	Name() string

	// RegisterRoutes sets up HTTP routes for this service on the provided router.
	// The router is a sub-router scoped to this service's path prefix.
	RegisterRoutes(router chi.Router)
}

// Registry holds the services a process serves, in registration order. It is
// built once during startup and read-only afterwards.
type Registry struct {
	services []Service
}

// NewRegistry creates a registry holding services.
func NewRegistry(services ...Service) *Registry {
	r := &Registry{}
	for _, s := range services {
		r.Register(s)
	}
	return r
}

// Register adds a service. A service whose name is already registered replaces
// the earlier one.
func (r *Registry) Register(s Service) {
	for i, existing := range r.services {
		if existing.Name() == s.Name() {
			r.services[i] = s
			return
		}
	}
	r.services = append(r.services, s)
}

// Services returns the registered services.
func (r *Registry) Services() []Service {
	out := make([]Service, len(r.services))
	copy(out, r.services)
	return out
}
