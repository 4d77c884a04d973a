package tui

import (
	"sync"

	"csvdash/internal/log"
)

// RootRoute is the dashboard route.
const RootRoute = "/"

// Router keeps the navigation history of the program. It implements
// dashboard.Navigator.
type Router struct {
	mu      sync.Mutex
	history []string
}

// NewRouter creates a router positioned at the dashboard.
func NewRouter() *Router {
	return &Router{history: []string{RootRoute}}
}

// Navigate pushes path onto the history.
func (r *Router) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, path)
	log.LogWithFields(log.F("route", path)).Debug("Navigate")
}

// Current returns the route on top of the history.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history[len(r.history)-1]
}

// Back pops the current route. It reports false at the dashboard.
func (r *Router) Back() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) <= 1 {
		return false
	}
	r.history = r.history[:len(r.history)-1]
	return true
}

