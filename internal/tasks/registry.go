// Package tasks holds the handlers the scheduled-task worker can execute.
package tasks

import (
	"context"
	"sync"
)

// Handler executes one task run. It receives the stored arguments and returns
// a result map that ends up in the task history.
type Handler func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error)

// Registry maps task names to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler under the given task name.
func (r *Registry) Register(name string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = handler
}

// Get returns the handler for a task name.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[name]
	return handler, ok
}
