package callsite

import (
	"sort"
	"sync"

	"github.com/funvibe/adaptive/internal/value"
)

// Scope is a defining scope (the globals of a program). Call sites that
// resolve a callee through it cache the scope's current "unmodified"
// assumption; rebinding any existing name invalidates it and installs a
// fresh one for future caches.
type Scope struct {
	mu         sync.RWMutex
	name       string
	store      map[string]value.Value
	unmodified *Assumption
}

func NewScope(name string) *Scope {
	return &Scope{
		name:       name,
		store:      make(map[string]value.Value),
		unmodified: NewAssumption(name + " unmodified"),
	}
}

func (s *Scope) Name() string { return s.name }

func (s *Scope) Get(name string) (value.Value, bool) {
	s.mu.RLock()
	v, ok := s.store[name]
	s.mu.RUnlock()
	return v, ok
}

// Lookup returns the binding together with the assumption that guards it.
func (s *Scope) Lookup(name string) (value.Value, *Assumption, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.store[name]
	return v, s.unmodified, ok
}

// Set binds name. Rebinding an existing name is a scope mutation.
func (s *Scope) Set(name string, v value.Value) value.Value {
	s.mu.Lock()
	_, existed := s.store[name]
	s.store[name] = v
	var stale *Assumption
	if existed {
		stale = s.unmodified
		s.unmodified = NewAssumption(s.name + " unmodified")
	}
	s.mu.Unlock()
	if stale != nil {
		stale.Invalidate()
	}
	return v
}

// Unmodified returns the assumption currently guarding the scope.
func (s *Scope) Unmodified() *Assumption {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unmodified
}

// Names returns the bound names, sorted.
func (s *Scope) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.store))
	for k := range s.store {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
