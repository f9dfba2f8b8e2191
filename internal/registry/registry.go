// Package registry defines the read-only view of celestial bodies the
// autopilot navigates between.
package registry

import (
	"sort"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// BodyMeta is the static description of a body. It never changes while a
// mission is flown.
type BodyMeta struct {
	ID       string
	Label    string
	Radius   float64
	HasRings bool
}

// Name returns the display label, falling back to the id.
func (m BodyMeta) Name() string {
	if m.Label != "" {
		return m.Label
	}
	return m.ID
}

// Registry answers where a body is right now and what it looks like.
// A false second return means the body is unknown or its position is not
// available yet; callers treat that as a recoverable condition.
type Registry interface {
	WorldPosition(id string) (r3.Vec, bool)
	Meta(id string) (BodyMeta, bool)
	// IDs lists every known body in a stable order.
	IDs() []string
}

// Static is a registry whose positions are set explicitly. It backs tests
// and tools that do not need a running orbital simulation.
type Static struct {
	mu     sync.RWMutex
	meta   map[string]BodyMeta
	pos    map[string]r3.Vec
	hidden map[string]bool
}

// NewStatic creates an empty static registry.
func NewStatic() *Static {
	return &Static{
		meta:   make(map[string]BodyMeta),
		pos:    make(map[string]r3.Vec),
		hidden: make(map[string]bool),
	}
}

// Put adds or replaces a body at pos.
func (s *Static) Put(meta BodyMeta, pos r3.Vec) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta[meta.ID] = meta
	s.pos[meta.ID] = pos
	return s
}

// Move sets the position of a known body. Unknown ids are ignored.
func (s *Static) Move(id string, pos r3.Vec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meta[id]; ok {
		s.pos[id] = pos
	}
}

// Hide makes a body's position unresolvable until Reveal is called.
func (s *Static) Hide(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hidden[id] = true
}

// Reveal undoes Hide.
func (s *Static) Reveal(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.hidden, id)
}

func (s *Static) WorldPosition(id string) (r3.Vec, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.hidden[id] {
		return r3.Vec{}, false
	}
	p, ok := s.pos[id]
	return p, ok
}

func (s *Static) Meta(id string) (BodyMeta, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meta[id]
	return m, ok
}

func (s *Static) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.meta))
	for id := range s.meta {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
