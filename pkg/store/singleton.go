package store

import "sync"

// Singleton is an in-memory store of exactly one unidentified record.
type Singleton struct {
	mu   sync.RWMutex
	name string
	data Record
	seed Record
}

// NewSingleton builds a singleton from the declared object-valued seed.
func NewSingleton(name string, seed Record) *Singleton {
	return &Singleton{name: name, data: seed.clone(), seed: seed}
}

// Name returns the entity name this singleton was registered under.
func (s *Singleton) Name() string {
	return s.name
}

// Get returns a copy of the current data with Computed fields evaluated.
func (s *Singleton) Get() Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return format(s.data, nil)
}

// Update merges the fields present in partial into the data and returns the
// result formatted as by Get.
func (s *Singleton) Update(partial Record) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range partial {
		s.data[k] = v
	}
	return format(s.data, nil)
}

// Reset restores the original declared snapshot.
func (s *Singleton) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = s.seed.clone()
}
