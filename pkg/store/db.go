package store

import (
	"fmt"
	"sort"
	"sync"
)

// DB is the container of all named stores owned by one server instance.
type DB struct {
	mu          sync.RWMutex
	collections map[string]*Collection
	singletons  map[string]*Singleton
}

// NewDB builds the stores for a declarative seed: array-shaped values become
// Collections, object-shaped values become Singletons. Any other shape is a
// configuration error reported synchronously.
func NewDB(seed map[string]any) (*DB, error) {
	db := &DB{
		collections: make(map[string]*Collection),
		singletons:  make(map[string]*Singleton),
	}

	for name, value := range seed {
		if records, ok := toRecords(value); ok {
			db.collections[name] = NewCollection(name, records)
			continue
		}
		if rec, ok := toRecord(value); ok {
			db.singletons[name] = NewSingleton(name, rec)
			continue
		}
		return nil, fmt.Errorf("seed %q: expected an array of records or a record, got %T", name, value)
	}

	return db, nil
}

// Collection returns the named collection, or nil if the name is not a
// declared collection.
func (db *DB) Collection(name string) *Collection {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.collections[name]
}

// Singleton returns the named singleton, or nil if the name is not a
// declared singleton.
func (db *DB) Singleton(name string) *Singleton {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.singletons[name]
}

// Has reports whether a store was declared under the given name.
func (db *DB) Has(name string) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, c := db.collections[name]
	_, s := db.singletons[name]
	return c || s
}

// Names returns all store names in sorted order for deterministic output.
func (db *DB) Names() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()

	names := make([]string, 0, len(db.collections)+len(db.singletons))
	for name := range db.collections {
		names = append(names, name)
	}
	for name := range db.singletons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Replace swaps the named store for the one held by another DB, typically a
// throwaway instance freshly built from the same seed. Both sides must know
// the name, and the store kinds must agree.
func (db *DB) Replace(name string, from *DB) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if c := from.Collection(name); c != nil {
		if _, ok := db.collections[name]; !ok {
			return fmt.Errorf("no collection named %q to replace", name)
		}
		db.collections[name] = c
		return nil
	}
	if s := from.Singleton(name); s != nil {
		if _, ok := db.singletons[name]; !ok {
			return fmt.Errorf("no singleton named %q to replace", name)
		}
		db.singletons[name] = s
		return nil
	}
	return fmt.Errorf("unknown model %q", name)
}

// ReplaceAll swaps every store for the ones held by another DB.
func (db *DB) ReplaceAll(from *DB) {
	db.mu.Lock()
	defer db.mu.Unlock()

	from.mu.RLock()
	defer from.mu.RUnlock()

	db.collections = from.collections
	db.singletons = from.singletons
}

// Dump returns a plain snapshot of every store's current formatted data,
// keyed by model name. Collections dump as arrays, singletons as objects.
func (db *DB) Dump() map[string]any {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make(map[string]any, len(db.collections)+len(db.singletons))
	for name, c := range db.collections {
		out[name] = c.All()
	}
	for name, s := range db.singletons {
		out[name] = s.Get()
	}
	return out
}

// toRecords normalizes the accepted array shapes for a collection seed.
func toRecords(value any) ([]Record, bool) {
	switch v := value.(type) {
	case []Record:
		return v, true
	case []map[string]any:
		out := make([]Record, len(v))
		for i, m := range v {
			out[i] = Record(m)
		}
		return out, true
	case []any:
		out := make([]Record, len(v))
		for i, item := range v {
			rec, ok := toRecord(item)
			if !ok {
				return nil, false
			}
			out[i] = rec
		}
		return out, true
	}
	return nil, false
}

// toRecord normalizes the accepted object shapes for a singleton seed or an
// array element.
func toRecord(value any) (Record, bool) {
	switch v := value.(type) {
	case Record:
		return v, true
	case map[string]any:
		return Record(v), true
	}
	return nil, false
}
