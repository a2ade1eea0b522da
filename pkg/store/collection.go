package store

import "sync"

// Collection is an in-memory store of many identified records of one entity
// type. Identifiers are positive integers assigned in strictly increasing
// order: seeded records get 1..N, and the internal counter is never
// recomputed by scanning, so ids are not reused even after removals.
type Collection struct {
	mu      sync.RWMutex
	name    string
	records map[int]Record
	order   []int
	lastID  int
	seed    []Record
}

// CollectionSnapshot is a point-in-time copy of a collection's contents,
// used to make batched writes all-or-nothing.
type CollectionSnapshot struct {
	records map[int]Record
	order   []int
	lastID  int
}

// NewCollection builds a collection seeded with the given records, assigned
// ids 1..len(seed) in declaration order.
func NewCollection(name string, seed []Record) *Collection {
	c := &Collection{name: name, seed: seed}
	c.load()
	return c
}

// load populates records from the seed and primes the id counter.
func (c *Collection) load() {
	c.records = make(map[int]Record, len(c.seed))
	c.order = make([]int, 0, len(c.seed))
	for i, rec := range c.seed {
		id := i + 1
		stored := rec.clone()
		delete(stored, "id")
		c.records[id] = stored
		c.order = append(c.order, id)
	}
	c.lastID = len(c.seed)
}

// Name returns the entity name this collection was registered under.
func (c *Collection) Name() string {
	return c.name
}

// Get returns a copy of the record merged with its id field, with every
// Computed field evaluated. It returns nil when the id is absent; callers
// must treat nil as "not found", distinct from an error.
func (c *Collection) Get(id int) Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.get(id)
}

func (c *Collection) get(id int) Record {
	raw, ok := c.records[id]
	if !ok {
		return nil
	}
	return format(raw, Record{"id": id})
}

// All returns every record in insertion order, formatted as by Get.
func (c *Collection) All() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Record, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.get(id))
	}
	return out
}

// Count returns the number of stored records.
func (c *Collection) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Add stores a new record under the next identifier and returns it formatted.
// Fields that are Computed in an existing record's shape but missing from the
// input are filled in, so new records inherit the computed-field wiring of
// their collection. Any "id" field on the input is ignored.
func (c *Collection) Add(rec Record) Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := rec.clone()
	if stored == nil {
		stored = Record{}
	}
	delete(stored, "id")

	if len(c.order) > 0 {
		shape := c.records[c.order[0]]
		for k, v := range shape {
			if fn, ok := v.(Computed); ok {
				if _, present := stored[k]; !present {
					stored[k] = fn
				}
			}
		}
	}

	c.lastID++
	id := c.lastID
	c.records[id] = stored
	c.order = append(c.order, id)
	return c.get(id)
}

// Update merges the fields present in partial into the stored record and
// returns the result formatted as by Get. Fields not mentioned in partial
// are left untouched. Updating an absent id fails with *NotFoundError.
func (c *Collection) Update(id int, partial Record) (Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok := c.records[id]
	if !ok {
		return nil, &NotFoundError{Model: c.name, ID: id}
	}
	for k, v := range partial {
		if k == "id" {
			continue
		}
		raw[k] = v
	}
	return c.get(id), nil
}

// Remove deletes the record with the given id. Removing an absent id is a
// no-op.
func (c *Collection) Remove(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.records[id]; !ok {
		return
	}
	delete(c.records, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Reset restores the exact snapshot and identifier counter captured at
// construction time.
func (c *Collection) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
}

// Snapshot captures the current contents for a later Restore.
func (c *Collection) Snapshot() *CollectionSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := &CollectionSnapshot{
		records: make(map[int]Record, len(c.records)),
		order:   append([]int(nil), c.order...),
		lastID:  c.lastID,
	}
	for id, rec := range c.records {
		s.records[id] = rec.clone()
	}
	return s
}

// Restore replaces the collection's contents with a snapshot taken earlier.
func (c *Collection) Restore(s *CollectionSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = make(map[int]Record, len(s.records))
	for id, rec := range s.records {
		c.records[id] = rec.clone()
	}
	c.order = append([]int(nil), s.order...)
	c.lastID = s.lastID
}
