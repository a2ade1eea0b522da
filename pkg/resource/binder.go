package resource

import (
	"errors"

	"github.com/restfake/restfake/pkg/store"
)

// Binder builds handler sets wired to one DB.
type Binder struct {
	db *store.DB
}

// NewBinder returns a Binder over the given DB.
func NewBinder(db *store.DB) *Binder {
	if db == nil {
		panic("resource.NewBinder: db must not be nil")
	}
	return &Binder{db: db}
}

// Model binds an endpoint that addresses a single record.
//
// With Relation and Key set, the path id addresses the relation record and
// the foreign-key value stored under Key is the real id into the model's
// collection; a missing relation id resolves silently to "not found".
func (b *Binder) Model(opts Options) *HandlerSet {
	return &HandlerSet{
		Get: func(id int) (any, error) {
			return b.modelGet(opts, id), nil
		},
		Post: func(data any, id int) (any, error) {
			return b.modelPost(opts, data, id), nil
		},
		Put: func(data any, id int) (any, error) {
			return b.modelPut(opts, data, id), nil
		},
		Delete: func(data any, id int) (any, error) {
			return b.modelDelete(opts, id), nil
		},
	}
}

// Collection binds an endpoint that addresses an entity's full set.
func (b *Binder) Collection(opts Options) *HandlerSet {
	return &HandlerSet{
		Get: func(id int) (any, error) {
			return b.collectionGet(opts, id), nil
		},
		Post: func(data any, id int) (any, error) {
			return b.collectionPost(opts, data, id), nil
		},
		Put: func(data any, id int) (any, error) {
			return b.collectionPut(opts, data, id), nil
		},
	}
}

// Singleton binds an endpoint that addresses one unidentified record.
// DELETE restores the seeded snapshot rather than emptying the record.
func (b *Binder) Singleton(opts Options) *HandlerSet {
	return &HandlerSet{
		Get: func(id int) (any, error) {
			s := b.db.Singleton(opts.Model)
			if s == nil {
				return nil, nil
			}
			return exclude(s.Get(), opts.Exclude), nil
		},
		Put: func(data any, id int) (any, error) {
			s := b.db.Singleton(opts.Model)
			if s == nil {
				return nil, nil
			}
			rec, ok := toRecord(data)
			if !ok {
				return nil, nil
			}
			return exclude(s.Update(rec), opts.Exclude), nil
		},
		Delete: func(data any, id int) (any, error) {
			if s := b.db.Singleton(opts.Model); s != nil {
				s.Reset()
			}
			return nil, nil
		},
	}
}

// resolveID maps a path id through the relation when one is declared. The
// second return is false when resolution fails (absent relation record or a
// foreign key that is empty or non-numeric).
func (b *Binder) resolveID(opts Options, id int) (int, bool) {
	if opts.Relation == "" || opts.Key == "" {
		return id, true
	}
	rel := b.db.Collection(opts.Relation)
	if rel == nil {
		return 0, false
	}
	parent := rel.Get(id)
	if parent == nil {
		return 0, false
	}
	return asID(parent[opts.Key])
}

func (b *Binder) modelGet(opts Options, id int) any {
	targetID, ok := b.resolveID(opts, id)
	if !ok {
		return nil
	}
	c := b.db.Collection(opts.Model)
	if c == nil {
		return nil
	}
	rec := c.Get(targetID)
	if rec == nil {
		return nil
	}
	return exclude(rec, opts.Exclude)
}

func (b *Binder) modelPut(opts Options, data any, id int) any {
	c := b.db.Collection(opts.Model)
	if c == nil {
		return nil
	}
	rec, ok := toRecord(data)
	if !ok {
		return nil
	}

	if opts.Relation == "" || opts.Key == "" {
		updated, err := c.Update(id, rec)
		if err != nil {
			return nil
		}
		return exclude(updated, opts.Exclude)
	}

	// Re-link: data.id must reference an existing target record, and the
	// relation record at the path id takes it as its new foreign key.
	targetID, ok := asID(rec["id"])
	if !ok {
		return nil
	}
	target := c.Get(targetID)
	if target == nil {
		return nil
	}
	rel := b.db.Collection(opts.Relation)
	if rel == nil {
		return nil
	}
	if _, err := rel.Update(id, store.Record{opts.Key: targetID}); err != nil {
		return nil
	}
	return exclude(target, opts.Exclude)
}

func (b *Binder) modelPost(opts Options, data any, id int) any {
	// Create-then-link (or update-then-link) is only meaningful when the
	// path id belongs to a relation record.
	if opts.Relation == "" || opts.Key == "" {
		return nil
	}
	c := b.db.Collection(opts.Model)
	rel := b.db.Collection(opts.Relation)
	if c == nil || rel == nil {
		return nil
	}
	rec, ok := toRecord(data)
	if !ok {
		return nil
	}

	var targetID int
	if existingID, hasID := asID(rec["id"]); hasID {
		if _, err := c.Update(existingID, rec); err != nil {
			return nil
		}
		targetID = existingID
	} else {
		added := c.Add(rec)
		targetID, _ = asID(added["id"])
	}

	if _, err := rel.Update(id, store.Record{opts.Key: targetID}); err != nil {
		return nil
	}
	return exclude(c.Get(targetID), opts.Exclude)
}

func (b *Binder) modelDelete(opts Options, id int) any {
	if opts.Relation != "" && opts.Key != "" {
		// Unlink: clear the relation's foreign key, leave the target
		// record untouched.
		if rel := b.db.Collection(opts.Relation); rel != nil {
			_, _ = rel.Update(id, store.Record{opts.Key: nil})
		}
		return nil
	}
	if c := b.db.Collection(opts.Model); c != nil {
		c.Remove(id)
	}
	return nil
}

func (b *Binder) collectionGet(opts Options, id int) any {
	c := b.db.Collection(opts.Model)
	if c == nil {
		return nil
	}

	filtered := opts.Relation != "" && opts.Key != "" && id != 0
	out := make([]store.Record, 0, c.Count())
	for _, rec := range c.All() {
		if filtered {
			if fk, ok := asID(rec[opts.Key]); !ok || fk != id {
				continue
			}
		}
		out = append(out, exclude(rec, opts.Exclude))
	}
	return out
}

// collectionPost accepts a single record or an array of records; the output
// shape mirrors the input shape. Items carrying an id update the existing
// record, the rest are created. Batches are all-or-nothing: if any item
// fails, the collection is restored to its pre-batch state.
func (b *Binder) collectionPost(opts Options, data any, id int) any {
	c := b.db.Collection(opts.Model)
	if c == nil {
		return nil
	}

	items, isArray := toRecordSlice(data)
	if !isArray {
		rec, ok := toRecord(data)
		if !ok {
			return nil
		}
		items = []store.Record{rec}
	}

	results, err := b.writeBatch(c, opts, items, id, false)
	if err != nil {
		return nil
	}
	if isArray {
		return results
	}
	return results[0]
}

// collectionPut updates a batch of records through a relation. It is only
// valid with Relation, Key, a path id and array input; every other
// combination (including single-object input) is undefined. The asymmetry
// with collectionPost mirrors the declared API surface.
func (b *Binder) collectionPut(opts Options, data any, id int) any {
	if opts.Relation == "" || opts.Key == "" || id == 0 {
		return nil
	}
	c := b.db.Collection(opts.Model)
	if c == nil {
		return nil
	}
	items, ok := toRecordSlice(data)
	if !ok {
		return nil
	}

	results, err := b.writeBatch(c, opts, items, id, true)
	if err != nil {
		return nil
	}
	return results
}

var errBatchFailed = errors.New("batch item failed")

// writeBatch applies a batch of creates/updates under a snapshot, restoring
// the collection when any item fails. When updateOnly is set, every item
// must carry its own id.
func (b *Binder) writeBatch(c *store.Collection, opts Options, items []store.Record, id int, updateOnly bool) ([]store.Record, error) {
	stamp := opts.Relation != "" && opts.Key != "" && id != 0

	snap := c.Snapshot()
	results := make([]store.Record, 0, len(items))
	for _, item := range items {
		rec := store.Record{}
		for k, v := range item {
			rec[k] = v
		}
		if stamp {
			rec[opts.Key] = id
		}

		itemID, hasID := asID(rec["id"])
		if !hasID {
			if updateOnly {
				c.Restore(snap)
				return nil, errBatchFailed
			}
			results = append(results, exclude(c.Add(rec), opts.Exclude))
			continue
		}

		updated, err := c.Update(itemID, rec)
		if err != nil {
			c.Restore(snap)
			return nil, errBatchFailed
		}
		results = append(results, exclude(updated, opts.Exclude))
	}
	return results, nil
}
