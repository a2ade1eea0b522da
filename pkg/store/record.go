package store

// Record is a single stored entity: a mapping of field name to value.
type Record map[string]any

// Computed is a field value that is derived from the rest of the record on
// every read. The function receives the record's plain fields (with its id
// merged in, for collection records) and returns the field's current value.
// Computed values are never written back to the store.
type Computed func(Record) any

// clone returns a shallow copy of the record. Field values (including
// Computed functions) are shared with the original.
func (r Record) clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// format evaluates a raw record for reading: plain fields are copied,
// Computed fields are evaluated against an environment of the plain fields
// plus the given extra fields (the record id, for collections).
func format(raw Record, extra Record) Record {
	env := make(Record, len(raw)+len(extra))
	for k, v := range raw {
		if _, ok := v.(Computed); !ok {
			env[k] = v
		}
	}
	for k, v := range extra {
		env[k] = v
	}

	out := make(Record, len(raw)+len(extra))
	for k, v := range raw {
		if fn, ok := v.(Computed); ok {
			out[k] = fn(env)
		} else {
			out[k] = v
		}
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
