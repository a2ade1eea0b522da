package resource

import "github.com/restfake/restfake/pkg/store"

// Options declares how an endpoint binds to the data layer.
type Options struct {
	// Model is the target entity name in the DB.
	Model string

	// Exclude lists fields stripped from every response of the endpoint.
	Exclude []string

	// Relation names the parent entity whose identifier appears in the
	// path. When set together with Key, the path id addresses a record of
	// the relation, and Key is the foreign-key field on it linking to the
	// target entity.
	Relation string

	// Key is the foreign-key field used with Relation.
	Key string
}

// ByName is the string shorthand: ByName("authors") is equivalent to
// Options{Model: "authors"}.
func ByName(model string) Options {
	return Options{Model: model}
}

// GetFunc handles a read. The id is 0 when the path carried none. A nil
// result means "not found".
type GetFunc func(id int) (any, error)

// WriteFunc handles a write. The id is always the last argument and is 0
// when the path carried none. A nil result on POST/PUT means "not found";
// on DELETE it is plain success.
type WriteFunc func(data any, id int) (any, error)

// HandlerSet is the function bundle bound to one endpoint pattern. A nil
// function means the verb is unsupported at that endpoint.
type HandlerSet struct {
	Get    GetFunc
	Post   WriteFunc
	Put    WriteFunc
	Delete WriteFunc
}

// Routes maps endpoint patterns (with the :id placeholder) to handler sets.
// A nil handler set explicitly disables the pattern.
type Routes map[string]*HandlerSet

// toRecord accepts the object shapes a request body may arrive in.
func toRecord(data any) (store.Record, bool) {
	switch v := data.(type) {
	case store.Record:
		return v, true
	case map[string]any:
		return store.Record(v), true
	}
	return nil, false
}

// toRecordSlice accepts the array shapes a request body may arrive in.
func toRecordSlice(data any) ([]store.Record, bool) {
	switch v := data.(type) {
	case []store.Record:
		return v, true
	case []map[string]any:
		out := make([]store.Record, len(v))
		for i, m := range v {
			out[i] = store.Record(m)
		}
		return out, true
	case []any:
		out := make([]store.Record, len(v))
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

// asID coerces the numeric shapes an id may arrive in (JSON decodes numbers
// as float64, YAML as int). Only strictly positive values are valid ids.
func asID(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		if n > 0 {
			return n, true
		}
	case int64:
		if n > 0 {
			return int(n), true
		}
	case float64:
		if n > 0 && n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

// exclude strips the named fields from a formatted record. The record is a
// per-read copy, so it is safe to delete in place.
func exclude(rec store.Record, fields []string) store.Record {
	for _, f := range fields {
		delete(rec, f)
	}
	return rec
}
