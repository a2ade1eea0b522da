// Package store holds the in-memory data backing a fake REST server.
//
// A server owns a DB: a set of named stores built from a declarative seed.
// Array-shaped seed values become Collections (many records, each with a
// monotonically assigned positive integer id), object-shaped values become
// Singletons (one record, no id). Record fields may be plain values or
// Computed functions evaluated lazily on every read, which lets a record
// expose derived or relational data without duplicating state.
//
// All mutation goes through explicit Get/Add/Update/Remove/Reset methods;
// there is no implicit interception over the raw maps.
package store
