// Package resource expands declarative endpoint options into handler sets.
//
// A Binder is bound to a server's DB and produces the get/post/put/delete
// function bundle for three endpoint flavors: Model (one record, optionally
// reached through a relation), Collection (an entity's full set, optionally
// filtered by a foreign key) and Singleton (one unidentified record).
// Handlers report "not found" by returning nil; the dispatcher translates
// that into a 404-class response.
package resource
