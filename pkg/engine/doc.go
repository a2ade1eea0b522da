// Package engine hosts the fake REST server: construction from a
// declarative seed and route table, the per-call dispatch state machine
// (parse, lookup, invoke, respond), the client double, and the
// http.RoundTripper that lets a plain net/http client talk to the fake.
//
// Every call is resolved synchronously against the in-memory store; there
// is no network, no background work and no retry. Request-time failures are
// returned as typed errors carrying an HTTP status; configuration mistakes
// are plain errors reported at setup time.
package engine
