// Package matching turns raw request paths into endpoint patterns.
//
// A path like /posts/1/author is split into the numeric identifier (1) and
// the endpoint pattern /posts/:id/author, which is the key into the server's
// endpoint table. Only the first numeric segment is substituted; paths with
// more than one numeric segment must be registered as literal strings.
package matching
