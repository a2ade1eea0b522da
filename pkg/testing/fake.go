// Package testing is a helper for using the fake REST server inside unit
// tests: it builds a server bound to a testing.TB, hands out configured
// clients, and provides call assertions backed by the server's call log.
package testing

import (
	"net/http"
	"testing"

	"github.com/restfake/restfake/pkg/engine"
)

// Fake wraps an engine.Server for use in tests.
type Fake struct {
	*engine.Server
}

// New builds a fake server from the given configuration, failing the test
// on configuration errors.
func New(t testing.TB, cfg engine.Config) *Fake {
	t.Helper()

	srv, err := engine.New(cfg)
	if err != nil {
		t.Fatalf("restfake: %v", err)
	}
	return &Fake{Server: srv}
}

// HTTPClient returns an http.Client whose transport resolves against the
// fake server.
func (f *Fake) HTTPClient() *http.Client {
	client := &http.Client{}
	f.Install(client)
	return client
}

// AssertCalled asserts that the verb/path pair was dispatched at least
// once. The path may be a raw path ("/posts/1") or an endpoint pattern
// ("/posts/:id").
func (f *Fake) AssertCalled(t testing.TB, method, path string) {
	t.Helper()

	if f.countCalls(method, path) == 0 {
		t.Errorf("expected %s %s to be called, but it was not", method, path)
	}
}

// AssertCalledTimes asserts that the verb/path pair was dispatched exactly
// n times.
func (f *Fake) AssertCalledTimes(t testing.TB, method, path string, times int) {
	t.Helper()

	if got := f.countCalls(method, path); got != times {
		t.Errorf("expected %s %s to be called %d times, but was called %d times", method, path, times, got)
	}
}

// AssertNotCalled asserts that the verb/path pair was never dispatched.
func (f *Fake) AssertNotCalled(t testing.TB, method, path string) {
	t.Helper()

	if got := f.countCalls(method, path); got > 0 {
		t.Errorf("expected %s %s to not be called, but it was called %d times", method, path, got)
	}
}

func (f *Fake) countCalls(method, path string) int {
	count := 0
	for _, rec := range f.Requests() {
		if rec.Method != method {
			continue
		}
		if rec.Path == path || rec.Endpoint == path {
			count++
		}
	}
	return count
}
