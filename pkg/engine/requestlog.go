package engine

import (
	"sync"
	"time"
)

// CallRecord describes one dispatched call, for test assertions and
// debugging.
type CallRecord struct {
	// ID is a unique identifier assigned to the dispatch.
	ID string
	// Method is the upper-cased verb.
	Method string
	// Path is the resolved path, after any base-URL prefix.
	Path string
	// Endpoint is the matched endpoint pattern.
	Endpoint string
	// RecordID is the identifier extracted from the path, 0 if none.
	RecordID int
	// Status is the envelope status the call resolved or rejected with.
	Status int
	// At is when the call was dispatched.
	At time.Time
}

type callLog struct {
	mu      sync.Mutex
	records []CallRecord
}

func newCallLog() *callLog {
	return &callLog{}
}

func (l *callLog) add(rec CallRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
}

// Requests returns every dispatched call in chronological order.
func (s *Server) Requests() []CallRecord {
	s.calls.mu.Lock()
	defer s.calls.mu.Unlock()
	return append([]CallRecord(nil), s.calls.records...)
}

// ClearRequests empties the call log, typically between test cases.
func (s *Server) ClearRequests() {
	s.calls.mu.Lock()
	defer s.calls.mu.Unlock()
	s.calls.records = nil
}
