package engine

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/restfake/restfake/internal/id"
	"github.com/restfake/restfake/internal/matching"
	"github.com/restfake/restfake/pkg/resource"
)

// Dispatch resolves one call against the endpoint table. Each call is a
// single synchronous attempt: parse the URL, look up the handler set,
// invoke the verb's handler, shape the outcome.
//
// Success returns a *Response (GET/PUT 200, POST 201, DELETE 204). Failure
// returns a *Error envelope: unregistered endpoints and unsupported verbs
// reject with 404 (NotFoundError), a handler returning no record rejects
// with 404 (MissingError), and handler-thrown errors carrying a status are
// surfaced unchanged.
func (s *Server) Dispatch(method, rawURL string, body any) (*Response, error) {
	verb := strings.ToUpper(method)
	path := s.resolvePath(rawURL)
	recordID, endpoint := matching.ParsePath(path)
	requestID := id.Request()

	s.log.Debug("dispatch", "request_id", requestID, "verb", verb, "endpoint", endpoint, "id", recordID)

	resp, err := s.invoke(verb, endpoint, recordID, body)

	var rejection *Error
	status := 0
	if resp != nil {
		status = resp.Status
	} else if err != nil {
		rejection = AsError(err)
		status = rejection.Status
	}
	s.calls.add(CallRecord{
		ID:       requestID,
		Method:   verb,
		Path:     path,
		Endpoint: endpoint,
		RecordID: recordID,
		Status:   status,
		At:       time.Now(),
	})

	if rejection != nil {
		s.log.Warn("dispatch rejected", "request_id", requestID, "verb", verb, "endpoint", endpoint, "status", rejection.Status, "message", rejection.Message)
		return nil, rejection
	}
	return resp, nil
}

// resolvePath applies the active base-URL override and reduces the raw URL
// to a routable path.
func (s *Server) resolvePath(rawURL string) string {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Scheme != "" {
		path = u.Path
	} else if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}

	s.baseMu.Lock()
	base := s.baseURL
	s.baseMu.Unlock()
	return base + path
}

func (s *Server) invoke(verb, endpoint string, recordID int, body any) (*Response, error) {
	h, registered := s.api[endpoint]
	if !registered || h == nil {
		return nil, &NotFoundError{Endpoint: endpoint}
	}

	var (
		result any
		err    error
	)
	switch verb {
	case http.MethodGet:
		if h.Get == nil {
			return nil, &NotFoundError{Verb: verb, Endpoint: endpoint}
		}
		result, err = h.Get(recordID)
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		var fn resource.WriteFunc
		switch verb {
		case http.MethodPost:
			fn = h.Post
		case http.MethodPut:
			fn = h.Put
		case http.MethodDelete:
			fn = h.Delete
		}
		if fn == nil {
			return nil, &NotFoundError{Verb: verb, Endpoint: endpoint}
		}
		result, err = fn(body, recordID)
	default:
		return nil, &NotFoundError{Verb: verb, Endpoint: endpoint}
	}
	if err != nil {
		return nil, err
	}

	switch verb {
	case http.MethodDelete:
		// A delete that completes is success regardless of result.
		return &Response{Status: http.StatusNoContent, Data: result}, nil
	case http.MethodPost:
		if result == nil {
			return nil, &MissingError{Verb: verb, Endpoint: endpoint, ID: recordID}
		}
		return &Response{Status: http.StatusCreated, Data: result}, nil
	default: // GET, PUT
		if result == nil {
			return nil, &MissingError{Verb: verb, Endpoint: endpoint, ID: recordID}
		}
		return &Response{Status: http.StatusOK, Data: result}, nil
	}
}

// WithBaseURL runs fn with the server-wide base-URL override installed and
// restores the previous value when fn returns, including on error paths.
//
// The override is shared per server instance: calls dispatched concurrently
// without awaiting each other can observe another call's base URL. That is
// an inherent property of the imitated client protocol, not something this
// package papers over.
func (s *Server) WithBaseURL(base string, fn func() (*Response, error)) (*Response, error) {
	s.baseMu.Lock()
	prev := s.baseURL
	s.baseURL = base
	s.baseMu.Unlock()

	defer func() {
		s.baseMu.Lock()
		s.baseURL = prev
		s.baseMu.Unlock()
	}()

	return fn()
}
