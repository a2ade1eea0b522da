package engine

import (
	"net/http"

	"github.com/restfake/restfake/pkg/httputil"
)

// Transport adapts the server to net/http's pluggable-transport hook so
// ordinary http.Client code can talk to the fake without code changes.
// Dispatch rejections come back as HTTP responses carrying the rejection
// envelope as a JSON body, never as transport errors.
type Transport struct {
	srv *Server
}

// Transport returns an http.RoundTripper resolving against this server.
func (s *Server) Transport() *Transport {
	return &Transport{srv: s}
}

// Install points the client's transport at this server. This is the single
// explicit interceptor-installation call; no global state is patched.
func (s *Server) Install(client *http.Client) {
	client.Transport = s.Transport()
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	body, err := httputil.ReadJSONBody(req)
	if err != nil {
		rejection := AsError(ServerFailure("invalid request body: " + err.Error()))
		return httputil.NewJSONResponse(req, rejection.Status, rejection), nil
	}

	resp, err := t.srv.Dispatch(req.Method, req.URL.String(), body)
	if err != nil {
		rejection := AsError(err)
		return httputil.NewJSONResponse(req, rejection.Status, rejection), nil
	}
	return httputil.NewJSONResponse(req, resp.Status, resp.Data), nil
}
