package engine

import "net/http"

// ClientConfig mirrors the configuration accepted by the imitated request
// client's instance constructor.
type ClientConfig struct {
	// BaseURL is prefixed to every path dispatched through this client.
	BaseURL string
}

// RequestConfig is the generic invoke-with-config call form.
type RequestConfig struct {
	Method  string
	URL     string
	Data    any
	BaseURL string
}

// Client is the in-process double of a conventional request client. Calls
// go straight to the server's dispatcher; no sockets are involved.
type Client struct {
	srv     *Server
	baseURL string
}

// NewClient creates a client instance bound to the server. A non-empty
// BaseURL is applied as the server's base-URL override for the duration of
// each call made through this instance (see Server.WithBaseURL for the
// concurrency hazard this implies).
func NewClient(srv *Server, cfg ClientConfig) *Client {
	return &Client{srv: srv, baseURL: cfg.BaseURL}
}

// Client returns a client instance with no base URL.
func (s *Server) Client() *Client {
	return NewClient(s, ClientConfig{})
}

func (c *Client) dispatch(method, url string, data any, base string) (*Response, error) {
	if base == "" {
		base = c.baseURL
	}
	if base == "" {
		return c.srv.Dispatch(method, url, data)
	}
	return c.srv.WithBaseURL(base, func() (*Response, error) {
		return c.srv.Dispatch(method, url, data)
	})
}

// Get dispatches a GET call.
func (c *Client) Get(url string) (*Response, error) {
	return c.dispatch(http.MethodGet, url, nil, "")
}

// Post dispatches a POST call.
func (c *Client) Post(url string, data any) (*Response, error) {
	return c.dispatch(http.MethodPost, url, data, "")
}

// Put dispatches a PUT call.
func (c *Client) Put(url string, data any) (*Response, error) {
	return c.dispatch(http.MethodPut, url, data, "")
}

// Delete dispatches a DELETE call.
func (c *Client) Delete(url string) (*Response, error) {
	return c.dispatch(http.MethodDelete, url, nil, "")
}

// Request dispatches the generic config-object call form. A BaseURL in the
// config takes precedence over the instance's own.
func (c *Client) Request(cfg RequestConfig) (*Response, error) {
	return c.dispatch(cfg.Method, cfg.URL, cfg.Data, cfg.BaseURL)
}
