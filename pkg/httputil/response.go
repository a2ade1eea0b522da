// Package httputil builds the synthetic http.Response values handed back
// through the RoundTripper path, and decodes request bodies on the way in.
package httputil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// NewJSONResponse builds an in-memory *http.Response for the given request.
// A nil body yields an empty response (used for 204s); anything else is
// JSON-encoded.
func NewJSONResponse(req *http.Request, status int, body any) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		// The dispatcher only emits JSON-encodable envelopes; an encode
		// failure here would be a bug, not a request-time condition.
		_ = json.NewEncoder(&buf).Encode(body)
	}

	resp := &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        make(http.Header),
		Body:          io.NopCloser(bytes.NewReader(buf.Bytes())),
		ContentLength: int64(buf.Len()),
		Request:       req,
	}
	if buf.Len() > 0 {
		resp.Header.Set("Content-Type", "application/json")
	}
	return resp
}

// ReadJSONBody drains and decodes a request body. An absent or empty body
// decodes to nil.
func ReadJSONBody(req *http.Request) (any, error) {
	if req.Body == nil {
		return nil, nil
	}
	defer func() { _ = req.Body.Close() }()

	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	return body, nil
}
