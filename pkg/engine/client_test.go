package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restfake/restfake/pkg/store"
)

func TestClient_Verbs(t *testing.T) {
	srv := newBlogServer(t)
	client := srv.Client()

	resp, err := client.Get("/posts/1")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)

	resp, err = client.Post("/posts", map[string]any{"title": "Three"})
	require.NoError(t, err)
	assert.Equal(t, 201, resp.Status)
	assert.Equal(t, 3, resp.Data.(store.Record)["id"])

	resp, err = client.Put("/posts/1", map[string]any{"title": "Foobar"})
	require.NoError(t, err)
	assert.Equal(t, "Foobar", resp.Data.(store.Record)["title"])

	resp, err = client.Delete("/posts/2")
	require.NoError(t, err)
	assert.Equal(t, 204, resp.Status)

	_, err = client.Get("/posts/2")
	requireRejection(t, err, 404)
}

func TestClient_InstanceBaseURL(t *testing.T) {
	srv := newBlogServer(t)
	client := NewClient(srv, ClientConfig{BaseURL: "/api"})

	resp, err := client.Get("/posts/1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Data.(store.Record)["id"])

	// The matched endpoint carries the instance prefix.
	calls := srv.Requests()
	require.NotEmpty(t, calls)
	assert.Equal(t, "/api/posts/:id", calls[len(calls)-1].Endpoint)
}

func TestClient_Request(t *testing.T) {
	srv := newBlogServer(t)
	client := srv.Client()

	resp, err := client.Request(RequestConfig{Method: "put", URL: "/posts/1", Data: map[string]any{"title": "Foobar"}})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "Foobar", resp.Data.(store.Record)["title"])
}

func TestClient_RequestBaseURLWinsOverInstance(t *testing.T) {
	srv := newBlogServer(t)
	client := NewClient(srv, ClientConfig{BaseURL: "/v9"})

	// The per-call base overrides the instance base for this call only.
	resp, err := client.Request(RequestConfig{Method: "GET", URL: "/posts/1", BaseURL: "/api"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Data.(store.Record)["id"])

	_, err = client.Get("/posts/1")
	requireRejection(t, err, 404)
}
