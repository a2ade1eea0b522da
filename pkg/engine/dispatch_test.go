package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restfake/restfake/pkg/store"
)

func requireRejection(t *testing.T, err error, status int) *Error {
	t.Helper()
	require.Error(t, err)
	var rejection *Error
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, status, rejection.Status)
	return rejection
}

func TestDispatch_GetCollection(t *testing.T) {
	srv := newBlogServer(t)

	resp, err := srv.Dispatch("GET", "/posts", nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)

	posts, ok := resp.Data.([]store.Record)
	require.True(t, ok)
	require.Len(t, posts, 2)

	assert.Equal(t, store.Record{"id": 1, "title": "Foo", "body": "foo bar", "author": 1}, posts[0])
	assert.NotContains(t, posts[1], "author_id", "excluded field must not leak")
	assert.Equal(t, 2, posts[1]["author"])
}

func TestDispatch_GetRecord(t *testing.T) {
	srv := newBlogServer(t)

	resp, err := srv.Dispatch("GET", "/posts/1", nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, store.Record{"id": 1, "title": "Foo", "body": "foo bar", "author": 1}, resp.Data)
}

func TestDispatch_GetMissingRecord(t *testing.T) {
	srv := newBlogServer(t)

	_, err := srv.Dispatch("GET", "/posts/99", nil)
	requireRejection(t, err, 404)
}

func TestDispatch_PutMergesFields(t *testing.T) {
	srv := newBlogServer(t)

	resp, err := srv.Dispatch("PUT", "/posts/1", map[string]any{"title": "Foobar"})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, store.Record{"id": 1, "title": "Foobar", "body": "foo bar", "author": 1}, resp.Data)

	// Untouched fields survive the merge.
	resp, err = srv.Dispatch("GET", "/posts/1", nil)
	require.NoError(t, err)
	assert.Equal(t, "foo bar", resp.Data.(store.Record)["body"])
}

func TestDispatch_PutCannotReassignID(t *testing.T) {
	srv := newBlogServer(t)

	_, err := srv.Dispatch("PUT", "/posts/1", map[string]any{"id": 42, "title": "hijack"})
	require.NoError(t, err)

	resp, err := srv.Dispatch("GET", "/posts/1", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Data.(store.Record)["id"])
	assert.Equal(t, "hijack", resp.Data.(store.Record)["title"])
}

func TestDispatch_DeleteThenGet(t *testing.T) {
	srv := newBlogServer(t)

	resp, err := srv.Dispatch("DELETE", "/posts/2", nil)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.Status)
	assert.Nil(t, resp.Data)

	_, err = srv.Dispatch("GET", "/posts/2", nil)
	requireRejection(t, err, 404)

	// Deleting again still completes.
	resp, err = srv.Dispatch("DELETE", "/posts/2", nil)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.Status)
}

func TestDispatch_PostSingleRecord(t *testing.T) {
	srv := newBlogServer(t)

	resp, err := srv.Dispatch("POST", "/posts", map[string]any{"title": "Three", "body": "three"})
	require.NoError(t, err)
	assert.Equal(t, 201, resp.Status)

	created, ok := resp.Data.(store.Record)
	require.True(t, ok)
	assert.Equal(t, 3, created["id"])
	assert.Equal(t, "Three", created["title"])
	// New records inherit the collection's computed fields.
	assert.Contains(t, created, "author")
	assert.Nil(t, created["author"])
}

func TestDispatch_PostArrayOfRecords(t *testing.T) {
	srv := newBlogServer(t)

	resp, err := srv.Dispatch("POST", "/posts", []map[string]any{
		{"title": "Three"},
		{"title": "Four"},
	})
	require.NoError(t, err)
	assert.Equal(t, 201, resp.Status)

	created, ok := resp.Data.([]store.Record)
	require.True(t, ok)
	require.Len(t, created, 2)
	assert.Equal(t, 3, created[0]["id"])
	assert.Equal(t, 4, created[1]["id"])
}

func TestDispatch_PostUpsertByID(t *testing.T) {
	srv := newBlogServer(t)

	resp, err := srv.Dispatch("POST", "/posts", map[string]any{"id": 1, "title": "Rewritten"})
	require.NoError(t, err)
	assert.Equal(t, 201, resp.Status)
	assert.Equal(t, 1, resp.Data.(store.Record)["id"])
	assert.Equal(t, "Rewritten", resp.Data.(store.Record)["title"])

	resp, err = srv.Dispatch("GET", "/posts", nil)
	require.NoError(t, err)
	assert.Len(t, resp.Data.([]store.Record), 2, "upsert by id must not grow the collection")
}

func TestDispatch_Singleton(t *testing.T) {
	srv := newBlogServer(t)

	resp, err := srv.Dispatch("GET", "/profile", nil)
	require.NoError(t, err)
	assert.Equal(t, store.Record{"username": "admin"}, resp.Data)

	resp, err = srv.Dispatch("PUT", "/profile", map[string]any{"username": "test", "theme": "dark"})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, store.Record{"username": "test", "theme": "dark"}, resp.Data)

	// DELETE restores the seeded snapshot.
	resp, err = srv.Dispatch("DELETE", "/profile", nil)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.Status)

	resp, err = srv.Dispatch("GET", "/profile", nil)
	require.NoError(t, err)
	assert.Equal(t, store.Record{"username": "admin"}, resp.Data)
}

func TestDispatch_NestedGet(t *testing.T) {
	srv := newBlogServer(t)

	resp, err := srv.Dispatch("GET", "/posts/1/author", nil)
	require.NoError(t, err)
	assert.Equal(t, store.Record{"id": 1, "name": "ann"}, resp.Data)

	resp, err = srv.Dispatch("GET", "/posts/2/author", nil)
	require.NoError(t, err)
	assert.Equal(t, "bob", resp.Data.(store.Record)["name"])
}

func TestDispatch_NestedUnlink(t *testing.T) {
	srv := newBlogServer(t)

	resp, err := srv.Dispatch("DELETE", "/posts/1/author", nil)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.Status)

	// The post survives with a cleared foreign key; the computed author
	// field now evaluates to nothing.
	resp, err = srv.Dispatch("GET", "/posts/1", nil)
	require.NoError(t, err)
	assert.Nil(t, resp.Data.(store.Record)["author"])

	// The author record itself is untouched.
	resp, err = srv.Dispatch("GET", "/posts/2/author", nil)
	require.NoError(t, err)
	assert.Equal(t, "bob", resp.Data.(store.Record)["name"])

	// But it is no longer reachable through the unlinked post.
	_, err = srv.Dispatch("GET", "/posts/1/author", nil)
	requireRejection(t, err, 404)
}

func TestDispatch_NestedRelink(t *testing.T) {
	srv := newBlogServer(t)

	resp, err := srv.Dispatch("PUT", "/posts/1/author", map[string]any{"id": 2})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "bob", resp.Data.(store.Record)["name"])

	resp, err = srv.Dispatch("GET", "/posts/1", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Data.(store.Record)["author"])
}

func TestDispatch_NestedCreateAndLink(t *testing.T) {
	srv := newBlogServer(t)

	resp, err := srv.Dispatch("POST", "/posts/1/author", map[string]any{"name": "carol"})
	require.NoError(t, err)
	assert.Equal(t, 201, resp.Status)
	assert.Equal(t, store.Record{"id": 3, "name": "carol"}, resp.Data)

	resp, err = srv.Dispatch("GET", "/posts/1/author", nil)
	require.NoError(t, err)
	assert.Equal(t, "carol", resp.Data.(store.Record)["name"])
}

func TestDispatch_UnregisteredEndpoint(t *testing.T) {
	srv := newBlogServer(t)

	_, err := srv.Dispatch("GET", "/nope", nil)
	rejection := requireRejection(t, err, 404)
	assert.Contains(t, rejection.Message, "not registered")
}

func TestDispatch_UnsupportedVerb(t *testing.T) {
	srv := newBlogServer(t)

	// The collection endpoint binds no DELETE handler.
	_, err := srv.Dispatch("DELETE", "/posts", nil)
	rejection := requireRejection(t, err, 404)
	assert.Contains(t, rejection.Message, "DELETE")
}

func TestDispatch_NilHandlerSet(t *testing.T) {
	srv := newBlogServer(t)

	_, err := srv.Dispatch("GET", "/disabled", nil)
	requireRejection(t, err, 404)
}

func TestDispatch_HandlerErrorsPropagate(t *testing.T) {
	srv := newBlogServer(t)

	_, err := srv.Dispatch("GET", "/forbidden", nil)
	rejection := requireRejection(t, err, 403)
	assert.Equal(t, "forbidden", rejection.Message)

	_, err = srv.Dispatch("GET", "/explode", nil)
	rejection = requireRejection(t, err, 500)
	assert.Equal(t, "boom", rejection.Message)
}

func TestDispatch_UntypedHandlerErrorBecomes500(t *testing.T) {
	srv := newBlogServer(t)

	// An error carrying no status surfaces as an internal failure.
	_, err := srv.Dispatch("GET", "/flaky", nil)
	rejection := requireRejection(t, err, 500)
	assert.Equal(t, "disk offline", rejection.Message)
}

func TestDispatch_DataLayerNotFoundBecomes404(t *testing.T) {
	srv := newBlogServer(t)

	// A store-level not-found leaking out of a custom handler maps to the
	// 404 family, keeping its own message.
	_, err := srv.Dispatch("GET", "/drafts/7", nil)
	rejection := requireRejection(t, err, 404)
	assert.Contains(t, rejection.Message, `model "drafts" has no record with id 7`)
}

func TestDispatch_LowercaseVerb(t *testing.T) {
	srv := newBlogServer(t)

	resp, err := srv.Dispatch("get", "/posts/1", nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
}

func TestDispatch_StripsQueryAndHost(t *testing.T) {
	srv := newBlogServer(t)

	resp, err := srv.Dispatch("GET", "/posts/1?embed=author", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Data.(store.Record)["id"])

	resp, err = srv.Dispatch("GET", "http://api.example.com/posts/2", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Data.(store.Record)["id"])
}

func TestWithBaseURL_PrefixesAndRestores(t *testing.T) {
	srv := newBlogServer(t)

	resp, err := srv.WithBaseURL("/api", func() (*Response, error) {
		return srv.Dispatch("GET", "/posts/1", nil)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Data.(store.Record)["id"])

	// An unregistered prefix rejects.
	resp, err = srv.WithBaseURL("/v9", func() (*Response, error) {
		return srv.Dispatch("GET", "/posts/1", nil)
	})
	requireRejection(t, err, 404)
	assert.Nil(t, resp)

	// The override is gone once the call returns, even after a rejection.
	resp, err = srv.Dispatch("GET", "/posts/1", nil)
	require.NoError(t, err)
	assert.Equal(t, "/posts/:id", srv.Requests()[len(srv.Requests())-1].Endpoint)
	assert.Equal(t, 1, resp.Data.(store.Record)["id"])
}

func TestRequests_LogsEveryCall(t *testing.T) {
	srv := newBlogServer(t)

	_, _ = srv.Dispatch("GET", "/posts/1", nil)
	_, _ = srv.Dispatch("DELETE", "/posts/2", nil)
	_, _ = srv.Dispatch("GET", "/nope", nil)

	calls := srv.Requests()
	require.Len(t, calls, 3)

	assert.Equal(t, "GET", calls[0].Method)
	assert.Equal(t, "/posts/1", calls[0].Path)
	assert.Equal(t, "/posts/:id", calls[0].Endpoint)
	assert.Equal(t, 1, calls[0].RecordID)
	assert.Equal(t, 200, calls[0].Status)
	assert.NotEmpty(t, calls[0].ID)

	assert.Equal(t, 204, calls[1].Status)

	// Rejections are logged too.
	assert.Equal(t, 404, calls[2].Status)

	srv.ClearRequests()
	assert.Empty(t, srv.Requests())
}
