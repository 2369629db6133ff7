package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"go-blog-backend/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestPostsRequireToken(t *testing.T) {
	s := setupServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/posts"},
		{http.MethodGet, "/posts"},
		{http.MethodGet, "/posts/1"},
		{http.MethodPatch, "/posts/1"},
		{http.MethodDelete, "/posts/1"},
		{http.MethodPost, "/comments/"},
		{http.MethodDelete, "/comments/1"},
	} {
		// An empty body would fail validation; authorization must win.
		w := s.do(tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.method+" "+tc.path)
		assert.Equal(t, "Unauthorized", gjson.Get(w.Body.String(), "message").String())
	}
}

func TestCreatePost(t *testing.T) {
	s := setupServer(t)
	token := s.register(t, "Gama QA", "gama@gmail.com")

	w := s.do(http.MethodPost, "/posts", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.ElementsMatch(t, []string{"title must be a string", "content must be a string"}, messages(w))

	w = s.do(http.MethodPost, "/posts", token, gin.H{"title": false, "content": "body"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"title must be a string"}, messages(w))

	w = s.do(http.MethodPost, "/posts", token, gin.H{"title": "Hello", "content": "World"})
	require.Equal(t, http.StatusCreated, w.Code)
	body := w.Body.String()
	assert.Equal(t, "Post created successfully", gjson.Get(body, "message").String())
	assert.Equal(t, int64(1), gjson.Get(body, "data.id").Int())
	assert.Equal(t, "Hello", gjson.Get(body, "data.title").String())
	assert.True(t, gjson.Get(body, "data.comments").IsArray())
	assert.Empty(t, gjson.Get(body, "data.comments").Array())
}

func TestListAndGetPosts(t *testing.T) {
	s := setupServer(t)
	token := s.register(t, "Gama QA", "gama@gmail.com")

	first := s.createPost(t, token, "first", "a")
	second := s.createPost(t, token, "second", "b")

	w := s.do(http.MethodGet, "/posts", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Get all posts", gjson.Get(w.Body.String(), "message").String())
	ids := gjson.Get(w.Body.String(), "data.#.id").Array()
	require.Len(t, ids, 2)
	assert.Equal(t, uint64(first), ids[0].Uint())
	assert.Equal(t, uint64(second), ids[1].Uint())

	w = s.do(http.MethodGet, fmt.Sprintf("/posts/%d", second), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Get post", gjson.Get(w.Body.String(), "message").String())
	assert.Equal(t, "second", gjson.Get(w.Body.String(), "data.title").String())

	for _, path := range []string{"/posts/99", "/posts/abc", "/posts/0", "/posts/-1"} {
		w = s.do(http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, "Post not found", gjson.Get(w.Body.String(), "message").String())
		assert.Equal(t, gjson.Null, gjson.Get(w.Body.String(), "data").Type)
		assert.False(t, gjson.Get(w.Body.String(), "success").Bool())
	}
}

func TestUpdatePost(t *testing.T) {
	s := setupServer(t)
	token := s.register(t, "Gama QA", "gama@gmail.com")
	id := s.createPost(t, token, "title", "content")
	path := fmt.Sprintf("/posts/%d", id)

	// Not found is checked before validation.
	w := s.do(http.MethodPatch, "/posts/99", token, gin.H{"title": 123})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPatch, path, token, gin.H{"title": 123})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"title must be a string"}, messages(w))

	w = s.do(http.MethodPatch, path, token, gin.H{"title": "new title", "id": 500})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Post updated successfully", gjson.Get(w.Body.String(), "message").String())
	assert.Equal(t, int64(id), gjson.Get(w.Body.String(), "data.id").Int())
	assert.Equal(t, "new title", gjson.Get(w.Body.String(), "data.title").String())
	assert.Equal(t, "content", gjson.Get(w.Body.String(), "data.content").String())

	// An empty patch changes nothing.
	w = s.do(http.MethodPatch, path, token, gin.H{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "new title", gjson.Get(w.Body.String(), "data.title").String())
}

func TestDeletePost(t *testing.T) {
	s := setupServer(t)
	token := s.register(t, "Gama QA", "gama@gmail.com")
	first := s.createPost(t, token, "first", "a")
	s.createPost(t, token, "second", "b")
	path := fmt.Sprintf("/posts/%d", first)

	w := s.do(http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Post deleted successfully", gjson.Get(w.Body.String(), "message").String())

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPatch, path, token, gin.H{"title": "x"}).Code)

	w = s.do(http.MethodGet, "/posts", token, nil)
	for _, id := range gjson.Get(w.Body.String(), "data.#.id").Array() {
		assert.NotEqual(t, uint64(first), id.Uint())
	}

	// Repeating the delete never succeeds twice.
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, path, token, nil).Code)
	}

	// Ids are not reused.
	assert.Equal(t, first+2, s.createPost(t, token, "third", "c"))
}

func TestResetPosts(t *testing.T) {
	s := setupServer(t)
	token := s.register(t, "Gama QA", "gama@gmail.com")
	id := s.createPost(t, token, "first", "a")
	s.do(http.MethodPost, "/comments/", token, gin.H{"post_id": id, "content": "hi"})

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/posts/reset", token, nil).Code)

	w := s.do(http.MethodGet, "/posts", token, nil)
	assert.Empty(t, gjson.Get(w.Body.String(), "data").Array())
	assert.Equal(t, uint(1), s.createPost(t, token, "again", "a"))

	w = s.do(http.MethodPost, "/comments/", token, gin.H{"post_id": 1, "content": "hi"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(1), gjson.Get(w.Body.String(), "data.id").Int())
}

func TestResetDisabled(t *testing.T) {
	s := setupServer(t, func(cfg *config.Config) { cfg.ResetEnabled = false })
	token := s.register(t, "Gama QA", "gama@gmail.com")

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/auth/reset", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/comments/reset", token, nil).Code)
	// Without the reset route the segment is just an id that never exists.
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/posts/reset", token, nil).Code)
}
