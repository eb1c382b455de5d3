package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codocs/codocs/internal/comments"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubAuth(sub, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("claims", map[string]interface{}{"sub": sub, "name": name})
		c.Next()
	}
}

func newTestRouter(auth gin.HandlerFunc) (*gin.Engine, *comments.Service) {
	gin.SetMode(gin.TestMode)
	svc := comments.NewService(comments.NewMemoryRepository())
	g := gin.New()
	New(svc).Register(g, auth)
	return g, svc
}

func doJSON(t *testing.T, g *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	g.ServeHTTP(w, req)
	return w
}

func TestStartThreadAndReply(t *testing.T) {
	g, _ := newTestRouter(stubAuth("alice", "Alice"))

	w := doJSON(t, g, http.MethodPost, "/api/documents/doc1/comments",
		`{"anchor":{"from":10,"to":24},"content":"is this right?"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var th comments.Thread
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &th))
	require.NotEmpty(t, th.ID)
	assert.Equal(t, "doc1", th.DocumentID)
	assert.Equal(t, 10, th.Anchor.From)
	require.Len(t, th.Comments, 1)
	assert.Equal(t, "Alice", th.Comments[0].Author.Name)

	w = doJSON(t, g, http.MethodPost, "/api/documents/doc1/comments",
		fmt.Sprintf(`{"thread_id":%q,"content":"yes, checked it"}`, th.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	var reply comments.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, "yes, checked it", reply.Content)

	w = doJSON(t, g, http.MethodGet, "/api/documents/doc1/comments", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Threads []comments.Thread `json:"threads"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Threads, 1)
	require.Len(t, resp.Threads[0].Comments, 2)
	assert.Equal(t, "is this right?", resp.Threads[0].Comments[0].Content)
	assert.Equal(t, "yes, checked it", resp.Threads[0].Comments[1].Content)
}

func TestAddCommentRequiresExactlyOneTarget(t *testing.T) {
	g, _ := newTestRouter(stubAuth("alice", "Alice"))

	w := doJSON(t, g, http.MethodPost, "/api/documents/doc1/comments", `{"content":"orphan"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, g, http.MethodPost, "/api/documents/doc1/comments",
		`{"thread_id":"t1","anchor":{"from":0,"to":1},"content":"both"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReplyToUnknownThread(t *testing.T) {
	g, _ := newTestRouter(stubAuth("alice", "Alice"))

	w := doJSON(t, g, http.MethodPost, "/api/documents/doc1/comments",
		`{"thread_id":"nope","content":"hello"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmptyContentRejected(t *testing.T) {
	g, _ := newTestRouter(stubAuth("alice", "Alice"))

	w := doJSON(t, g, http.MethodPost, "/api/documents/doc1/comments",
		`{"anchor":{"from":0,"to":1},"content":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentsRequireAuth(t *testing.T) {
	g, _ := newTestRouter(nil)

	w := doJSON(t, g, http.MethodPost, "/api/documents/doc1/comments",
		`{"anchor":{"from":0,"to":1},"content":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
