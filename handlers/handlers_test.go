// handlers_test.go - Shared setup for the HTTP tests
// Run with: go test ./...

package handlers

import (
	"bytes"           // For building request bodies
	"context"         // For direct store access
	"encoding/json"   // For encoding request bodies
	"io"              // For silencing logs
	"net/http"        // HTTP status codes
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"go-blog-backend/auth"
	"go-blog-backend/config"
	"go-blog-backend/database"
	"go-blog-backend/events"
	"go-blog-backend/jobs"
	"go-blog-backend/models"
	"go-blog-backend/repository"
	"go-blog-backend/validation"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"golang.org/x/crypto/bcrypt"
)

const strongPassword = "Qwerty_123"

type testServer struct {
	router *gin.Engine
	deps   Deps
}

// setupServer builds the full router over a fresh SQLite file.
func setupServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{
		DBDriver:       "sqlite",
		DBPath:         filepath.Join(t.TempDir(), "test.db"),
		JWTSecret:      "test-secret",
		JWTTTL:         time.Hour,
		JWTIssuer:      "go-blog-backend",
		ResetEnabled:   true,
		PurgeRetention: 0,
	}
	for _, m := range mutate {
		m(cfg)
	}

	db, err := database.Connect(cfg, log)
	require.NoError(t, err)
	store := repository.NewStore(db)
	validator := validation.New()
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTIssuer, store.Users)
	bus := events.NewBus(log)
	t.Cleanup(bus.Close)

	deps := Deps{
		Config:    cfg,
		Log:       log,
		Store:     store,
		Auth:      auth.NewService(store.Users, auth.BcryptHasher{Cost: bcrypt.MinCost}, tokens, validator, log),
		Tokens:    tokens,
		Validator: validator,
		Bus:       bus,
		Purger:    jobs.NewPurger(store, cfg.PurgeRetention, log),
	}
	return &testServer{router: NewRouter(deps), deps: deps}
}

// do sends a request. body may be nil, a raw string or anything JSON-encodable.
func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewBuffer(raw)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	s.router.ServeHTTP(w, req)
	return w
}

// register creates a member through the API and returns its access token.
func (s *testServer) register(t *testing.T, name, email string) string {
	t.Helper()
	w := s.do(http.MethodPost, "/auth/register", "", gin.H{"name": name, "email": email, "password": strongPassword})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/auth/login", "", gin.H{"email": email, "password": strongPassword})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token := gjson.Get(w.Body.String(), "data.access_token").String()
	require.NotEmpty(t, token)
	return token
}

// admin stores an admin directly and issues its token.
func (s *testServer) admin(t *testing.T) string {
	t.Helper()
	user := &models.User{Name: "Admin", Email: "admin@test.com", Password: "unused", Role: models.RoleAdmin}
	require.NoError(t, s.deps.Store.Users.Create(context.Background(), user))
	token, err := s.deps.Tokens.Issue(user)
	require.NoError(t, err)
	return token
}

// createPost returns the id of a new post.
func (s *testServer) createPost(t *testing.T, token, title, content string) uint {
	t.Helper()
	w := s.do(http.MethodPost, "/posts", token, gin.H{"title": title, "content": content})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return uint(gjson.Get(w.Body.String(), "data.id").Uint())
}

// messages returns the violation list of a 400 body.
func messages(w *httptest.ResponseRecorder) []string {
	var out []string
	for _, m := range gjson.Get(w.Body.String(), "message").Array() {
		out = append(out, m.String())
	}
	return out
}
