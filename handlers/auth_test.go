// auth_test.go - Automated tests for registration, login and the current user
// Run with: go test ./...

package handlers

import (
	"net/http" // HTTP status codes
	"testing"  // Go's testing package

	"github.com/gin-gonic/gin"           // Gin web framework
	"github.com/stretchr/testify/assert" // For assertions
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson" // For reading JSON bodies
)

func TestRegisterValidation(t *testing.T) {
	s := setupServer(t)

	// --- Every missing field is reported at once ---
	w := s.do(http.MethodPost, "/auth/register", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int64(400), gjson.Get(w.Body.String(), "statusCode").Int())
	assert.Equal(t, "Bad Request", gjson.Get(w.Body.String(), "error").String())
	assert.Subset(t, messages(w), []string{
		"name should not be empty",
		"email should not be empty",
		"password should not be empty",
	})

	// --- Malformed email ---
	w = s.do(http.MethodPost, "/auth/register", "", gin.H{"name": "Gama", "email": "gama @gmail.com", "password": strongPassword})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"email must be an email"}, messages(w))

	// --- Weak password ---
	w = s.do(http.MethodPost, "/auth/register", "", gin.H{"name": "Gama", "email": "gama@gmail.com", "password": "qwerty123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, messages(w), "password is not strong enough")

	// --- Wrong types are rejected, not coerced ---
	w = s.do(http.MethodPost, "/auth/register", "", gin.H{"name": 42, "email": "gama@gmail.com", "password": strongPassword})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, messages(w), "name must be a string")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := setupServer(t)
	body := gin.H{"name": "Gama QA", "email": "gama@gmail.com", "password": strongPassword}

	w := s.do(http.MethodPost, "/auth/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Register success", gjson.Get(w.Body.String(), "message").String())
	assert.Equal(t, "gama@gmail.com", gjson.Get(w.Body.String(), "data.email").String())
	assert.False(t, gjson.Get(w.Body.String(), "data.password").Exists())

	w = s.do(http.MethodPost, "/auth/register", "", body)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Email already exists", gjson.Get(w.Body.String(), "message").String())
	assert.False(t, gjson.Get(w.Body.String(), "success").Bool())
}

// TestLoginAndMe tests login and the current user lookup
func TestLoginAndMe(t *testing.T) {
	s := setupServer(t)
	token := s.register(t, "Gama QA", "gama@gmail.com")

	w := s.do(http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Get current user", gjson.Get(w.Body.String(), "message").String())
	assert.Equal(t, "Gama QA", gjson.Get(w.Body.String(), "data.name").String())
	assert.Equal(t, "gama@gmail.com", gjson.Get(w.Body.String(), "data.email").String())
	assert.False(t, gjson.Get(w.Body.String(), "data.password").Exists())

	w = s.do(http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(http.MethodGet, "/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", gjson.Get(w.Body.String(), "message").String())
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	s := setupServer(t)
	s.register(t, "Gama QA", "gama@gmail.com")

	wrongPassword := s.do(http.MethodPost, "/auth/login", "", gin.H{"email": "gama@gmail.com", "password": "Wrong_pass1"})
	unknownEmail := s.do(http.MethodPost, "/auth/login", "", gin.H{"email": "nobody@gmail.com", "password": strongPassword})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())

	// --- Missing or malformed body ---
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/auth/login", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/auth/login", "", "{not json").Code)
}

func TestResetUsers(t *testing.T) {
	s := setupServer(t)
	alice := s.register(t, "Alice", "alice@gmail.com")

	w := s.do(http.MethodDelete, "/auth/reset", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/auth/me", alice, nil).Code)

	// A user registered after the reset never inherits an old token.
	bob := s.register(t, "Bob", "bob@gmail.com")
	w = s.do(http.MethodGet, "/auth/me", alice, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", gjson.Get(w.Body.String(), "message").String())

	w = s.do(http.MethodGet, "/auth/me", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bob@gmail.com", gjson.Get(w.Body.String(), "data.email").String())
	assert.Equal(t, int64(2), gjson.Get(w.Body.String(), "data.id").Int(), "user ids are not restarted")

	// The email is free again.
	alice = s.register(t, "Alice", "alice@gmail.com")
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/auth/me", alice, nil).Code)
}
