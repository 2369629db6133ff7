// auth.go - JWT authentication middleware
// This file implements the authorization guard placed in front of every protected route
//
// Authentication Flow:
// 1. Extract the bearer token from the Authorization header (or ?token= on a websocket upgrade)
// 2. Verify signature and expiry, resolve the user
// 3. Store the user in the gin context for handlers
//
// Authorization Flow (Admin):
// 1. Resolve the user the same way, without running the chain
// 2. Check the resolved user's role, then continue

package middleware // Declares the package name

import ( // Import required packages
	"context"
	"strings" // String operations (for header parsing)

	"go-blog-backend/apperror" // Failure kinds
	"go-blog-backend/models"   // User model (for role checking)
	"go-blog-backend/response" // Error envelopes

	"github.com/gin-gonic/gin"     // Gin web framework (for middleware)
	"github.com/gorilla/websocket" // Upgrade detection for the query token
)

const userKey = "user" // gin context key holding *models.User

// TokenVerifier resolves a bearer token to its user.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*models.User, error)
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively; anything else yields "".
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// requestToken returns the bearer token of c. Browsers cannot set headers on a
// websocket handshake, so upgrade requests may pass it as ?token= instead.
func requestToken(c *gin.Context) string {
	if raw := BearerToken(c.GetHeader("Authorization")); raw != "" {
		return raw
	}
	if websocket.IsWebSocketUpgrade(c.Request) {
		return strings.TrimSpace(c.Query("token"))
	}
	return ""
}

// authenticate resolves and stores the request's user. On failure it has
// already aborted with the error envelope. It never calls c.Next.
func authenticate(c *gin.Context, tokens TokenVerifier) (*models.User, bool) {
	raw := requestToken(c) // Remove 'Bearer ' prefix
	if raw == "" {         // If missing or invalid format
		response.Error(c, apperror.Unauthorized())
		return nil, false
	}

	user, err := tokens.Verify(c.Request.Context(), raw)
	if err != nil { // If token is invalid, expired or its user is gone
		response.Error(c, err)
		return nil, false
	}

	c.Set(userKey, user)      // Store user in Gin context
	c.Set("user_id", user.ID) // For the request logger
	return user, true
}

// AuthMiddleware - Returns a Gin middleware function for JWT authentication
// It aborts with 401 before any body parsing, so authorization always wins over validation.
func AuthMiddleware(tokens TokenVerifier) gin.HandlerFunc { // Returns a Gin middleware function
	return func(c *gin.Context) { // Middleware handler (runs before each request)
		if _, ok := authenticate(c, tokens); !ok {
			return
		}
		c.Next() // Continue to next handler (authentication successful)
	}
}

// AdminMiddleware - Returns a Gin middleware function for admin access control
// Both checks finish before any downstream handler runs.
func AdminMiddleware(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// STEP 1: Resolve the user without running the chain
		user, ok := authenticate(c, tokens)
		if !ok {
			return // Exit early - authentication failed
		}

		// STEP 2: Check if user has admin role
		if user.Role != models.RoleAdmin {
			response.Error(c, apperror.Forbidden())
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}
