// auth.go - Handles user registration, login and the current user

package handlers // Declares the package name

import ( // Import required packages
	"context"

	"go-blog-backend/apperror"   // Error kinds
	"go-blog-backend/auth"       // Auth service
	"go-blog-backend/middleware" // Current user from the guard
	"go-blog-backend/response"   // JSON envelopes

	"github.com/gin-gonic/gin" // Gin web framework
)

type LoginInput struct { // Struct for login input
	Email    string `json:"email"`    // Email
	Password string `json:"password"` // Plain password, checked against the stored hash
}

// LoginOutput is the data of a successful login.
type LoginOutput struct {
	AccessToken string `json:"access_token"`
}

type userResetter interface {
	Reset(ctx context.Context) error
}

type AuthHandler struct {
	service *auth.Service
	users   userResetter
}

func (h *AuthHandler) Register(c *gin.Context) { // Handler for user registration
	user, err := h.service.Register(c.Request.Context(), readPayload(c))
	if err != nil {
		response.Error(c, err) // 400 on validation, 500 on duplicate email
		return
	}
	response.Created(c, "Register success", user) // Password is never serialized
}

func (h *AuthHandler) Login(c *gin.Context) { // Handler for user login
	var input LoginInput                             // Declare input variable
	if err := c.ShouldBindJSON(&input); err != nil { // Missing or malformed body
		response.Error(c, apperror.Unauthorized())
		return
	}
	token, err := h.service.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Login success", LoginOutput{AccessToken: token})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperror.Unauthorized())
		return
	}
	response.OK(c, "Get current user", user)
}

// Reset removes every user and restarts user ids.
func (h *AuthHandler) Reset(c *gin.Context) {
	if err := h.users.Reset(c.Request.Context()); err != nil {
		response.Error(c, apperror.Internal(err))
		return
	}
	response.OK(c, "Users reset successfully", nil)
}
