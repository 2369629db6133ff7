// service.go - Registration, login and current-user lookup

package auth

import (
	"context"
	"errors"

	"go-blog-backend/apperror"
	"go-blog-backend/metrics"
	"go-blog-backend/models"
	"go-blog-backend/repository"
	"go-blog-backend/validation"

	"github.com/sirupsen/logrus"
)

// CredentialStore is the user persistence the service needs.
type CredentialStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service implements the auth surface.
type Service struct {
	users     CredentialStore
	hasher    Hasher
	tokens    *TokenService
	validator *validation.Engine
	log       *logrus.Logger
}

func NewService(users CredentialStore, hasher Hasher, tokens *TokenService, validator *validation.Engine, log *logrus.Logger) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens, validator: validator, log: log}
}

// Register validates p and creates a member. The returned user never carries
// the hash in its JSON form.
func (s *Service) Register(ctx context.Context, p validation.Payload) (*models.User, error) {
	if violations := s.validator.Validate(p, validation.RegisterRules); len(violations) > 0 {
		return nil, apperror.Validation(violations)
	}
	name, _ := p.String("name")
	email, _ := p.String("email")
	password, _ := p.String("password")

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &models.User{Name: name, Email: email, Password: hash, Role: models.RoleMember}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			metrics.RecordRegistration("duplicate")
			return nil, apperror.Conflict("Email already exists")
		}
		return nil, apperror.Internal(err)
	}

	metrics.RecordRegistration("created")
	s.log.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

// Login returns an access token. Unknown email and wrong password are the same failure.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		metrics.RecordLogin("rejected")
		return "", apperror.Unauthorized()
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", apperror.Internal(err)
	}
	if user == nil || !s.hasher.Verify(user.Password, password) {
		metrics.RecordLogin("rejected")
		return "", apperror.Unauthorized()
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", apperror.Internal(err)
	}
	metrics.RecordLogin("success")
	s.log.WithField("user_id", user.ID).Debug("login succeeded")
	return token, nil
}
