package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/franchise-service/internal/auth"
	"github.com/spec-kit/franchise-service/internal/config"
	"github.com/spec-kit/franchise-service/internal/domain"
	"github.com/spec-kit/franchise-service/internal/events"
	"github.com/spec-kit/franchise-service/internal/repository"
	apperrors "github.com/spec-kit/franchise-service/pkg/util"
)

// AuthService coordinates the credential lifecycle: register, login,
// logout and user updates. Tokens are issued by the codec; their
// revocability lives entirely in the session repository.
type AuthService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	codec      *auth.TokenCodec
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	SessionRepo repository.SessionRepository
	Dispatcher  events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		sessions:   deps.SessionRepo,
		codec:      auth.NewTokenCodec(cfg.Auth.JWTSecret),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account with the default diner role and logs it in
// immediately: the returned token already has an active session record.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", apperrors.NewValidationError("name, email and password are required", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Roles:        []domain.Role{domain.RoleDiner},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.startSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID)
	return user, token, nil
}

// Login authenticates by email and password. Unknown emails and password
// mismatches are indistinguishable to the caller, and neither records a
// session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", apperrors.NewInvalidCredentials()
		}
		return nil, "", err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", apperrors.NewInvalidCredentials()
	}

	token, err := s.startSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.publish(ctx, events.EventUserLoggedIn, user.ID)
	return user, token, nil
}

// Logout revokes the session for the bearer token in the raw header value.
// Idempotent: a missing header, malformed prefix or already-revoked token
// is not an error.
func (s *AuthService) Logout(ctx context.Context, rawHeader string) error {
	token, ok := auth.BearerToken(rawHeader)
	if !ok {
		return nil
	}
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return err
	}
	s.publish(ctx, events.EventUserLoggedOut, 0)
	return nil
}

// UpdateUser changes name, email and/or password for the target user under
// the self-or-admin rule, then issues a fresh token and session record.
// Sessions issued before the update stay valid.
func (s *AuthService) UpdateUser(ctx context.Context, identity domain.Identity, userID int64, name, email, password string) (*domain.User, string, error) {
	if err := auth.AuthorizeResourceAction(identity, []int64{userID}, "update user"); err != nil {
		return nil, "", err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", apperrors.NewNotFound("user", map[string]any{"id": userID})
		}
		return nil, "", err
	}

	if name != "" {
		user.Name = name
	}
	if email != "" {
		user.Email = email
	}
	if password != "" {
		hash, err := auth.HashPassword(password, s.bcryptCost)
		if err != nil {
			return nil, "", err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.startSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.publish(ctx, events.EventUserUpdated, user.ID)
	return user, token, nil
}

// GetUser loads a user by id.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) startSession(ctx context.Context, user *domain.User) (string, error) {
	token, err := s.codec.Issue(user.Identity())
	if err != nil {
		return "", err
	}
	if err := s.sessions.Record(ctx, token, user.ID); err != nil {
		return "", err
	}
	return token, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID int64) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{Type: eventType, UserID: userID})
}

// TokenCodec exposes the underlying codec for middleware usage.
func (s *AuthService) TokenCodec() *auth.TokenCodec {
	return s.codec
}
