package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-bill-tracker/internal/auth"
	"go-bill-tracker/internal/event"
	"go-bill-tracker/internal/model"
	"go-bill-tracker/internal/repository"
	"go-bill-tracker/pkg/apierror"
	"go-bill-tracker/pkg/validator"
)

type passwordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext string, hash string) bool
}

type tokenIssuer interface {
	Issue(identityID string) (string, error)
}

type AuthService struct {
	users  repository.UserStore
	hasher passwordHasher
	tokens tokenIssuer
	bus    event.Bus

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users repository.UserStore, hasher passwordHasher, tokens tokenIssuer, bus event.Bus) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, bus: bus}
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = normalizeEmail(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)

	if err := validator.Validate(req); err != nil {
		return model.AuthResponse{}, apierror.Validation("Invalid user data", err.Error())
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return model.AuthResponse{}, apierror.Validation("User already exists", "")
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return model.AuthResponse{}, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return model.AuthResponse{}, apierror.Validation("Invalid user data", "field 'password' exceeds 72 bytes")
	}
	if err != nil {
		return model.AuthResponse{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return model.AuthResponse{}, apierror.Validation("User already exists", "")
		}
		return model.AuthResponse{}, err
	}

	s.bus.Publish(event.New(event.TypeUserRegistered, user.ID, user.Principal()))
	slog.Info("user registered", "user_id", user.ID)

	return s.authResponse(user)
}

// Login answers the same error for an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	invalid := apierror.Unauthenticated("Invalid email or password")

	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, model.ErrUserNotFound) {
		// Spend the same bcrypt time as a real comparison.
		s.hasher.Verify(req.Password, s.fallbackHash())
		return model.AuthResponse{}, invalid
	}
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("find user for login: %w", err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return model.AuthResponse{}, invalid
	}

	return s.authResponse(user)
}

// ResolvePrincipal loads the identity a verified token points at. A deleted
// identity yields model.ErrUserNotFound.
func (s *AuthService) ResolvePrincipal(ctx context.Context, identityID string) (model.Principal, error) {
	user, err := s.users.FindByID(ctx, identityID)
	if err != nil {
		return model.Principal{}, err
	}
	return user.Principal(), nil
}

func (s *AuthService) authResponse(user model.User) (model.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Token:    token,
	}, nil
}

func (s *AuthService) fallbackHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			slog.Error("failed to build fallback password hash", "error", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
