// Package auth handles account registration, login, and access tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/config"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/domain"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/logger"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/notify"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/store"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Service owns accounts and token issuance.
type Service struct {
	users store.UserRepo
	bus   notify.Publisher
	cfg   config.AuthConfig
	log   *logger.Logger
}

func NewService(users store.UserRepo, bus notify.Publisher, cfg config.AuthConfig, log *logger.Logger) *Service {
	return &Service{
		users: users,
		bus:   bus,
		cfg:   cfg,
		log:   log.With("service", "auth"),
	}
}

// RegisterInput is a new-account request.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        domain.Role
}

// Register creates the account and returns it with a fresh access token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("invalid email address")
	}
	if len(in.Password) < 8 {
		return nil, "", fmt.Errorf("password must be at least 8 characters")
	}
	if strings.TrimSpace(in.DisplayName) == "" {
		return nil, "", fmt.Errorf("display name is required")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = domain.RoleCandidate
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(in.DisplayName),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("user registered", "userId", user.ID.String(), "role", string(user.Role))
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
// Unknown emails and bad passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// UpdateProfileInput carries the mutable profile fields. Nil means leave
// the field unchanged.
type UpdateProfileInput struct {
	DisplayName         *string
	OnboardingCompleted *bool
}

// UpdateProfile writes profile changes and announces them on the bus.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		if name == "" {
			return nil, fmt.Errorf("display name cannot be empty")
		}
		user.DisplayName = name
	}
	if in.OnboardingCompleted != nil {
		user.OnboardingCompleted = *in.OnboardingCompleted
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if s.bus != nil {
		if err := s.bus.Publish(ctx, notify.Event{
			Kind:   notify.ProfileUpdated,
			UserID: userID.String(),
		}); err != nil {
			s.log.Warn("profile event publish failed", "error", err)
		}
	}
	return user, nil
}

// GetUser loads one account.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) issueToken(user *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.AccessTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a bearer token and returns the subject user id.
func (s *Service) ParseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}
