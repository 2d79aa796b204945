package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"skillarena/internal/common"
	"skillarena/internal/common/security"
	"skillarena/internal/domain/model"
	"skillarena/internal/domain/repository"

	"github.com/google/uuid"
)

// ErrInvalidCredentials is the single failure reported for any bad login.
var ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", common.ErrUnauthorized)

type AuthService struct {
	userRepo   repository.UserRepository
	bcryptCost int
	events     ActivityPublisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, bcryptCost int, events ActivityPublisher, logger *slog.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
		events:     events,
		logger:     logger,
		now:        time.Now,
	}
}

type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            string `json:"role"`
	Terms           bool   `json:"terms"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Authenticate checks an email/password pair. Malformed input, an unknown
// email and a wrong password all return ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if !validCredentials(email, password) {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %v: %w", err, common.ErrUpstream)
	}

	if !security.CheckPasswordHash(password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}

	s.publish(ctx, ActivityEvent{Type: ActivityLogin, UserID: user.ID, At: s.now().UTC()})
	return user.Public(), nil
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*model.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := ValidateSignup(req); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("user with this email already exists: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %v: %w", err, common.ErrUpstream)
	}

	hashedPassword, err := security.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role, _ := model.ParseRole(req.Role)
	user := &model.User{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           role,
	}

	// A concurrent signup can still win the race; the unique index turns it
	// into ErrConflict.
	if err := s.userRepo.Create(ctx, nil, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %v: %w", err, common.ErrUpstream)
	}

	s.logger.Info("user signed up", "user_id", user.ID, "role", user.Role)
	return user.Public(), nil
}

func (s *AuthService) publish(ctx context.Context, ev ActivityEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Warn("failed to publish activity event", "type", ev.Type, "user_id", ev.UserID, "error", err)
	}
}
