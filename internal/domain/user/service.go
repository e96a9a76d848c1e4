package user

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

type Servicer interface {
	Register(ctx context.Context, login, password string) (int, error)
	Authenticate(ctx context.Context, login, password string) (User, error)
	ResolveActor(ctx context.Context, userID int) (Actor, error)
}

type Service struct {
	repo      Repository
	validator Validator
	log       *slog.Logger
}

func NewService(repo Repository, validator Validator, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		log:       log.With("component", "user_service"),
	}
}

// Register creates a new account with the default role. Admin accounts
// are provisioned directly in the database.
func (s *Service) Register(ctx context.Context, login, password string) (int, error) {
	if err := s.validator.ValidateRegister(login, password); err != nil {
		s.log.Debug("validation failed", "login", login, "error", err)
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.repo.Create(ctx, login, string(hash), RoleUser)
	if err != nil {
		s.log.Error("failed to create user", "login", login, "error", err)
		return 0, err
	}

	s.log.Info("user registered", "user_id", userID, "login", login)
	return userID, nil
}

func (s *Service) Authenticate(ctx context.Context, login, password string) (User, error) {
	if err := s.validator.ValidateLogin(login); err != nil {
		return User{}, ErrInvalidAuth
	}

	u, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		return User{}, ErrNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return User{}, ErrInvalidAuth
	}

	return u, nil
}

// ResolveActor looks up the role for an authenticated user id and
// returns the request actor.
func (s *Service) ResolveActor(ctx context.Context, userID int) (Actor, error) {
	role, err := s.repo.GetRole(ctx, userID)
	if err != nil {
		return Actor{}, fmt.Errorf("resolve role: %w", err)
	}
	return Actor{ID: userID, Role: role}, nil
}
