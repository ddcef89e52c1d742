package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	userserrors "github.com/Alexandrudiun/spaces/internal/users/errors"
	"github.com/Alexandrudiun/spaces/internal/users/repository"
	uservalidator "github.com/Alexandrudiun/spaces/internal/users/validator"
	"github.com/Alexandrudiun/spaces/pkg/config"
	apperrors "github.com/Alexandrudiun/spaces/pkg/errors"
	"github.com/Alexandrudiun/spaces/pkg/model"
	"github.com/Alexandrudiun/spaces/pkg/token"
)

// AuthResult is what a successful register or login returns: the user
// minus the password hash, plus a signed bearer token.
type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *model.LoginRequest) (*AuthResult, error)
	Profile(ctx context.Context, userID string) (*model.User, error)
}

type authService struct {
	repo      repository.UserRepository
	validator *uservalidator.UserValidator
	cfg       *config.Config
}

func NewAuthService(repo repository.UserRepository, userValidator *uservalidator.UserValidator, cfg *config.Config) AuthService {
	return &authService{
		repo:      repo,
		validator: userValidator,
		cfg:       cfg,
	}
}

func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*AuthResult, error) {
	if err := s.validator.ValidateRegister(req); err != nil {
		return nil, apperrors.Validation("Invalid payload", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Conflict("Email already registered")
	} else if !errors.Is(err, userserrors.ErrNotFound) {
		s.cfg.Log.Error("Failed to check email uniqueness", "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}

	if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
		return nil, apperrors.Conflict("Username already taken")
	} else if !errors.Is(err, userserrors.ErrNotFound) {
		s.cfg.Log.Error("Failed to check username uniqueness", "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
		Name:     req.Name,
		Location: req.Location,
		Role:     model.RoleUser,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("Email already registered")
		}
		s.cfg.Log.Error("Failed to create user", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}

	s.cfg.Log.Info("User registered", "user_id", user.ID, "email", user.Email)
	return s.withToken(user)
}

func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*AuthResult, error) {
	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, apperrors.Validation("Invalid payload", map[string]any{"error": err.Error()})
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		s.cfg.Log.Error("Failed to look up user", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to log in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	s.cfg.Log.Info("User logged in", "user_id", user.ID)
	return s.withToken(user)
}

func (s *authService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", userID)
		}
		s.cfg.Log.Error("Failed to load profile", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to load profile", err)
	}
	return user, nil
}

func (s *authService) withToken(user *model.User) (*AuthResult, error) {
	signed, err := token.Issue(user, s.cfg.JWTSecret, s.cfg.JWTExpiresIn)
	if err != nil {
		s.cfg.Log.Error("Failed to sign token", "user_id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to issue token", err)
	}
	return &AuthResult{User: user, Token: signed}, nil
}
