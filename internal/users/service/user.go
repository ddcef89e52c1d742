package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	deskrepo "github.com/Alexandrudiun/spaces/internal/desks/repository"
	userserrors "github.com/Alexandrudiun/spaces/internal/users/errors"
	"github.com/Alexandrudiun/spaces/internal/users/repository"
	"github.com/Alexandrudiun/spaces/internal/users/validator"
	"github.com/Alexandrudiun/spaces/pkg/config"
	apperrors "github.com/Alexandrudiun/spaces/pkg/errors"
	"github.com/Alexandrudiun/spaces/pkg/model"
)

// UserService covers user CRUD and the cross-desk booking views. It talks
// to both persistence collaborators: the user store it owns, and the desk
// store for the attendee projections.
type UserService interface {
	Create(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error)
	Update(ctx context.Context, id string, updates *model.UserUpdate) (*model.User, error)
	UpdateRole(ctx context.Context, id string, req *model.RoleUpdate) (*model.User, error)
	UpdateImage(ctx context.Context, id string, req *model.ImageUpdate) (*model.User, error)
	Delete(ctx context.Context, id string) error

	MyBookings(ctx context.Context, userID string) ([]*model.Desk, error)
	PositionsAt(ctx context.Context, userID string, instant string) ([]*model.Desk, error)
}

type userService struct {
	repo      repository.UserRepository
	desks     deskrepo.DeskRepository
	validator *validator.UserValidator
	cfg       *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	desks deskrepo.DeskRepository,
	userValidator *validator.UserValidator,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:      repo,
		desks:     desks,
		validator: userValidator,
		cfg:       cfg,
	}
}

// Create is the administrative path for adding users; self-service signup
// lives in the auth service.
func (s *userService) Create(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if err := s.validator.ValidateRegister(req); err != nil {
		return nil, apperrors.Validation("Invalid user payload", map[string]any{"error": err.Error()})
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
		return nil, apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User created successfully", "id", user.ID)
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "retrieve user")
	}
	return user, nil
}

func (s *userService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error) {
	var count int64
	var users []*model.User
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count users", "error", errCount)
			errCount = apperrors.Internal("Failed to count users", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		users, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list users", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve users", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return users, count, nil
}

func (s *userService) Update(ctx context.Context, id string, updates *model.UserUpdate) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, apperrors.Validation("Invalid user payload", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "update user")
	}

	merged := s.mergeUpdates(existing, updates)
	if err := s.repo.Update(ctx, id, merged); err != nil {
		return nil, s.mapRepoError(err, id, "update user")
	}

	s.cfg.Log.Info("User updated successfully", "id", id)
	return merged, nil
}

func (s *userService) UpdateRole(ctx context.Context, id string, req *model.RoleUpdate) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}
	if err := s.validator.ValidateRoleUpdate(req); err != nil {
		return nil, apperrors.Validation("Invalid role payload", map[string]any{"error": err.Error()})
	}

	user, err := s.repo.UpdateRole(ctx, id, req.Role)
	if err != nil {
		return nil, s.mapRepoError(err, id, "update user role")
	}

	s.cfg.Log.Info("User role updated", "id", id, "role", req.Role)
	return user, nil
}

func (s *userService) UpdateImage(ctx context.Context, id string, req *model.ImageUpdate) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}
	if err := s.validator.ValidateImageUpdate(req); err != nil {
		return nil, apperrors.Validation("Invalid image payload", map[string]any{"error": err.Error()})
	}

	user, err := s.repo.UpdateImage(ctx, id, req.Image)
	if err != nil {
		return nil, s.mapRepoError(err, id, "update user image")
	}

	s.cfg.Log.Info("User image updated", "id", id)
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err, id, "delete user")
	}

	s.cfg.Log.Info("User deleted successfully", "id", id)
	return nil
}

// MyBookings returns every desk holding a booking, in any status, that
// lists the user as attendee.
func (s *userService) MyBookings(ctx context.Context, userID string) ([]*model.Desk, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	desks, err := s.desks.FindByAttendee(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to find desks by attendee", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return model.DesksForAttendee(desks, userID), nil
}

// PositionsAt answers where the user is at a given instant: desks with an
// accepted booking containing the instant, trimmed to just those bookings.
func (s *userService) PositionsAt(ctx context.Context, userID string, instant string) ([]*model.Desk, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	at, err := time.Parse(time.RFC3339, instant)
	if err != nil {
		return nil, apperrors.InvalidRange("instant is not a valid RFC3339 instant: " + instant)
	}

	desks, err := s.desks.FindAcceptedByAttendee(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to find accepted desks by attendee", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve positions", err)
	}
	return model.LocationsAtInstant(desks, userID, at), nil
}

func (s *userService) mergeUpdates(existing *model.User, updates *model.UserUpdate) *model.User {
	merged := *existing
	if updates.Username != "" {
		merged.Username = updates.Username
	}
	if updates.Email != "" {
		merged.Email = updates.Email
	}
	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Location != "" {
		merged.Location = updates.Location
	}
	return &merged
}

func (s *userService) mapRepoError(err error, id, op string) error {
	switch {
	case errors.Is(err, userserrors.ErrNotFound):
		return apperrors.NotFoundWithID("User", id)
	case errors.Is(err, userserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid user ID format")
	default:
		s.cfg.Log.Error("User repository operation failed", "operation", op, "user_id", id, "error", err)
		return apperrors.Internal("Failed to "+op, err)
	}
}
