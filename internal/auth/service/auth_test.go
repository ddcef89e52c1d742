package service

import (
	"context"
	"io"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	userserrors "github.com/Alexandrudiun/spaces/internal/users/errors"
	uservalidator "github.com/Alexandrudiun/spaces/internal/users/validator"
	"github.com/Alexandrudiun/spaces/pkg/config"
	apperrors "github.com/Alexandrudiun/spaces/pkg/errors"
	"github.com/Alexandrudiun/spaces/pkg/logger"
	"github.com/Alexandrudiun/spaces/pkg/model"
	"github.com/Alexandrudiun/spaces/pkg/token"
)

type mockUserRepository struct {
	createFunc         func(ctx context.Context, user *model.User) error
	findByIDFunc       func(ctx context.Context, id string) (*model.User, error)
	findByEmailFunc    func(ctx context.Context, email string) (*model.User, error)
	findByUsernameFunc func(ctx context.Context, username string) (*model.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = "u-new"
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
	return nil, nil
}
func (m *mockUserRepository) Count(ctx context.Context) (int64, error) { return 0, nil }
func (m *mockUserRepository) Update(ctx context.Context, id string, user *model.User) error {
	return nil
}
func (m *mockUserRepository) UpdateRole(ctx context.Context, id string, role model.Role) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepository) UpdateImage(ctx context.Context, id string, image string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepository) Delete(ctx context.Context, id string) error { return nil }

func testService(repo *mockUserRepository) AuthService {
	cfg := &config.Config{
		JWTSecret:    "test-secret",
		JWTExpiresIn: time.Hour,
		Log: logger.New(logger.Config{
			Level:  logger.ERROR,
			Format: logger.TEXT,
			Output: io.Discard,
		}),
	}
	return NewAuthService(repo, uservalidator.NewUserValidator(cfg.Log), cfg)
}

func TestRegister(t *testing.T) {
	var created *model.User
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, user *model.User) error {
			user.ID = "u-new"
			created = user
			return nil
		},
	}
	svc := testService(repo)

	result, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "hunter22",
		Name:     "Ana Pop",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if result.Token == "" {
		t.Error("no token issued")
	}
	if created.Role != model.RoleUser {
		t.Errorf("role = %s, want %s", created.Role, model.RoleUser)
	}
	if created.Password == "hunter22" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("hunter22")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}

	claims, err := token.Parse(result.Token, "test-secret")
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.UserID != "u-new" {
		t.Errorf("token uid = %s, want u-new", claims.UserID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "u-1", Email: email}, nil
		},
	}
	svc := testService(repo)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "ana",
		Email:    "taken@example.com",
		Password: "hunter22",
		Name:     "Ana Pop",
	})
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("err = %v, want %s", err, apperrors.CodeConflict)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := &mockUserRepository{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: "u-1", Username: username}, nil
		},
	}
	svc := testService(repo)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "taken",
		Email:    "ana@example.com",
		Password: "hunter22",
		Name:     "Ana Pop",
	})
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("err = %v, want %s", err, apperrors.CodeConflict)
	}
}

func TestRegisterInvalidPayload(t *testing.T) {
	svc := testService(&mockUserRepository{})

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "ab", // too short
		Email:    "not-an-email",
		Password: "x",
		Name:     "",
	})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("err = %v, want %s", err, apperrors.CodeValidation)
	}
}

func TestLogin(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	repo := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "u-1", Email: email, Password: string(hash), Role: model.RoleUser}, nil
		},
	}
	svc := testService(repo)

	result, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "ana@example.com",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Error("no token issued")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	repo := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "u-1", Email: email, Password: string(hash)}, nil
		},
	}
	svc := testService(repo)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "ana@example.com",
		Password: "wrong",
	})
	if !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("err = %v, want %s", err, apperrors.CodeUnauthorized)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := testService(&mockUserRepository{})

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	if !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("err = %v, want %s", err, apperrors.CodeUnauthorized)
	}
}
