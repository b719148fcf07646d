package user

import (
	"context"
	"fmt"
	"time"

	"estate-crm/internal/authz"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	CreateUser(ctx context.Context, user *User, password string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]User, int64, error)
	UpdateUser(ctx context.Context, id string, user *User) error
	UpdateUserPermissions(ctx context.Context, id string, overrides authz.Overrides) error
	DeleteUser(ctx context.Context, id string) error
	Principal(ctx context.Context, userID string) (authz.Principal, error)
}

type UserServiceImpl struct {
	UserRepo UserRepository
}

func NewUserService(userRepo UserRepository) UserService {
	return &UserServiceImpl{
		UserRepo: userRepo,
	}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, user *User, password string) (*User, error) {
	if user.Username == "" || user.Email == "" {
		return nil, fmt.Errorf("username and email are required")
	}
	if !authz.Known(user.Role) {
		return nil, fmt.Errorf("unknown role: %s", user.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user.ID = primitive.NewObjectID()
	user.Password = string(hash)
	if user.Status == "" {
		user.Status = "active"
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserServiceImpl) GetUserByID(ctx context.Context, id string) (*User, error) {
	return s.UserRepo.FindByID(ctx, id)
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.UserRepo.List(ctx, filter, limit, (page-1)*limit)
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, id string, user *User) error {
	if user.Role != "" && !authz.Known(user.Role) {
		return fmt.Errorf("unknown role: %s", user.Role)
	}
	user.UpdatedAt = time.Now()
	return s.UserRepo.Update(ctx, id, user)
}

func (s *UserServiceImpl) UpdateUserPermissions(ctx context.Context, id string, overrides authz.Overrides) error {
	return s.UserRepo.UpdatePermissions(ctx, id, overrides)
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string) error {
	return s.UserRepo.Delete(ctx, id)
}

// Principal loads the permission-relevant fields for the authorization gate.
func (s *UserServiceImpl) Principal(ctx context.Context, userID string) (authz.Principal, error) {
	u, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return authz.Principal{}, err
	}
	return authz.Principal{Role: u.Role, Overrides: u.CustomPermissions}, nil
}
