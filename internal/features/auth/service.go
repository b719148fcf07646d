package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estate-crm/internal/authz"
	"estate-crm/internal/common/models"
	"estate-crm/internal/features/organization"
	"estate-crm/internal/features/user"
	"estate-crm/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService interface {
	Register(ctx context.Context, username, password, email, companyName string) (*user.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type AuthServiceImpl struct {
	UserRepo         user.UserRepository
	OrganizationRepo organization.OrganizationRepository
}

func NewAuthService(userRepo user.UserRepository, orgRepo organization.OrganizationRepository) AuthService {
	return &AuthServiceImpl{
		UserRepo:         userRepo,
		OrganizationRepo: orgRepo,
	}
}

// Register creates a new real-estate company and its admin user.
func (s *AuthServiceImpl) Register(ctx context.Context, username, password, email, companyName string) (*user.User, error) {
	if username == "" || password == "" || email == "" {
		return nil, fmt.Errorf("username, password and email are required")
	}

	if companyName == "" {
		companyName = fmt.Sprintf("%s's Company", username)
	}

	newUserID := primitive.NewObjectID()
	newOrg := organization.Organization{
		ID:        primitive.NewObjectID(),
		Name:      companyName,
		Slug:      utils.Slugify(companyName) + "-" + primitive.NewObjectID().Hex()[:4],
		OwnerID:   newUserID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.OrganizationRepo.Create(ctx, &newOrg); err != nil {
		return nil, err
	}

	// Organization context for the tenant-scoped user insert
	ctx = context.WithValue(ctx, models.TenantIDKey, newOrg.ID.Hex())

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	newUser := &user.User{
		ID:        newUserID,
		Username:  username,
		Password:  string(hash),
		Email:     email,
		Status:    "active",
		Role:      authz.RoleAdmin,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.UserRepo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	return newUser, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.UserRepo.FindByUsernameGlobal(ctx, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if u.Status != "active" {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return utils.GenerateToken(u.ID, string(u.Role), u.OrganizationID)
}
