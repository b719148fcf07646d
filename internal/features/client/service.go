package client

import (
	"context"
	"fmt"
	"time"

	"estate-crm/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ClientService interface {
	CreateClient(ctx context.Context, cl *Client) (*Client, error)
	GetClientByID(ctx context.Context, id string) (*Client, error)
	ListClients(ctx context.Context, search string, page, limit int64) ([]Client, int64, error)
	UpdateClient(ctx context.Context, id string, cl *Client) error
	DeleteClient(ctx context.Context, id string) error
}

type ClientServiceImpl struct {
	ClientRepo ClientRepository
}

func NewClientService(clientRepo ClientRepository) ClientService {
	return &ClientServiceImpl{
		ClientRepo: clientRepo,
	}
}

func (s *ClientServiceImpl) CreateClient(ctx context.Context, cl *Client) (*Client, error) {
	if cl.Name == "" {
		return nil, fmt.Errorf("client name is required")
	}

	cl.ID = primitive.NewObjectID()
	if userID, ok := ctx.Value(models.UserIDKey).(string); ok {
		cl.CreatedBy = userID
	}
	cl.CreatedAt = time.Now()
	cl.UpdatedAt = time.Now()

	if err := s.ClientRepo.Create(ctx, cl); err != nil {
		return nil, err
	}
	return cl, nil
}

func (s *ClientServiceImpl) GetClientByID(ctx context.Context, id string) (*Client, error) {
	return s.ClientRepo.FindByID(ctx, id)
}

func (s *ClientServiceImpl) ListClients(ctx context.Context, search string, page, limit int64) ([]Client, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return s.ClientRepo.List(ctx, search, limit, (page-1)*limit)
}

func (s *ClientServiceImpl) UpdateClient(ctx context.Context, id string, cl *Client) error {
	cl.UpdatedAt = time.Now()
	return s.ClientRepo.Update(ctx, id, cl)
}

func (s *ClientServiceImpl) DeleteClient(ctx context.Context, id string) error {
	return s.ClientRepo.Delete(ctx, id)
}
