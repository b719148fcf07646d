package client

import (
	"context"
	"fmt"

	"estate-crm/internal/common/models"
	"estate-crm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ClientRepository interface {
	Create(ctx context.Context, cl *Client) error
	FindByID(ctx context.Context, id string) (*Client, error)
	List(ctx context.Context, search string, limit, offset int64) ([]Client, int64, error)
	Update(ctx context.Context, id string, cl *Client) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type ClientRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewClientRepository(mongodb *database.MongodbDB) ClientRepository {
	return &ClientRepositoryImpl{
		Collection: mongodb.DB.Collection("clients"),
	}
}

func tenantFromContext(ctx context.Context) (primitive.ObjectID, error) {
	tenantID, ok := ctx.Value(models.TenantIDKey).(string)
	if !ok || tenantID == "" {
		return primitive.NilObjectID, fmt.Errorf("tenant context missing")
	}
	return primitive.ObjectIDFromHex(tenantID)
}

func (r *ClientRepositoryImpl) Create(ctx context.Context, cl *Client) error {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}
	cl.OrganizationID = oid
	_, err = r.Collection.InsertOne(ctx, cl)
	return err
}

func (r *ClientRepositoryImpl) FindByID(ctx context.Context, id string) (*Client, error) {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	clientID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid client id")
	}
	var cl Client
	err = r.Collection.FindOne(ctx, bson.M{"_id": clientID, "organization_id": oid}).Decode(&cl)
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

func (r *ClientRepositoryImpl) List(ctx context.Context, search string, limit, offset int64) ([]Client, int64, error) {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	query := bson.M{"organization_id": oid}
	if search != "" {
		query["$or"] = []bson.M{
			{"name": bson.M{"$regex": search, "$options": "i"}},
			{"rut": bson.M{"$regex": search, "$options": "i"}},
			{"email": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	total, err := r.Collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit).SetSkip(offset)
	}
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var clients []Client
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

func (r *ClientRepositoryImpl) Update(ctx context.Context, id string, cl *Client) error {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}
	clientID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid client id")
	}

	set := bson.M{
		"name":       cl.Name,
		"rut":        cl.RUT,
		"email":      cl.Email,
		"phone":      cl.Phone,
		"address":    cl.Address,
		"notes":      cl.Notes,
		"updated_at": cl.UpdatedAt,
	}
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": clientID, "organization_id": oid},
		bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *ClientRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}
	clientID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid client id")
	}
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": clientID, "organization_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *ClientRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "rut", Value: 1}},
	})
	return err
}
