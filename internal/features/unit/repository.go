package unit

import (
	"context"
	"fmt"
	"time"

	"estate-crm/internal/common/models"
	"estate-crm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UnitRepository interface {
	Create(ctx context.Context, u *Unit) error
	FindByID(ctx context.Context, id string) (*Unit, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Unit, int64, error)
	Update(ctx context.Context, id string, u *Unit) error
	SetStatus(ctx context.Context, id string, status UnitStatus) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type UnitRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewUnitRepository(mongodb *database.MongodbDB) UnitRepository {
	return &UnitRepositoryImpl{
		Collection: mongodb.DB.Collection("units"),
	}
}

func tenantFromContext(ctx context.Context) (primitive.ObjectID, error) {
	tenantID, ok := ctx.Value(models.TenantIDKey).(string)
	if !ok || tenantID == "" {
		return primitive.NilObjectID, fmt.Errorf("tenant context missing")
	}
	return primitive.ObjectIDFromHex(tenantID)
}

func (r *UnitRepositoryImpl) Create(ctx context.Context, u *Unit) error {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}
	u.OrganizationID = oid
	_, err = r.Collection.InsertOne(ctx, u)
	return err
}

func (r *UnitRepositoryImpl) FindByID(ctx context.Context, id string) (*Unit, error) {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	unitID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid unit id")
	}
	var u Unit
	err = r.Collection.FindOne(ctx, bson.M{"_id": unitID, "organization_id": oid}).Decode(&u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UnitRepositoryImpl) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Unit, int64, error) {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	query := bson.M{"organization_id": oid}
	for k, v := range filter {
		query[k] = v
	}

	total, err := r.Collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "project_id", Value: 1}, {Key: "number", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit).SetSkip(offset)
	}
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var units []Unit
	if err := cursor.All(ctx, &units); err != nil {
		return nil, 0, err
	}
	return units, total, nil
}

func (r *UnitRepositoryImpl) Update(ctx context.Context, id string, u *Unit) error {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}
	unitID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid unit id")
	}

	set := bson.M{
		"number":      u.Number,
		"typology":    u.Typology,
		"floor":       u.Floor,
		"area_m2":     u.AreaM2,
		"orientation": u.Orientation,
		"price_uf":    u.PriceUF,
		"updated_at":  u.UpdatedAt,
	}
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": unitID, "organization_id": oid},
		bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *UnitRepositoryImpl) SetStatus(ctx context.Context, id string, status UnitStatus) error {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}
	unitID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid unit id")
	}
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": unitID, "organization_id": oid},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *UnitRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}
	unitID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid unit id")
	}
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": unitID, "organization_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *UnitRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "organization_id", Value: 1},
			{Key: "project_id", Value: 1},
			{Key: "number", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}
