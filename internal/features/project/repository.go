package project

import (
	"context"
	"fmt"

	"estate-crm/internal/common/models"
	"estate-crm/internal/database"
	"estate-crm/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProjectRepository interface {
	Create(ctx context.Context, p *Project) error
	FindByID(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Project, int64, error)
	Update(ctx context.Context, id string, p *Project) error
	Delete(ctx context.Context, id string) error

	// Reconciliation pipeline surface. Raw documents are keyed by
	// normalized name so Analyze can diff field-wise.
	RawByNormalizedName(ctx context.Context) (map[string]bson.M, error)
	InsertManyRaw(ctx context.Context, docs []interface{}) (int, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) (matched, modified int64, err error)

	EnsureIndexes(ctx context.Context) error
}

type ProjectRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewProjectRepository(mongodb *database.MongodbDB) ProjectRepository {
	return &ProjectRepositoryImpl{
		Collection: mongodb.DB.Collection("projects"),
	}
}

func tenantFromContext(ctx context.Context) (primitive.ObjectID, error) {
	tenantID, ok := ctx.Value(models.TenantIDKey).(string)
	if !ok || tenantID == "" {
		return primitive.NilObjectID, fmt.Errorf("tenant context missing")
	}
	return primitive.ObjectIDFromHex(tenantID)
}

func (r *ProjectRepositoryImpl) Create(ctx context.Context, p *Project) error {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}
	p.OrganizationID = oid
	p.NormalizedName = utils.NormalizeName(p.Name)

	_, err = r.Collection.InsertOne(ctx, p)
	return err
}

func (r *ProjectRepositoryImpl) FindByID(ctx context.Context, id string) (*Project, error) {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var p Project
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID, "organization_id": oid}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepositoryImpl) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Project, int64, error) {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}
	filter["organization_id"] = oid

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if offset > 0 {
		opts.SetSkip(offset)
	}
	opts.SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var projects []Project
	if err = cursor.All(ctx, &projects); err != nil {
		return nil, 0, err
	}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (r *ProjectRepositoryImpl) Update(ctx context.Context, id string, p *Project) error {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	p.NormalizedName = utils.NormalizeName(p.Name)

	update := bson.M{
		"$set": bson.M{
			"name":            p.Name,
			"normalized_name": p.NormalizedName,
			"address":         p.Address,
			"developer":       p.Developer,
			"status":          p.Status,
			"legal_id":        p.LegalID,
			"description":     p.Description,
			"delivery_date":   p.DeliveryDate,
			"price_from_uf":   p.PriceFromUF,
			"commission_pct":  p.CommissionPct,
			"county_id":       p.CountyID,
			"county_name":     p.CountyName,
			"region_id":       p.RegionID,
			"region_name":     p.RegionName,
			"updated_at":      p.UpdatedAt,
		},
	}

	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID, "organization_id": oid}, update)
	return err
}

func (r *ProjectRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": objectID, "organization_id": oid})
	return err
}

// RawByNormalizedName fetches every project of the tenant as a raw document,
// keyed by normalized name. Analyze diffs against these.
func (r *ProjectRepositoryImpl) RawByNormalizedName(ctx context.Context) (map[string]bson.M, error) {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	cursor, err := r.Collection.Find(ctx, bson.M{"organization_id": oid})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make(map[string]bson.M)
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		key, _ := doc["normalized_name"].(string)
		if key == "" {
			if name, ok := doc["name"].(string); ok {
				key = utils.NormalizeName(name)
			}
		}
		if key != "" {
			out[key] = doc
		}
	}
	return out, cursor.Err()
}

// InsertManyRaw performs the single batch insert of the Apply step.
func (r *ProjectRepositoryImpl) InsertManyRaw(ctx context.Context, docs []interface{}) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	res, err := r.Collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}

// UpdateFields applies one conditional update scoped to (id, tenant) and
// reports how many documents matched and were actually modified.
func (r *ProjectRepositoryImpl) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) (int64, int64, error) {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return 0, 0, err
	}

	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "organization_id": oid},
		bson.M{"$set": set})
	if err != nil {
		return 0, 0, err
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

func (r *ProjectRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "normalized_name", Value: 1}},
	})
	return err
}
