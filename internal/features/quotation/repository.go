package quotation

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

type QuotationRepository interface {
	Create(ctx context.Context, q *Quotation) error
	FindByID(ctx context.Context, id string) (*Quotation, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Quotation, int64, error)
	Update(ctx context.Context, id string, q *Quotation) error
	Delete(ctx context.Context, id string) error

	FindRule(ctx context.Context) (*PricingRule, error)
	SaveRule(ctx context.Context, rule *PricingRule) error

	EnsureIndexes(ctx context.Context) error
}

type QuotationRepositoryImpl struct {
	Collection *mongo.Collection
	Rules      *mongo.Collection
}

func NewQuotationRepository(mongodb *database.MongodbDB) QuotationRepository {
	return &QuotationRepositoryImpl{
		Collection: mongodb.DB.Collection("quotations"),
		Rules:      mongodb.DB.Collection("pricing_rules"),
	}
}

func tenantFromContext(ctx context.Context) (primitive.ObjectID, error) {
	tenantID, ok := ctx.Value(models.TenantIDKey).(string)
	if !ok || tenantID == "" {
		return primitive.NilObjectID, fmt.Errorf("tenant context missing")
	}
	return primitive.ObjectIDFromHex(tenantID)
}

func (r *QuotationRepositoryImpl) Create(ctx context.Context, q *Quotation) error {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}
	q.OrganizationID = oid
	_, err = r.Collection.InsertOne(ctx, q)
	return err
}

func (r *QuotationRepositoryImpl) FindByID(ctx context.Context, id string) (*Quotation, error) {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	quotationID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid quotation id")
	}
	var q Quotation
	err = r.Collection.FindOne(ctx, bson.M{"_id": quotationID, "organization_id": oid}).Decode(&q)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuotationRepositoryImpl) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Quotation, int64, error) {
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

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit).SetSkip(offset)
	}
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var quotations []Quotation
	if err := cursor.All(ctx, &quotations); err != nil {
		return nil, 0, err
	}
	return quotations, total, nil
}

func (r *QuotationRepositoryImpl) Update(ctx context.Context, id string, q *Quotation) error {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}
	quotationID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid quotation id")
	}

	set := bson.M{
		"discount_pct":   q.DiscountPct,
		"commission_pct": q.CommissionPct,
		"final_price_uf": q.FinalPriceUF,
		"status":         q.Status,
		"valid_until":    q.ValidUntil,
		"updated_at":     q.UpdatedAt,
	}
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": quotationID, "organization_id": oid},
		bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *QuotationRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}
	quotationID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid quotation id")
	}
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": quotationID, "organization_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// FindRule returns the tenant's stored pricing rule, or ErrNoDocuments.
func (r *QuotationRepositoryImpl) FindRule(ctx context.Context) (*PricingRule, error) {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var rule PricingRule
	err = r.Rules.FindOne(ctx, bson.M{"organization_id": oid}).Decode(&rule)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// SaveRule upserts the single rule slot of the tenant.
func (r *QuotationRepositoryImpl) SaveRule(ctx context.Context, rule *PricingRule) error {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}
	rule.OrganizationID = oid
	_, err = r.Rules.UpdateOne(ctx,
		bson.M{"organization_id": oid},
		bson.M{
			"$set": bson.M{
				"name":       rule.Name,
				"script":     rule.Script,
				"updated_by": rule.UpdatedBy,
				"updated_at": rule.UpdatedAt,
			},
			"$setOnInsert": bson.M{"created_at": rule.CreatedAt},
		},
		options.Update().SetUpsert(true))
	return err
}

func (r *QuotationRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "client_id", Value: 1}},
	})
	if err != nil {
		return err
	}
	_, err = r.Rules.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "organization_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
