package report

import (
	"context"
	"fmt"

	"estate-crm/internal/common/models"
	"estate-crm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReportRepository interface {
	CountByStatus(ctx context.Context, collection string) ([]StatusCount, error)
	QuotationTotalsByStatus(ctx context.Context) (map[string]QuotationTotals, error)
}

type ReportRepositoryImpl struct {
	DB *mongo.Database
}

func NewReportRepository(mongodb *database.MongodbDB) ReportRepository {
	return &ReportRepositoryImpl{DB: mongodb.DB}
}

func tenantFromContext(ctx context.Context) (primitive.ObjectID, error) {
	tenantID, ok := ctx.Value(models.TenantIDKey).(string)
	if !ok || tenantID == "" {
		return primitive.NilObjectID, fmt.Errorf("tenant context missing")
	}
	return primitive.ObjectIDFromHex(tenantID)
}

// CountByStatus groups one tenant-scoped collection by its status field.
func (r *ReportRepositoryImpl) CountByStatus(ctx context.Context, collection string) ([]StatusCount, error) {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"organization_id": oid}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.DB.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []StatusCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *ReportRepositoryImpl) QuotationTotalsByStatus(ctx context.Context) (map[string]QuotationTotals, error) {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"organization_id": oid}}},
		{{Key: "$group", Value: bson.M{
			"_id":              "$status",
			"count":            bson.M{"$sum": 1},
			"total_uf":         bson.M{"$sum": "$final_price_uf"},
			"avg_discount_pct": bson.M{"$avg": "$discount_pct"},
		}}},
	}

	cursor, err := r.DB.Collection("quotations").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		QuotationTotals `bson:",inline"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	totals := make(map[string]QuotationTotals, len(rows))
	for _, row := range rows {
		totals[row.Status] = row.QuotationTotals
	}
	return totals, nil
}
