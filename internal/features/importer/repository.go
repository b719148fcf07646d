package importer

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

type ImportJobRepository interface {
	Create(ctx context.Context, job *ImportJob) error
	FindByID(ctx context.Context, id string) (*ImportJob, error)
	List(ctx context.Context, limit int64) ([]ImportJob, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status ImportStatus) error
	RecordOutcome(ctx context.Context, id primitive.ObjectID, status ImportStatus, outcome *ApplyResult) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type ImportJobRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewImportJobRepository(mongodb *database.MongodbDB) ImportJobRepository {
	return &ImportJobRepositoryImpl{
		Collection: mongodb.DB.Collection("import_jobs"),
	}
}

func jobTenant(ctx context.Context) (primitive.ObjectID, error) {
	tenantID, ok := ctx.Value(models.TenantIDKey).(string)
	if !ok || tenantID == "" {
		return primitive.NilObjectID, fmt.Errorf("tenant context missing")
	}
	return primitive.ObjectIDFromHex(tenantID)
}

func (r *ImportJobRepositoryImpl) Create(ctx context.Context, job *ImportJob) error {
	oid, err := jobTenant(ctx)
	if err != nil {
		return err
	}
	job.ID = primitive.NewObjectID()
	job.OrganizationID = oid
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	_, err = r.Collection.InsertOne(ctx, job)
	return err
}

func (r *ImportJobRepositoryImpl) FindByID(ctx context.Context, id string) (*ImportJob, error) {
	oid, err := jobTenant(ctx)
	if err != nil {
		return nil, err
	}
	jobID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid job id")
	}
	var job ImportJob
	err = r.Collection.FindOne(ctx, bson.M{"_id": jobID, "organization_id": oid}).Decode(&job)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *ImportJobRepositoryImpl) List(ctx context.Context, limit int64) ([]ImportJob, error) {
	oid, err := jobTenant(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"change_set": 0})
	cursor, err := r.Collection.Find(ctx, bson.M{"organization_id": oid}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var jobs []ImportJob
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *ImportJobRepositoryImpl) SetStatus(ctx context.Context, id primitive.ObjectID, status ImportStatus) error {
	oid, err := jobTenant(ctx)
	if err != nil {
		return err
	}
	_, err = r.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "organization_id": oid},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
	return err
}

func (r *ImportJobRepositoryImpl) RecordOutcome(ctx context.Context, id primitive.ObjectID, status ImportStatus, outcome *ApplyResult) error {
	oid, err := jobTenant(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	_, err = r.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "organization_id": oid},
		bson.M{"$set": bson.M{
			"status":       status,
			"inserted":     outcome.Inserted,
			"updated":      outcome.Updated,
			"apply_errors": outcome.Errors,
			"updated_at":   now,
			"completed_at": now,
		}})
	return err
}

// PurgeOlderThan removes finished jobs past their retention window. It runs
// across tenants and is called from the scheduled janitor, not a request.
func (r *ImportJobRepositoryImpl) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.Collection.DeleteMany(ctx, bson.M{
		"created_at": bson.M{"$lt": cutoff},
		"status":     bson.M{"$in": []ImportStatus{ImportStatusApplied, ImportStatusFailed}},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
