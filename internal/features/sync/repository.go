package sync

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

type SyncSettingRepository interface {
	Save(ctx context.Context, setting *SyncSetting) error
	FindByID(ctx context.Context, id string) (*SyncSetting, error)
	List(ctx context.Context) ([]SyncSetting, error)
	RecordRun(ctx context.Context, id primitive.ObjectID, jobID, runErr string) error
	Delete(ctx context.Context, id string) error
}

type SyncSettingRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSyncSettingRepository(mongodb *database.MongodbDB) SyncSettingRepository {
	return &SyncSettingRepositoryImpl{
		Collection: mongodb.DB.Collection("sync_settings"),
	}
}

func tenantFromContext(ctx context.Context) (primitive.ObjectID, error) {
	tenantID, ok := ctx.Value(models.TenantIDKey).(string)
	if !ok || tenantID == "" {
		return primitive.NilObjectID, fmt.Errorf("tenant context missing")
	}
	return primitive.ObjectIDFromHex(tenantID)
}

func (r *SyncSettingRepositoryImpl) Save(ctx context.Context, setting *SyncSetting) error {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}
	setting.OrganizationID = oid
	setting.UpdatedAt = time.Now()

	if setting.ID.IsZero() {
		setting.ID = primitive.NewObjectID()
		setting.CreatedAt = setting.UpdatedAt
		_, err = r.Collection.InsertOne(ctx, setting)
		return err
	}

	res, err := r.Collection.ReplaceOne(ctx,
		bson.M{"_id": setting.ID, "organization_id": oid}, setting)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *SyncSettingRepositoryImpl) FindByID(ctx context.Context, id string) (*SyncSetting, error) {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	settingID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid sync setting id")
	}
	var setting SyncSetting
	err = r.Collection.FindOne(ctx, bson.M{"_id": settingID, "organization_id": oid}).Decode(&setting)
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *SyncSettingRepositoryImpl) List(ctx context.Context) ([]SyncSetting, error) {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{"organization_id": oid}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var settings []SyncSetting
	if err := cursor.All(ctx, &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *SyncSettingRepositoryImpl) RecordRun(ctx context.Context, id primitive.ObjectID, jobID, runErr string) error {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	_, err = r.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "organization_id": oid},
		bson.M{"$set": bson.M{
			"last_run_at": now,
			"last_job_id": jobID,
			"last_error":  runErr,
			"updated_at":  now,
		}})
	return err
}

func (r *SyncSettingRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}
	settingID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid sync setting id")
	}
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": settingID, "organization_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
