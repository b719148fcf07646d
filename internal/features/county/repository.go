package county

import (
	"context"

	"estate-crm/internal/database"
	"estate-crm/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CountyRepository interface {
	FindByName(ctx context.Context, name string) (*County, error)
	List(ctx context.Context) ([]County, error)
	InsertMany(ctx context.Context, counties []County) error
	EnsureIndexes(ctx context.Context) error
}

type CountyRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewCountyRepository(mongodb *database.MongodbDB) CountyRepository {
	return &CountyRepositoryImpl{
		Collection: mongodb.DB.Collection("counties"),
	}
}

// FindByName matches case- and diacritic-insensitively.
func (r *CountyRepositoryImpl) FindByName(ctx context.Context, name string) (*County, error) {
	var county County
	err := r.Collection.FindOne(ctx, bson.M{"normalized_name": utils.NormalizeName(name)}).Decode(&county)
	if err != nil {
		return nil, err
	}
	return &county, nil
}

func (r *CountyRepositoryImpl) List(ctx context.Context) ([]County, error) {
	opts := options.Find().SetSort(bson.D{{Key: "region_id", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counties []County
	if err := cursor.All(ctx, &counties); err != nil {
		return nil, err
	}
	return counties, nil
}

func (r *CountyRepositoryImpl) InsertMany(ctx context.Context, counties []County) error {
	docs := make([]interface{}, len(counties))
	for i := range counties {
		counties[i].NormalizedName = utils.NormalizeName(counties[i].Name)
		docs[i] = counties[i]
	}
	_, err := r.Collection.InsertMany(ctx, docs)
	return err
}

func (r *CountyRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "normalized_name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
