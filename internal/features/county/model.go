package county

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// County is one row of the region/county lookup table. It is global data,
// not tenant-scoped, seeded once by cmd/seed.
type County struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	NormalizedName string             `bson:"normalized_name" json:"-"`
	RegionID       string             `bson:"region_id" json:"region_id"`
	RegionName     string             `bson:"region_name" json:"region_name"`
}
