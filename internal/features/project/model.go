package project

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is a real-estate development being sold. The reconciliation
// pipeline matches spreadsheet rows to projects by normalized name.
type Project struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	Name           string             `bson:"name" json:"name"`
	NormalizedName string             `bson:"normalized_name" json:"-"`
	Address        string             `bson:"address,omitempty" json:"address,omitempty"`
	Developer      string             `bson:"developer,omitempty" json:"developer,omitempty"`
	Status         string             `bson:"status,omitempty" json:"status,omitempty"` // planned, selling, sold_out
	LegalID        string             `bson:"legal_id,omitempty" json:"legal_id,omitempty"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	DeliveryDate   *time.Time         `bson:"delivery_date,omitempty" json:"delivery_date,omitempty"`
	PriceFromUF    float64            `bson:"price_from_uf,omitempty" json:"price_from_uf,omitempty"`
	CommissionPct  float64            `bson:"commission_pct,omitempty" json:"commission_pct,omitempty"`

	// Geography: county resolved by name at import time, region derived from
	// the county. Derived fields are never touched by bulk updates.
	CountyID   string `bson:"county_id,omitempty" json:"county_id,omitempty"`
	CountyName string `bson:"county_name,omitempty" json:"county_name,omitempty"`
	RegionID   string `bson:"region_id,omitempty" json:"region_id,omitempty"`
	RegionName string `bson:"region_name,omitempty" json:"region_name,omitempty"`

	CreatedBy string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
