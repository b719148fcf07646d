package unit

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UnitStatus string

const (
	StatusAvailable UnitStatus = "available"
	StatusReserved  UnitStatus = "reserved"
	StatusSold      UnitStatus = "sold"
)

// allowedTransitions encodes the sales lifecycle: a reservation can fall
// through back to available, a sale is final.
var allowedTransitions = map[UnitStatus][]UnitStatus{
	StatusAvailable: {StatusReserved, StatusSold},
	StatusReserved:  {StatusAvailable, StatusSold},
	StatusSold:      {},
}

func ValidStatus(s UnitStatus) bool {
	_, ok := allowedTransitions[s]
	return ok
}

func CanTransition(from, to UnitStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Unit is one sellable item of housing stock inside a project.
type Unit struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	ProjectID      primitive.ObjectID `bson:"project_id" json:"project_id"`
	Number         string             `bson:"number" json:"number"` // e.g. "A-1204"
	Typology       string             `bson:"typology,omitempty" json:"typology,omitempty"` // e.g. "2D+2B"
	Floor          int                `bson:"floor,omitempty" json:"floor,omitempty"`
	AreaM2         float64            `bson:"area_m2,omitempty" json:"area_m2,omitempty"`
	Orientation    string             `bson:"orientation,omitempty" json:"orientation,omitempty"`
	PriceUF        float64            `bson:"price_uf,omitempty" json:"price_uf,omitempty"`
	Status         UnitStatus         `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
