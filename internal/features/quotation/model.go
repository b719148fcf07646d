package quotation

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type QuotationStatus string

const (
	StatusDraft    QuotationStatus = "draft"
	StatusSent     QuotationStatus = "sent"
	StatusAccepted QuotationStatus = "accepted"
	StatusRejected QuotationStatus = "rejected"
)

// Quotation is a priced offer of one unit to one client.
type Quotation struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	ClientID       primitive.ObjectID `bson:"client_id" json:"client_id"`
	ProjectID      primitive.ObjectID `bson:"project_id" json:"project_id"`
	UnitID         primitive.ObjectID `bson:"unit_id" json:"unit_id"`

	ListPriceUF   float64 `bson:"list_price_uf" json:"list_price_uf"`
	DiscountPct   float64 `bson:"discount_pct" json:"discount_pct"`
	CommissionPct float64 `bson:"commission_pct" json:"commission_pct"`
	FinalPriceUF  float64 `bson:"final_price_uf" json:"final_price_uf"`

	Status     QuotationStatus `bson:"status" json:"status"`
	ValidUntil *time.Time      `bson:"valid_until,omitempty" json:"valid_until,omitempty"`

	CreatedBy string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PricingRule is a tenant-scoped tengo script validating and pricing a
// quotation. At most one active rule per organization; absent a stored rule
// the built-in default applies.
type PricingRule struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	Name           string             `bson:"name" json:"name"`
	Script         string             `bson:"script" json:"script"`
	UpdatedBy      string             `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
