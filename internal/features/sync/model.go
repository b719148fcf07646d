package sync

import (
	"time"

	"estate-crm/internal/connectors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SyncSetting is the per-tenant configuration of an external listings
// database feeding the reconciliation pipeline.
type SyncSetting struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	Name           string             `bson:"name" json:"name"`
	Connection     connectors.Config  `bson:"connection" json:"connection"`
	Table          string             `bson:"table" json:"table"`
	ColumnMapping  map[string]string  `bson:"column_mapping,omitempty" json:"column_mapping,omitempty"` // column -> schema field
	RowLimit       int64              `bson:"row_limit,omitempty" json:"row_limit,omitempty"`

	LastRunAt  *time.Time `bson:"last_run_at,omitempty" json:"last_run_at,omitempty"`
	LastJobID  string     `bson:"last_job_id,omitempty" json:"last_job_id,omitempty"`
	LastError  string     `bson:"last_error,omitempty" json:"last_error,omitempty"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
}
