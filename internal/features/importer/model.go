package importer

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ImportStatus string

const (
	ImportStatusAnalyzed ImportStatus = "analyzed"
	ImportStatusApplying ImportStatus = "applying"
	ImportStatusApplied  ImportStatus = "applied"
	ImportStatusFailed   ImportStatus = "failed"
)

// ImportJob records one reconciliation run: the analyzed change-set awaiting
// confirmation, then the apply outcome.
type ImportJob struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID `json:"organization_id" bson:"organization_id"`
	UserID         string             `json:"user_id" bson:"user_id"`
	FileName       string             `json:"file_name" bson:"file_name"`
	Status         ImportStatus       `json:"status" bson:"status"`
	TotalRows      int                `json:"total_rows" bson:"total_rows"`
	ColumnMapping  map[string]string  `json:"column_mapping" bson:"column_mapping"` // header -> schema field
	ChangeSet      *AnalyzeResult     `json:"change_set,omitempty" bson:"change_set,omitempty"`
	Inserted       int                `json:"inserted" bson:"inserted"`
	Updated        int                `json:"updated" bson:"updated"`
	ApplyErrors    []string           `json:"apply_errors,omitempty" bson:"apply_errors,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// ImportPreview is returned before analysis so the operator can adjust the
// column mapping.
type ImportPreview struct {
	Headers    []string            `json:"headers"`
	Mapping    map[string]string   `json:"mapping"`
	SampleRows []map[string]string `json:"sample_rows"`
	TotalRows  int                 `json:"total_rows"`
}

// InsertOp is a full new document staged for the batch insert.
type InsertOp struct {
	Document bson.M `json:"document" bson:"document"`
}

// UpdateOp is a sparse conditional update: the filter carries only the
// target identifier; apply adds the tenant scope.
type UpdateOp struct {
	Filter bson.M `json:"filter" bson:"filter"`
	Update bson.M `json:"update" bson:"update"` // {"$set": {...changed fields}}
}

type DbOperations struct {
	Insert []InsertOp `json:"insert" bson:"insert"`
	Update []UpdateOp `json:"update" bson:"update"`
}

// AnalyzeResult is the change-set produced by the read-only Analyze step.
// A record never appears in both lists; update entries always carry a
// non-empty field set.
type AnalyzeResult struct {
	DbOperations     DbOperations        `json:"dbOperations" bson:"db_operations"`
	ProjectsToCreate []map[string]bson.M `json:"projectsToCreate" bson:"projects_to_create"`
	ProjectsToUpdate []map[string]bson.M `json:"projectsToUpdate" bson:"projects_to_update"`
	MissingCounties  []string            `json:"missingCounties" bson:"missing_counties"`
	Errors           []string            `json:"errors" bson:"errors"`
	Logs             []string            `json:"logs" bson:"logs"`
}

// ApplyResult reports the apply outcome. Updated counts documents actually
// modified, not merely attempted.
type ApplyResult struct {
	Inserted int      `json:"inserted"`
	Updated  int      `json:"updated"`
	Errors   []string `json:"errors"`
}
