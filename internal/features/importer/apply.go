package importer

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Applier executes a confirmed change-set: one batch insert, then each
// update independently. A failed operation is recorded and the rest of the
// batch continues.
type Applier struct {
	projects ProjectStore
	log      *zap.Logger
}

func NewApplier(projects ProjectStore, log *zap.Logger) *Applier {
	return &Applier{projects: projects, log: log}
}

func (a *Applier) Apply(ctx context.Context, cs *AnalyzeResult, tenant primitive.ObjectID) *ApplyResult {
	result := &ApplyResult{Errors: []string{}}

	if len(cs.DbOperations.Insert) > 0 {
		docs := make([]interface{}, len(cs.DbOperations.Insert))
		for i, op := range cs.DbOperations.Insert {
			docs[i] = op.Document
		}
		n, err := a.projects.InsertManyRaw(ctx, docs)
		result.Inserted = n
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("insert batch: %v", err))
			a.log.Error("import insert batch failed",
				zap.String("tenant_id", tenant.Hex()), zap.Error(err))
		}
	}

	for _, op := range cs.DbOperations.Update {
		id, err := updateTargetID(op)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		var set bson.M
		switch s := op.Update["$set"].(type) {
		case bson.M:
			set = s
		case map[string]interface{}:
			set = s
		default:
			result.Errors = append(result.Errors, fmt.Sprintf("update %s: malformed operation", id.Hex()))
			continue
		}

		matched, modified, err := a.projects.UpdateFields(ctx, id, set)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("update %s: %v", id.Hex(), err))
			a.log.Error("import update failed",
				zap.String("tenant_id", tenant.Hex()),
				zap.String("project_id", id.Hex()), zap.Error(err))
			continue
		}
		if matched == 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("update %s: project no longer exists", id.Hex()))
			continue
		}
		result.Updated += int(modified)
	}

	a.log.Info("apply complete",
		zap.String("tenant_id", tenant.Hex()),
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Int("errors", len(result.Errors)))

	return result
}

func updateTargetID(op UpdateOp) (primitive.ObjectID, error) {
	switch id := op.Filter["_id"].(type) {
	case primitive.ObjectID:
		return id, nil
	case string:
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return primitive.NilObjectID, fmt.Errorf("update: bad target id %q", id)
		}
		return oid, nil
	default:
		return primitive.NilObjectID, fmt.Errorf("update: missing target id")
	}
}
