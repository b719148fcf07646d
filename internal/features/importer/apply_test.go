package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func updateOpFor(id primitive.ObjectID, set bson.M) UpdateOp {
	return UpdateOp{
		Filter: bson.M{"_id": id},
		Update: bson.M{"$set": set},
	}
}

func TestApplyInsertBatch(t *testing.T) {
	store := &fakeProjectStore{stored: map[string]bson.M{}}
	applier := NewApplier(store, zap.NewNop())

	cs := &AnalyzeResult{
		DbOperations: DbOperations{
			Insert: []InsertOp{
				{Document: bson.M{"name": "A"}},
				{Document: bson.M{"name": "B"}},
			},
		},
	}

	result := applier.Apply(context.Background(), cs, testTenant)
	if result.Inserted != 2 {
		t.Errorf("Inserted = %d, want 2", result.Inserted)
	}
	if len(store.inserted) != 1 {
		t.Errorf("inserts must go through a single batch, got %d calls", len(store.inserted))
	}
	if len(result.Errors) != 0 {
		t.Errorf("Errors = %v", result.Errors)
	}
}

func TestApplyPartialUpdateFailure(t *testing.T) {
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}
	store := &fakeProjectStore{
		stored:      map[string]bson.M{},
		failUpdates: map[string]error{ids[1].Hex(): errors.New("write conflict")},
	}
	applier := NewApplier(store, zap.NewNop())

	cs := &AnalyzeResult{
		DbOperations: DbOperations{
			Update: []UpdateOp{
				updateOpFor(ids[0], bson.M{"address": "A"}),
				updateOpFor(ids[1], bson.M{"address": "B"}),
				updateOpFor(ids[2], bson.M{"address": "C"}),
			},
		},
	}

	result := applier.Apply(context.Background(), cs, testTenant)
	if result.Updated != 2 {
		t.Errorf("Updated = %d, want 2: one op failed, the others proceed", result.Updated)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want exactly one", result.Errors)
	}
	if !strings.Contains(result.Errors[0], ids[1].Hex()) {
		t.Errorf("error should name the failed record: %q", result.Errors[0])
	}
}

func TestApplyUpdateTargetGone(t *testing.T) {
	gone := primitive.NewObjectID()
	store := &fakeProjectStore{
		stored:      map[string]bson.M{},
		failUpdates: map[string]error{},
	}
	// a zero matched count reports the record as missing
	applier := NewApplier(&notFoundStore{fakeProjectStore: store, missing: gone}, zap.NewNop())

	cs := &AnalyzeResult{
		DbOperations: DbOperations{
			Update: []UpdateOp{updateOpFor(gone, bson.M{"address": "X"})},
		},
	}

	result := applier.Apply(context.Background(), cs, testTenant)
	if result.Updated != 0 {
		t.Errorf("Updated = %d, want 0", result.Updated)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "no longer exists") {
		t.Errorf("Errors = %v", result.Errors)
	}
}

type notFoundStore struct {
	*fakeProjectStore
	missing primitive.ObjectID
}

func (s *notFoundStore) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) (int64, int64, error) {
	if id == s.missing {
		return 0, 0, nil
	}
	return s.fakeProjectStore.UpdateFields(ctx, id, set)
}

func TestApplyStringFilterID(t *testing.T) {
	// Change-sets reloaded from storage may carry the target id as a hex
	// string rather than an ObjectID.
	id := primitive.NewObjectID()
	store := &fakeProjectStore{stored: map[string]bson.M{}}
	applier := NewApplier(store, zap.NewNop())

	cs := &AnalyzeResult{
		DbOperations: DbOperations{
			Update: []UpdateOp{{
				Filter: bson.M{"_id": id.Hex()},
				Update: bson.M{"$set": bson.M{"address": "X"}},
			}},
		},
	}

	result := applier.Apply(context.Background(), cs, testTenant)
	if result.Updated != 1 || len(result.Errors) != 0 {
		t.Errorf("result = %+v", result)
	}
}
