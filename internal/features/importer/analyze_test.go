package importer

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"estate-crm/internal/features/county"
	"estate-crm/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fakeProjectStore struct {
	stored      map[string]bson.M
	inserted    [][]interface{}
	updates     []bson.M
	failUpdates map[string]error // by target id hex
}

func (f *fakeProjectStore) RawByNormalizedName(ctx context.Context) (map[string]bson.M, error) {
	return f.stored, nil
}

func (f *fakeProjectStore) InsertManyRaw(ctx context.Context, docs []interface{}) (int, error) {
	f.inserted = append(f.inserted, docs)
	return len(docs), nil
}

func (f *fakeProjectStore) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) (int64, int64, error) {
	if err, ok := f.failUpdates[id.Hex()]; ok {
		return 0, 0, err
	}
	f.updates = append(f.updates, set)
	return 1, 1, nil
}

type fakeCountyStore struct {
	counties map[string]*county.County
}

func (f *fakeCountyStore) FindByName(ctx context.Context, name string) (*county.County, error) {
	if c, ok := f.counties[utils.NormalizeName(name)]; ok {
		return c, nil
	}
	return nil, mongo.ErrNoDocuments
}

var (
	testTenant = primitive.NewObjectID()
	nunoa      = &county.County{
		ID:         primitive.NewObjectID(),
		Name:       "Ñuñoa",
		RegionID:   "13",
		RegionName: "Metropolitana",
	}
)

func testAnalyzer(projects *fakeProjectStore) *Analyzer {
	a := NewAnalyzer(projects, &fakeCountyStore{
		counties: map[string]*county.County{"nunoa": nunoa},
	}, zap.NewNop())

	seq := 0
	a.newID = func() primitive.ObjectID {
		seq++
		var id primitive.ObjectID
		copy(id[:], fmt.Sprintf("%012d", seq))
		return id
	}
	a.now = func() time.Time {
		return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	}
	return a
}

var testMapping = map[string]string{
	"Name":          "name",
	"Address":       "address",
	"County":        "county",
	"Delivery Date": "delivery_date",
	"Price":         "price_from_uf",
}

func TestAnalyzeInsertPath(t *testing.T) {
	store := &fakeProjectStore{stored: map[string]bson.M{}}
	a := testAnalyzer(store)

	rows := []map[string]string{{
		"Name":          "Plaza Zañartu",
		"Address":       "Av. Central 100",
		"County":        "Ñuñoa",
		"Delivery Date": "2024-05-01",
		"Price":         "2500",
	}}

	result, err := a.Analyze(context.Background(), rows, testMapping, testTenant, "user-1")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(result.DbOperations.Insert) != 1 || len(result.DbOperations.Update) != 0 {
		t.Fatalf("ops = %d inserts, %d updates", len(result.DbOperations.Insert), len(result.DbOperations.Update))
	}
	doc := result.DbOperations.Insert[0].Document
	if doc["name"] != "Plaza Zañartu" {
		t.Errorf("name = %v", doc["name"])
	}
	if doc["normalized_name"] != "plaza zanartu" {
		t.Errorf("normalized_name = %v", doc["normalized_name"])
	}
	if doc["organization_id"] != testTenant {
		t.Errorf("organization_id = %v", doc["organization_id"])
	}
	if doc["county_id"] != nunoa.ID.Hex() || doc["county_name"] != "Ñuñoa" || doc["region_name"] != "Metropolitana" {
		t.Errorf("county fields = %v / %v / %v", doc["county_id"], doc["county_name"], doc["region_name"])
	}
	if doc["price_from_uf"] != float64(2500) {
		t.Errorf("price_from_uf = %v (%T)", doc["price_from_uf"], doc["price_from_uf"])
	}
	if doc["created_by"] != "user-1" {
		t.Errorf("created_by = %v", doc["created_by"])
	}
	if len(result.ProjectsToCreate) != 1 {
		t.Errorf("ProjectsToCreate = %v", result.ProjectsToCreate)
	}
}

var zanartuID = primitive.NewObjectID()

func storedZanartu() bson.M {
	return bson.M{
		"_id":             zanartuID,
		"organization_id": testTenant,
		"name":            "Plaza Zañartu",
		"normalized_name": "plaza zanartu",
		"address":         "Av. Central 100",
		"county_id":       nunoa.ID.Hex(),
		"county_name":     "Ñuñoa",
		"region_id":       "13",
		"region_name":     "Metropolitana",
		"delivery_date":   time.Date(2024, 5, 1, 0, 0, 30, 0, time.UTC),
		"price_from_uf":   float64(2500),
	}
}

func TestAnalyzeRoundTripIsNoOp(t *testing.T) {
	store := &fakeProjectStore{stored: map[string]bson.M{"plaza zanartu": storedZanartu()}}
	a := testAnalyzer(store)

	// Same data as stored, including a delivery date 30s off the stored
	// timestamp, which is within tolerance.
	rows := []map[string]string{{
		"Name":          "Plaza Zañartu",
		"Address":       "Av. Central 100",
		"County":        "Ñuñoa",
		"Delivery Date": "2024-05-01",
		"Price":         "2500",
	}}

	result, err := a.Analyze(context.Background(), rows, testMapping, testTenant, "user-1")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(result.DbOperations.Insert) != 0 || len(result.DbOperations.Update) != 0 {
		t.Errorf("round-trip produced operations: %+v", result.DbOperations)
	}
	if len(result.ProjectsToUpdate) != 0 {
		t.Errorf("ProjectsToUpdate = %v", result.ProjectsToUpdate)
	}
}

func TestAnalyzeUpdateOnlyChangedFields(t *testing.T) {
	stored := storedZanartu()
	store := &fakeProjectStore{stored: map[string]bson.M{"plaza zanartu": stored}}
	a := testAnalyzer(store)

	rows := []map[string]string{{
		"Name":          "Plaza Zañartu",
		"Address":       "Av. Central 200", // changed
		"County":        "Ñuñoa",
		"Delivery Date": "2024-05-01",
		"Price":         "2500",
	}}

	result, err := a.Analyze(context.Background(), rows, testMapping, testTenant, "user-1")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(result.DbOperations.Update) != 1 {
		t.Fatalf("updates = %d, want 1", len(result.DbOperations.Update))
	}
	op := result.DbOperations.Update[0]
	if op.Filter["_id"] != stored["_id"] {
		t.Errorf("filter targets %v, want %v", op.Filter["_id"], stored["_id"])
	}
	set := op.Update["$set"].(bson.M)
	if set["address"] != "Av. Central 200" {
		t.Errorf("set.address = %v", set["address"])
	}
	if _, ok := set["updated_at"]; !ok {
		t.Error("update must bump updated_at")
	}
	if len(set) != 2 {
		t.Errorf("set has extra fields: %v", set)
	}
}

func TestAnalyzeDuplicateNameLastRowWins(t *testing.T) {
	store := &fakeProjectStore{stored: map[string]bson.M{}}
	a := testAnalyzer(store)

	rows := []map[string]string{
		{"Name": "Los Aromos", "Address": "Primera 1", "County": "Ñuñoa"},
		{"Name": "LOS AROMOS", "Address": "Segunda 2", "County": "Ñuñoa"},
	}

	result, err := a.Analyze(context.Background(), rows, testMapping, testTenant, "user-1")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(result.DbOperations.Insert) != 1 {
		t.Fatalf("inserts = %d, want 1", len(result.DbOperations.Insert))
	}
	if addr := result.DbOperations.Insert[0].Document["address"]; addr != "Segunda 2" {
		t.Errorf("last occurrence should win, got address %v", addr)
	}
	found := false
	for _, l := range result.Logs {
		if strings.Contains(l, "duplicate") {
			found = true
		}
	}
	if !found {
		t.Error("duplicate rows should be surfaced in the logs")
	}
}

func TestAnalyzeMissingCountySkipsRow(t *testing.T) {
	store := &fakeProjectStore{stored: map[string]bson.M{}}
	a := testAnalyzer(store)

	rows := []map[string]string{
		{"Name": "Torre Austral", "Address": "Sur 9", "County": "Comuna Inexistente"},
		{"Name": "Los Aromos", "Address": "Primera 1", "County": "Ñuñoa"},
	}

	result, err := a.Analyze(context.Background(), rows, testMapping, testTenant, "user-1")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(result.MissingCounties) != 1 || result.MissingCounties[0] != "Comuna Inexistente" {
		t.Errorf("MissingCounties = %v", result.MissingCounties)
	}
	if len(result.DbOperations.Insert) != 1 {
		t.Errorf("inserts = %d, want only the resolvable row", len(result.DbOperations.Insert))
	}
}

func TestAnalyzeRowWithoutNameIsError(t *testing.T) {
	store := &fakeProjectStore{stored: map[string]bson.M{}}
	a := testAnalyzer(store)

	rows := []map[string]string{{"Name": "  ", "Address": "Sin Nombre 1"}}

	result, err := a.Analyze(context.Background(), rows, testMapping, testTenant, "user-1")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v", result.Errors)
	}
	if len(result.DbOperations.Insert)+len(result.DbOperations.Update) != 0 {
		t.Error("nameless row must not generate operations")
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	rows := []map[string]string{
		{"Name": "Plaza Zañartu", "Address": "Av. Central 200", "County": "Ñuñoa"},
		{"Name": "Los Aromos", "Address": "Primera 1", "County": "Ñuñoa"},
	}

	run := func() *AnalyzeResult {
		store := &fakeProjectStore{stored: map[string]bson.M{"plaza zanartu": storedZanartu()}}
		// fresh analyzer each run: same injected clock and id sequence
		a := testAnalyzer(store)
		r, err := a.Analyze(context.Background(), rows, testMapping, testTenant, "user-1")
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		return r
	}

	first := run()
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over identical inputs produced different change-sets")
	}
}

func TestAnalyzeRequiresNameColumn(t *testing.T) {
	store := &fakeProjectStore{stored: map[string]bson.M{}}
	a := testAnalyzer(store)

	_, err := a.Analyze(context.Background(), nil, map[string]string{"Address": "address"}, testTenant, "user-1")
	if err == nil {
		t.Fatal("expected error for mapping without name column")
	}
}
