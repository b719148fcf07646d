package importer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"estate-crm/internal/features/county"
	"estate-crm/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ProjectStore is the slice of the project repository the pipeline needs.
type ProjectStore interface {
	RawByNormalizedName(ctx context.Context) (map[string]bson.M, error)
	InsertManyRaw(ctx context.Context, docs []interface{}) (int, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) (matched, modified int64, err error)
}

// CountyStore resolves county names against the seeded lookup table.
type CountyStore interface {
	FindByName(ctx context.Context, name string) (*county.County, error)
}

// Analyzer diffs parsed spreadsheet rows against the tenant's stored
// projects. Analyze never writes; the change-set it produces is applied
// later, after operator confirmation.
type Analyzer struct {
	projects ProjectStore
	counties CountyStore
	log      *zap.Logger

	// injectable for deterministic change-sets in tests
	newID func() primitive.ObjectID
	now   func() time.Time
}

func NewAnalyzer(projects ProjectStore, counties CountyStore, log *zap.Logger) *Analyzer {
	return &Analyzer{
		projects: projects,
		counties: counties,
		log:      log,
		newID:    primitive.NewObjectID,
		now:      time.Now,
	}
}

// Analyze builds the change-set for one spreadsheet. Rows that cannot be
// staged (missing name, unresolved county) are reported and skipped; the
// rest of the batch proceeds.
func (a *Analyzer) Analyze(ctx context.Context, rows []map[string]string, mapping map[string]string, tenant primitive.ObjectID, userID string) (*AnalyzeResult, error) {
	if err := ValidateMapping(mapping); err != nil {
		return nil, err
	}

	result := &AnalyzeResult{
		DbOperations:     DbOperations{Insert: []InsertOp{}, Update: []UpdateOp{}},
		ProjectsToCreate: []map[string]bson.M{},
		ProjectsToUpdate: []map[string]bson.M{},
		MissingCounties:  []string{},
		Errors:           []string{},
		Logs:             []string{},
	}

	stored, err := a.projects.RawByNormalizedName(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading stored projects: %w", err)
	}

	keep := a.dedupeRows(rows, mapping, result)

	missing := map[string]bool{}
	countyCache := map[string]*county.County{}

	for _, entry := range keep {
		fields, rowErrs := stageRow(entry.row, mapping)
		for _, e := range rowErrs {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d (%s): %s", entry.line, entry.name, e))
		}

		resolved, ok, err := a.resolveCounty(ctx, fields, countyCache)
		if err != nil {
			return nil, err
		}
		if !ok {
			countyName := stringify(fields["county"])
			if !missing[countyName] {
				missing[countyName] = true
				result.MissingCounties = append(result.MissingCounties, countyName)
			}
			result.Logs = append(result.Logs, fmt.Sprintf("row %d (%s): skipped, county %q not found", entry.line, entry.name, countyName))
			continue
		}
		delete(fields, "county")

		key := utils.NormalizeName(entry.name)
		storedDoc, exists := stored[key]
		if !exists {
			doc := a.buildInsert(entry.name, key, fields, resolved, tenant, userID)
			result.DbOperations.Insert = append(result.DbOperations.Insert, InsertOp{Document: doc})
			result.ProjectsToCreate = append(result.ProjectsToCreate, map[string]bson.M{entry.name: doc})
			result.Logs = append(result.Logs, fmt.Sprintf("will create %q", entry.name))
			continue
		}

		set := diffFields(fields, resolved, storedDoc)
		if len(set) == 0 {
			result.Logs = append(result.Logs, fmt.Sprintf("%q is up to date", entry.name))
			continue
		}
		changed := fieldNames(set)
		set["updated_at"] = a.now()
		result.DbOperations.Update = append(result.DbOperations.Update, UpdateOp{
			Filter: bson.M{"_id": storedDoc["_id"]},
			Update: bson.M{"$set": set},
		})
		result.ProjectsToUpdate = append(result.ProjectsToUpdate, map[string]bson.M{entry.name: set})
		result.Logs = append(result.Logs, fmt.Sprintf("will update %q: %s", entry.name, strings.Join(changed, ", ")))
	}

	result.Logs = append(result.Logs, fmt.Sprintf(
		"analyzed %d rows: %d to create, %d to update, %d counties missing",
		len(rows), len(result.DbOperations.Insert), len(result.DbOperations.Update), len(result.MissingCounties)))

	a.log.Info("analyze complete",
		zap.String("tenant_id", tenant.Hex()),
		zap.Int("rows", len(rows)),
		zap.Int("inserts", len(result.DbOperations.Insert)),
		zap.Int("updates", len(result.DbOperations.Update)),
		zap.Int("missing_counties", len(result.MissingCounties)),
		zap.Int("errors", len(result.Errors)))

	return result, nil
}

type keptRow struct {
	name string
	line int // 1-based data row, for messages
	row  map[string]string
}

// dedupeRows collapses rows sharing a normalized name, keeping the last
// occurrence. Earlier duplicates are logged so the operator can clean the
// sheet.
func (a *Analyzer) dedupeRows(rows []map[string]string, mapping map[string]string, result *AnalyzeResult) []keptRow {
	nameHeader := ""
	for header, field := range mapping {
		if field == KeyField {
			nameHeader = header
			break
		}
	}

	index := map[string]int{}
	var keep []keptRow
	for i, row := range rows {
		name := strings.TrimSpace(row[nameHeader])
		line := i + 1
		if name == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: missing %s, skipped", line, KeyField))
			continue
		}
		key := utils.NormalizeName(name)
		if prev, dup := index[key]; dup {
			result.Logs = append(result.Logs, fmt.Sprintf("duplicate name %q at row %d, keeping row %d", name, keep[prev].line, line))
			a.log.Warn("duplicate row in import", zap.String("name", name), zap.Int("row", line))
			keep[prev] = keptRow{name: name, line: line, row: row}
			continue
		}
		index[key] = len(keep)
		keep = append(keep, keptRow{name: name, line: line, row: row})
	}
	return keep
}

// stageRow converts the mapped cells of one row into typed field values.
func stageRow(row map[string]string, mapping map[string]string) (map[string]interface{}, []string) {
	fields := map[string]interface{}{}
	var errs []string
	for header, field := range mapping {
		raw, ok := row[header]
		if !ok {
			continue
		}
		v, err := convertValue(fieldKind(field), raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", field, err))
			continue
		}
		fields[field] = v
	}
	return fields, errs
}

// resolveCounty looks up the row's county name. ok is false when the sheet
// names a county the lookup table does not know.
func (a *Analyzer) resolveCounty(ctx context.Context, fields map[string]interface{}, cache map[string]*county.County) (*county.County, bool, error) {
	raw, present := fields["county"]
	if !present || isEmpty(raw) {
		return nil, true, nil
	}
	name := stringify(raw)
	key := utils.NormalizeName(name)
	if c, seen := cache[key]; seen {
		return c, c != nil, nil
	}
	c, err := a.counties.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			cache[key] = nil
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("resolving county %q: %w", name, err)
	}
	cache[key] = c
	return c, true, nil
}

// buildInsert assembles a complete new project document.
func (a *Analyzer) buildInsert(name, normalized string, fields map[string]interface{}, c *county.County, tenant primitive.ObjectID, userID string) bson.M {
	now := a.now()
	doc := bson.M{
		"_id":             a.newID(),
		"organization_id": tenant,
		"name":            name,
		"normalized_name": normalized,
		"created_by":      userID,
		"created_at":      now,
		"updated_at":      now,
	}
	for field, v := range fields {
		if field == KeyField || immutableFields[field] || isEmpty(v) {
			continue
		}
		doc[field] = v
	}
	if c != nil {
		doc["county_id"] = c.ID.Hex()
		doc["county_name"] = c.Name
		doc["region_id"] = c.RegionID
		doc["region_name"] = c.RegionName
	}
	return doc
}

// diffFields returns the sparse $set for an existing document: only mapped,
// mutable fields whose incoming value differs under the normalization rules.
func diffFields(fields map[string]interface{}, c *county.County, storedDoc bson.M) bson.M {
	set := bson.M{}
	for _, sf := range projectSchema {
		if sf.Name == "county" || immutableFields[sf.Name] {
			continue
		}
		incoming, mapped := fields[sf.Name]
		if !mapped {
			continue
		}
		if !valuesEqual(sf.Kind, incoming, storedDoc[sf.Name]) {
			set[sf.Name] = incoming
		}
	}
	if c != nil && !valuesEqual(KindIdentifier, c.ID.Hex(), storedDoc["county_id"]) {
		set["county_id"] = c.ID.Hex()
	}
	return set
}

func fieldNames(set bson.M) []string {
	names := make([]string, 0, len(set))
	for k := range set {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
