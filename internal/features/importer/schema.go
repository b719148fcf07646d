package importer

// FieldKind selects the normalization rules used when comparing an incoming
// value against a stored one.
type FieldKind int

const (
	KindText FieldKind = iota
	KindNumber
	KindDate
	KindIdentifier
	KindObject
)

type SchemaField struct {
	Name string
	Kind FieldKind
}

// KeyField is the natural key; a run without it fails fast.
const KeyField = "name"

// projectSchema lists the project fields the pipeline may read from a
// spreadsheet. "county" is a pseudo-field: it is resolved to county_id and
// the derived geography at analyze time.
var projectSchema = []SchemaField{
	{Name: "name", Kind: KindText},
	{Name: "address", Kind: KindText},
	{Name: "developer", Kind: KindText},
	{Name: "status", Kind: KindText},
	{Name: "description", Kind: KindText},
	{Name: "county", Kind: KindText},
	{Name: "legal_id", Kind: KindIdentifier},
	{Name: "county_id", Kind: KindIdentifier},
	{Name: "delivery_date", Kind: KindDate},
	{Name: "price_from_uf", Kind: KindNumber},
	{Name: "commission_pct", Kind: KindNumber},
	{Name: "contact", Kind: KindObject},
}

// immutableFields must never appear in a generated update: identifiers,
// tenant reference, creation metadata and derived geography.
var immutableFields = map[string]bool{
	"_id":             true,
	"organization_id": true,
	"normalized_name": true,
	"created_at":      true,
	"created_by":      true,
	"region_id":       true,
	"region_name":     true,
	"county_name":     true,
}

var schemaByName = func() map[string]SchemaField {
	m := make(map[string]SchemaField, len(projectSchema))
	for _, f := range projectSchema {
		m[f.Name] = f
	}
	return m
}()

// fieldKind falls back to identifier rules for any *_id name so future
// schema additions inherit the quote-stripping behavior.
func fieldKind(name string) FieldKind {
	if f, ok := schemaByName[name]; ok {
		return f.Kind
	}
	if len(name) > 3 && name[len(name)-3:] == "_id" {
		return KindIdentifier
	}
	return KindText
}
