package importer

import (
	"strings"

	"estate-crm/pkg/utils"
)

// canonicalHeader folds case, diacritics and the space/underscore
// distinction, so "Delivery Date" matches the delivery_date field.
func canonicalHeader(s string) string {
	return strings.ReplaceAll(utils.NormalizeName(s), " ", "_")
}

// BuildMapping matches headers to schema field names case- and
// diacritic-insensitively. Explicit overrides win over automatic matches;
// unmatched headers are left out and ignored downstream.
func BuildMapping(headers []string, override map[string]string) map[string]string {
	byNormalized := make(map[string]string, len(projectSchema))
	for _, f := range projectSchema {
		byNormalized[canonicalHeader(f.Name)] = f.Name
	}

	mapping := make(map[string]string)
	for _, header := range headers {
		if field, ok := byNormalized[canonicalHeader(header)]; ok {
			mapping[header] = field
		}
	}

	for header, field := range override {
		if field == "" {
			delete(mapping, header)
			continue
		}
		if _, known := schemaByName[field]; known {
			mapping[header] = field
		}
	}

	return mapping
}

// ValidateMapping enforces the natural-key requirement.
func ValidateMapping(mapping map[string]string) error {
	for _, field := range mapping {
		if field == KeyField {
			return nil
		}
	}
	return ErrMissingKeyColumn
}
