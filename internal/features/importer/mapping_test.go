package importer

import (
	"errors"
	"testing"
)

func TestBuildMappingAutoMatch(t *testing.T) {
	headers := []string{"Name", "ADDRESS", "Delivery Date", "Descripción", "Unrelated Column"}
	mapping := BuildMapping(headers, nil)

	want := map[string]string{
		"Name":          "name",
		"ADDRESS":       "address",
		"Delivery Date": "delivery_date",
	}
	if len(mapping) != len(want) {
		t.Fatalf("mapping has %d entries, want %d: %v", len(mapping), len(want), mapping)
	}
	for header, field := range want {
		if mapping[header] != field {
			t.Errorf("mapping[%q] = %q, want %q", header, mapping[header], field)
		}
	}
	if _, ok := mapping["Unrelated Column"]; ok {
		t.Error("unmatched header should be left out of the mapping")
	}
}

func TestBuildMappingOverride(t *testing.T) {
	headers := []string{"Nombre Proyecto", "Name", "Comuna"}
	override := map[string]string{
		"Nombre Proyecto": "name",
		"Comuna":          "county",
		"Name":            "", // unmap the auto-match
	}
	mapping := BuildMapping(headers, override)

	if mapping["Nombre Proyecto"] != "name" {
		t.Errorf("override not applied: %v", mapping)
	}
	if mapping["Comuna"] != "county" {
		t.Errorf("override not applied for county: %v", mapping)
	}
	if _, ok := mapping["Name"]; ok {
		t.Error("empty override should unmap the header")
	}
}

func TestBuildMappingIgnoresUnknownTargetField(t *testing.T) {
	mapping := BuildMapping([]string{"Foo"}, map[string]string{"Foo": "no_such_field"})
	if _, ok := mapping["Foo"]; ok {
		t.Error("override to an unknown schema field must be ignored")
	}
}

func TestValidateMapping(t *testing.T) {
	if err := ValidateMapping(map[string]string{"Name": "name"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := ValidateMapping(map[string]string{"Address": "address"})
	if !errors.Is(err, ErrMissingKeyColumn) {
		t.Errorf("ValidateMapping without name column = %v, want ErrMissingKeyColumn", err)
	}
}
