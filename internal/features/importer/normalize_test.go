package importer

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValuesEqualDates(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		incoming interface{}
		stored   interface{}
		want     bool
	}{
		{"identical", base, base, true},
		{"59s apart", base, base.Add(59 * time.Second), true},
		{"exactly 60s apart", base, base.Add(60 * time.Second), true},
		{"61s apart", base, base.Add(61 * time.Second), false},
		{"string vs time same day", "2024-05-01 12:00:00", base, true},
		{"bson datetime", primitive.NewDateTimeFromTime(base), base, true},
		{"both empty", "", nil, true},
		{"one empty", "", base, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := valuesEqual(KindDate, tt.incoming, tt.stored); got != tt.want {
				t.Errorf("valuesEqual(KindDate, %v, %v) = %v, want %v", tt.incoming, tt.stored, got, tt.want)
			}
		})
	}
}

func TestValuesEqualNumbers(t *testing.T) {
	tests := []struct {
		name     string
		incoming interface{}
		stored   interface{}
		want     bool
	}{
		{"string vs float", "2500.5", 2500.5, true},
		{"comma decimal", "2500,5", 2500.5, true},
		{"int32 stored", "42", int32(42), true},
		{"different", "2500.5", 2501.0, false},
		{"nil vs empty string", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := valuesEqual(KindNumber, tt.incoming, tt.stored); got != tt.want {
				t.Errorf("valuesEqual(KindNumber, %v, %v) = %v, want %v", tt.incoming, tt.stored, got, tt.want)
			}
		})
	}
}

func TestValuesEqualIdentifiers(t *testing.T) {
	tests := []struct {
		name     string
		incoming interface{}
		stored   interface{}
		want     bool
	}{
		{"quoted incoming", `"76.543.210-K"`, "76.543.210-K", true},
		{"single quotes and spaces", " '76.543.210-K' ", "76.543.210-K", true},
		{"different ids", "76.543.210-K", "76.543.210-0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := valuesEqual(KindIdentifier, tt.incoming, tt.stored); got != tt.want {
				t.Errorf("valuesEqual(KindIdentifier, %v, %v) = %v, want %v", tt.incoming, tt.stored, got, tt.want)
			}
		})
	}
}

func TestValuesEqualTextRendersDateOnly(t *testing.T) {
	stored := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if !valuesEqual(KindText, "2024-05-01", stored) {
		t.Error("date-only string should equal stored midnight timestamp under text rules")
	}
	if valuesEqual(KindText, "2024-05-02", stored) {
		t.Error("different days must not compare equal")
	}
}

func TestObjectsEqual(t *testing.T) {
	tests := []struct {
		name     string
		incoming interface{}
		stored   interface{}
		want     bool
	}{
		{
			"same keys same values",
			map[string]interface{}{"phone": "+56 2 2345 6789", "email": "ventas@demo.cl"},
			bson.M{"phone": "+56 2 2345 6789", "email": "ventas@demo.cl"},
			true,
		},
		{
			"extra key in stored",
			map[string]interface{}{"phone": "+56 2 2345 6789"},
			bson.M{"phone": "+56 2 2345 6789", "email": "ventas@demo.cl"},
			false,
		},
		{
			"numeric sub-value across types",
			map[string]interface{}{"floor": "12"},
			bson.M{"floor": int32(12)},
			true,
		},
		{
			"nested maps",
			map[string]interface{}{"agent": map[string]interface{}{"name": "Ana"}},
			bson.M{"agent": bson.M{"name": "Ana"}},
			true,
		},
		{
			"null sub-value vs empty string",
			map[string]interface{}{"email": nil},
			bson.M{"email": ""},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := valuesEqual(KindObject, tt.incoming, tt.stored); got != tt.want {
				t.Errorf("valuesEqual(KindObject, ...) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConvertValue(t *testing.T) {
	if v, err := convertValue(KindDate, "2024-05-01"); err != nil {
		t.Fatalf("convertValue date: %v", err)
	} else if v.(time.Time).Format("2006-01-02") != "2024-05-01" {
		t.Errorf("convertValue date = %v", v)
	}

	if _, err := convertValue(KindDate, "not a date"); err == nil {
		t.Error("expected error for unparseable date")
	}

	if v, err := convertValue(KindNumber, "3500"); err != nil || v.(float64) != 3500 {
		t.Errorf("convertValue number = %v, %v", v, err)
	}

	if v, err := convertValue(KindIdentifier, ` "abc-1" `); err != nil || v.(string) != "abc-1" {
		t.Errorf("convertValue identifier = %v, %v", v, err)
	}

	if v, err := convertValue(KindText, ""); err != nil || v != nil {
		t.Errorf("empty cell should convert to nil, got %v, %v", v, err)
	}
}
