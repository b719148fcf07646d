package importer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	csv := "name,address,price_from_uf\nPlaza Zañartu,Av. Central 100,2500\nLos Aromos,Calle Sur 5,\n"
	headers, rows, err := ParseSpreadsheet(strings.NewReader(csv), "projects.csv")
	if err != nil {
		t.Fatalf("ParseSpreadsheet: %v", err)
	}
	if len(headers) != 3 || headers[0] != "name" {
		t.Errorf("headers = %v", headers)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["name"] != "Plaza Zañartu" || rows[0]["price_from_uf"] != "2500" {
		t.Errorf("row 0 = %v", rows[0])
	}
	if rows[1]["price_from_uf"] != "" {
		t.Errorf("empty trailing cell should parse as empty string, got %q", rows[1]["price_from_uf"])
	}
}

func TestParseExcel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetSheetRow(sheet, "A1", &[]interface{}{"name", "address"})
	f.SetSheetRow(sheet, "A2", &[]interface{}{"Edificio Mirador", "Pasaje Norte 42"})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("building workbook: %v", err)
	}

	headers, rows, err := ParseSpreadsheet(&buf, "projects.xlsx")
	if err != nil {
		t.Fatalf("ParseSpreadsheet: %v", err)
	}
	if len(headers) != 2 || headers[1] != "address" {
		t.Errorf("headers = %v", headers)
	}
	if len(rows) != 1 || rows[0]["name"] != "Edificio Mirador" {
		t.Errorf("rows = %v", rows)
	}
}

func TestParseUnsupportedExtension(t *testing.T) {
	_, _, err := ParseSpreadsheet(strings.NewReader("x"), "projects.pdf")
	if !errors.Is(err, ErrMalformedFile) {
		t.Errorf("got %v, want ErrMalformedFile", err)
	}
}

func TestParseGarbageExcel(t *testing.T) {
	_, _, err := ParseSpreadsheet(strings.NewReader("not a zip archive"), "projects.xlsx")
	if !errors.Is(err, ErrMalformedFile) {
		t.Errorf("got %v, want ErrMalformedFile", err)
	}
}
