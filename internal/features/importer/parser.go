package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrMalformedFile means the payload could not be decoded as a
	// supported spreadsheet format. Fatal to the run.
	ErrMalformedFile = errors.New("malformed spreadsheet file")
	// ErrMissingKeyColumn means no header mapped to the natural-key field.
	ErrMissingKeyColumn = errors.New("missing required name column")
)

// ParseSpreadsheet extracts the header row and all data rows from an xlsx or
// csv payload. Cell values stay raw strings; typing happens at analyze time.
func ParseSpreadsheet(file io.Reader, filename string) ([]string, []map[string]string, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return parseCSV(file)
	case strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls"):
		return parseExcel(file)
	default:
		return nil, nil, fmt.Errorf("%w: unsupported extension %q", ErrMalformedFile, filename)
	}
}

func parseCSV(file io.Reader) ([]string, []map[string]string, error) {
	reader := csv.NewReader(file)

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read CSV headers: %v", ErrMalformedFile, err)
	}

	var rows []map[string]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: failed to read CSV row: %v", ErrMalformedFile, err)
		}

		row := make(map[string]string)
		for i, value := range rec {
			if i < len(headers) {
				row[headers[i]] = value
			}
		}
		rows = append(rows, row)
	}

	return headers, rows, nil
}

func parseExcel(file io.Reader) ([]string, []map[string]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: no sheets found", ErrMalformedFile)
	}

	allRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read rows: %v", ErrMalformedFile, err)
	}

	if len(allRows) == 0 {
		return nil, nil, fmt.Errorf("%w: file is empty", ErrMalformedFile)
	}

	headers := allRows[0]
	var rows []map[string]string
	for i := 1; i < len(allRows); i++ {
		row := make(map[string]string)
		for j, cell := range allRows[i] {
			if j < len(headers) {
				row[headers[j]] = cell
			}
		}
		rows = append(rows, row)
	}

	return headers, rows, nil
}
