package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/policysync/core"
	"github.com/poiesic/policysync/ingestion"
)

// LoadCSV reads one CSV export into a sheet named after the file. The first
// row is the header. Repeated header names get a positional suffix (".1",
// ".2", ...), matching how legacy exports with duplicated section headers
// are distinguished; the schema synonym table resolves both forms.
func LoadCSV(path string) (ingestion.Sheet, error) {
	sheet := ingestion.Sheet{
		Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}

	f, err := os.Open(path)
	if err != nil {
		return sheet, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	headerRow, err := reader.Read()
	if err == io.EOF {
		return sheet, nil
	}
	if err != nil {
		return sheet, fmt.Errorf("read header: %w", err)
	}
	headers := suffixDuplicateHeaders(headerRow)

	for {
		values, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return sheet, fmt.Errorf("read row %d: %w", len(sheet.Rows)+2, err)
		}

		row := make(core.RawRecord, len(headers))
		for i, header := range headers {
			if i < len(values) {
				row[header] = values[i]
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet, nil
}

// suffixDuplicateHeaders disambiguates repeated header names. The first
// occurrence keeps its name; later ones get ".1", ".2" and so on.
func suffixDuplicateHeaders(headers []string) []string {
	seen := make(map[string]int, len(headers))
	out := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if n := seen[header]; n > 0 {
			out[i] = fmt.Sprintf("%s.%d", header, n)
		} else {
			out[i] = header
		}
		seen[header]++
	}
	return out
}
