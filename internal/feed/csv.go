package feed

import (
	"encoding/csv"
	"io"
	"strings"
)

// ParseCSV reads a header-keyed CSV dataset into one Record per data row.
// Quoted cells, embedded commas and doubled-quote escapes are handled; rows
// shorter than the header are padded with empty strings and rows that fail to
// parse are skipped individually rather than failing the dataset.
func ParseCSV(raw string) []Record {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		record := make(Record, len(header))
		for i, name := range header {
			if i < len(row) {
				record[name] = strings.TrimSpace(row[i])
			} else {
				record[name] = ""
			}
		}
		records = append(records, record)
	}

	return records
}
