package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kofimuad/galamsay-analysis/models"
)

// Column names the dataset header must carry. Order in the file does not
// matter.
const (
	colCity   = "City"
	colRegion = "Region"
	colSites  = "Number_of_Galamsay_Sites"
)

// ReadFile reads the dataset at path.
func ReadFile(path string) ([]models.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

// Read parses CSV data into raw records. The first row must be a header
// naming exactly the three expected columns; any row whose field count
// differs from the header is an error. Field values are passed through
// untouched; validation happens later in the pipeline.
func Read(r io.Reader) ([]models.RawRecord, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var records []models.RawRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		records = append(records, models.RawRecord{
			City:   row[cols[colCity]],
			Region: row[cols[colRegion]],
			Sites:  row[cols[colSites]],
		})
	}
	return records, nil
}

func mapColumns(header []string) (map[string]int, error) {
	if len(header) != 3 {
		return nil, fmt.Errorf("expected 3 columns in header, got %d", len(header))
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, want := range []string{colCity, colRegion, colSites} {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("dataset is missing column %q", want)
		}
	}
	return cols, nil
}
