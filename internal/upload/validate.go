package upload

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"DemandCast/internal/domain/models"
	"DemandCast/pkg/util"
)

// ValidationReport is the outcome of the pre-flight CSV check. Nothing is
// sent to the backend unless the report is clean.
type ValidationReport struct {
	Rows     int
	Problems []string
}

// Ok reports whether the file may be uploaded.
func (r *ValidationReport) Ok() bool {
	return len(r.Problems) == 0
}

// Message joins the problems into one displayable string.
func (r *ValidationReport) Message() string {
	return strings.Join(r.Problems, "; ")
}

// Validate checks a CSV stream against the dataset contract before any bytes
// leave the machine: the header must contain every required column, required
// cells must be non-empty, and typed cells must parse. Optional columns are
// only checked when a value is present. Checking stops at the first
// violation. A header-only file is valid; the backend treats it as an empty
// dataset. Row numbers in messages are 1-based data rows, matching what a
// spreadsheet user sees below the header.
func Validate(r io.Reader) (*ValidationReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return &ValidationReport{Problems: []string{"File is empty"}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.ToLower(name))] = i
	}

	report := &ValidationReport{}

	var missing []string
	for _, name := range RequiredColumns() {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		report.Problems = append(report.Problems,
			"Missing required columns: "+strings.Join(missing, ", "))
		return report, nil
	}

	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Problems = append(report.Problems,
				fmt.Sprintf("Malformed CSV at row %d", row+1))
			return report, nil
		}
		row++

		for _, col := range Columns {
			pos, ok := index[col.Name]
			if !ok || pos >= len(record) {
				continue
			}
			cell := strings.TrimSpace(record[pos])

			if cell == "" {
				if col.Required {
					report.Problems = append(report.Problems,
						fmt.Sprintf("Missing value in column %s at row %d", col.Name, row))
					return report, nil
				}
				continue
			}

			switch col.Type {
			case models.ColumnNumber:
				if !util.IsNumeric(cell) {
					report.Problems = append(report.Problems,
						fmt.Sprintf("Invalid number in column %s at row %d", col.Name, row))
					return report, nil
				}
			case models.ColumnDate:
				if _, ok := util.ParseDate(cell); !ok {
					report.Problems = append(report.Problems,
						fmt.Sprintf("Invalid date in column %s at row %d", col.Name, row))
					return report, nil
				}
			}
		}
	}

	report.Rows = row
	return report, nil
}
