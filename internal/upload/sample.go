package upload

import (
	"encoding/csv"
	"fmt"
	"os"
)

// WriteSample writes a one-row example dataset with the full column contract
// so users can see the expected shape before preparing their own file.
func WriteSample(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create sample file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := make([]string, len(Columns))
	example := make([]string, len(Columns))
	for i, c := range Columns {
		header[i] = c.Name
		example[i] = c.Example
	}

	if err := w.Write(header); err != nil {
		return fmt.Errorf("write sample header: %w", err)
	}
	if err := w.Write(example); err != nil {
		return fmt.Errorf("write sample row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush sample: %w", err)
	}
	return nil
}
