package utils

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the header followed by rows and flushes the writer.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %v", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %v", err)
	}
	return writer.Error()
}
