// Package export writes recorded timings to pipe-separated CSV files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dkoosis/benchviz/pkg/collect"
	"github.com/dkoosis/benchviz/pkg/measure"
)

// Separator is the CSV field delimiter.
const Separator = '|'

// File names written by Save.
const (
	TestsFile    = "tests.csv"
	CommandsFile = "commands.csv"
)

// Dir returns <root>/tmp/<YYYY-MM-DD> for the given day.
func Dir(root string, day time.Time) string {
	return filepath.Join(root, "tmp", day.Format(time.DateOnly))
}

// Save writes tests.csv and commands.csv for run into Dir(root, day) and
// returns that directory.
func Save(root string, day time.Time, run collect.Run) (string, error) {
	dir := Dir(root, day)
	if err := WriteCSV(filepath.Join(dir, TestsFile), run.Tests); err != nil {
		return "", err
	}
	if err := WriteCSV(filepath.Join(dir, CommandsFile), run.Commands); err != nil {
		return "", err
	}
	return dir, nil
}

// WriteCSV writes rows to path, creating parent directories. The header is
// the union of field keys in first-seen order; missing fields are empty.
func WriteCSV[T measure.Timeable](path string, rows []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := Encode(csv.NewWriter(f), rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// Encode writes the header and rows to w using Separator and flushes it.
func Encode[T measure.Timeable](w *csv.Writer, rows []T) error {
	w.Comma = Separator

	index := make(map[string]int)
	var header []string
	for _, row := range rows {
		for _, f := range row.Fields() {
			if _, ok := index[f.Key]; !ok {
				index[f.Key] = len(header)
				header = append(header, f.Key)
			}
		}
	}

	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(header))
		for _, f := range row.Fields() {
			record[index[f.Key]] = f.Value
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
