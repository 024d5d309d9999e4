// Package report renders resolved records as the flat CSV artifact.
//
// Rows are joined with "\n" and the file has no trailing newline. A value is
// quoted only when it contains a comma, a double quote or a newline; inner
// quotes are doubled.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"failsafe/internal/failsafe"
	"failsafe/internal/logging"
)

// DefaultPath is the output file used when none is configured.
const DefaultPath = "xmlout.csv"

// ErrNoRecords is returned when asked to write an empty result.
var ErrNoRecords = errors.New("report: no records to write")

// Header is the column row of the CSV file.
var Header = []string{"InstanceName", "TypeName", "FailSafeType"}

// EscapeCSV quotes value if it contains a comma, quote or newline.
func EscapeCSV(value string) string {
	if !strings.ContainsAny(value, ",\"\n") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func row(fields ...string) string {
	for i, f := range fields {
		fields[i] = EscapeCSV(f)
	}
	return strings.Join(fields, ",")
}

// Encode writes the header and one row per record to w.
func Encode(w io.Writer, records []failsafe.Record) error {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, row(append([]string(nil), Header...)...))
	for _, r := range records {
		lines = append(lines, row(r.InstanceName, r.TypeName, string(r.FailSafeType)))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

// WriteFile writes records to path. Empty input returns ErrNoRecords and
// leaves the filesystem untouched. The file is written to a temporary
// sibling first and renamed into place.
func WriteFile(path string, records []failsafe.Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := Encode(tmp, records); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	logging.New("report").Debug("csv written", "path", path, "rows", len(records))
	return nil
}
