package format

import (
	"strings"

	"failsafe/internal/failsafe"
	"failsafe/internal/report"
	"failsafe/internal/store"
)

// Records renders resolved records with the CSV column names.
func Records(m Mode, records []failsafe.Record) string {
	tb := NewTable(m)
	tb.Header(report.Header...)
	for _, r := range records {
		tb.Row(r.InstanceName, r.TypeName, string(r.FailSafeType))
	}
	return tb.String()
}

// Summary renders per-classification counts with a total footer.
func Summary(m Mode, counts []failsafe.Count) string {
	tb := NewTable(m)
	tb.Header("Fail-safe type", "Instances")
	total := 0
	for _, c := range counts {
		tb.Row(string(c.Type), c.N)
		total += c.N
	}
	tb.Footer("Total", total)
	tb.Columns(ColumnConfig{Number: 2, Align: AlignRight})
	return tb.String()
}

// Runs renders stored scan runs, newest first as given.
func Runs(m Mode, runs []*store.Run) string {
	tb := NewTable(m)
	tb.Header("ID", "Source", "SHA-256", "Scanned", "Blocks", "Records")
	for _, r := range runs {
		tb.Row(r.ID, r.Source, ShortHash(r.SHA256), r.CreatedAt, r.Blocks, r.RecordCount)
	}
	tb.Columns(
		ColumnConfig{Number: 1, Align: AlignRight},
		ColumnConfig{Number: 2, MaxWidth: 48},
		ColumnConfig{Number: 5, Align: AlignRight},
		ColumnConfig{Number: 6, Align: AlignRight},
	)
	return tb.String()
}

// ShortHash returns the first 12 hex digits of a digest.
func ShortHash(h string) string {
	return Truncate(h, 12)
}

// Truncate shortens s to maxLen bytes without an ellipsis.
func Truncate(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
