// Package format renders terminal tables for scan previews, summaries and
// run history.
package format

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Mode selects how a table is rendered.
type Mode int

const (
	ASCII    Mode = iota // box-drawn terminal table
	Markdown             // GitHub-flavoured Markdown
	CSV                  // comma-separated, for piping into other tools
)

var modeNames = map[Mode]string{ASCII: "ascii", Markdown: "markdown", CSV: "csv"}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts ascii, markdown (or md) and csv, in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ascii", "text":
		return ASCII, nil
	case "markdown", "md":
		return Markdown, nil
	case "csv":
		return CSV, nil
	}
	return ASCII, fmt.Errorf("unknown table format %q: want ascii, markdown or csv", s)
}

// ColumnAlign is the horizontal alignment of a column.
type ColumnAlign = text.Align

const (
	AlignDefault = text.AlignDefault
	AlignLeft    = text.AlignLeft
	AlignCenter  = text.AlignCenter
	AlignRight   = text.AlignRight
)

// ColumnConfig tunes one column, numbered from 1.
type ColumnConfig struct {
	Number   int
	Align    ColumnAlign
	MaxWidth int // wrap beyond this width; 0 means unlimited
}

// TableBuilder accumulates rows and renders them in the Mode chosen at
// creation.
type TableBuilder interface {
	Header(cols ...string)
	// Row appends a data row; values are printed with fmt.Sprint.
	Row(vals ...any)
	Footer(vals ...any)
	Columns(cfgs ...ColumnConfig)
	String() string
}

// NewTable returns an empty TableBuilder for m.
func NewTable(m Mode) TableBuilder {
	w := table.NewWriter()
	if m == ASCII {
		w.SetStyle(table.StyleLight)
	}
	// Column names double as CSV headers; keep their case.
	w.Style().Format.Header = text.FormatDefault
	w.Style().Format.Footer = text.FormatDefault
	return &prettyTable{w: w, mode: m}
}

type prettyTable struct {
	w    table.Writer
	mode Mode
}

func (t *prettyTable) Header(cols ...string) {
	row := make(table.Row, 0, len(cols))
	for _, c := range cols {
		row = append(row, c)
	}
	t.w.AppendHeader(row)
}

func (t *prettyTable) Row(vals ...any)    { t.w.AppendRow(vals) }
func (t *prettyTable) Footer(vals ...any) { t.w.AppendFooter(vals) }

func (t *prettyTable) Columns(cfgs ...ColumnConfig) {
	out := make([]table.ColumnConfig, 0, len(cfgs))
	for _, c := range cfgs {
		out = append(out, table.ColumnConfig{Number: c.Number, Align: c.Align, WidthMax: c.MaxWidth})
	}
	t.w.SetColumnConfigs(out)
}

func (t *prettyTable) String() string {
	switch t.mode {
	case Markdown:
		return t.w.RenderMarkdown()
	case CSV:
		return t.w.RenderCSV()
	default:
		return t.w.Render()
	}
}
