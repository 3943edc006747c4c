// Package table renders timeables as a box-drawn text table.
package table

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/benchviz/pkg/measure"
	"github.com/dkoosis/benchviz/pkg/severity"
)

const (
	horizontal = "─"
	vertical   = "│"
)

// Column is one table column: its key, width in cells and one value per row.
type Column struct {
	Name   string
	Width  int
	Values []string
}

// FormattedTable is a rendered table. Header holds the top border, the
// title line and the separator; Lines holds one line per row followed by
// the bottom border.
type FormattedTable struct {
	Columns []Column
	Header  []string
	Lines   []string
}

// Column returns the column with the given key.
func (t *FormattedTable) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Rows returns the row lines without the bottom border.
func (t *FormattedTable) Rows() []string {
	if len(t.Lines) == 0 {
		return nil
	}
	return t.Lines[:len(t.Lines)-1]
}

// String joins header and lines.
func (t *FormattedTable) String() string {
	if len(t.Header) == 0 && len(t.Lines) == 0 {
		return ""
	}
	all := make([]string, 0, len(t.Header)+len(t.Lines))
	all = append(all, t.Header...)
	all = append(all, t.Lines...)
	return strings.Join(all, "\n") + "\n"
}

// Format lays out rows as a table. Columns are the union of field keys in
// first-seen order; a row missing a key renders an empty cell. Zero rows
// give an empty table.
func Format[T measure.Timeable](rows []T) FormattedTable {
	if len(rows) == 0 {
		return FormattedTable{Columns: []Column{}, Header: []string{}, Lines: []string{}}
	}

	index := make(map[string]int)
	var columns []Column
	for _, row := range rows {
		for _, f := range row.Fields() {
			if _, ok := index[f.Key]; ok {
				continue
			}
			index[f.Key] = len(columns)
			columns = append(columns, Column{
				Name:   f.Key,
				Width:  runewidth.StringWidth(f.Key),
				Values: make([]string, len(rows)),
			})
		}
	}
	for r, row := range rows {
		for _, f := range row.Fields() {
			c := &columns[index[f.Key]]
			c.Values[r] = f.Value
			c.Width = max(c.Width, runewidth.StringWidth(f.Value))
		}
	}

	lines := make([]string, 0, len(rows)+1)
	for r := range rows {
		var sb strings.Builder
		for _, c := range columns {
			sb.WriteString(vertical + " ")
			sb.WriteString(runewidth.FillRight(c.Values[r], c.Width))
			sb.WriteString(" ")
		}
		sb.WriteString(vertical)
		lines = append(lines, sb.String())
	}
	lines = append(lines, border(columns, "└", "┴", "┘"))

	return FormattedTable{
		Columns: columns,
		Header:  header(columns),
		Lines:   lines,
	}
}

func header(columns []Column) []string {
	var title strings.Builder
	for _, c := range columns {
		rest := c.Width - runewidth.StringWidth(c.Name)
		title.WriteString(vertical + " ")
		title.WriteString(strings.Repeat(" ", rest/2))
		title.WriteString(c.Name)
		title.WriteString(strings.Repeat(" ", rest-rest/2))
		title.WriteString(" ")
	}
	title.WriteString(vertical)

	return []string{
		border(columns, "┌", "┬", "┐"),
		title.String(),
		border(columns, "├", "┼", "┤"),
	}
}

func border(columns []Column, left, joint, right string) string {
	segments := make([]string, len(columns))
	for i, c := range columns {
		segments[i] = strings.Repeat(horizontal, c.Width+2)
	}
	return left + strings.Join(segments, joint) + right
}

// Decorate styles every row by the severity of its duration column. Rows
// whose duration is missing or not an integer stay unstyled.
func Decorate(t *FormattedTable, thresholds severity.Thresholds, d severity.Decorator) {
	col, ok := t.Column(measure.FieldDuration)
	if !ok {
		return
	}
	for i, raw := range col.Values {
		ms, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		t.Lines[i] = d.Decorate(thresholds.Classify(float64(ms)), t.Lines[i])
	}
}

// RenderTimings formats rows and styles them by duration severity.
func RenderTimings[T measure.Timeable](rows []T, thresholds severity.Thresholds, d severity.Decorator) string {
	t := Format(rows)
	Decorate(&t, thresholds, d)
	return t.String()
}
