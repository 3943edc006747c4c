// Package chart draws binned measurements as a vertical ASCII bar chart.
//
// Every bucket gets one column. Each text row covers half a tick step, so
// odd rows carry a tick label and a dashed grid line while even rows only
// carry the axis. The footer marks the cut points between buckets and labels
// them with the boundary values.
package chart

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/dkoosis/benchviz/pkg/bin"
	"github.com/dkoosis/benchviz/pkg/measure"
)

// DefaultHeight is the number of bar rows drawn when none is given.
const DefaultHeight = 10

const (
	glyphFull       = "█"
	glyphLowerHalf  = "▄"
	glyphUpperHalf  = "▀"
	glyphHorizontal = '─'
	glyphVertical   = "│"
	glyphCross      = "┼"
	glyphInvertedT  = "┴"
)

// Diagram bins entities by boundaries and renders the chart.
// It returns bin.ErrEmptyInput when entities is empty.
func Diagram[T measure.Measurable](entities []T, boundaries []float64, height int) (string, error) {
	buckets, err := bin.Bin(boundaries, entities)
	if err != nil {
		return "", err
	}
	return Render(buckets, boundaries, height)
}

// Render draws buckets produced by bin.Bin for the same boundaries.
// A height <= 0 selects DefaultHeight; odd heights are rounded up.
func Render[T measure.Measurable](buckets []bin.Bucket[T], boundaries []float64, height int) (string, error) {
	if len(buckets) == 0 {
		return "", bin.ErrEmptyInput
	}
	if len(buckets) != len(boundaries)+1 {
		return "", fmt.Errorf("chart: %d buckets do not match %d boundaries", len(buckets), len(boundaries))
	}

	l := newLayout(bin.Amounts(buckets), cutLabels(buckets), height)

	rows := make([]string, 0, l.height+3)
	for i := range l.height {
		row, err := l.bodyRow(i)
		if err != nil {
			return "", err
		}
		rows = append(rows, row)
	}
	header, err := l.headerRow()
	if err != nil {
		return "", err
	}
	rows = append(rows, header)
	slices.Reverse(rows)

	footer, err := l.footer()
	if err != nil {
		return "", err
	}
	rows = append(rows, footer...)
	return strings.Join(rows, "\n") + "\n", nil
}

// cutLabels returns the footer labels: the smallest value, every boundary,
// the largest value.
func cutLabels[T measure.Measurable](buckets []bin.Bucket[T]) []string {
	cuts := bin.Cuts(buckets)
	labels := make([]string, len(cuts))
	for i, c := range cuts {
		labels[i] = formatNumber(c)
	}
	return labels
}

// column tracks how far a bar has been drawn while rows are emitted
// bottom-up.
type column struct {
	amount  int
	pending bool // half block drawn, amount goes on the next row
	done    bool // amount drawn, bar is closed
}

type layout struct {
	columns    []*column
	labels     []string
	displayMax int
	stepSize   float64
	height     int
	gutter     int // axis label width, excluding the axis line
	cell       int // width of one bar column
}

func newLayout(amounts []int, labels []string, height int) *layout {
	if height <= 0 {
		height = DefaultHeight
	}
	if height%2 != 0 {
		height++
	}

	displayMax := Scale(slices.Max(amounts))

	counts := make([]string, len(amounts))
	columns := make([]*column, len(amounts))
	for i, a := range amounts {
		counts[i] = strconv.Itoa(a)
		columns[i] = &column{amount: a}
	}

	return &layout{
		columns:    columns,
		labels:     labels,
		displayMax: displayMax,
		stepSize:   float64(displayMax) / float64(height/2) / 2,
		height:     height,
		gutter:     len(strconv.Itoa(displayMax)) + 2,
		cell:       max(widest(labels), widest(counts), 1),
	}
}

func (l *layout) bodyRow(i int) (string, error) {
	step := int(math.Floor(l.stepSize * float64(i+1)))

	var sb strings.Builder
	spacer := " "
	if i%2 == 1 {
		spacer = string(glyphHorizontal)
		sb.WriteString(" ")
		sb.WriteString(padRight(strconv.Itoa(step), l.gutter-1))
	} else {
		sb.WriteString(strings.Repeat(" ", l.gutter))
	}
	sb.WriteString(glyphVertical)
	sb.WriteString(strings.Repeat(spacer, l.cell/2))
	sb.WriteString(" ")

	for j, c := range l.columns {
		if j > 0 {
			sb.WriteString(" ")
		}
		g, err := l.glyph(c, step, spacer)
		if err != nil {
			return "", err
		}
		sb.WriteString(g)
	}

	sb.WriteString(" ")
	sb.WriteString(strings.Repeat(spacer, l.cell-l.cell/2))
	return joinGridLines(sb.String(), glyphHorizontal), nil
}

// glyph picks the cell content for c on a row whose upper tick is step.
func (l *layout) glyph(c *column, step int, spacer string) (string, error) {
	switch {
	case l.displayMax == 0 || c.done:
		return strings.Repeat(spacer, l.cell), nil
	case c.pending:
		c.done = true
		return alignCenter(strconv.Itoa(c.amount), l.cell)
	case c.amount > step:
		return strings.Repeat(glyphFull, l.cell), nil
	case c.amount == step && c.amount > 0:
		c.pending = true
		return strings.Repeat(glyphLowerHalf, l.cell), nil
	default:
		c.done = true
		return alignCenter(strconv.Itoa(c.amount), l.cell)
	}
}

// headerRow labels the bars whose amount did not fit inside the grid.
func (l *layout) headerRow() (string, error) {
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", l.gutter+1+l.cell/2+1))
	for j, c := range l.columns {
		if j > 0 {
			sb.WriteString(" ")
		}
		if c.done {
			sb.WriteString(strings.Repeat(" ", l.cell))
			continue
		}
		label, err := alignCenter(strconv.Itoa(c.amount), l.cell)
		if err != nil {
			return "", err
		}
		sb.WriteString(label)
	}
	return strings.TrimRight(sb.String(), " "), nil
}

// footer draws the zero baseline and the cut point labels.
func (l *layout) footer() ([]string, error) {
	var base strings.Builder
	base.WriteString(strings.Repeat(" ", l.gutter-2))
	base.WriteString("0 ")
	base.WriteString(glyphInvertedT)
	base.WriteString(strings.Repeat(string(glyphHorizontal), l.cell/2))
	for _, c := range l.columns {
		base.WriteString(glyphCross)
		fill := string(glyphHorizontal)
		if c.amount > 0 {
			fill = glyphUpperHalf
		}
		base.WriteString(strings.Repeat(fill, l.cell))
	}
	base.WriteString(glyphCross)
	base.WriteString(strings.Repeat(string(glyphHorizontal), l.cell-l.cell/2))

	labels := make([]string, len(l.labels))
	for i, label := range l.labels {
		centered, err := alignCenter(label, l.cell)
		if err != nil {
			return nil, err
		}
		labels[i] = centered
	}
	axis := strings.Repeat(" ", l.gutter+1) + strings.Join(labels, " ")

	return []string{base.String(), strings.TrimRight(axis, " ")}, nil
}
