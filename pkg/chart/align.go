package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// AlignmentError reports a value wider than the column it must be centered
// in. It means a width was computed wrong upstream.
type AlignmentError struct {
	Value string
	Width int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("chart: %q (width %d) does not fit in %d cells",
		e.Value, runewidth.StringWidth(e.Value), e.Width)
}

// alignCenter pads value to width cells, putting the odd cell on the right.
func alignCenter(value string, width int) (string, error) {
	w := runewidth.StringWidth(value)
	if w > width {
		return "", &AlignmentError{Value: value, Width: width}
	}
	rest := width - w
	return strings.Repeat(" ", rest/2) + value + strings.Repeat(" ", rest-rest/2), nil
}

// padRight left-packs value into width cells.
func padRight(value string, width int) string {
	w := runewidth.StringWidth(value)
	if w >= width {
		return value
	}
	return value + strings.Repeat(" ", width-w)
}

// joinGridLines turns every space sitting between two `between` runes into
// `between`, so dashed grid rows render as one continuous line.
func joinGridLines(s string, between rune) string {
	runes := []rune(s)
	out := make([]rune, len(runes))
	copy(out, runes)
	for i := 1; i < len(runes)-1; i++ {
		if runes[i] == ' ' && runes[i-1] == between && runes[i+1] == between {
			out[i] = between
		}
	}
	return string(out)
}

// formatNumber renders an axis value without trailing zeros.
func formatNumber(v float64) string {
	switch {
	case math.IsInf(v, -1):
		return "-Inf"
	case math.IsInf(v, 1):
		return "Inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func widest(values []string) int {
	w := 0
	for _, v := range values {
		w = max(w, runewidth.StringWidth(v))
	}
	return w
}
