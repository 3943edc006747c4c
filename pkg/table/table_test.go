package table

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/benchviz/pkg/measure"
	"github.com/dkoosis/benchviz/pkg/severity"
)

var sgr = regexp.MustCompile("\x1B\\[[0-9;]*m")

func timings() []measure.Timing {
	return []measure.Timing{
		{Label: "a", Duration: 50 * time.Millisecond},
		{Label: "bb", Duration: 1200 * time.Millisecond},
	}
}

func TestFormat_ColumnWidths(t *testing.T) {
	t.Parallel()
	ft := Format(timings())

	name, ok := ft.Column(measure.FieldName)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "bb"}, name.Values)
	assert.Equal(t, 4, name.Width, "key is wider than every value")

	duration, ok := ft.Column(measure.FieldDuration)
	require.True(t, ok)
	assert.Equal(t, []string{"50", "1200"}, duration.Values)
	assert.Equal(t, 8, duration.Width)

	_, ok = ft.Column("missing")
	assert.False(t, ok)
}

func TestFormat_Layout(t *testing.T) {
	t.Parallel()
	ft := Format(timings())

	assert.Equal(t, []string{
		"┌──────┬──────────┐",
		"│ name │ duration │",
		"├──────┼──────────┤",
	}, ft.Header)
	assert.Equal(t, []string{
		"│ a    │ 50       │",
		"│ bb   │ 1200     │",
		"└──────┴──────────┘",
	}, ft.Lines)
	assert.Len(t, ft.Rows(), 2)
	assert.Equal(t, strings.Join(append(ft.Header, ft.Lines...), "\n")+"\n", ft.String())
}

func TestFormat_UnionOfKeysInFirstSeenOrder(t *testing.T) {
	t.Parallel()
	rows := []measure.Timing{
		{Label: "first", Duration: time.Millisecond, Extra: []measure.Field{{Key: "state", Value: "pass"}}},
		{Label: "second", Duration: time.Millisecond, Extra: []measure.Field{{Key: "suite", Value: "api"}}},
	}
	ft := Format(rows)

	names := make([]string, len(ft.Columns))
	for i, c := range ft.Columns {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"name", "duration", "state", "suite"}, names)

	state, _ := ft.Column("state")
	assert.Equal(t, []string{"pass", ""}, state.Values)
}

func TestFormat_WideRunes(t *testing.T) {
	t.Parallel()
	ft := Format([]measure.Timing{{Label: "テスト", Duration: time.Millisecond}})

	name, _ := ft.Column(measure.FieldName)
	assert.Equal(t, 6, name.Width)
	for _, line := range append(ft.Header, ft.Lines...) {
		assert.Equal(t, runewidth.StringWidth(ft.Header[0]), runewidth.StringWidth(line), "line %q", line)
	}
}

func TestFormat_EmptyTable_When_NoRows(t *testing.T) {
	t.Parallel()
	ft := Format([]measure.Timing{})

	assert.NotNil(t, ft.Columns)
	assert.Empty(t, ft.Columns)
	assert.Empty(t, ft.Header)
	assert.Empty(t, ft.Lines)
	assert.Nil(t, ft.Rows())
	assert.Empty(t, ft.String())
}

func TestRenderTimings_ColorsRowsBySeverity(t *testing.T) {
	t.Parallel()
	out := RenderTimings(timings(), severity.Thresholds{Warn: 500, Critical: 1000}, severity.ANSI{})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 6)

	assert.Equal(t, "│ a    │ 50       │", lines[3])
	assert.Equal(t, "\x1B[31m│ bb   │ 1200     │\x1B[m", lines[4])

	width := runewidth.StringWidth(lines[0])
	for _, line := range lines {
		assert.Equal(t, width, runewidth.StringWidth(sgr.ReplaceAllString(line, "")), "line %q", line)
	}
}

func TestDecorate(t *testing.T) {
	t.Parallel()
	rows := []measure.Timing{
		{Label: "ok", Duration: 100 * time.Millisecond},
		{Label: "notice", Duration: 300 * time.Millisecond},
		{Label: "warn", Duration: 600 * time.Millisecond},
		{Label: "critical", Duration: 1000 * time.Millisecond},
	}
	ft := Format(rows)
	Decorate(&ft, severity.DefaultThresholds(), severity.ANSI{})

	rowLines := ft.Rows()
	assert.False(t, strings.HasPrefix(rowLines[0], "\x1B["))
	assert.True(t, strings.HasPrefix(rowLines[1], severity.SGRDarkYellow))
	assert.True(t, strings.HasPrefix(rowLines[2], severity.SGRYellow))
	assert.True(t, strings.HasPrefix(rowLines[3], severity.SGRRed))
	assert.Equal(t, "└", ft.Lines[len(ft.Lines)-1][:len("└")], "border stays unstyled")
}

func TestDecorate_SkipsRows_When_DurationNotInteger(t *testing.T) {
	t.Parallel()
	ft := Format([]row{{name: "x", duration: "n/a"}})
	before := ft.Lines[0]
	Decorate(&ft, severity.DefaultThresholds(), severity.ANSI{})

	assert.Equal(t, before, ft.Lines[0])
}

func TestDecorate_NoOp_When_NoDurationColumn(t *testing.T) {
	t.Parallel()
	ft := Format([]row{{name: "x"}})
	before := ft.Lines[0]
	Decorate(&ft, severity.DefaultThresholds(), severity.ANSI{})

	assert.Equal(t, before, ft.Lines[0])
}

// row is a Timeable with a free-form duration field.
type row struct {
	name     string
	duration string
}

func (r row) Value() float64 { return 0 }
func (r row) Name() string   { return r.name }
func (r row) Fields() []measure.Field {
	fields := []measure.Field{{Key: measure.FieldName, Value: r.name}}
	if r.duration != "" {
		fields = append(fields, measure.Field{Key: measure.FieldDuration, Value: r.duration})
	}
	return fields
}
