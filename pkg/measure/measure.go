// Package measure defines the entities benchviz bins and tabulates.
// Entities expose exactly what each consumer needs: a numeric value for
// binning and an ordered field list for tables.
package measure

import (
	"strconv"
	"time"
)

// Well-known field keys.
const (
	FieldName     = "name"
	FieldDuration = "duration"
)

// Measurable is the minimal input to binning.
type Measurable interface {
	Value() float64
}

// Field is one rendered key/value pair of a Timeable.
type Field struct {
	Key   string
	Value string
}

// Timeable is a named measurement that can be rendered as a table row.
// Fields must include FieldName and FieldDuration.
type Timeable interface {
	Measurable
	Name() string
	Fields() []Field
}

// Timing is a generic Timeable: a name, a duration and optional extra fields
// rendered after the duration column.
type Timing struct {
	Label    string
	Duration time.Duration
	Extra    []Field
}

// Value returns the duration in milliseconds.
func (t Timing) Value() float64 {
	return float64(t.Duration) / float64(time.Millisecond)
}

// Name returns the display name.
func (t Timing) Name() string { return t.Label }

// Fields returns name, duration (integer milliseconds) and any extra fields.
func (t Timing) Fields() []Field {
	fields := make([]Field, 0, 2+len(t.Extra))
	fields = append(fields,
		Field{Key: FieldName, Value: t.Label},
		Field{Key: FieldDuration, Value: Millis(t.Duration)},
	)
	return append(fields, t.Extra...)
}

// Millis formats d as whole milliseconds.
func Millis(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10)
}
