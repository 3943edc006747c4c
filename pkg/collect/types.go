// Package collect accumulates test and command timings over one test run.
package collect

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dkoosis/benchviz/pkg/measure"
)

// Test states.
const (
	StatePass       = "pass"
	StateFail       = "fail"
	StateSkip       = "skip"
	StateIncomplete = "incomplete"
)

// TestTiming is one finished top-level test.
type TestTiming struct {
	ID       int
	Title    string
	Suite    string // package the test belongs to
	State    string
	Start    time.Time
	Duration time.Duration
}

// Value returns the duration in milliseconds.
func (t TestTiming) Value() float64 {
	return float64(t.Duration) / float64(time.Millisecond)
}

// Name returns the test name.
func (t TestTiming) Name() string { return t.Title }

// Fields implements measure.Timeable.
func (t TestTiming) Fields() []measure.Field {
	return []measure.Field{
		{Key: measure.FieldName, Value: t.Title},
		{Key: measure.FieldDuration, Value: measure.Millis(t.Duration)},
		{Key: "state", Value: t.State},
		{Key: "suite", Value: t.Suite},
		{Key: "testId", Value: strconv.Itoa(t.ID)},
	}
}

// CommandTiming is one step executed inside a test.
type CommandTiming struct {
	ID       int // position within the owning test
	TestID   int
	TestName string
	Command  string
	Args     []string
	Start    time.Time
	End      time.Time
	Duration time.Duration
}

// Value returns the duration in milliseconds.
func (c CommandTiming) Value() float64 {
	return float64(c.Duration) / float64(time.Millisecond)
}

// Name returns the command name.
func (c CommandTiming) Name() string { return c.Command }

// Fields implements measure.Timeable.
func (c CommandTiming) Fields() []measure.Field {
	return []measure.Field{
		{Key: "id", Value: strconv.Itoa(c.ID)},
		{Key: "testId", Value: strconv.Itoa(c.TestID)},
		{Key: "testName", Value: c.TestName},
		{Key: measure.FieldName, Value: c.Command},
		{Key: "startTimestamp", Value: strconv.FormatInt(c.Start.UnixMilli(), 10)},
		{Key: "endTimestamp", Value: strconv.FormatInt(c.End.UnixMilli(), 10)},
		{Key: measure.FieldDuration, Value: measure.Millis(c.Duration)},
		{Key: "args", Value: strings.Join(c.Args, ",")},
	}
}

// RunTiming is the wall-clock span of one run (a package).
type RunTiming struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Duration returns End - Start.
func (r RunTiming) Duration() time.Duration { return r.End.Sub(r.Start) }

// Run is the finalized result of a Recorder.
type Run struct {
	Runs     []RunTiming
	Tests    []TestTiming
	Commands []CommandTiming
}

// TotalRunTime sums the duration of every run.
func (r Run) TotalRunTime() time.Duration {
	var total time.Duration
	for _, rt := range r.Runs {
		total += rt.Duration()
	}
	return total
}

// TotalBreakTime sums the idle gaps between consecutive runs ordered by
// start. Overlapping runs contribute nothing.
func (r Run) TotalBreakTime() time.Duration {
	runs := slices.Clone(r.Runs)
	slices.SortStableFunc(runs, func(a, b RunTiming) int { return a.Start.Compare(b.Start) })

	var total time.Duration
	var latestEnd time.Time
	for i, rt := range runs {
		if i > 0 && rt.Start.After(latestEnd) {
			total += rt.Start.Sub(latestEnd)
		}
		if rt.End.After(latestEnd) {
			latestEnd = rt.End
		}
	}
	return total
}

// RelativeBreakTime is TotalBreakTime / TotalRunTime, 0 without runtime.
func (r Run) RelativeBreakTime() float64 {
	total := r.TotalRunTime()
	if total <= 0 {
		return 0
	}
	return float64(r.TotalBreakTime()) / float64(total)
}

// Failed reports whether any test failed.
func (r Run) Failed() bool {
	return slices.ContainsFunc(r.Tests, func(t TestTiming) bool { return t.State == StateFail })
}

// Slowest returns up to n tests ordered by duration, longest first.
// n <= 0 returns all tests.
func (r Run) Slowest(n int) []TestTiming {
	tests := slices.Clone(r.Tests)
	slices.SortStableFunc(tests, func(a, b TestTiming) int {
		return cmp.Compare(b.Duration, a.Duration)
	})
	if n > 0 && n < len(tests) {
		tests = tests[:n]
	}
	return tests
}
