// Package testjson decodes go test -json NDJSON streams into events.
package testjson

import (
	"math"
	"strings"
	"time"
)

// Actions emitted by test2json that carry timing information.
const (
	ActionStart = "start"
	ActionRun   = "run"
	ActionPass  = "pass"
	ActionFail  = "fail"
	ActionSkip  = "skip"
)

// TestEvent represents a single event from go test -json output.
type TestEvent struct {
	Time    time.Time `json:"Time"`
	Action  string    `json:"Action"` // start, run, pass, fail, skip, output, bench, pause, cont
	Package string    `json:"Package"`
	Test    string    `json:"Test"`
	Elapsed float64   `json:"Elapsed"`
	Output  string    `json:"Output"`
}

// ProcessFunc receives each decoded event in stream order.
type ProcessFunc func(TestEvent)

// ElapsedDuration converts the Elapsed seconds field.
func (e TestEvent) ElapsedDuration() time.Duration {
	return time.Duration(math.Round(e.Elapsed * float64(time.Second)))
}

// IsTerminal reports whether the event ends a test or package.
func (e TestEvent) IsTerminal() bool {
	switch e.Action {
	case ActionPass, ActionFail, ActionSkip:
		return true
	}
	return false
}

// SplitTest splits a test name into its top-level test and the subtest path.
// "TestA/case_1/x" gives ("TestA", "case_1/x"); "TestA" gives ("TestA", "").
func SplitTest(name string) (parent, sub string) {
	parent, sub, _ = strings.Cut(name, "/")
	return parent, sub
}
