package collect

import (
	"context"
	"io"

	"github.com/dkoosis/benchviz/pkg/testjson"
)

// Feed records one go test -json event. Packages are runs, top-level tests
// are tests and subtests are commands of their top-level test. Output and
// other actions are ignored.
func (r *Recorder) Feed(e testjson.TestEvent) {
	parent, sub := testjson.SplitTest(e.Test)

	switch {
	case e.Action == testjson.ActionStart && e.Test == "":
		r.BeginRun(e.Package, e.Time)
	case e.Action == testjson.ActionRun && sub == "":
		r.BeginTest(e.Package, parent, e.Time)
	case e.Action == testjson.ActionRun:
		r.StartCommand(e.Package, parent, sub, nil, e.Time)
	case !e.IsTerminal():
		return
	case e.Test == "":
		r.EndRun(e.Package, e.Time, e.ElapsedDuration())
	case sub == "":
		r.EndTest(e.Package, parent, e.Action, e.Time, e.ElapsedDuration())
	default:
		r.EndCommand(e.Package, parent, sub, e.Time, e.ElapsedDuration())
	}
}

// ReadTestJSON feeds every event of a go test -json stream into r and
// returns the number of malformed lines skipped. Reading stops when ctx is
// cancelled.
func (r *Recorder) ReadTestJSON(ctx context.Context, in io.Reader) (int, error) {
	malformed, err := testjson.Stream(ctx, in, r.Feed)
	r.warnMalformed(malformed)
	return malformed, err
}

// LoadTestJSON feeds a complete go test -json document, such as a saved
// file, into r.
func (r *Recorder) LoadTestJSON(in io.Reader) (int, error) {
	malformed, err := testjson.ParseStream(in, r.Feed)
	r.warnMalformed(malformed)
	return malformed, err
}

func (r *Recorder) warnMalformed(n int) {
	if n > 0 {
		r.log.WithField("lines", n).Warn("skipped malformed go test -json lines")
	}
}
