// Package report composes the end-of-run console output: run summary,
// slowest-tests table and duration bar chart.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dkoosis/benchviz/pkg/bin"
	"github.com/dkoosis/benchviz/pkg/chart"
	"github.com/dkoosis/benchviz/pkg/collect"
	"github.com/dkoosis/benchviz/pkg/severity"
	"github.com/dkoosis/benchviz/pkg/table"
)

// DefaultTop is how many of the slowest tests the table shows.
const DefaultTop = 50

// Options control what Write renders.
type Options struct {
	Thresholds severity.Thresholds
	Height     int                // chart rows, chart.DefaultHeight when <= 0
	Top        int                // table rows, DefaultTop when 0, all when < 0
	Decorator  severity.Decorator // table row styling, Plain when nil
	Heading    func(string) string
}

// StartupString announces benchmarking when enabled.
func StartupString(enabled bool) string {
	if !enabled {
		return ""
	}
	return "Running with benchmarking enabled"
}

// Write renders run to w. A run without tests still gets its summary; the
// chart is skipped with a note.
func Write(w io.Writer, run collect.Run, opts Options, log logrus.FieldLogger) error {
	log = log.WithField("component", "report")
	if opts.Decorator == nil {
		opts.Decorator = severity.Plain{}
	}
	if opts.Heading == nil {
		opts.Heading = func(s string) string { return s }
	}
	top := opts.Top
	if top == 0 {
		top = DefaultTop
	}

	var sb strings.Builder
	sb.WriteString(Summary(run))

	slowest := run.Slowest(top)
	sb.WriteString(opts.Heading(fmt.Sprintf("Slowest %d", len(slowest))))
	sb.WriteString("\n")
	sb.WriteString(table.RenderTimings(slowest, opts.Thresholds, opts.Decorator))

	sb.WriteString(opts.Heading("Bar"))
	sb.WriteString("\n")
	diagram, err := chart.Diagram(run.Tests, opts.Thresholds.Boundaries(), opts.Height)
	switch {
	case errors.Is(err, bin.ErrEmptyInput):
		log.Warn("no tests recorded, skipping bar chart")
		sb.WriteString("(no tests recorded)\n")
	case err != nil:
		log.WithError(err).Error("rendering bar chart")
		return fmt.Errorf("rendering bar chart: %w", err)
	default:
		sb.WriteString(diagram)
	}

	_, err = io.WriteString(w, sb.String())
	return err
}

// Summary returns the run totals, one per line.
func Summary(run collect.Run) string {
	p := message.NewPrinter(language.English)
	var sb strings.Builder
	p.Fprintf(&sb, "Recorded %d tests and %d commands in %d runs\n",
		len(run.Tests), len(run.Commands), len(run.Runs))
	p.Fprintf(&sb, "Total break time %.3fs\n", run.TotalBreakTime().Seconds())
	p.Fprintf(&sb, "Total run time %.3fs\n", run.TotalRunTime().Seconds())
	p.Fprintf(&sb, "Relative break time %.4f\n", run.RelativeBreakTime())
	return sb.String()
}
