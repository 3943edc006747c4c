// benchviz renders timing reports for test runs: a summary, the slowest
// tests as a table and a bar chart of durations binned by threshold.
//
// Usage:
//
//	go test -json ./... | benchviz
//	benchviz --input results.json --thresholds 500,1000 --output-dir .
//
// Exit codes: 0 all tests passed, 1 a test failed, 2 usage or input error.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dkoosis/benchviz/internal/config"
	"github.com/dkoosis/benchviz/internal/version"
	"github.com/dkoosis/benchviz/pkg/collect"
	"github.com/dkoosis/benchviz/pkg/export"
	"github.com/dkoosis/benchviz/pkg/report"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

// errUsage marks errors caused by bad flags, config or input.
var errUsage = errors.New("usage")

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	input string
	color string
	flags config.Flags
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	code := exitOK

	cmd := &cobra.Command{
		Use:           "benchviz",
		Short:         "Visualize test timings as tables and bar charts",
		Long:          "benchviz reads go test -json output and reports total run and break time, the slowest tests, and a bar chart of test durations.",
		Version:       version.String(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs := cmd.Flags()
			opts.flags.ThresholdsSet = fs.Changed("thresholds")
			opts.flags.HeightSet = fs.Changed("height")
			opts.flags.TopSet = fs.Changed("top")
			opts.flags.OutputDirSet = fs.Changed("output-dir")
			opts.flags.ThemeSet = fs.Changed("theme")
			opts.flags.NoColorSet = fs.Changed("no-color")
			opts.flags.DebugSet = fs.Changed("debug")

			c, err := execute(cmd.Context(), opts, stdin, stdout, stderr)
			code = c
			return err
		},
	}
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("{{.Version}}\n")

	fs := cmd.Flags()
	fs.StringVarP(&opts.input, "input", "i", "", "go test -json file to read (default stdin)")
	fs.StringVar(&opts.flags.Thresholds, "thresholds", "", "ok,warn,critical (ok > 0) or warn,critical in milliseconds")
	fs.IntVar(&opts.flags.Height, "height", 0, "bar chart height in rows")
	fs.IntVar(&opts.flags.Top, "top", 0, "number of slowest tests to list, 0 for all")
	fs.StringVar(&opts.flags.OutputDir, "output-dir", "", "write CSV timings under <dir>/tmp/<date>/")
	fs.StringVar(&opts.flags.Theme, "theme", "", "row colors: ansi, default, orca, mono, plain")
	fs.BoolVar(&opts.flags.NoColor, "no-color", false, "disable colors")
	fs.StringVar(&opts.color, "color", colorAuto, "color mode: auto, always, never")
	fs.BoolVar(&opts.flags.Debug, "debug", false, "log debug output to stderr")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "benchviz: %v\n", err)
		if code == exitOK {
			code = exitUsage
		}
	}
	return code
}

func execute(ctx context.Context, opts options, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	log := newLogger(stderr, opts.flags.DebugSet && opts.flags.Debug)

	cfg, err := config.Resolve(opts.flags, os.Getenv)
	if err != nil {
		return exitUsage, err
	}
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	}
	log.WithFields(logrus.Fields{
		"config":          cfg.Path,
		"theme":           cfg.Theme,
		"theme_source":    cfg.ThemeSource,
		"no_color":        cfg.NoColor,
		"no_color_source": cfg.NoColorSource,
	}).Debug("configuration resolved")

	switch opts.color {
	case colorAuto:
		if !opts.flags.NoColorSet && !isTTYWriter(stdout) {
			cfg.NoColor = true
		}
	case colorAlways:
		cfg.NoColor = false
	case colorNever:
		cfg.NoColor = true
	default:
		return exitUsage, fmt.Errorf("%w: unknown color mode %q (expected auto, always, never)", errUsage, opts.color)
	}

	log.Debug(report.StartupString(true))
	rec := collect.NewRecorder(log)
	if err := readInput(ctx, rec, log, opts.input, stdin); err != nil {
		return exitUsage, err
	}
	now := time.Now()
	run := rec.Finalize(now)

	if cfg.OutputDir != "" {
		dir, err := export.Save(cfg.OutputDir, now, run)
		if err != nil {
			return exitUsage, err
		}
		log.WithField("dir", dir).Info("timings exported")
	}

	if err := report.Write(stdout, run, cfg.ReportOptions(), log); err != nil {
		return exitUsage, err
	}
	if run.Failed() {
		return exitFailed, nil
	}
	return exitOK, nil
}

// newLogger writes text logs to w, at debug level when requested and warn
// otherwise.
func newLogger(w io.Writer, debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if debug {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// readInput records the file at path, or stdin when path is empty. Only the
// stdin read follows ctx; an interrupted read keeps what was recorded.
func readInput(ctx context.Context, rec *collect.Recorder, log logrus.FieldLogger, path string, stdin io.Reader) error {
	if path == "" {
		_, err := rec.ReadTestJSON(ctx, stdin)
		switch {
		case errors.Is(err, context.Canceled):
			log.Warn("input interrupted, reporting what was recorded")
		case err != nil:
			return fmt.Errorf("reading input: %w", err)
		}
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()
	if _, err := rec.LoadTestJSON(f); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}
