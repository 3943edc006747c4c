package collect

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Recorder owns the timing buffers of one test run. Call BeginRun/EndRun
// around each run, record tests and commands in between, and Finalize once.
// Finalize resets the Recorder so it can serve the next independent run.
//
// All methods are safe for concurrent use.
type Recorder struct {
	log logrus.FieldLogger

	mu       sync.Mutex
	runs     []*RunTiming
	runIndex map[string]*RunTiming
	tests    []*testEntry
	testKeys map[testKey]*testEntry
}

type testKey struct {
	run  string
	name string
}

type testEntry struct {
	timing   TestTiming
	ended    bool
	commands []*commandEntry
}

type commandEntry struct {
	timing CommandTiming
	ended  bool
}

// NewRecorder creates an empty Recorder.
func NewRecorder(log logrus.FieldLogger) *Recorder {
	r := &Recorder{log: log.WithField("component", "collect.recorder")}
	r.reset()
	return r
}

func (r *Recorder) reset() {
	r.runs = make([]*RunTiming, 0, 16)
	r.runIndex = make(map[string]*RunTiming)
	r.tests = make([]*testEntry, 0, 64)
	r.testKeys = make(map[testKey]*testEntry)
}

// BeginRun marks the start of a run. A repeated BeginRun for the same name
// is ignored.
func (r *Recorder) BeginRun(name string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.runIndex[name]; ok {
		return
	}
	rt := &RunTiming{Name: name, Start: at}
	r.runs = append(r.runs, rt)
	r.runIndex[name] = rt
	r.log.WithField("run", name).Debug("run started")
}

// EndRun marks the end of a run that lasted elapsed. A run never begun is
// created with Start = at - elapsed.
func (r *Recorder) EndRun(name string, at time.Time, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.runIndex[name]
	if !ok {
		rt = &RunTiming{Name: name, Start: at.Add(-elapsed)}
		r.runs = append(r.runs, rt)
		r.runIndex[name] = rt
	}
	rt.End = at
	r.log.WithFields(logrus.Fields{"run": name, "elapsed": elapsed}).Debug("run finished")
}

// BeginTest registers a test and returns its id. Ids are assigned in
// registration order across the whole run.
func (r *Recorder) BeginTest(run, name string, at time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.test(run, name, at).timing.ID
}

// test returns the entry for run/name, creating it if needed. Callers hold mu.
func (r *Recorder) test(run, name string, at time.Time) *testEntry {
	key := testKey{run: run, name: name}
	if te, ok := r.testKeys[key]; ok {
		return te
	}
	te := &testEntry{
		timing: TestTiming{
			ID:    len(r.tests),
			Title: name,
			Suite: run,
			State: StateIncomplete,
			Start: at,
		},
	}
	r.tests = append(r.tests, te)
	r.testKeys[key] = te
	return te
}

// EndTest records the outcome of a test. A test never begun is registered
// with Start = at - elapsed.
func (r *Recorder) EndTest(run, name, state string, at time.Time, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	te := r.test(run, name, at.Add(-elapsed))
	te.timing.State = state
	te.timing.Duration = elapsed
	te.ended = true
	r.log.WithFields(logrus.Fields{"test": name, "state": state, "elapsed": elapsed}).Debug("test finished")
}

// StartCommand opens a command inside test. Every call records a new
// command; commands are numbered per test in start order.
func (r *Recorder) StartCommand(run, test, command string, args []string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.test(run, test, at).addCommand(command, args, at)
}

// addCommand appends a new open command to te.
func (te *testEntry) addCommand(command string, args []string, at time.Time) *commandEntry {
	ce := &commandEntry{timing: CommandTiming{
		ID:       len(te.commands),
		TestID:   te.timing.ID,
		TestName: te.timing.Title,
		Command:  command,
		Args:     args,
		Start:    at,
	}}
	te.commands = append(te.commands, ce)
	return ce
}

// openCommand returns the most recently started command of te with the given
// name that has not ended yet.
func (te *testEntry) openCommand(command string) (*commandEntry, bool) {
	for i := len(te.commands) - 1; i >= 0; i-- {
		ce := te.commands[i]
		if ce.timing.Command == command && !ce.ended {
			return ce, true
		}
	}
	return nil, false
}

// EndCommand closes the most recent open command with that name. A negative
// elapsed derives the duration from the start time. Without an open command
// one is recorded with Start = at - elapsed.
func (r *Recorder) EndCommand(run, test, command string, at time.Time, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	start := at
	if elapsed >= 0 {
		start = at.Add(-elapsed)
	}
	te := r.test(run, test, start)
	ce, ok := te.openCommand(command)
	if !ok {
		ce = te.addCommand(command, nil, start)
	}
	ce.close(at, elapsed)
}

func (ce *commandEntry) close(at time.Time, elapsed time.Duration) {
	ce.timing.End = at
	if elapsed < 0 {
		elapsed = at.Sub(ce.timing.Start)
	}
	ce.timing.Duration = elapsed
	ce.ended = true
}

// Finalize closes anything still open at the given time, returns the run
// and resets the Recorder.
func (r *Recorder) Finalize(at time.Time) Run {
	r.mu.Lock()
	defer r.mu.Unlock()

	var run Run
	var open int
	for _, rt := range r.runs {
		if rt.End.IsZero() {
			rt.End = at
		}
		run.Runs = append(run.Runs, *rt)
	}
	for _, te := range r.tests {
		run.Tests = append(run.Tests, te.timing)
		for _, ce := range te.commands {
			if !ce.ended {
				ce.close(at, -1)
				open++
			}
			run.Commands = append(run.Commands, ce.timing)
		}
	}

	r.log.WithFields(logrus.Fields{
		"runs":          len(run.Runs),
		"tests":         len(run.Tests),
		"commands":      len(run.Commands),
		"open_commands": open,
	}).Info("run finalized")

	r.reset()
	return run
}
