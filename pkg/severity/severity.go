// Package severity classifies durations against ok/warn/critical thresholds
// and decorates rendered lines accordingly.
package severity

import (
	"errors"
	"fmt"
)

// Level is the severity tier of a measurement.
type Level int

const (
	// OK needs no attention.
	OK Level = iota
	// Notice is above the ok threshold but below warn (three-tier only).
	Notice
	// Warn is within [warn, critical).
	Warn
	// Critical is at or above critical.
	Critical
)

func (l Level) String() string {
	switch l {
	case OK:
		return "ok"
	case Notice:
		return "notice"
	case Warn:
		return "warn"
	case Critical:
		return "critical"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// ErrInvalidThresholds is returned by Validate for non-ascending thresholds.
var ErrInvalidThresholds = errors.New("thresholds must ascend: ok < warn < critical")

// Thresholds are the cut points between tiers, in milliseconds.
// OK <= 0 selects the two-tier variant (warn, critical).
type Thresholds struct {
	OK       float64 `yaml:"ok"`
	Warn     float64 `yaml:"warn"`
	Critical float64 `yaml:"critical"`
}

// DefaultThresholds are the tiers used when nothing is configured.
func DefaultThresholds() Thresholds {
	return Thresholds{OK: 250, Warn: 500, Critical: 1000}
}

// ThreeTier reports whether the ok threshold is in use.
func (t Thresholds) ThreeTier() bool { return t.OK > 0 }

// Validate checks ordering.
func (t Thresholds) Validate() error {
	if t.Warn >= t.Critical {
		return fmt.Errorf("%w: warn %g >= critical %g", ErrInvalidThresholds, t.Warn, t.Critical)
	}
	if t.ThreeTier() && t.OK >= t.Warn {
		return fmt.Errorf("%w: ok %g >= warn %g", ErrInvalidThresholds, t.OK, t.Warn)
	}
	return nil
}

// Classify returns the tier of v.
func (t Thresholds) Classify(v float64) Level {
	switch {
	case v >= t.Critical:
		return Critical
	case v >= t.Warn:
		return Warn
	case t.ThreeTier() && v >= t.OK:
		return Notice
	default:
		return OK
	}
}

// Boundaries returns the thresholds as an ascending boundary list for binning.
func (t Thresholds) Boundaries() []float64 {
	if t.ThreeTier() {
		return []float64{t.OK, t.Warn, t.Critical}
	}
	return []float64{t.Warn, t.Critical}
}
