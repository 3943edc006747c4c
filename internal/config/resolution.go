package config

import (
	"strconv"
)

// Sources of a resolved value, lowest priority last.
const (
	SourceCLI     = "cli"
	SourceEnv     = "env"
	SourceFile    = "file"
	SourceDefault = "default"
)

// Flags holds command-line values. The *Set fields record whether the user
// passed the flag, so zero values do not override the file.
type Flags struct {
	Thresholds string
	Height     int
	Top        int
	OutputDir  string
	Theme      string
	NoColor    bool
	Debug      bool

	ThresholdsSet bool
	HeightSet     bool
	TopSet        bool
	OutputDirSet  bool
	ThemeSet      bool
	NoColorSet    bool
	DebugSet      bool
}

// Resolved is a Config plus where its color settings came from.
type Resolved struct {
	Config
	Path          string // config file read, "" if none
	ThemeSource   string
	NoColorSource string
}

// Resolve applies file, environment and flags in priority order:
// flags > env > file > defaults.
func Resolve(flags Flags, getenv func(string) string) (Resolved, error) {
	cfg, path, err := Load()
	if err != nil {
		return Resolved{}, err
	}
	r := Resolved{Config: cfg, Path: path, ThemeSource: SourceDefault, NoColorSource: SourceDefault}
	if path != "" {
		r.ThemeSource = SourceFile
		r.NoColorSource = SourceFile
	}

	r.applyEnv(getenv)
	if err := r.applyFlags(flags); err != nil {
		return Resolved{}, err
	}
	if err := r.Validate(); err != nil {
		return Resolved{}, err
	}
	return r, nil
}

// applyEnv reads BENCHVIZ_THEME, BENCHVIZ_NO_COLOR and BENCHVIZ_DEBUG.
// Unparsable booleans are ignored. Without BENCHVIZ_NO_COLOR, any non-empty
// NO_COLOR disables color.
func (r *Resolved) applyEnv(getenv func(string) string) {
	if theme := getenv("BENCHVIZ_THEME"); theme != "" {
		r.Theme = theme
		r.ThemeSource = SourceEnv
	}

	if noColor := getenv("BENCHVIZ_NO_COLOR"); noColor != "" {
		if v, err := strconv.ParseBool(noColor); err == nil {
			r.NoColor = v
			r.NoColorSource = SourceEnv
		}
	} else if getenv("NO_COLOR") != "" {
		r.NoColor = true
		r.NoColorSource = SourceEnv
	}

	if debug := getenv("BENCHVIZ_DEBUG"); debug != "" {
		if v, err := strconv.ParseBool(debug); err == nil {
			r.Debug = v
		}
	}
}

func (r *Resolved) applyFlags(f Flags) error {
	if f.ThresholdsSet {
		t, err := ParseThresholds(f.Thresholds)
		if err != nil {
			return err
		}
		r.Thresholds = t
	}
	if f.HeightSet {
		r.Height = f.Height
	}
	if f.TopSet {
		r.Top = f.Top
	}
	if f.OutputDirSet {
		r.OutputDir = f.OutputDir
	}
	if f.ThemeSet {
		r.Theme = f.Theme
		r.ThemeSource = SourceCLI
	}
	if f.NoColorSet {
		r.NoColor = f.NoColor
		r.NoColorSource = SourceCLI
	}
	if f.DebugSet {
		r.Debug = f.Debug
	}
	return nil
}
