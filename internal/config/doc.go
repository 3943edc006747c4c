// Package config loads and merges benchviz settings.
//
// # Configuration Precedence
//
// Values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--thresholds, --height, --top, --output-dir, --theme, --no-color, --debug)
//  2. Environment variables (BENCHVIZ_THEME, BENCHVIZ_NO_COLOR, NO_COLOR, BENCHVIZ_DEBUG)
//  3. YAML config file (.benchviz.yaml in the working directory or ~/.config/benchviz/.benchviz.yaml)
//  4. Built-in defaults
//
// # Example
//
//	thresholds:
//	  ok: 250
//	  warn: 500
//	  critical: 1000
//	height: 10
//	top: 50
//	output_dir: .
//	theme: ansi
//
// A thresholds block without ok (or ok: 0) selects two tiers, warn and
// critical. top: 0 lists every test.
package config
