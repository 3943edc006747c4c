package severity

import "github.com/charmbracelet/lipgloss"

// SGR sequences written by the ANSI decorator.
const (
	SGRYellow     = "\x1B[93m"
	SGRDarkYellow = "\x1B[33m"
	SGRRed        = "\x1B[31m"
	SGRReset      = "\x1B[m"
)

// Decorator names accepted by ByName.
const (
	DecoratorANSI  = "ansi"
	DecoratorPlain = "plain"
	DecoratorMono  = "mono"
	DecoratorOrca  = "orca"
	DecoratorVivid = "default"
)

// Decorator styles a whole rendered line for a severity level.
// Implementations must return line unchanged for OK.
type Decorator interface {
	Decorate(level Level, line string) string
}

// ANSI wraps lines in raw SGR escapes: notice dark yellow, warn yellow,
// critical red.
type ANSI struct{}

// Decorate implements Decorator.
func (ANSI) Decorate(level Level, line string) string {
	var code string
	switch level {
	case Notice:
		code = SGRDarkYellow
	case Warn:
		code = SGRYellow
	case Critical:
		code = SGRRed
	default:
		return line
	}
	return code + line + SGRReset
}

// Plain never styles. Use it for files and tests.
type Plain struct{}

// Decorate implements Decorator.
func (Plain) Decorate(_ Level, line string) string { return line }

// Theme is a lipgloss palette for severity tiers and report headings.
type Theme struct {
	Name     string
	Notice   lipgloss.Style
	Warn     lipgloss.Style
	Critical lipgloss.Style
	Heading  lipgloss.Style
	Muted    lipgloss.Style
}

// DefaultTheme returns a vibrant palette.
func DefaultTheme() Theme {
	return Theme{
		Name:     DecoratorVivid,
		Notice:   lipgloss.NewStyle().Foreground(lipgloss.Color("221")), // pale yellow
		Warn:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // orange
		Critical: lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // red
		Heading:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}
}

// OrcaTheme returns a muted, professional palette.
func OrcaTheme() Theme {
	return Theme{
		Name:     DecoratorOrca,
		Notice:   lipgloss.NewStyle().Foreground(lipgloss.Color("187")),
		Warn:     lipgloss.NewStyle().Foreground(lipgloss.Color("179")), // muted gold
		Critical: lipgloss.NewStyle().Foreground(lipgloss.Color("167")), // muted red
		Heading:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// MonoTheme returns a palette without colors.
func MonoTheme() Theme {
	return Theme{
		Name:     DecoratorMono,
		Notice:   lipgloss.NewStyle(),
		Warn:     lipgloss.NewStyle(),
		Critical: lipgloss.NewStyle().Bold(true),
		Heading:  lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle(),
	}
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	switch name {
	case DecoratorOrca:
		return OrcaTheme()
	case DecoratorMono:
		return MonoTheme()
	default:
		return DefaultTheme()
	}
}

// Themed styles lines through a lipgloss Theme. lipgloss downsamples or drops
// colors for the detected output profile.
type Themed struct {
	Theme Theme
}

// Decorate implements Decorator.
func (t Themed) Decorate(level Level, line string) string {
	switch level {
	case Notice:
		return t.Theme.Notice.Render(line)
	case Warn:
		return t.Theme.Warn.Render(line)
	case Critical:
		return t.Theme.Critical.Render(line)
	default:
		return line
	}
}

// ByName returns the decorator for a configured theme name:
// "ansi" (raw escapes), "plain", or a lipgloss theme name.
func ByName(name string) Decorator {
	switch name {
	case DecoratorANSI, "":
		return ANSI{}
	case DecoratorPlain:
		return Plain{}
	default:
		return Themed{Theme: ThemeByName(name)}
	}
}
