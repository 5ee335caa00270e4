package output

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorMode represents the color output mode.
type ColorMode int

const (
	// ColorAuto enables colors if output is a TTY.
	ColorAuto ColorMode = iota
	// ColorAlways forces colors on.
	ColorAlways
	// ColorNever disables colors.
	ColorNever
)

// Colors holds the color functions for the board table.
type Colors struct {
	Station   func(format string, a ...interface{}) string
	Line      func(format string, a ...interface{}) string
	Dest      func(format string, a ...interface{}) string
	Soon      func(format string, a ...interface{}) string
	Countdown func(format string, a ...interface{}) string
	Muted     func(format string, a ...interface{}) string
}

// NewColors creates a new Colors instance based on the color mode.
func NewColors(mode ColorMode) *Colors {
	useColors := false
	switch mode {
	case ColorAlways:
		useColors = true
		color.NoColor = false
	case ColorNever:
		useColors = false
	case ColorAuto:
		useColors = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	if !useColors {
		noColor := func(format string, a ...interface{}) string {
			if len(a) == 0 {
				return format
			}
			return color.New().Sprintf(format, a...)
		}
		return &Colors{
			Station:   noColor,
			Line:      noColor,
			Dest:      noColor,
			Soon:      noColor,
			Countdown: noColor,
			Muted:     noColor,
		}
	}

	return &Colors{
		Station:   color.New(color.FgWhite, color.Bold).SprintfFunc(),
		Line:      color.New(color.FgCyan, color.Bold).SprintfFunc(),
		Dest:      color.New(color.FgWhite).SprintfFunc(),
		Soon:      color.New(color.FgRed, color.Bold).SprintfFunc(),
		Countdown: color.New(color.FgGreen).SprintfFunc(),
		Muted:     color.New(color.FgHiBlack).SprintfFunc(),
	}
}

// FormatCountdown colors a countdown red when the train is (almost) there.
func (c *Colors) FormatCountdown(minutes int) string {
	if minutes <= 2 {
		return c.Soon("%3d'", minutes)
	}
	return c.Countdown("%3d'", minutes)
}

// ParseColorMode parses a color mode string.
func ParseColorMode(s string) ColorMode {
	switch s {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return ColorAuto
	}
}
