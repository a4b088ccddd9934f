package client

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// formatter colors CLI output. Without color support it falls back to
// plain text with an optional prefix and suffix.
type formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

func (f formatter) Sprint(a ...any) string {
	text := fmt.Sprint(a...)
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

func (f formatter) Sprintf(format string, a ...any) string {
	return f.Sprint(fmt.Sprintf(format, a...))
}

func noColor() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return color.NoColor
}

var (
	uiSuccess   = formatter{color.New(color.FgGreen), "", ""}
	uiError     = formatter{color.New(color.FgRed), "", ""}
	uiWarning   = formatter{color.New(color.FgYellow), "", ""}
	uiInfo      = formatter{color.New(color.FgCyan), "", ""}
	uiHighlight = formatter{color.New(color.FgCyan), "'", "'"}
	uiMuted     = formatter{color.New(color.FgHiBlack), "(", ")"}
)
