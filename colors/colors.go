package colors

import (
	"os"
	"sync/atomic"

	"golang.org/x/term"
)

// COLOR is an ANSI escape sequence.
type COLOR string

const (
	RESET COLOR = "\033[0m"

	RED    COLOR = "\033[31m"
	GREEN  COLOR = "\033[32m"
	YELLOW COLOR = "\033[33m"
	BLUE   COLOR = "\033[34m"
	PURPLE COLOR = "\033[35m"
	CYAN   COLOR = "\033[36m"
	WHITE  COLOR = "\033[37m"
	GREY   COLOR = "\033[90m"
	ORANGE COLOR = "\033[38;5;208m"

	BOLD_RED    COLOR = "\033[1;31m"
	BOLD_GREEN  COLOR = "\033[1;32m"
	BOLD_YELLOW COLOR = "\033[1;33m"
	BOLD_BLUE   COLOR = "\033[1;34m"
	BOLD_PURPLE COLOR = "\033[1;35m"
	BOLD_CYAN   COLOR = "\033[1;36m"
)

var enabled atomic.Bool

func init() {
	enabled.Store(term.IsTerminal(int(os.Stderr.Fd())))
}

// Enabled reports whether escape sequences are written.
// Defaults to true only when stderr is a terminal.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled forces colour output on or off.
func SetEnabled(on bool) {
	enabled.Store(on)
}

func (c COLOR) open() string {
	if !Enabled() {
		return ""
	}
	return string(c)
}

func (c COLOR) close() string {
	if !Enabled() {
		return ""
	}
	return string(RESET)
}
