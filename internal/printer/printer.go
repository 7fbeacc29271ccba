// Package printer writes user-facing console messages for the sardana2xls CLI.
// Structured diagnostics go through the logger; this package is for people.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

func init() {
	// Colour output even without a TTY unless NO_COLOR is set
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

var (
	mu     sync.Mutex
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetOutput redirects messages and errors. A nil writer keeps the current one.
func SetOutput(out, errOut io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

func writers() (io.Writer, io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	return stdout, stderr
}

// Success prints a green message with a checkmark prefix.
func Success(format string, a ...any) {
	out, _ := writers()
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		msg = "✓ " + msg
	}
	green.Fprint(out, msg) //nolint:errcheck // Console output
}

// Info prints a message in the default colour.
func Info(format string, a ...any) {
	out, _ := writers()
	fmt.Fprintf(out, format, a...)
}

// Warning prints a yellow message with a warning prefix.
func Warning(format string, a ...any) {
	out, _ := writers()
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "Warning") {
		msg = "Warning: " + msg
	}
	yellow.Fprint(out, msg) //nolint:errcheck // Console output
}

// Step prints a cyan progress line.
func Step(format string, a ...any) {
	out, _ := writers()
	cyan.Fprintf(out, "→ %s", fmt.Sprintf(format, a...)) //nolint:errcheck // Console output
}

// Error prints a title, an explanation and suggestions to stderr and returns
// an error carrying only the title, for commands that silence cobra's output.
func Error(title string, explanation string, suggestions []string) error {
	_, errOut := writers()

	red.Fprintf(errOut, "%s\n\n", title) //nolint:errcheck // Console output
	if explanation != "" {
		fmt.Fprintf(errOut, "%s\n", explanation)
	}

	switch len(suggestions) {
	case 0:
	case 1:
		fmt.Fprintf(errOut, "\n%s\n", suggestions[0])
	default:
		fmt.Fprintf(errOut, "\nEither:\n")
		for i, s := range suggestions {
			fmt.Fprintf(errOut, "  %d. %s\n", i+1, s)
		}
	}

	return fmt.Errorf("%s", title)
}
