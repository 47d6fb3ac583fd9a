// Package progress provides terminal progress indicators for long-running
// object-copy operations (fetch/push).
package progress

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/ugit-vcs/ugit/internal/termcolor"
)

// Spinner displays an animated status line on stderr while a long-running
// operation is in progress. It is only displayed when stderr is a TTY; in
// non-interactive environments (piped output, CI, tests) it is silent,
// matching pterm's own RawOutput/NoColor behavior but gated on the same
// termcolor.IsTerminal check the rest of the CLI uses for consistency.
type Spinner struct {
	msg     string
	printer *pterm.SpinnerPrinter
	active  bool
}

// New creates a Spinner that will display msg alongside the animation.
func New(msg string) *Spinner {
	return &Spinner{msg: msg}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	if !termcolor.IsTerminal(os.Stderr.Fd()) {
		return
	}
	printer, err := pterm.DefaultSpinner.WithWriter(os.Stderr).Start(s.msg)
	if err != nil {
		return
	}
	s.printer = printer
	s.active = true
}

// Success stops the spinner with a success glyph.
func (s *Spinner) Success(msg string) {
	if !s.active {
		return
	}
	s.printer.Success(msg)
	s.active = false
}

// Fail stops the spinner with a failure glyph.
func (s *Spinner) Fail(msg string) {
	if !s.active {
		return
	}
	s.printer.Fail(msg)
	s.active = false
}

// Stop halts the spinner without a terminal glyph, for callers that don't
// distinguish success/failure presentation.
func (s *Spinner) Stop() {
	if !s.active {
		return
	}
	s.printer.Stop()
	s.active = false
}
