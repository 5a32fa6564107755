package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Display draws one step at a time: a spinner while it runs (TTY only), then
// a check or failure line.
type Display struct {
	capabilities TerminalCapabilities
	symbols      ProgressSymbols
	out          io.Writer
	spinner      *spinner.Spinner
	label        string
}

// NewDisplay creates a display writing to out.
func NewDisplay(caps TerminalCapabilities, out io.Writer) *Display {
	return &Display{
		capabilities: caps,
		symbols:      SelectSymbols(caps),
		out:          out,
	}
}

// Start begins a step. Without a TTY nothing is drawn until it finishes.
func (d *Display) Start(label string) {
	d.Stop()
	d.label = label

	if !d.capabilities.IsTTY {
		return
	}
	d.spinner = spinner.New(
		spinner.CharSets[d.symbols.SpinnerSet],
		100*time.Millisecond,
		spinner.WithWriter(d.out),
	)
	d.spinner.Suffix = " " + truncateLabel(label, d.capabilities.Width)
	d.spinner.Start()
}

// Succeed ends the current step with a check mark.
func (d *Display) Succeed() {
	d.Stop()
	fmt.Fprintf(d.out, "%s %s\n", checkmark(d.symbols, d.capabilities.SupportsColor), d.label)
}

// Fail ends the current step with a failure mark and err.
func (d *Display) Fail(err error) {
	d.Stop()
	fmt.Fprintf(d.out, "%s %s: %v\n", failureMark(d.symbols, d.capabilities.SupportsColor), d.label, err)
}

// Stop stops the spinner without printing a result.
func (d *Display) Stop() {
	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}

// Run wraps fn in a step labeled label.
func (d *Display) Run(label string, fn func() error) error {
	d.Start(label)
	if err := fn(); err != nil {
		d.Fail(err)
		return err
	}
	d.Succeed()
	return nil
}
