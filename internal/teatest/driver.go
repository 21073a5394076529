// Package teatest drives bubbletea models synchronously in tests.
//
// A Driver calls Update directly and runs every returned Cmd to completion,
// feeding its message back in, so a test sees the model exactly as it is
// after each key press. Animation frames (spinner ticks, cursor blinks)
// are dropped instead of delivered, which keeps a loading model from
// ticking forever.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth is the safety limit for command draining to prevent infinite loops.
const MaxDrainDepth = 100

// DefaultCmdTimeout bounds a single Cmd. Database-backed loads finish well
// inside it; timer Cmds that outlive it are skipped.
const DefaultCmdTimeout = time.Second

// Driver is a synchronous test harness for any tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set when tea.QuitMsg is seen during drain.
	Quitting bool

	cmdTimeout time.Duration
}

// Option configures the Driver during construction.
type Option func(*Driver)

// New creates a Driver for the given model and applies options.
// Call DrainInit() after construction to process the model's Init() command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, cmdTimeout: DefaultCmdTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithSize sends an initial WindowSizeMsg before any other processing.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// WithCmdTimeout overrides DefaultCmdTimeout.
func WithCmdTimeout(timeout time.Duration) Option {
	return func(d *Driver) {
		d.cmdTimeout = timeout
	}
}

// DrainInit executes the model's Init() command and drains all resulting messages.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drainCmd(d.Model.Init(), 0)
}

// Send dispatches a message through Update and drains all resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(cmd, 0)
}

// PressKey sends a character key (rune).
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// PressRight sends the Right arrow key.
func (d *Driver) PressRight() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRight})
}

// PressLeft sends the Left arrow key.
func (d *Driver) PressLeft() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyLeft})
}

// PressCtrlC sends Ctrl+C.
func (d *Driver) PressCtrlC() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
}

// View returns the full rendered output of the model.
func (d *Driver) View() string {
	return d.Model.View()
}

func (d *Driver) drainCmd(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest.Driver: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := execCmdWithTimeout(cmd, d.cmdTimeout)
	if msg == nil || isAnimationFrame(msg) {
		return
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, subCmd := range batch {
			d.drainCmd(subCmd, depth+1)
		}
		return
	}

	if _, isQuit := msg.(tea.QuitMsg); isQuit {
		d.Quitting = true
		updated, _ := d.Model.Update(msg)
		d.Model = updated
		return
	}

	updated, nextCmd := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(nextCmd, depth+1)
}

// execCmdWithTimeout runs a tea.Cmd in a goroutine with a timeout.
// Returns nil if the Cmd doesn't complete in time.
func execCmdWithTimeout(cmd tea.Cmd, timeout time.Duration) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		return nil
	}
}

// isAnimationFrame reports spinner ticks and cursor blinks. The cursor
// messages are unexported, so they are matched by type name.
func isAnimationFrame(msg tea.Msg) bool {
	if _, ok := msg.(spinner.TickMsg); ok {
		return true
	}
	t := fmt.Sprintf("%T", msg)
	return strings.Contains(t, "Blink") || strings.Contains(t, "blink")
}
