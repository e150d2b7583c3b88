// Package status provides the status bar of the map monitor.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/mapstore/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/mapstore/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/mapstore/internal/core/domain"
)

// Bar shows the handle state, the last message and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   domain.HandleState
	message string
	err     error
	events  int
	width   int
}

// NewBar creates a status bar.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  domain.StateIdle,
		width:  80,
	}
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := b.width - b.styles.StatusBar.GetHorizontalFrameSize() -
		lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (b *Bar) renderLeft() string {
	state := b.styles.State(b.state).Render(b.state.String())
	if b.err != nil {
		return state + "  " + b.styles.Error.Render("Error: "+b.err.Error())
	}

	parts := []string{state}
	if b.events > 0 {
		parts = append(parts, b.styles.Normal.Render(fmt.Sprintf("%d changes", b.events)))
	}
	if b.message != "" {
		parts = append(parts, b.styles.Muted.Render(b.message))
	}
	return strings.Join(parts, "  ")
}

func (b *Bar) renderRight() string {
	bindings := b.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		hints = append(hints, hint(binding))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

func hint(b key.Binding) string {
	h := b.Help()
	return fmt.Sprintf("%s: %s", h.Key, h.Desc)
}

// SetState sets the displayed handle state.
func (b *Bar) SetState(state domain.HandleState) {
	b.state = state
}

// State returns the displayed handle state.
func (b *Bar) State() domain.HandleState {
	return b.state
}

// SetMessage shows an informational message and clears any error.
func (b *Bar) SetMessage(message string) {
	b.message = message
	b.err = nil
}

// Message returns the informational message.
func (b *Bar) Message() string {
	return b.message
}

// SetError shows an error until the next message.
func (b *Bar) SetError(err error) {
	b.err = err
}

// Err returns the displayed error.
func (b *Bar) Err() error {
	return b.err
}

// SetEventCount sets the number of change notifications seen.
func (b *Bar) SetEventCount(n int) {
	b.events = n
}

// SetWidth sets the bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Width returns the bar width.
func (b *Bar) Width() int {
	return b.width
}
