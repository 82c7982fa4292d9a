package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/notehub/internal/styles"
)

// Dialog widths.
const (
	ModalWidthSmall  = 40
	ModalWidthMedium = 50
	ModalWidthLarge  = 72
)

// Dialog actions returned by HandleKey.
const (
	ActionNone    = ""
	ActionConfirm = "confirm"
	ActionCancel  = "cancel"
)

// ConfirmDialog is a two-button confirmation modal.
type ConfirmDialog struct {
	Title        string
	Message      string
	ConfirmLabel string // e.g., " Delete "
	CancelLabel  string
	Danger       bool // render the confirm button in the danger style
	Width        int

	cancelFocused bool
}

// NewConfirmDialog creates a dialog with the confirm button focused.
func NewConfirmDialog(title, message string) *ConfirmDialog {
	return &ConfirmDialog{
		Title:        title,
		Message:      message,
		ConfirmLabel: " Confirm ",
		CancelLabel:  " Cancel ",
		Width:        ModalWidthMedium,
	}
}

// Focused returns the action of the focused button.
func (d *ConfirmDialog) Focused() string {
	if d.cancelFocused {
		return ActionCancel
	}
	return ActionConfirm
}

// SetFocus focuses the button for action.
func (d *ConfirmDialog) SetFocus(action string) {
	d.cancelFocused = action == ActionCancel
}

// HandleKey maps a key to a dialog action. Keys that only move focus
// return ActionNone.
func (d *ConfirmDialog) HandleKey(msg tea.KeyMsg) string {
	switch msg.String() {
	case "y", "Y":
		return ActionConfirm
	case "n", "N", "esc":
		return ActionCancel
	case "enter", " ":
		return d.Focused()
	case "tab", "shift+tab", "left", "right", "h", "l":
		d.cancelFocused = !d.cancelFocused
	}
	return ActionNone
}

// View renders the dialog box.
func (d *ConfirmDialog) View() string {
	width := d.Width
	if width <= 0 {
		width = ModalWidthMedium
	}
	inner := width - styles.ModalBox.GetHorizontalFrameSize()

	confirm, cancel := styles.Button, styles.Button
	if d.Danger {
		confirm = styles.ButtonDanger
	}
	if d.cancelFocused {
		cancel = styles.ButtonFocused
	} else if d.Danger {
		confirm = styles.ButtonDangerFocused
	} else {
		confirm = styles.ButtonFocused
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		confirm.Render(d.ConfirmLabel), "  ", cancel.Render(d.CancelLabel))

	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render(d.Title))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(inner).Render(d.Message))
	b.WriteString("\n\n")
	b.WriteString(buttons)

	box := styles.ModalBox
	if d.Danger {
		box = box.BorderForeground(styles.Error)
	}
	return box.Width(width - box.GetHorizontalBorderSize()).Render(b.String())
}
