package msg

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastMsg displays a temporary message.
type ToastMsg struct {
	Message  string
	Duration time.Duration
	IsError  bool // true for error toasts (red), false for success (green)
}

// ShowToast returns a command to show a toast message.
func ShowToast(message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{
			Message:  message,
			Duration: duration,
		}
	}
}

// ShowErrorToast returns a command to show an error toast.
func ShowErrorToast(message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{
			Message:  message,
			Duration: duration,
			IsError:  true,
		}
	}
}

// RefreshMsg asks the active plugin to reload its data.
type RefreshMsg struct{}

// Refresh returns a command that emits RefreshMsg.
func Refresh() tea.Cmd {
	return func() tea.Msg { return RefreshMsg{} }
}
