package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/notehub/internal/keymap"
	appmsg "github.com/marcus/notehub/internal/msg"
	"github.com/marcus/notehub/internal/ui"
)

// Update handles all messages and returns the updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, m.forward(tea.WindowSizeMsg{Width: msg.Width, Height: m.contentHeight()})

	case TickMsg:
		m.ClearToast()
		return m, tickCmd()

	case appmsg.ToastMsg:
		m.ShowToast(msg.Message, msg.Duration, msg.IsError)
		return m, nil
	}

	return m, m.forward(msg)
}

// forward sends msg to the plugin and refreshes the active context.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	if m.plugin == nil {
		return nil
	}
	next, cmd := m.plugin.Update(msg)
	m.plugin = next
	m.updateContext()
	return cmd
}

// handleKeyMsg processes keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.activeModal() {
	case ModalQuitConfirm:
		switch m.quitConfirm.HandleKey(msg) {
		case ui.ActionConfirm:
			if m.plugin != nil {
				m.plugin.Stop()
			}
			return m, tea.Quit
		case ui.ActionCancel:
			m.quitConfirm = nil
		}
		return m, nil
	case ModalHelp:
		if cmd, _ := m.keymap.Lookup(msg.String(), keymap.ContextGlobal); cmd == "toggle-help" || msg.Type == tea.KeyEsc {
			m.showHelp = false
		}
		return m, nil
	}

	// ctrl+c always asks, even while typing.
	if msg.Type == tea.KeyCtrlC {
		m.openQuitConfirm()
		return m, nil
	}

	// Text fields own printable keys.
	if m.consumesText() {
		return m, m.forward(msg)
	}

	// Plugin bindings take precedence over global ones.
	if _, ok := m.keymap.Lookup(msg.String(), m.activeContext); ok {
		return m, m.forward(msg)
	}

	if cmd, ok := m.keymap.Lookup(msg.String(), keymap.ContextGlobal); ok {
		switch cmd {
		case "quit":
			m.openQuitConfirm()
			return m, nil
		case "toggle-footer":
			m.showFooter = !m.showFooter
			return m, m.forward(tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()})
		case "toggle-help":
			m.showHelp = true
			return m, nil
		}
	}

	return m, m.forward(msg)
}

func (m *Model) openQuitConfirm() {
	d := ui.NewConfirmDialog("Quit NoteHub?", "Unsaved form input will be lost.")
	d.ConfirmLabel = " Quit "
	d.Width = ui.ModalWidthSmall
	m.quitConfirm = d
}

// updateContext sets activeContext from the plugin's focus.
func (m *Model) updateContext() {
	if m.plugin != nil {
		m.activeContext = m.plugin.FocusContext()
	} else {
		m.activeContext = keymap.ContextGlobal
	}
}
