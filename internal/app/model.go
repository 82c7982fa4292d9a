package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/notehub/internal/config"
	"github.com/marcus/notehub/internal/keymap"
	"github.com/marcus/notehub/internal/plugin"
	"github.com/marcus/notehub/internal/ui"
)

// ModalKind identifies an app-level modal with explicit priority ordering.
// Lower values = higher priority (checked first for rendering and input routing).
type ModalKind int

const (
	ModalNone        ModalKind = iota // No modal open
	ModalQuitConfirm                  // Quit confirmation dialog
	ModalHelp                         // Help overlay
)

// activeModal returns the highest-priority open modal.
func (m *Model) activeModal() ModalKind {
	switch {
	case m.quitConfirm != nil:
		return ModalQuitConfirm
	case m.showHelp:
		return ModalHelp
	default:
		return ModalNone
	}
}

// Model is the root Bubble Tea model hosting the notes plugin.
type Model struct {
	cfg    *config.Config
	plugin plugin.Plugin

	keymap        *keymap.Registry
	activeContext string

	// UI state
	width, height int
	showHelp      bool
	showFooter    bool
	quitConfirm   *ui.ConfirmDialog
	ready         bool

	// Status/toast messages
	statusMsg     string
	statusExpiry  time.Time
	statusIsError bool

	version string
	now     func() time.Time
}

// New creates the application model. The plugin must already be initialized.
func New(p plugin.Plugin, km *keymap.Registry, cfg *config.Config, version string) Model {
	if cfg == nil {
		cfg = config.Default()
	}
	if km == nil {
		km = keymap.NewRegistry()
		keymap.RegisterDefaults(km)
	}
	m := Model{
		cfg:           cfg,
		plugin:        p,
		keymap:        km,
		activeContext: keymap.ContextGlobal,
		showFooter:    cfg.UI.ShowFooter,
		version:       version,
		now:           time.Now,
	}
	m.updateContext()
	return m
}

// Init starts the plugin and the clock.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if m.plugin != nil {
		m.plugin.SetFocused(true)
		cmds = append(cmds, m.plugin.Start())
	}
	return tea.Batch(cmds...)
}

// ActivePlugin returns the hosted plugin.
func (m Model) ActivePlugin() plugin.Plugin {
	return m.plugin
}

// ShowToast displays a status message for duration.
func (m *Model) ShowToast(msg string, duration time.Duration, isError bool) {
	m.statusMsg = msg
	m.statusExpiry = m.now().Add(duration)
	m.statusIsError = isError
}

// ClearToast clears the status message once it has expired.
func (m *Model) ClearToast() {
	if m.statusMsg != "" && !m.now().Before(m.statusExpiry) {
		m.statusMsg = ""
		m.statusIsError = false
	}
}

// TickMsg drives toast expiry.
type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// consumesText reports whether the plugin wants printable keys as text.
func (m Model) consumesText() bool {
	if tc, ok := m.plugin.(plugin.TextInputConsumer); ok {
		return tc.ConsumesTextInput()
	}
	return false
}

// contentHeight is the height handed to the plugin.
func (m Model) contentHeight() int {
	h := m.height
	if m.showFooter {
		h--
	}
	return max(0, h)
}
