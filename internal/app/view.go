package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/notehub/internal/keymap"
	"github.com/marcus/notehub/internal/plugin"
	"github.com/marcus/notehub/internal/styles"
	"github.com/marcus/notehub/internal/ui"
)

const toastMargin = 1

// View renders the entire application UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	content := m.renderContent(m.width, m.contentHeight())
	if m.statusMsg != "" {
		content = ui.OverlayBottomRight(content, m.renderToast(), m.width, m.contentHeight(), toastMargin)
	}

	var b strings.Builder
	b.WriteString(content)
	if m.showFooter {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}
	view := b.String()

	switch m.activeModal() {
	case ModalQuitConfirm:
		return ui.OverlayModal(view, m.quitConfirm.View(), m.width, m.height)
	case ModalHelp:
		return ui.OverlayModal(view, styles.ModalBox.Render(m.buildHelpContent()), m.width, m.height)
	}
	return view
}

// renderContent renders the main content area.
func (m Model) renderContent(width, height int) string {
	if m.plugin == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, styles.Muted.Render("No plugins loaded"))
	}
	if height == 0 {
		return ""
	}
	content := m.plugin.View(width, height)
	// MaxHeight also truncates; Height only pads.
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(content)
}

func (m Model) renderToast() string {
	if m.statusIsError {
		return styles.ToastError.Render(m.statusMsg)
	}
	return styles.ToastSuccess.Render(m.statusMsg)
}

// renderFooter renders the bottom bar with key hints and the version.
func (m Model) renderFooter() string {
	version := ""
	if m.version != "" {
		version = styles.Muted.Render(m.version)
	}
	avail := m.width - lipgloss.Width(version) - 2
	hints := renderHintLineTruncated(m.footerHints(), avail)
	spacing := max(0, m.width-lipgloss.Width(hints)-lipgloss.Width(version))
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(hints + strings.Repeat(" ", spacing) + version)
}

type footerHint struct {
	keys  string
	label string
}

func (m Model) footerHints() []footerHint {
	var hints []footerHint
	if m.plugin != nil {
		hints = m.pluginFooterHints(m.plugin, m.activeContext)
	}
	return append(hints, m.globalFooterHints()...)
}

func (m Model) globalFooterHints() []footerHint {
	keysByCmd := bindingKeysByCommand(m.keymap.BindingsForContext(keymap.ContextGlobal))
	specs := []struct {
		id    string
		label string
	}{
		{id: "toggle-help", label: "help"},
		{id: "quit", label: "quit"},
	}
	var hints []footerHint
	for _, spec := range specs {
		keys := keysByCmd[spec.id]
		if len(keys) == 0 {
			continue
		}
		hints = append(hints, footerHint{keys: keys[0], label: spec.label})
	}
	return hints
}

func (m Model) pluginFooterHints(p plugin.Plugin, context string) []footerHint {
	if context == "" || context == keymap.ContextGlobal {
		return nil
	}
	keysByCmd := bindingKeysByCommand(m.keymap.BindingsForContext(context))

	type cmdWithPriority struct {
		cmd      plugin.Command
		keys     []string
		priority int
	}
	var cmds []cmdWithPriority
	for _, cmd := range p.Commands() {
		if cmd.Context != context {
			continue
		}
		keys := keysByCmd[cmd.ID]
		if len(keys) == 0 {
			continue
		}
		priority := cmd.Priority
		if priority == 0 {
			priority = 99
		}
		cmds = append(cmds, cmdWithPriority{cmd, keys, priority})
	}
	sort.SliceStable(cmds, func(i, j int) bool {
		return cmds[i].priority < cmds[j].priority
	})

	hints := make([]footerHint, 0, len(cmds))
	for _, c := range cmds {
		hints = append(hints, footerHint{keys: formatBindingKeys(c.keys), label: c.cmd.Name})
	}
	return hints
}

func bindingKeysByCommand(bindings []keymap.Binding) map[string][]string {
	keysByCmd := make(map[string][]string, len(bindings))
	for _, b := range bindings {
		keysByCmd[b.Command] = append(keysByCmd[b.Command], b.Key)
	}
	return keysByCmd
}

// renderHintLineTruncated renders hints but stops adding when maxWidth is exceeded.
func renderHintLineTruncated(hints []footerHint, maxWidth int) string {
	if len(hints) == 0 || maxWidth <= 0 {
		return ""
	}
	var result string
	for _, hint := range hints {
		if hint.keys == "" || hint.label == "" {
			continue
		}
		part := fmt.Sprintf("%s %s", styles.KeyHint.Render(hint.keys), hint.label)
		candidate := part
		if result != "" {
			candidate = result + "  " + part
		}
		if lipgloss.Width(candidate) > maxWidth {
			break
		}
		result = candidate
	}
	return result
}

// buildHelpContent lists the global bindings and those of the active context.
func (m Model) buildHelpContent() string {
	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	b.WriteString(styles.Title.Render("Global"))
	b.WriteString("\n")
	m.renderBindingSection(&b, keymap.ContextGlobal)

	if m.plugin != nil && m.activeContext != keymap.ContextGlobal {
		if len(m.keymap.BindingsForContext(m.activeContext)) > 0 {
			b.WriteString("\n")
			b.WriteString(styles.Title.Render(m.plugin.Name()))
			b.WriteString("\n")
			m.renderBindingSection(&b, m.activeContext)
		}
	}
	b.WriteString("\n")
	b.WriteString(styles.Subtle.Render("Press ? or esc to close"))
	return b.String()
}

// renderBindingSection renders bindings for a context, one line per command.
func (m Model) renderBindingSection(b *strings.Builder, context string) {
	bindings := m.keymap.BindingsForContext(context)
	keysByCmd := bindingKeysByCommand(bindings)
	seen := make(map[string]bool)
	for _, binding := range bindings {
		if seen[binding.Command] {
			continue
		}
		seen[binding.Command] = true
		padded := fmt.Sprintf("%-11s", formatBindingKeys(keysByCmd[binding.Command]))
		fmt.Fprintf(b, "  %s %s\n", styles.Muted.Render(padded), formatCommandName(binding.Command))
	}
}

// formatBindingKeys shows up to two keys.
func formatBindingKeys(keys []string) string {
	if len(keys) > 2 {
		keys = keys[:2]
	}
	return strings.Join(keys, ", ")
}

func formatCommandName(cmd string) string {
	return strings.ReplaceAll(cmd, "-", " ")
}
