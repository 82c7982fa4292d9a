package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

func TestCommandResolution(t *testing.T) {
	r := newDefaultRegistry()

	tests := []struct {
		name    string
		msg     tea.KeyMsg
		context string
		want    string
	}{
		{"context binding", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}, ContextNotesList, "new-note"},
		{"same key other context", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}, ContextConfirm, "cancel"},
		{"global fallback", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, ContextNotesList, "quit"},
		{"special key", tea.KeyMsg{Type: tea.KeyCtrlS}, ContextNoteCreate, "save"},
		{"unbound", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}}, ContextNotesList, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Command(tt.msg, tt.context); got != tt.want {
				t.Errorf("Command(%q, %q) = %q, want %q", tt.msg.String(), tt.context, got, tt.want)
			}
		})
	}
}

func TestUserOverride(t *testing.T) {
	r := newDefaultRegistry()
	r.SetUserOverride("a", "new-note")
	r.SetUserOverride("d", "refresh")

	if cmd, ok := r.Lookup("a", ContextNotesList); !ok || cmd != "new-note" {
		t.Errorf("override a -> %q, %v", cmd, ok)
	}
	if cmd, _ := r.Lookup("d", ContextNotesList); cmd != "refresh" {
		t.Errorf("overridden d resolves to %q, want refresh", cmd)
	}
	// refresh exists in detail too, so d follows the override there
	if cmd, _ := r.Lookup("d", ContextNoteDetail); cmd != "refresh" {
		t.Errorf("detail d resolves to %q, want refresh", cmd)
	}
	// new-note is not a detail command, so a stays unbound there
	if _, ok := r.Lookup("a", ContextNoteDetail); ok {
		t.Error("override leaked into a context without the command")
	}
}

func TestHelpBinding(t *testing.T) {
	r := newDefaultRegistry()
	b := r.HelpBinding(ContextNotesList, "next-page", "next")
	if !b.Enabled() {
		t.Fatal("binding should be enabled")
	}
	if got := b.Help().Key; got != "l/right" {
		t.Errorf("help key = %q, want l/right", got)
	}
	if !key.Matches(tea.KeyMsg{Type: tea.KeyRight}, b) {
		t.Error("right arrow should match next-page")
	}
	if r.HelpBinding(ContextNotesList, "no-such", "x").Enabled() {
		t.Error("unknown command should be disabled")
	}
}
