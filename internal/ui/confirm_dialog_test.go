package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNewConfirmDialog(t *testing.T) {
	d := NewConfirmDialog("Test Title", "Test message")

	if d.Title != "Test Title" {
		t.Errorf("expected title 'Test Title', got %q", d.Title)
	}
	if d.ConfirmLabel != " Confirm " || d.CancelLabel != " Cancel " {
		t.Errorf("unexpected labels %q / %q", d.ConfirmLabel, d.CancelLabel)
	}
	if d.Width != ModalWidthMedium {
		t.Errorf("expected width %d, got %d", ModalWidthMedium, d.Width)
	}
	if d.Focused() != ActionConfirm {
		t.Errorf("confirm should be focused first, got %q", d.Focused())
	}
}

func TestConfirmDialog_View(t *testing.T) {
	d := NewConfirmDialog("Delete note?", "Are you sure?")
	d.ConfirmLabel = " Delete "
	d.Danger = true

	output := d.View()
	for _, want := range []string{"Delete note?", "Are you sure?", "Delete", "Cancel"} {
		if !strings.Contains(output, want) {
			t.Errorf("render should contain %q", want)
		}
	}
}

func TestConfirmDialog_HandleKey(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want string
	}{
		{"enter confirms", []tea.KeyMsg{{Type: tea.KeyEnter}}, ActionConfirm},
		{"y confirms", []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune{'y'}}}, ActionConfirm},
		{"esc cancels", []tea.KeyMsg{{Type: tea.KeyEsc}}, ActionCancel},
		{"n cancels", []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune{'n'}}}, ActionCancel},
		{"tab then enter cancels", []tea.KeyMsg{{Type: tea.KeyTab}, {Type: tea.KeyEnter}}, ActionCancel},
		{"focus wraps", []tea.KeyMsg{{Type: tea.KeyRight}, {Type: tea.KeyLeft}, {Type: tea.KeyEnter}}, ActionConfirm},
		{"unrelated key", []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune{'x'}}}, ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewConfirmDialog("t", "m")
			var got string
			for _, k := range tt.keys {
				got = d.HandleKey(k)
			}
			if got != tt.want {
				t.Errorf("action = %q, want %q", got, tt.want)
			}
		})
	}
}
