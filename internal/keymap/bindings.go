package keymap

// Contexts used by the notes views.
const (
	ContextGlobal      = "global"
	ContextNotesList   = "notes-list"
	ContextNotesSearch = "notes-search"
	ContextNoteDetail  = "notes-detail"
	ContextNoteEdit    = "notes-edit"
	ContextNoteCreate  = "notes-create"
	ContextConfirm     = "notes-confirm"
)

// DefaultBindings returns the default key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		// Global bindings
		{Key: "q", Command: "quit", Context: ContextGlobal},
		{Key: "ctrl+c", Command: "quit", Context: ContextGlobal},
		{Key: "ctrl+h", Command: "toggle-footer", Context: ContextGlobal},
		{Key: "?", Command: "toggle-help", Context: ContextGlobal},

		// Notes list
		{Key: "j", Command: "cursor-down", Context: ContextNotesList},
		{Key: "down", Command: "cursor-down", Context: ContextNotesList},
		{Key: "k", Command: "cursor-up", Context: ContextNotesList},
		{Key: "up", Command: "cursor-up", Context: ContextNotesList},
		{Key: "enter", Command: "open-note", Context: ContextNotesList},
		{Key: "/", Command: "search", Context: ContextNotesList},
		{Key: "n", Command: "new-note", Context: ContextNotesList},
		{Key: "d", Command: "delete-note", Context: ContextNotesList},
		{Key: "l", Command: "next-page", Context: ContextNotesList},
		{Key: "right", Command: "next-page", Context: ContextNotesList},
		{Key: "h", Command: "prev-page", Context: ContextNotesList},
		{Key: "left", Command: "prev-page", Context: ContextNotesList},
		{Key: "r", Command: "refresh", Context: ContextNotesList},
		{Key: "m", Command: "toggle-markdown", Context: ContextNotesList},
		{Key: "esc", Command: "clear-search", Context: ContextNotesList},

		// Search box focused
		{Key: "enter", Command: "search-done", Context: ContextNotesSearch},
		{Key: "esc", Command: "search-cancel", Context: ContextNotesSearch},

		// Note detail
		{Key: "esc", Command: "back", Context: ContextNoteDetail},
		{Key: "backspace", Command: "back", Context: ContextNoteDetail},
		{Key: "e", Command: "edit-note", Context: ContextNoteDetail},
		{Key: "d", Command: "delete-note", Context: ContextNoteDetail},
		{Key: "y", Command: "yank-content", Context: ContextNoteDetail},
		{Key: "Y", Command: "yank-title", Context: ContextNoteDetail},
		{Key: "m", Command: "toggle-markdown", Context: ContextNoteDetail},
		{Key: "r", Command: "refresh", Context: ContextNoteDetail},
		{Key: "j", Command: "scroll-down", Context: ContextNoteDetail},
		{Key: "down", Command: "scroll-down", Context: ContextNoteDetail},
		{Key: "k", Command: "scroll-up", Context: ContextNoteDetail},
		{Key: "up", Command: "scroll-up", Context: ContextNoteDetail},

		// Edit form
		{Key: "ctrl+s", Command: "save", Context: ContextNoteEdit},
		{Key: "esc", Command: "cancel", Context: ContextNoteEdit},
		{Key: "tab", Command: "next-field", Context: ContextNoteEdit},
		{Key: "shift+tab", Command: "prev-field", Context: ContextNoteEdit},

		// Create modal
		{Key: "ctrl+s", Command: "save", Context: ContextNoteCreate},
		{Key: "esc", Command: "cancel", Context: ContextNoteCreate},
		{Key: "tab", Command: "next-field", Context: ContextNoteCreate},
		{Key: "shift+tab", Command: "prev-field", Context: ContextNoteCreate},
		{Key: "ctrl+t", Command: "cycle-tag", Context: ContextNoteCreate},

		// Delete confirmation
		{Key: "y", Command: "confirm", Context: ContextConfirm},
		{Key: "enter", Command: "confirm", Context: ContextConfirm},
		{Key: "n", Command: "cancel", Context: ContextConfirm},
		{Key: "esc", Command: "cancel", Context: ContextConfirm},
		{Key: "tab", Command: "switch-button", Context: ContextConfirm},
		{Key: "left", Command: "switch-button", Context: ContextConfirm},
		{Key: "right", Command: "switch-button", Context: ContextConfirm},
	}
}

// RegisterDefaults registers all default bindings with the registry.
func RegisterDefaults(r *Registry) {
	for _, b := range DefaultBindings() {
		r.RegisterBinding(b)
	}
}
