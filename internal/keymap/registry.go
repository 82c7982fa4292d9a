package keymap

import (
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Binding maps a key to a command within a context.
type Binding struct {
	Key     string // bubbletea key string, e.g. "ctrl+s"
	Command string // command ID
	Context string // activation context
}

// Registry resolves keys to command IDs per context. User overrides
// rebind a key to a command in every context that command appears in.
type Registry struct {
	mu        sync.RWMutex
	bindings  map[string][]Binding // context -> bindings
	overrides map[string]string    // key -> command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		bindings:  make(map[string][]Binding),
		overrides: make(map[string]string),
	}
}

// RegisterBinding adds a binding.
func (r *Registry) RegisterBinding(b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[b.Context] = append(r.bindings[b.Context], b)
}

// SetUserOverride binds key to command wherever command is available.
func (r *Registry) SetUserOverride(key, command string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[key] = command
}

// BindingsForContext returns the effective bindings of a context with user
// overrides applied.
func (r *Registry) BindingsForContext(context string) []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defaults := r.bindings[context]
	commands := make(map[string]bool, len(defaults))
	for _, b := range defaults {
		commands[b.Command] = true
	}

	out := make([]Binding, 0, len(defaults)+len(r.overrides))
	for _, b := range defaults {
		if _, overridden := r.overrides[b.Key]; overridden {
			continue
		}
		out = append(out, b)
	}
	for k, cmd := range r.overrides {
		if commands[cmd] {
			out = append(out, Binding{Key: k, Command: cmd, Context: context})
		}
	}
	return out
}

// Lookup returns the command bound to key in context.
func (r *Registry) Lookup(key, context string) (string, bool) {
	for _, b := range r.BindingsForContext(context) {
		if b.Key == key {
			return b.Command, true
		}
	}
	return "", false
}

// Command resolves a key message in context, falling back to global.
func (r *Registry) Command(msg tea.KeyMsg, context string) string {
	if cmd, ok := r.Lookup(msg.String(), context); ok {
		return cmd
	}
	if context != ContextGlobal {
		if cmd, ok := r.Lookup(msg.String(), ContextGlobal); ok {
			return cmd
		}
	}
	return ""
}

// KeysFor returns the keys bound to command in context, in registration order.
func (r *Registry) KeysFor(context, command string) []string {
	var keys []string
	for _, b := range r.BindingsForContext(context) {
		if b.Command == command {
			keys = append(keys, b.Key)
		}
	}
	return keys
}

// HelpBinding returns a bubbles key.Binding for footer and help rendering.
// It is disabled when the command has no key in context.
func (r *Registry) HelpBinding(context, command, desc string) key.Binding {
	keys := r.KeysFor(context, command)
	if len(keys) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(formatKeys(keys), desc),
	)
}

func formatKeys(keys []string) string {
	if len(keys) > 2 {
		keys = keys[:2]
	}
	return strings.Join(keys, "/")
}
