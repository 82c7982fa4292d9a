package plugin

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/notehub/internal/api"
	"github.com/marcus/notehub/internal/config"
	"github.com/marcus/notehub/internal/keymap"
	"github.com/marcus/notehub/internal/notify"
	"github.com/marcus/notehub/internal/querycache"
)

// Plugin defines the interface for views hosted by the app.
type Plugin interface {
	ID() string
	Name() string
	Init(ctx *Context) error
	Start() tea.Cmd
	Stop()
	Update(msg tea.Msg) (Plugin, tea.Cmd)
	View(width, height int) string
	IsFocused() bool
	SetFocused(bool)
	Commands() []Command
	FocusContext() string
}

// Context carries the process-wide services a plugin depends on. It is
// built once in main and outlives every plugin.
type Context struct {
	Config *config.Config
	API    api.Service
	Cache  *querycache.Cache
	Keymap *keymap.Registry
	Logger *slog.Logger
	Sink   notify.Sink
	// Epoch changes whenever the context is re-initialized; async results
	// tagged with an older epoch are discarded.
	Epoch uint64
}

// TextInputConsumer is an optional capability for plugins that need
// alphanumeric key input to be forwarded as typed text instead of being
// intercepted by app-level shortcuts.
type TextInputConsumer interface {
	ConsumesTextInput() bool
}

// Category represents a logical grouping of commands.
type Category string

const (
	CategoryNavigation Category = "Navigation"
	CategoryActions    Category = "Actions"
	CategoryView       Category = "View"
	CategorySearch     Category = "Search"
	CategoryEdit       Category = "Edit"
	CategorySystem     Category = "System"
)

// Command represents a keybinding command exposed by a plugin.
type Command struct {
	ID          string   // Unique identifier (e.g., "new-note")
	Name        string   // Short name for footer (e.g., "New")
	Description string   // Full description
	Category    Category // Logical grouping
	Context     string   // Activation context
	Priority    int      // Footer display priority: 1=highest, 0=default (treated as 99)
}

// EpochMessage is implemented by async messages that need staleness detection.
// Messages from async operations should embed an Epoch field and implement this interface.
type EpochMessage interface {
	GetEpoch() uint64
}

// IsStale returns true if the message's epoch doesn't match the current context epoch.
// Use this in Update() handlers to discard results started before a reset:
//
//	if plugin.IsStale(p.ctx, msg) { return p, nil }
func IsStale(ctx *Context, msg EpochMessage) bool {
	return ctx != nil && msg.GetEpoch() != ctx.Epoch
}
