package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/marcus/notehub/internal/api"
	"github.com/marcus/notehub/internal/debounce"
	"github.com/marcus/notehub/internal/keymap"
	appmsg "github.com/marcus/notehub/internal/msg"
	"github.com/marcus/notehub/internal/notify"
	"github.com/marcus/notehub/internal/plugin"
	"github.com/marcus/notehub/internal/querycache"
	"github.com/marcus/notehub/internal/state"
	"github.com/marcus/notehub/internal/styles"
	"github.com/marcus/notehub/internal/ui"
)

const (
	pluginID   = "notes"
	pluginName = "notes"

	searchTimerID = "notes-search"
)

type viewMode int

const (
	modeList viewMode = iota
	modeDetail
)

// detailState is the detail view of one note.
type detailState struct {
	id      string
	note    *api.Note
	err     error
	loading bool
	scroll  int
}

// Plugin implements the notes list and detail views.
type Plugin struct {
	ctx     *plugin.Context
	focused bool

	width  int
	height int

	view    ViewState
	list    *api.NoteList // last loaded page; shown while the next one loads
	listErr error
	cursor  int
	scroll  int

	search        textinput.Model
	searchFocused bool
	searchTimer   *debounce.Timer

	mode   viewMode
	detail detailState

	form    *noteForm
	confirm *ui.ConfirmDialog
	// pendingDelete is the note the confirm dialog is asking about.
	pendingDelete string
	deleting      bool

	markdown      bool
	renderer      *glamour.TermRenderer
	rendererWidth int

	spinner spinner.Model

	listObserved   querycache.Key
	releaseList    func()
	detailObserved querycache.Key
	releaseDetail  func()
}

// New creates a new notes plugin.
func New() *Plugin {
	return &Plugin{}
}

// ID returns the plugin identifier.
func (p *Plugin) ID() string { return pluginID }

// Name returns the plugin display name.
func (p *Plugin) Name() string { return pluginName }

// Init initializes the plugin with context.
func (p *Plugin) Init(ctx *plugin.Context) error {
	if ctx == nil || ctx.API == nil || ctx.Cache == nil {
		return errors.New("notes: context requires an API service and a cache")
	}
	p.ctx = ctx
	if p.ctx.Logger == nil {
		p.ctx.Logger = slog.New(slog.DiscardHandler)
	}
	if p.ctx.Keymap == nil {
		km := keymap.NewRegistry()
		keymap.RegisterDefaults(km)
		p.ctx.Keymap = km
	}

	perPage := api.DefaultPerPage
	delay := debounce.DefaultDelay
	markdown := true
	if cfg := ctx.Config; cfg != nil {
		perPage = cfg.Notes.PerPage
		delay = cfg.Notes.Debounce
		markdown = cfg.UI.Markdown
	}
	p.view = NewViewState(state.GetPerPage(perPage))
	p.searchTimer = debounce.New(searchTimerID, delay)
	p.markdown = state.GetMarkdown(markdown)

	p.list = nil
	p.listErr = nil
	p.cursor = 0
	p.scroll = 0
	p.mode = modeList
	p.detail = detailState{}
	p.form = nil
	p.confirm = nil
	p.pendingDelete = ""
	p.deleting = false

	ti := textinput.New()
	ti.Placeholder = "Search notes"
	ti.Prompt = "/ "
	ti.CharLimit = 128
	p.search = ti
	p.searchFocused = false

	p.spinner = spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(styles.Muted))
	return nil
}

// Start loads the first page and starts cache collection.
func (p *Plugin) Start() tea.Cmd {
	return tea.Batch(p.fetchList(), p.scheduleCollect())
}

// Stop releases cache observers.
func (p *Plugin) Stop() {
	if p.releaseList != nil {
		p.releaseList()
		p.releaseList = nil
	}
	p.releaseDetailObserver()
}

// ViewState returns a copy of the list controller state.
func (p *Plugin) ViewState() ViewState { return p.view }

// Update handles messages.
func (p *Plugin) Update(msg tea.Msg) (plugin.Plugin, tea.Cmd) {
	if _, ok := msg.(appmsg.RefreshMsg); ok {
		return p, p.refresh()
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		if p.form != nil {
			p.form.setWidth(p.formWidth() - 6)
		}

	case tea.KeyMsg:
		return p.handleKey(msg)

	case debounce.FiredMsg:
		if !p.searchTimer.Accept(msg) {
			return p, nil
		}
		if p.view.SettleSearch(msg.Payload) {
			p.ctx.Logger.Debug("notes: search settled", "term", msg.Payload)
			p.cursor, p.scroll = 0, 0
			return p, p.fetchList()
		}

	case ListLoadedMsg:
		if plugin.IsStale(p.ctx, msg) {
			return p, nil
		}
		if msg.Key != p.view.Key() {
			p.ctx.Logger.Debug("notes: dropping superseded list", "key", msg.Key.String())
			return p, nil
		}
		if msg.Err != nil {
			p.listErr = msg.Err
			p.view.Failed()
			p.ctx.Logger.Error("notes: load failed", "key", msg.Key.String(), "error", msg.Err)
			return p, nil
		}
		p.listErr = nil
		p.list = msg.List
		p.view.Loaded(msg.List.TotalPages)
		// A page past the end, e.g. after deleting the last note on the last page.
		if len(msg.List.Notes) == 0 && msg.List.TotalPages >= 1 && p.view.Page > msg.List.TotalPages {
			p.view.Page = msg.List.TotalPages
			return p, p.fetchList()
		}
		p.clampCursor()

	case DetailLoadedMsg:
		if plugin.IsStale(p.ctx, msg) {
			return p, nil
		}
		if p.mode != modeDetail || msg.ID != p.detail.id {
			return p, nil
		}
		p.detail.loading = false
		if msg.Err != nil {
			p.detail.err = msg.Err
			if errors.Is(msg.Err, api.ErrNotFound) {
				p.detail.note = nil
			}
			p.ctx.Logger.Error("notes: detail load failed", "id", msg.ID, "error", msg.Err)
			return p, nil
		}
		p.detail.err = nil
		p.detail.note = msg.Note

	case NoteCreatedMsg:
		if plugin.IsStale(p.ctx, msg) {
			return p, nil
		}
		if msg.Err != nil {
			p.ctx.Logger.Error("notes: create failed", "error", msg.Err)
			if p.form != nil && p.form.mode == formCreate {
				p.form.submitting = false
				p.form.err = msg.Err
			}
			return p, nil
		}
		if msg.Note != nil {
			p.ctx.Logger.Debug("notes: created", "id", msg.Note.ID)
		}
		if p.form != nil && p.form.mode == formCreate {
			p.closeForm()
		}
		p.ctx.Cache.Invalidate(querycache.MatchKind(querycache.KindNotesList))
		return p, p.fetchList()

	case NoteDeletedMsg:
		if plugin.IsStale(p.ctx, msg) {
			return p, nil
		}
		p.deleting = false
		if msg.Err != nil {
			p.ctx.Logger.Error("notes: delete failed", "id", msg.ID, "error", msg.Err)
			return p, nil
		}
		p.ctx.Logger.Debug("notes: deleted", "id", msg.ID)
		p.ctx.Cache.Invalidate(querycache.MatchKind(querycache.KindNotesList))
		if p.mode == modeDetail && p.detail.id == msg.ID {
			p.closeDetail()
		}
		p.ctx.Cache.Remove(querycache.MatchKey(querycache.DetailKey(msg.ID)))
		return p, p.fetchList()

	case CollectTickMsg:
		if plugin.IsStale(p.ctx, msg) {
			return p, nil
		}
		if n := p.ctx.Cache.Collect(); n > 0 {
			p.ctx.Logger.Debug("notes: cache collected", "entries", n)
		}
		return p, p.scheduleCollect()

	case spinner.TickMsg:
		if !p.loading() {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	}

	return p, nil
}

func (p *Plugin) loading() bool {
	if p.mode == modeDetail && p.detail.loading {
		return true
	}
	return p.view.Phase == PhaseLoading
}

// lookup resolves a key in the current focus context only. Global keys are
// the host's concern.
func (p *Plugin) lookup(msg tea.KeyMsg) string {
	cmd, _ := p.ctx.Keymap.Lookup(msg.String(), p.FocusContext())
	return cmd
}

func (p *Plugin) handleKey(msg tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	switch {
	case p.confirm != nil:
		return p.handleConfirmKey(msg)
	case p.form != nil:
		return p.handleFormKey(msg)
	case p.searchFocused:
		return p.handleSearchKey(msg)
	case p.mode == modeDetail:
		return p.handleDetailKey(msg)
	}
	return p.handleListKey(msg)
}

func (p *Plugin) handleListKey(msg tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	switch p.lookup(msg) {
	case "cursor-down":
		if p.list != nil && p.cursor < len(p.list.Notes)-1 {
			p.cursor++
		}
	case "cursor-up":
		if p.cursor > 0 {
			p.cursor--
		}
	case "open-note":
		if n := p.selectedNote(); n != nil {
			return p, p.OpenNote(n.ID)
		}
	case "search":
		p.searchFocused = true
		return p, p.search.Focus()
	case "clear-search":
		return p, p.clearSearch()
	case "new-note":
		return p, p.openCreateForm()
	case "delete-note":
		if n := p.selectedNote(); n != nil {
			p.askDelete(n)
		}
	case "next-page":
		if p.view.NextPage() {
			p.cursor, p.scroll = 0, 0
			return p, p.fetchList()
		}
	case "prev-page":
		if p.view.PrevPage() {
			p.cursor, p.scroll = 0, 0
			return p, p.fetchList()
		}
	case "refresh":
		return p, p.refresh()
	case "toggle-markdown":
		return p, p.toggleMarkdown()
	}
	return p, nil
}

func (p *Plugin) handleSearchKey(msg tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	switch p.lookup(msg) {
	case "search-done":
		// Enter applies the term without waiting out the debounce.
		p.searchFocused = false
		p.search.Blur()
		p.searchTimer.Cancel()
		if p.view.SettleSearch(p.search.Value()) {
			p.cursor, p.scroll = 0, 0
			return p, p.fetchList()
		}
		return p, nil
	case "search-cancel":
		p.searchFocused = false
		p.search.Blur()
		return p, p.clearSearch()
	}

	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	return p, tea.Batch(cmd, p.searchChanged())
}

// searchChanged arms the debounce when the search box text changed.
func (p *Plugin) searchChanged() tea.Cmd {
	v := p.search.Value()
	if v == p.view.RawSearch {
		return nil
	}
	if p.view.SetSearchInput(v) {
		return p.searchTimer.Arm(v)
	}
	p.searchTimer.Cancel()
	return nil
}

func (p *Plugin) clearSearch() tea.Cmd {
	p.search.SetValue("")
	p.searchTimer.Cancel()
	p.view.SetSearchInput("")
	if p.view.SettleSearch("") {
		p.cursor, p.scroll = 0, 0
		return p.fetchList()
	}
	return nil
}

func (p *Plugin) handleDetailKey(msg tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	switch p.lookup(msg) {
	case "back":
		p.closeDetail()
		return p, p.fetchList()
	case "edit-note":
		if p.detail.note != nil {
			p.form = newNoteForm(formEdit, p.detail.note)
			p.form.setWidth(p.formWidth() - 6)
		}
	case "delete-note":
		if p.detail.note != nil {
			p.askDelete(p.detail.note)
		}
	case "yank-content":
		return p, p.yankContent()
	case "yank-title":
		return p, p.yankTitle()
	case "toggle-markdown":
		return p, p.toggleMarkdown()
	case "refresh":
		p.ctx.Cache.Invalidate(querycache.MatchKey(querycache.DetailKey(p.detail.id)))
		return p, p.fetchDetail(p.detail.id)
	case "scroll-down":
		p.detail.scroll++
	case "scroll-up":
		if p.detail.scroll > 0 {
			p.detail.scroll--
		}
	}
	return p, nil
}

func (p *Plugin) handleFormKey(msg tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	if p.form.submitting {
		return p, nil
	}
	switch p.lookup(msg) {
	case "save":
		return p, p.submitForm()
	case "cancel":
		p.closeForm()
		return p, nil
	case "next-field":
		return p, p.form.nextField()
	case "prev-field":
		return p, p.form.prevField()
	case "cycle-tag":
		p.form.cycleTag(1)
		return p, nil
	}
	return p, p.form.update(msg)
}

func (p *Plugin) handleConfirmKey(msg tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	switch p.confirm.HandleKey(msg) {
	case ui.ActionConfirm:
		id := p.pendingDelete
		p.confirm = nil
		p.pendingDelete = ""
		p.deleting = true
		return p, p.deleteNote(id)
	case ui.ActionCancel:
		p.confirm = nil
		p.pendingDelete = ""
	}
	return p, nil
}

// OpenNote switches to the detail view of id and loads it.
func (p *Plugin) OpenNote(id string) tea.Cmd {
	p.mode = modeDetail
	p.detail = detailState{id: id}
	if e, ok := p.ctx.Cache.Get(querycache.DetailKey(id)); ok && e.HasData {
		if n, ok := e.Data.(*api.Note); ok {
			p.detail.note = n
		}
	}
	return p.fetchDetail(id)
}

func (p *Plugin) closeDetail() {
	p.mode = modeList
	p.detail = detailState{}
	p.releaseDetailObserver()
	if p.form != nil && p.form.mode == formEdit {
		p.form = nil
	}
}

func (p *Plugin) openCreateForm() tea.Cmd {
	p.form = newNoteForm(formCreate, nil)
	p.form.setWidth(p.formWidth() - 6)
	p.view.ModalOpen = true
	return textinput.Blink
}

func (p *Plugin) closeForm() {
	if p.form != nil && p.form.mode == formCreate {
		p.view.ModalOpen = false
	}
	p.form = nil
}

func (p *Plugin) submitForm() tea.Cmd {
	switch p.form.mode {
	case formCreate:
		p.form.submitting = true
		p.form.err = nil
		return p.createNote(p.form.params())
	case formEdit:
		p.saveEdit()
	}
	return nil
}

// saveEdit applies the edit form to the cached note. The service has no
// update call, so the edit lives in the detail entry and list pages are
// invalidated.
func (p *Plugin) saveEdit() {
	if p.detail.note == nil {
		p.closeForm()
		return
	}
	params := p.form.params()
	n := *p.detail.note
	n.Title = params.Title
	n.Content = params.Content
	n.Tag = params.Tag
	now := time.Now().UTC()
	n.UpdatedAt = &now

	p.ctx.Cache.SetData(querycache.DetailKey(n.ID), &n)
	p.ctx.Cache.Invalidate(querycache.MatchKind(querycache.KindNotesList))
	p.detail.note = &n
	p.detail.err = nil
	p.closeForm()
	notify.Emit(context.Background(), p.ctx.Sink, notify.Success("Note updated successfully"))
}

func (p *Plugin) askDelete(n *api.Note) {
	title := n.Title
	if title == "" {
		title = "this note"
	} else {
		title = fmt.Sprintf("%q", truncateTitle(title, 30))
	}
	d := ui.NewConfirmDialog("Delete note?", "Delete "+title+"? This cannot be undone.")
	d.ConfirmLabel = " Delete "
	d.Danger = true
	p.confirm = d
	p.pendingDelete = n.ID
}

// refresh invalidates and reloads whatever is on screen.
func (p *Plugin) refresh() tea.Cmd {
	if p.mode == modeDetail {
		p.ctx.Cache.Invalidate(querycache.MatchKey(querycache.DetailKey(p.detail.id)))
		return p.fetchDetail(p.detail.id)
	}
	p.ctx.Cache.Invalidate(querycache.MatchKey(p.view.Key()))
	return p.fetchList()
}

func (p *Plugin) toggleMarkdown() tea.Cmd {
	p.markdown = !p.markdown
	if err := state.SetMarkdown(p.markdown); err != nil {
		p.ctx.Logger.Warn("notes: saving markdown preference failed", "error", err)
	}
	if p.markdown {
		return appmsg.ShowToast("Markdown rendering on", 2*time.Second)
	}
	return appmsg.ShowToast("Markdown rendering off", 2*time.Second)
}

func (p *Plugin) selectedNote() *api.Note {
	if p.list == nil || p.cursor < 0 || p.cursor >= len(p.list.Notes) {
		return nil
	}
	return &p.list.Notes[p.cursor]
}

func (p *Plugin) clampCursor() {
	n := 0
	if p.list != nil {
		n = len(p.list.Notes)
	}
	if p.cursor >= n {
		p.cursor = n - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// yankContent copies the open note's content to the system clipboard.
func (p *Plugin) yankContent() tea.Cmd {
	n := p.detail.note
	if n == nil {
		return nil
	}
	if err := clipboard.WriteAll(n.Content); err != nil {
		return appmsg.ShowErrorToast("Copy failed: "+err.Error(), 2*time.Second)
	}
	return appmsg.ShowToast("Copied note content", 2*time.Second)
}

// yankTitle copies the open note's title, or its first content line.
func (p *Plugin) yankTitle() tea.Cmd {
	n := p.detail.note
	if n == nil {
		return nil
	}
	title := n.Title
	if title == "" {
		title = strings.TrimSpace(strings.SplitN(n.Content, "\n", 2)[0])
	}
	if title == "" {
		return appmsg.ShowToast("No title to copy", 2*time.Second)
	}
	if err := clipboard.WriteAll(title); err != nil {
		return appmsg.ShowErrorToast("Copy failed: "+err.Error(), 2*time.Second)
	}
	return appmsg.ShowToast("Copied: "+truncateTitle(title, 30), 2*time.Second)
}

// IsFocused returns whether the plugin is focused.
func (p *Plugin) IsFocused() bool { return p.focused }

// SetFocused sets the focus state.
func (p *Plugin) SetFocused(f bool) { p.focused = f }

// Commands returns the commands available in the current context.
func (p *Plugin) Commands() []plugin.Command {
	ctx := p.FocusContext()
	switch ctx {
	case keymap.ContextConfirm:
		return []plugin.Command{
			{ID: "confirm", Name: "Delete", Description: "Confirm delete", Category: plugin.CategoryActions, Context: ctx, Priority: 1},
			{ID: "cancel", Name: "Cancel", Description: "Keep the note", Category: plugin.CategoryActions, Context: ctx, Priority: 2},
		}
	case keymap.ContextNoteCreate, keymap.ContextNoteEdit:
		cmds := []plugin.Command{
			{ID: "save", Name: "Save", Description: "Save note", Category: plugin.CategoryEdit, Context: ctx, Priority: 1},
			{ID: "cancel", Name: "Cancel", Description: "Discard changes", Category: plugin.CategoryEdit, Context: ctx, Priority: 2},
			{ID: "next-field", Name: "Next", Description: "Next field", Category: plugin.CategoryNavigation, Context: ctx, Priority: 3},
		}
		if ctx == keymap.ContextNoteCreate {
			cmds = append(cmds, plugin.Command{ID: "cycle-tag", Name: "Tag", Description: "Cycle tag", Category: plugin.CategoryEdit, Context: ctx, Priority: 4})
		}
		return cmds
	case keymap.ContextNotesSearch:
		return []plugin.Command{
			{ID: "search-done", Name: "Apply", Description: "Apply search", Category: plugin.CategorySearch, Context: ctx, Priority: 1},
			{ID: "search-cancel", Name: "Clear", Description: "Clear search", Category: plugin.CategorySearch, Context: ctx, Priority: 2},
		}
	case keymap.ContextNoteDetail:
		return []plugin.Command{
			{ID: "back", Name: "Back", Description: "Back to notes", Category: plugin.CategoryNavigation, Context: ctx, Priority: 1},
			{ID: "edit-note", Name: "Edit", Description: "Edit note", Category: plugin.CategoryEdit, Context: ctx, Priority: 2},
			{ID: "delete-note", Name: "Delete", Description: "Delete note", Category: plugin.CategoryActions, Context: ctx, Priority: 3},
			{ID: "yank-content", Name: "Yank", Description: "Copy note content", Category: plugin.CategoryActions, Context: ctx, Priority: 4},
			{ID: "toggle-markdown", Name: "Markdown", Description: "Toggle markdown rendering", Category: plugin.CategoryView, Context: ctx, Priority: 5},
			{ID: "refresh", Name: "Reload", Description: "Reload note", Category: plugin.CategoryActions, Context: ctx, Priority: 6},
		}
	}

	cmds := []plugin.Command{
		{ID: "open-note", Name: "Open", Description: "Open note", Category: plugin.CategoryNavigation, Context: ctx, Priority: 1},
		{ID: "search", Name: "Search", Description: "Search notes", Category: plugin.CategorySearch, Context: ctx, Priority: 2},
		{ID: "new-note", Name: "New", Description: "Create note", Category: plugin.CategoryActions, Context: ctx, Priority: 3},
		{ID: "delete-note", Name: "Delete", Description: "Delete selected note", Category: plugin.CategoryActions, Context: ctx, Priority: 4},
	}
	if p.view.CanPaginate() {
		cmds = append(cmds,
			plugin.Command{ID: "next-page", Name: "Next", Description: "Next page", Category: plugin.CategoryNavigation, Context: ctx, Priority: 5},
			plugin.Command{ID: "prev-page", Name: "Prev", Description: "Previous page", Category: plugin.CategoryNavigation, Context: ctx, Priority: 6},
		)
	}
	name := "Refresh"
	if p.listErr != nil {
		name = "Try again"
	}
	cmds = append(cmds, plugin.Command{ID: "refresh", Name: name, Description: "Reload notes", Category: plugin.CategoryActions, Context: ctx, Priority: 7})
	if p.view.DebouncedSearch != "" {
		cmds = append(cmds, plugin.Command{ID: "clear-search", Name: "Clear", Description: "Clear search", Category: plugin.CategorySearch, Context: ctx, Priority: 8})
	}
	return cmds
}

// FocusContext returns the current focus context.
func (p *Plugin) FocusContext() string {
	switch {
	case p.confirm != nil:
		return keymap.ContextConfirm
	case p.form != nil && p.form.mode == formEdit:
		return keymap.ContextNoteEdit
	case p.form != nil:
		return keymap.ContextNoteCreate
	case p.searchFocused:
		return keymap.ContextNotesSearch
	case p.mode == modeDetail:
		return keymap.ContextNoteDetail
	}
	return keymap.ContextNotesList
}

// ConsumesTextInput reports whether printable keys belong to a text field.
func (p *Plugin) ConsumesTextInput() bool {
	return p.searchFocused || p.form != nil
}

// truncateTitle truncates a title to maxLen runes with an ellipsis.
func truncateTitle(title string, maxLen int) string {
	r := []rune(title)
	if len(r) <= maxLen {
		return title
	}
	return string(r[:maxLen-1]) + "…"
}
