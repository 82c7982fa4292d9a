package notes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/marcus/notehub/internal/api"
	"github.com/marcus/notehub/internal/styles"
	"github.com/marcus/notehub/internal/ui"
)

const (
	titleColumnWidth = 28
	tagColumnWidth   = 10
	maxPageChips     = 7
	dateLayout       = "2006-01-02 15:04"
)

// View renders the plugin.
func (p *Plugin) View(width, height int) string {
	p.width = width
	p.height = height

	var content string
	if p.mode == modeDetail {
		content = p.renderDetail(width, height)
	} else {
		content = p.renderList(width, height)
	}

	switch {
	case p.confirm != nil:
		return ui.OverlayModal(content, p.confirm.View(), width, height)
	case p.form != nil:
		return ui.OverlayModal(content, p.form.view(p.formWidth()), width, height)
	}
	return content
}

func (p *Plugin) formWidth() int {
	w := p.width - 8
	if w > ui.ModalWidthLarge {
		w = ui.ModalWidthLarge
	}
	if w < ui.ModalWidthSmall {
		w = ui.ModalWidthSmall
	}
	return w
}

func (p *Plugin) renderList(width, height int) string {
	var lines []string
	lines = append(lines, p.renderListHeader(width), "")

	bodyHeight := height - 4 // header, blank, blank, pagination
	switch {
	case p.list == nil && p.listErr != nil:
		lines = append(lines,
			styles.ErrorText.Render("Could not load notes."),
			styles.Muted.Render(errorSummary(p.listErr)),
			"",
			styles.Muted.Render("Press r to try again."),
		)
	case p.list == nil:
		lines = append(lines, styles.Muted.Render(p.spinner.View()+" Loading notes..."))
	case len(p.list.Notes) == 0:
		if p.view.DebouncedSearch != "" {
			lines = append(lines, styles.Muted.Render(fmt.Sprintf("No notes match %q.", p.view.DebouncedSearch)))
		} else {
			lines = append(lines, styles.Muted.Render("No notes yet. Press n to create one."))
		}
	default:
		lines = append(lines, p.renderRows(width, bodyHeight)...)
	}

	if pager := p.renderPagination(); pager != "" {
		for len(lines) < height-1 {
			lines = append(lines, "")
		}
		lines = append(lines, pager)
	}
	return strings.Join(lines, "\n")
}

func (p *Plugin) renderListHeader(width int) string {
	title := styles.Logo.Render("NoteHub")
	search := p.search.View()
	if !p.searchFocused && p.search.Value() == "" {
		search = styles.Muted.Render("/ search")
	}

	var status string
	switch {
	case p.view.Phase == PhaseLoading && p.list != nil:
		status = p.spinner.View()
	case p.view.Phase == PhaseDebouncing:
		status = styles.Subtle.Render("…")
	case p.listErr != nil && p.list != nil:
		status = styles.ErrorText.Render("offline data")
	}

	left := lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", search)
	gap := width - ansi.StringWidth(left) - ansi.StringWidth(status)
	if gap < 1 {
		gap = 1
	}
	return ansi.Truncate(left+strings.Repeat(" ", gap)+status, width, "")
}

func (p *Plugin) renderRows(width, height int) []string {
	notes := p.list.Notes
	if height < 1 {
		height = 1
	}
	// Keep the cursor on screen.
	if p.cursor < p.scroll {
		p.scroll = p.cursor
	}
	if p.cursor >= p.scroll+height {
		p.scroll = p.cursor - height + 1
	}

	end := p.scroll + height
	if end > len(notes) {
		end = len(notes)
	}
	rows := make([]string, 0, end-p.scroll)
	for i := p.scroll; i < end; i++ {
		rows = append(rows, p.renderRow(notes[i], i == p.cursor, width))
	}
	return rows
}

func (p *Plugin) renderRow(n api.Note, selected bool, width int) string {
	cursor := "  "
	if selected {
		cursor = styles.ListCursor.Render("> ")
	}
	title := n.Title
	if title == "" {
		title = "(untitled)"
	}
	title = runewidth.FillRight(runewidth.Truncate(title, titleColumnWidth, "…"), titleColumnWidth)
	tag := runewidth.FillRight(n.Tag, tagColumnWidth)
	snippet := strings.Join(strings.Fields(n.Content), " ")

	row := cursor + title + " " + styles.Tag(n.Tag).Render(tag) + " " + styles.Muted.Render(snippet)
	row = ansi.Truncate(row, width, "…")
	if selected {
		return styles.ListItemSelected.Render(row)
	}
	return styles.ListItemNormal.Render(row)
}

// renderPagination draws page chips around the current page. It is empty
// when there is only one page.
func (p *Plugin) renderPagination() string {
	if !p.view.CanPaginate() {
		return ""
	}
	total, cur := p.view.TotalPages, p.view.Page
	start := cur - maxPageChips/2
	if start < 1 {
		start = 1
	}
	end := start + maxPageChips - 1
	if end > total {
		end = total
		start = max(1, end-maxPageChips+1)
	}

	chips := []string{styles.Muted.Render("‹")}
	if start > 1 {
		chips = append(chips, styles.Subtle.Render("…"))
	}
	for i := start; i <= end; i++ {
		if i == cur {
			chips = append(chips, styles.PageChipActive.Render(strconv.Itoa(i)))
		} else {
			chips = append(chips, styles.PageChip.Render(strconv.Itoa(i)))
		}
	}
	if end < total {
		chips = append(chips, styles.Subtle.Render("…"))
	}
	chips = append(chips, styles.Muted.Render("›"))
	return strings.Join(chips, " ")
}

func (p *Plugin) renderDetail(width, height int) string {
	d := p.detail
	header := styles.Muted.Render("← Back to notes")

	switch {
	case d.note == nil && d.err != nil && errors.Is(d.err, api.ErrNotFound):
		return strings.Join([]string{
			header, "",
			styles.Title.Render("Note not found"),
			styles.Muted.Render("It may have been deleted."),
		}, "\n")
	case d.note == nil && d.err != nil:
		return strings.Join([]string{
			header, "",
			styles.ErrorText.Render("Could not load the note."),
			styles.Muted.Render(errorSummary(d.err)),
			"",
			styles.Muted.Render("Press r to try again."),
		}, "\n")
	case d.note == nil:
		return strings.Join([]string{header, "", styles.Muted.Render(p.spinner.View() + " Loading note...")}, "\n")
	}

	n := d.note
	title := styles.Title.Render(n.Title)
	if d.loading {
		title += " " + p.spinner.View()
	}
	meta := []string{}
	if n.Tag != "" {
		meta = append(meta, styles.Tag(n.Tag).Render(n.Tag))
	}
	if !n.CreatedAt.IsZero() {
		meta = append(meta, styles.Muted.Render("Created "+n.CreatedAt.Local().Format(dateLayout)))
	}
	if n.WasEdited() {
		meta = append(meta, styles.Muted.Render("Updated "+n.UpdatedAt.Local().Format(dateLayout)))
	}

	lines := []string{header, "", title, strings.Join(meta, "  "), ""}
	body := strings.Split(p.renderContent(n.Content, width), "\n")

	avail := height - len(lines)
	if avail < 1 {
		avail = 1
	}
	maxScroll := max(0, len(body)-avail)
	if p.detail.scroll > maxScroll {
		p.detail.scroll = maxScroll
	}
	end := min(len(body), p.detail.scroll+avail)
	lines = append(lines, body[p.detail.scroll:end]...)
	return strings.Join(lines, "\n")
}

// renderContent renders note content as markdown when enabled, falling
// back to plain wrapped text.
func (p *Plugin) renderContent(content string, width int) string {
	if width < 20 {
		width = 20
	}
	if p.markdown {
		if r := p.markdownRenderer(width); r != nil {
			if out, err := r.Render(content); err == nil {
				return strings.TrimRight(out, "\n")
			}
		}
	}
	return lipgloss.NewStyle().Width(width).Render(content)
}

func (p *Plugin) markdownRenderer(width int) *glamour.TermRenderer {
	if p.renderer != nil && p.rendererWidth == width {
		return p.renderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.MarkdownTheme),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		p.ctx.Logger.Warn("notes: markdown renderer unavailable", "error", err)
		return nil
	}
	p.renderer = r
	p.rendererWidth = width
	return r
}

// errorSummary is the user-facing text of a load error.
func errorSummary(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Kind.String() + ": " + apiErr.Message
		}
		return apiErr.Kind.String()
	}
	return err.Error()
}
