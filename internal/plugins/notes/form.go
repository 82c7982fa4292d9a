package notes

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/notehub/internal/api"
	"github.com/marcus/notehub/internal/styles"
)

type formField int

const (
	fieldTitle formField = iota
	fieldContent
	fieldTag
	fieldCount
)

type formMode int

const (
	formCreate formMode = iota
	formEdit
)

// noteForm is the create modal and the detail edit form.
type noteForm struct {
	mode       formMode
	noteID     string // set when editing
	title      textinput.Model
	content    textarea.Model
	tags       []string // "" first for no tag
	tagIdx     int
	focus      formField
	submitting bool
	err        error
}

func newNoteForm(mode formMode, n *api.Note) *noteForm {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = 256
	ti.Prompt = ""

	ta := textarea.New()
	ta.Placeholder = "Content"
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.SetHeight(6)

	f := &noteForm{mode: mode, title: ti, content: ta, tags: append([]string{""}, api.Tags...)}
	if n != nil {
		f.noteID = n.ID
		f.title.SetValue(n.Title)
		f.content.SetValue(n.Content)
		f.tagIdx = f.tagIndex(n.Tag)
	}
	f.title.Focus()
	return f
}

// tagIndex selects tag, adding it as an option when the service returned a
// tag outside the known set.
func (f *noteForm) tagIndex(tag string) int {
	for i, t := range f.tags {
		if strings.EqualFold(t, tag) {
			return i
		}
	}
	f.tags = append(f.tags, tag)
	return len(f.tags) - 1
}

func (f *noteForm) tag() string { return f.tags[f.tagIdx] }

func (f *noteForm) params() api.CreateParams {
	return api.CreateParams{
		Title:   f.title.Value(),
		Content: f.content.Value(),
		Tag:     f.tag(),
	}
}

func (f *noteForm) setFocus(field formField) tea.Cmd {
	f.focus = field
	f.title.Blur()
	f.content.Blur()
	switch field {
	case fieldTitle:
		return f.title.Focus()
	case fieldContent:
		return f.content.Focus()
	}
	return nil
}

func (f *noteForm) nextField() tea.Cmd { return f.setFocus((f.focus + 1) % fieldCount) }

func (f *noteForm) prevField() tea.Cmd { return f.setFocus((f.focus + fieldCount - 1) % fieldCount) }

func (f *noteForm) cycleTag(delta int) {
	n := len(f.tags)
	f.tagIdx = ((f.tagIdx+delta)%n + n) % n
}

// update forwards input to the focused field.
func (f *noteForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldContent:
		f.content, cmd = f.content.Update(msg)
	case fieldTag:
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "left", "h":
				f.cycleTag(-1)
			case "right", "l", " ":
				f.cycleTag(1)
			}
		}
	}
	return cmd
}

func (f *noteForm) setWidth(w int) {
	if w < 20 {
		w = 20
	}
	f.title.Width = w
	f.content.SetWidth(w)
}

func (f *noteForm) label(field formField, text string) string {
	if f.focus == field {
		return styles.FieldLabelFocused.Render(text)
	}
	return styles.FieldLabel.Render(text)
}

func (f *noteForm) view(width int) string {
	heading := "New note"
	if f.mode == formEdit {
		heading = "Edit note"
	}

	tags := make([]string, len(f.tags))
	for i, t := range f.tags {
		if t == "" {
			t = "None"
		}
		if i == f.tagIdx {
			tags[i] = styles.PageChipActive.Render(t)
		} else {
			tags[i] = styles.PageChip.Render(t)
		}
	}

	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render(heading))
	b.WriteString("\n")
	b.WriteString(f.label(fieldTitle, "Title"))
	b.WriteString("\n")
	b.WriteString(f.title.View())
	b.WriteString("\n\n")
	b.WriteString(f.label(fieldContent, "Content"))
	b.WriteString("\n")
	b.WriteString(f.content.View())
	b.WriteString("\n\n")
	b.WriteString(f.label(fieldTag, "Tag"))
	b.WriteString("\n")
	b.WriteString(strings.Join(tags, " "))
	b.WriteString("\n\n")
	switch {
	case f.submitting:
		b.WriteString(styles.Muted.Render("Saving..."))
	case f.err != nil:
		b.WriteString(styles.ErrorText.Render(f.err.Error()))
	default:
		b.WriteString(styles.Muted.Render("ctrl+s save · esc cancel · tab next field"))
	}
	return styles.ModalBox.Width(width).Render(b.String())
}
