package api

import (
	"context"
	"time"
)

// Note is the canonical note shape used past the API boundary.
type Note struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Tag       string     `json:"tag,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// WasEdited reports whether the note carries an update time distinct from
// its creation time.
func (n Note) WasEdited() bool {
	return n.UpdatedAt != nil && !n.UpdatedAt.Equal(n.CreatedAt)
}

// NoteList is one page of notes.
type NoteList struct {
	Page       int    `json:"page"`
	PerPage    int    `json:"perPage"`
	Notes      []Note `json:"notes"`
	TotalPages int    `json:"totalPages"`
}

// ListParams selects a page of notes.
type ListParams struct {
	Page    int
	PerPage int
	Search  string // omitted from the request when empty
}

// CreateParams holds the fields of a new note.
type CreateParams struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tag     string `json:"tag,omitempty"`
}

// Tags accepted by the NoteHub service.
var Tags = []string{"Todo", "Work", "Personal", "Meeting", "Shopping"}

// DefaultPerPage is the page size used when none is configured.
const DefaultPerPage = 12

// Service is the remote notes contract consumed by the UI and CLI.
type Service interface {
	ListNotes(ctx context.Context, params ListParams) (*NoteList, error)
	GetNote(ctx context.Context, id string) (*Note, error)
	CreateNote(ctx context.Context, params CreateParams) (*Note, error)
	DeleteNote(ctx context.Context, id string) (*Note, error)
}
