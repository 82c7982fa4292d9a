package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The service has shipped several response shapes for the same endpoints:
// list bodies as {notes, totalPages} or {data, total_pages}, sometimes nested
// under "data"; single notes either bare or wrapped in {"note": ...}; ids as
// strings or numbers. Everything is folded into Note and NoteList here.

var (
	listArrayFields = []string{"notes", "data", "items", "results"}
	totalPageFields = []string{"totalPages", "total_pages", "pages"}
	totalItemFields = []string{"total", "totalItems", "total_items", "count"}
	noteWrapFields  = []string{"note", "data"}
)

var errUnrecognized = errors.New("unrecognized response shape")

// wireNote accepts both camelCase and snake_case timestamps and string or
// numeric ids.
type wireNote struct {
	ID             json.RawMessage `json:"id"`
	MongoID        json.RawMessage `json:"_id"`
	Title          *string         `json:"title"`
	Content        *string         `json:"content"`
	Tag            string          `json:"tag"`
	CreatedAt      string          `json:"createdAt"`
	CreatedAtSnake string          `json:"created_at"`
	UpdatedAt      string          `json:"updatedAt"`
	UpdatedAtSnake string          `json:"updated_at"`
}

func (w wireNote) toNote() (Note, error) {
	raw := w.ID
	if len(raw) == 0 || string(raw) == "null" {
		raw = w.MongoID
	}
	id, err := decodeID(raw)
	if err != nil {
		return Note{}, err
	}
	if w.Title == nil || w.Content == nil {
		return Note{}, fmt.Errorf("note %s: missing title or content: %w", id, errUnrecognized)
	}
	n := Note{
		ID:      id,
		Title:   *w.Title,
		Content: *w.Content,
		Tag:     w.Tag,
	}
	n.CreatedAt = parseTime(firstNonEmpty(w.CreatedAt, w.CreatedAtSnake))
	if updated := firstNonEmpty(w.UpdatedAt, w.UpdatedAtSnake); updated != "" {
		t := parseTime(updated)
		if !t.IsZero() {
			n.UpdatedAt = &t
		}
	}
	return n, nil
}

// decodeID canonicalizes a JSON string or number id to a string.
func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", fmt.Errorf("missing id: %w", errUnrecognized)
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		if s == "" {
			return "", fmt.Errorf("empty id: %w", errUnrecognized)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("id %s: %w", raw, errUnrecognized)
	}
	return n.String(), nil
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// decodeNote reads a single note, bare or wrapped.
func decodeNote(body []byte) (*Note, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("decode note: %w", err)
	}
	if _, hasID := fields["id"]; !hasID {
		if _, hasMongoID := fields["_id"]; !hasMongoID {
			for _, name := range noteWrapFields {
				if inner, ok := fields[name]; ok && isObject(inner) {
					return decodeNote(inner)
				}
			}
		}
	}
	var w wireNote
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("decode note: %w", err)
	}
	n, err := w.toNote()
	if err != nil {
		return nil, fmt.Errorf("decode note: %w", err)
	}
	return &n, nil
}

// decodeList reads a page of notes. params supplies page and perPage when
// the body does not echo them.
func decodeList(body []byte, params ListParams) (*NoteList, error) {
	return decodeListIn(body, params, nil)
}

// decodeListIn decodes body, falling back to outer for paging fields when
// the notes array was nested under "data".
func decodeListIn(body []byte, params ListParams, outer map[string]json.RawMessage) (*NoteList, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("decode note list: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("decode note list: no notes array: %w", errUnrecognized)
	}
	for k, v := range outer {
		if _, ok := fields[k]; !ok {
			fields[k] = v
		}
	}

	var items json.RawMessage
	for _, name := range listArrayFields {
		if v, ok := fields[name]; ok && isArray(v) {
			items = v
			break
		}
	}
	if items == nil {
		if inner, ok := fields["data"]; ok && isObject(inner) && outer == nil {
			return decodeListIn(inner, params, fields)
		}
		return nil, fmt.Errorf("decode note list: no notes array: %w", errUnrecognized)
	}

	var wires []wireNote
	if err := json.Unmarshal(items, &wires); err != nil {
		return nil, fmt.Errorf("decode note list: %w", err)
	}
	notes := make([]Note, 0, len(wires))
	for _, w := range wires {
		n, err := w.toNote()
		if err != nil {
			return nil, fmt.Errorf("decode note list: %w", err)
		}
		notes = append(notes, n)
	}

	list := &NoteList{
		Page:    intField(fields, params.Page, "page"),
		PerPage: intField(fields, params.PerPage, "perPage", "per_page"),
		Notes:   notes,
	}

	if total, ok := lookupInt(fields, totalPageFields...); ok {
		list.TotalPages = total
	} else if items, ok := lookupInt(fields, totalItemFields...); ok && list.PerPage > 0 {
		list.TotalPages = (items + list.PerPage - 1) / list.PerPage
	} else if len(notes) > 0 {
		list.TotalPages = list.Page
	}
	return list, nil
}

func intField(fields map[string]json.RawMessage, fallback int, names ...string) int {
	if v, ok := lookupInt(fields, names...); ok && v > 0 {
		return v
	}
	return fallback
}

func lookupInt(fields map[string]json.RawMessage, names ...string) (int, bool) {
	for _, name := range names {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		s := strings.Trim(string(bytes.TrimSpace(raw)), `"`)
		if v, err := strconv.Atoi(s); err == nil {
			return v, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), true
		}
	}
	return 0, false
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}
