package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/marcus/notehub/internal/notify"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *notify.Recorder) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	rec := &notify.Recorder{}
	c, err := New(server.URL, "secret-token", WithSink(rec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, rec
}

func TestNew_RequiresToken(t *testing.T) {
	if _, err := New(DefaultBaseURL, ""); err == nil {
		t.Fatal("expected error for empty token")
	}
	if _, err := New(DefaultBaseURL, "   "); err == nil {
		t.Fatal("expected error for blank token")
	}
}

func TestListNotes_SearchParam(t *testing.T) {
	tests := []struct {
		name       string
		search     string
		wantSearch bool
		wantQuery  string
	}{
		{name: "empty search omitted", search: "", wantSearch: false},
		{name: "search sent verbatim", search: "foo", wantSearch: true, wantQuery: "foo"},
		{name: "search with spaces", search: "shopping list", wantSearch: true, wantQuery: "shopping list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery map[string][]string
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.Query()
				w.Write([]byte(`{"notes": [], "totalPages": 0}`))
			})

			if _, err := c.ListNotes(context.Background(), ListParams{Page: 1, PerPage: 12, Search: tt.search}); err != nil {
				t.Fatalf("ListNotes: %v", err)
			}

			values, has := gotQuery["search"]
			if has != tt.wantSearch {
				t.Fatalf("search present = %v, want %v (query %v)", has, tt.wantSearch, gotQuery)
			}
			if tt.wantSearch && (len(values) != 1 || values[0] != tt.wantQuery) {
				t.Errorf("search = %v, want exactly [%q]", values, tt.wantQuery)
			}
			if gotQuery["page"][0] != "1" || gotQuery["perPage"][0] != "12" {
				t.Errorf("unexpected paging params: %v", gotQuery)
			}
		})
	}
}

func TestListNotes_Headers(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Errorf("Authorization = %q", got)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("missing X-Request-Id")
		}
		if r.URL.Path != "/notes" {
			t.Errorf("path = %q, want /notes", r.URL.Path)
		}
		w.Write([]byte(`{"notes": [], "totalPages": 0}`))
	})
	if _, err := c.ListNotes(context.Background(), ListParams{Page: 1, PerPage: 12}); err != nil {
		t.Fatal(err)
	}
}

func TestListNotes_RejectsBadPaging(t *testing.T) {
	var calls atomic.Int32
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	_, err := c.ListNotes(context.Background(), ListParams{Page: 0, PerPage: 12})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if calls.Load() != 0 {
		t.Errorf("made %d requests for invalid params", calls.Load())
	}
	if n := len(rec.Errors()); n != 1 {
		t.Errorf("got %d error notifications, want 1", n)
	}
}

func TestListNotes_Normalizes(t *testing.T) {
	bodies := map[string]string{
		"notes/totalPages":   `{"notes": [{"id": "a1", "title": "A", "content": "B", "tag": "Todo", "createdAt": "2025-01-02T03:04:05Z"}], "totalPages": 3}`,
		"data/total_pages":   `{"data": [{"id": "a1", "title": "A", "content": "B", "tag": "Todo", "created_at": "2025-01-02T03:04:05Z"}], "total_pages": 3}`,
		"nested data":        `{"data": {"notes": [{"id": "a1", "title": "A", "content": "B", "tag": "Todo", "createdAt": "2025-01-02T03:04:05Z"}], "totalPages": 3}}`,
		"total items":        `{"items": [{"id": "a1", "title": "A", "content": "B", "tag": "Todo", "createdAt": "2025-01-02T03:04:05Z"}], "total": 25}`,
		"quoted totalPages": `{"notes": [{"id": "a1", "title": "A", "content": "B", "tag": "Todo", "createdAt": "2025-01-02T03:04:05.000Z"}], "totalPages": "3"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})
			list, err := c.ListNotes(context.Background(), ListParams{Page: 1, PerPage: 12})
			if err != nil {
				t.Fatalf("ListNotes: %v", err)
			}
			if list.TotalPages != 3 {
				t.Errorf("TotalPages = %d, want 3", list.TotalPages)
			}
			if list.Page != 1 || list.PerPage != 12 {
				t.Errorf("page/perPage = %d/%d, want 1/12", list.Page, list.PerPage)
			}
			if len(list.Notes) != 1 || list.Notes[0].ID != "a1" || list.Notes[0].Tag != "Todo" {
				t.Fatalf("notes = %+v", list.Notes)
			}
			if list.Notes[0].CreatedAt.IsZero() {
				t.Error("CreatedAt not parsed")
			}
		})
	}
}

func TestGetNote_Shapes(t *testing.T) {
	bodies := map[string]string{
		"direct":     `{"id": "n-1", "title": "T", "content": "C", "createdAt": "2025-01-01T00:00:00Z"}`,
		"wrapped":    `{"note": {"id": "n-1", "title": "T", "content": "C", "createdAt": "2025-01-01T00:00:00Z"}}`,
		"numeric id": `{"id": 17, "title": "T", "content": "C", "createdAt": "2025-01-01T00:00:00Z"}`,
	}
	want := map[string]string{"direct": "n-1", "wrapped": "n-1", "numeric id": "17"}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})
			note, err := c.GetNote(context.Background(), "n-1")
			if err != nil {
				t.Fatalf("GetNote: %v", err)
			}
			if note.ID != want[name] || note.Title != "T" || note.Content != "C" {
				t.Errorf("note = %+v", note)
			}
		})
	}
}

func TestGetNote_NotFound(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/notes/missing-id" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "Note not found"}`))
	})

	_, err := c.GetNote(context.Background(), "missing-id")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != "Note not found" || apiErr.Status != 404 {
		t.Errorf("apiErr = %+v", apiErr)
	}
	errs := rec.Errors()
	if len(errs) != 1 {
		t.Fatalf("got %d error notifications, want 1", len(errs))
	}
	if !strings.HasPrefix(errs[0].Message, "Failed to fetch note details") {
		t.Errorf("notification = %q", errs[0].Message)
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		status    int
		want      error
		temporary bool
	}{
		{http.StatusUnauthorized, ErrAuth, false},
		{http.StatusForbidden, ErrAuth, false},
		{http.StatusNotFound, ErrNotFound, false},
		{http.StatusBadRequest, ErrValidation, false},
		{http.StatusUnprocessableEntity, ErrValidation, false},
		{http.StatusTooManyRequests, ErrNetwork, true},
		{http.StatusInternalServerError, ErrNetwork, true},
		{http.StatusBadGateway, ErrNetwork, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := c.ListNotes(context.Background(), ListParams{Page: 1, PerPage: 12})
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var apiErr *Error
			errors.As(err, &apiErr)
			if apiErr.Temporary() != tt.temporary {
				t.Errorf("Temporary() = %v, want %v", apiErr.Temporary(), tt.temporary)
			}
			if n := len(rec.Events()); n != 1 {
				t.Errorf("got %d notifications, want exactly 1", n)
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	rec := &notify.Recorder{}
	c, err := New(url, "tok", WithSink(rec))
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.GetNote(context.Background(), "x")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}
	if len(rec.Errors()) != 1 {
		t.Errorf("want one error notification, got %v", rec.Events())
	}
}

func TestCreateNote(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		data, _ := io.ReadAll(r.Body)
		var got CreateParams
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if got.Title != "A" || got.Content != "B" || got.Tag != "Work" {
			t.Errorf("payload = %+v", got)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "new-1", "title": "A", "content": "B", "tag": "Work", "createdAt": "2025-01-01T00:00:00Z", "updatedAt": "2025-01-01T00:00:00Z"}`))
	})

	note, err := c.CreateNote(context.Background(), CreateParams{Title: "A", Content: "B", Tag: "Work"})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if note.ID != "new-1" {
		t.Errorf("ID = %q", note.ID)
	}
	if note.WasEdited() {
		t.Error("note with equal timestamps should not report edited")
	}
	events := rec.Events()
	if len(events) != 1 || events[0].Kind != notify.KindSuccess || events[0].Message != "Note created successfully" {
		t.Errorf("events = %+v", events)
	}
}

func TestCreateNote_Validation(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": ["title should not be empty"]}`))
	})

	_, err := c.CreateNote(context.Background(), CreateParams{Content: "B"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if !strings.Contains(err.Error(), "title should not be empty") {
		t.Errorf("error message lost server detail: %v", err)
	}
	events := rec.Events()
	if len(events) != 1 || events[0].Kind != notify.KindError {
		t.Errorf("events = %+v", events)
	}
}

func TestDeleteNote(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/notes/n-9" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"id": "n-9", "title": "gone", "content": "x", "createdAt": "2025-01-01T00:00:00Z"}`))
	})

	note, err := c.DeleteNote(context.Background(), "n-9")
	if err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if note.Title != "gone" {
		t.Errorf("note = %+v", note)
	}
	if events := rec.Events(); len(events) != 1 || events[0].Message != "Note deleted successfully" {
		t.Errorf("events = %+v", events)
	}
}

func TestDeleteNote_AlreadyDeleted(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, err := c.DeleteNote(context.Background(), "n-9")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(rec.Errors()) != 1 {
		t.Errorf("events = %+v", rec.Events())
	}
}

func TestDeferredNotification(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	ctx, deferred := notify.Defer(context.Background())
	for i := 0; i < 3; i++ {
		if _, err := c.ListNotes(ctx, ListParams{Page: 1, PerPage: 12}); err == nil {
			t.Fatal("expected error")
		}
	}
	if n := len(rec.Events()); n != 0 {
		t.Fatalf("deferred calls notified %d times before flush", n)
	}
	deferred.Flush()
	deferred.Flush()
	if n := len(rec.Errors()); n != 1 {
		t.Errorf("got %d notifications after flush, want 1", n)
	}
}
