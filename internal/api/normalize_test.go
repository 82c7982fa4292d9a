package api

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeID(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{`"abc"`, "abc", false},
		{`42`, "42", false},
		{`4.2e1`, "4.2e1", false},
		{`""`, "", true},
		{`null`, "", true},
		{``, "", true},
		{`{}`, "", true},
	}
	for _, tt := range tests {
		got, err := decodeID(json.RawMessage(tt.raw))
		if (err != nil) != tt.wantErr {
			t.Errorf("decodeID(%s) err = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("decodeID(%s) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestDecodeNote_MongoID(t *testing.T) {
	n, err := decodeNote([]byte(`{"_id": "m1", "title": "t", "content": "c", "updatedAt": "2025-03-01T10:00:00Z", "createdAt": "2025-02-01T10:00:00Z"}`))
	if err != nil {
		t.Fatal(err)
	}
	if n.ID != "m1" {
		t.Errorf("ID = %q", n.ID)
	}
	if !n.WasEdited() {
		t.Error("expected WasEdited for differing timestamps")
	}
}

func TestDecodeNote_MissingFields(t *testing.T) {
	_, err := decodeNote([]byte(`{"id": "x", "title": "only title"}`))
	if !errors.Is(err, errUnrecognized) {
		t.Errorf("err = %v, want errUnrecognized", err)
	}
}

func TestDecodeList_NoArray(t *testing.T) {
	_, err := decodeList([]byte(`{"message": "ok"}`), ListParams{Page: 1, PerPage: 12})
	if !errors.Is(err, errUnrecognized) {
		t.Errorf("err = %v, want errUnrecognized", err)
	}
}

func TestDecodeList_EchoedPaging(t *testing.T) {
	list, err := decodeList([]byte(`{"page": 2, "perPage": 5, "notes": [], "totalPages": 4}`), ListParams{Page: 1, PerPage: 12})
	if err != nil {
		t.Fatal(err)
	}
	if list.Page != 2 || list.PerPage != 5 || list.TotalPages != 4 {
		t.Errorf("list = %+v", list)
	}
}

func TestDecodeList_TotalItemsRoundsUp(t *testing.T) {
	list, err := decodeList([]byte(`{"notes": [], "totalItems": 24}`), ListParams{Page: 1, PerPage: 12})
	if err != nil {
		t.Fatal(err)
	}
	if list.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", list.TotalPages)
	}
}

func TestDecodeList_NestedDataUsesOuterPaging(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantPage  int
		wantTotal int
	}{
		{"outer only", `{"page": 3, "totalPages": 7, "data": {"notes": []}}`, 3, 7},
		{"inner wins", `{"page": 3, "totalPages": 7, "data": {"page": 2, "totalPages": 5, "notes": []}}`, 2, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := decodeList([]byte(tt.body), ListParams{Page: 1, PerPage: 12})
			if err != nil {
				t.Fatal(err)
			}
			if list.Page != tt.wantPage || list.TotalPages != tt.wantTotal {
				t.Errorf("page %d of %d, want %d of %d", list.Page, list.TotalPages, tt.wantPage, tt.wantTotal)
			}
		})
	}
}
