package querycache

import (
	"net/url"
	"strconv"
)

// Kind is the resource a key addresses.
type Kind string

const (
	KindNotesList  Kind = "notes-list"
	KindNoteDetail Kind = "note-detail"
)

// Key identifies a cacheable request. Keys are comparable; two keys are the
// same cache slot iff every field matches.
type Key struct {
	Kind    Kind
	Page    int
	PerPage int
	Search  string
	ID      string
}

// ListKey addresses one page of a (possibly filtered) note list.
func ListKey(page, perPage int, search string) Key {
	return Key{Kind: KindNotesList, Page: page, PerPage: perPage, Search: search}
}

// DetailKey addresses a single note.
func DetailKey(id string) Key {
	return Key{Kind: KindNoteDetail, ID: id}
}

// String renders the key for logs, metrics and in-flight grouping.
func (k Key) String() string {
	switch k.Kind {
	case KindNoteDetail:
		return string(k.Kind) + "/" + url.PathEscape(k.ID)
	default:
		v := url.Values{}
		v.Set("page", strconv.Itoa(k.Page))
		v.Set("perPage", strconv.Itoa(k.PerPage))
		if k.Search != "" {
			v.Set("search", k.Search)
		}
		return string(k.Kind) + "?" + v.Encode()
	}
}

// Predicate selects keys for Invalidate and Remove.
type Predicate func(Key) bool

// MatchKind selects every key of a kind.
func MatchKind(kind Kind) Predicate {
	return func(k Key) bool { return k.Kind == kind }
}

// MatchKey selects exactly one key.
func MatchKey(key Key) Predicate {
	return func(k Key) bool { return k == key }
}

// MatchAll selects every key.
func MatchAll() Predicate {
	return func(Key) bool { return true }
}
