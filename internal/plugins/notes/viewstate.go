package notes

import (
	"github.com/marcus/notehub/internal/api"
	"github.com/marcus/notehub/internal/querycache"
)

// Phase is the list lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDebouncing
	PhaseLoading
	PhaseLoaded
	PhaseError
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseDebouncing:
		return "debouncing"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// ViewState is the list controller state. It has no I/O; the plugin turns
// its transitions into fetches.
type ViewState struct {
	Page            int
	PerPage         int
	RawSearch       string // what the user has typed
	DebouncedSearch string // the settled term the list is filtered by
	ModalOpen       bool
	TotalPages      int // from the last loaded page; 0 until known
	Phase           Phase
}

// NewViewState returns the state of a fresh list view.
func NewViewState(perPage int) ViewState {
	if perPage < 1 {
		perPage = api.DefaultPerPage
	}
	return ViewState{Page: 1, PerPage: perPage}
}

// Key is the query key of the list currently wanted.
func (s ViewState) Key() querycache.Key {
	return querycache.ListKey(s.Page, s.PerPage, s.DebouncedSearch)
}

// Params is the API request for Key.
func (s ViewState) Params() api.ListParams {
	return api.ListParams{Page: s.Page, PerPage: s.PerPage, Search: s.DebouncedSearch}
}

// SetSearchInput records typed input. It reports whether the input differs
// from the settled term, in which case a debounce should be armed.
func (s *ViewState) SetSearchInput(raw string) bool {
	s.RawSearch = raw
	if raw == s.DebouncedSearch {
		if s.Phase == PhaseDebouncing {
			s.Phase = PhaseLoaded
		}
		return false
	}
	s.Phase = PhaseDebouncing
	return true
}

// SettleSearch applies a debounced term. A changed term resets the page to
// 1 and reports true; the caller then fetches Key.
func (s *ViewState) SettleSearch(term string) bool {
	if s.Phase == PhaseDebouncing {
		s.Phase = PhaseLoaded
	}
	if term == s.DebouncedSearch {
		return false
	}
	s.DebouncedSearch = term
	s.Page = 1
	s.TotalPages = 0
	return true
}

// CanPaginate reports whether pagination controls apply.
func (s ViewState) CanPaginate() bool {
	return s.TotalPages > 1
}

// GoToPage moves to page n if it is a different, valid page.
func (s *ViewState) GoToPage(n int) bool {
	if !s.CanPaginate() || n < 1 || n > s.TotalPages || n == s.Page {
		return false
	}
	s.Page = n
	return true
}

// NextPage moves forward one page.
func (s *ViewState) NextPage() bool { return s.GoToPage(s.Page + 1) }

// PrevPage moves back one page.
func (s *ViewState) PrevPage() bool { return s.GoToPage(s.Page - 1) }

// Loaded records a successful load of the current key.
func (s *ViewState) Loaded(totalPages int) {
	s.TotalPages = totalPages
	if s.Phase != PhaseDebouncing {
		s.Phase = PhaseLoaded
	}
}

// Failed records a failed load of the current key.
func (s *ViewState) Failed() {
	if s.Phase != PhaseDebouncing {
		s.Phase = PhaseError
	}
}
