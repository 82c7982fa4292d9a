package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marcus/notehub/internal/api"
	"github.com/marcus/notehub/internal/querycache"
)

func TestNewViewState(t *testing.T) {
	s := NewViewState(0)
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, api.DefaultPerPage, s.PerPage)
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Equal(t, querycache.ListKey(1, api.DefaultPerPage, ""), s.Key())
}

func TestSearchResetsPage(t *testing.T) {
	s := NewViewState(12)
	s.Loaded(3)
	assert.True(t, s.GoToPage(3))

	assert.True(t, s.SetSearchInput("groceries"))
	assert.Equal(t, PhaseDebouncing, s.Phase)
	assert.Equal(t, 3, s.Page, "typing alone does not change the page")

	assert.True(t, s.SettleSearch("groceries"))
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, 0, s.TotalPages)
	assert.Equal(t, "groceries", s.Params().Search)
	assert.Equal(t, querycache.ListKey(1, 12, "groceries"), s.Key())
}

func TestSettleSameTermIsNoop(t *testing.T) {
	s := NewViewState(12)
	s.Loaded(3)
	s.GoToPage(2)

	assert.False(t, s.SetSearchInput(""))
	assert.False(t, s.SettleSearch(""))
	assert.Equal(t, 2, s.Page)
}

func TestTypingBackToSettledTermLeavesDebouncing(t *testing.T) {
	s := NewViewState(12)
	s.SettleSearch("abc")
	s.Loaded(1)

	assert.True(t, s.SetSearchInput("ab"))
	assert.Equal(t, PhaseDebouncing, s.Phase)
	assert.False(t, s.SetSearchInput("abc"))
	assert.Equal(t, PhaseLoaded, s.Phase)
}

func TestPaginationBounds(t *testing.T) {
	// 25 notes at 12 per page.
	s := NewViewState(12)
	assert.False(t, s.CanPaginate(), "total unknown before the first load")
	assert.False(t, s.NextPage())

	s.Loaded(3)
	assert.True(t, s.CanPaginate())
	assert.False(t, s.PrevPage())
	assert.True(t, s.NextPage())
	assert.True(t, s.NextPage())
	assert.Equal(t, 3, s.Page)
	assert.False(t, s.NextPage())
	assert.False(t, s.GoToPage(4))
	assert.False(t, s.GoToPage(0))
	assert.False(t, s.GoToPage(3), "already there")
	assert.True(t, s.GoToPage(1))
}

func TestSinglePageHasNoPagination(t *testing.T) {
	s := NewViewState(12)
	s.Loaded(1)
	assert.False(t, s.CanPaginate())
	assert.False(t, s.GoToPage(1))
}

func TestPhaseTransitions(t *testing.T) {
	s := NewViewState(12)
	s.Phase = PhaseLoading
	s.Failed()
	assert.Equal(t, PhaseError, s.Phase)

	s.Phase = PhaseLoading
	s.Loaded(2)
	assert.Equal(t, PhaseLoaded, s.Phase)

	// A load finishing while the user is still typing keeps the debounce visible.
	s.SetSearchInput("x")
	s.Loaded(2)
	assert.Equal(t, PhaseDebouncing, s.Phase)
	s.Failed()
	assert.Equal(t, PhaseDebouncing, s.Phase)
	assert.Equal(t, "debouncing", s.Phase.String())
}
