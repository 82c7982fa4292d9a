package notes

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/notehub/internal/api"
	"github.com/marcus/notehub/internal/querycache"
)

// fetchList loads the list for the current key. The previous page stays on
// screen until the result arrives.
func (p *Plugin) fetchList() tea.Cmd {
	key := p.view.Key()
	params := p.view.Params()
	p.view.Phase = PhaseLoading
	p.observeList(key)

	svc, cache, epoch := p.ctx.API, p.ctx.Cache, p.ctx.Epoch
	load := func() tea.Msg {
		list, err := querycache.Fetch(context.Background(), cache, key, func(ctx context.Context) (*api.NoteList, error) {
			return svc.ListNotes(ctx, params)
		})
		return ListLoadedMsg{Key: key, List: list, Err: err, Epoch: epoch}
	}
	return tea.Batch(load, p.spinner.Tick)
}

// fetchDetail loads the note shown in the detail view.
func (p *Plugin) fetchDetail(id string) tea.Cmd {
	key := querycache.DetailKey(id)
	p.detail.loading = true
	p.observeDetail(key)

	svc, cache, epoch := p.ctx.API, p.ctx.Cache, p.ctx.Epoch
	load := func() tea.Msg {
		note, err := querycache.Fetch(context.Background(), cache, key, func(ctx context.Context) (*api.Note, error) {
			return svc.GetNote(ctx, id)
		})
		return DetailLoadedMsg{ID: id, Note: note, Err: err, Epoch: epoch}
	}
	return tea.Batch(load, p.spinner.Tick)
}

// createNote submits the create form.
func (p *Plugin) createNote(params api.CreateParams) tea.Cmd {
	svc, epoch := p.ctx.API, p.ctx.Epoch
	return func() tea.Msg {
		note, err := svc.CreateNote(context.Background(), params)
		return NoteCreatedMsg{Note: note, Err: err, Epoch: epoch}
	}
}

// deleteNote deletes the note with id.
func (p *Plugin) deleteNote(id string) tea.Cmd {
	svc, epoch := p.ctx.API, p.ctx.Epoch
	return func() tea.Msg {
		_, err := svc.DeleteNote(context.Background(), id)
		return NoteDeletedMsg{ID: id, Err: err, Epoch: epoch}
	}
}

// scheduleCollect arms the next cache collection.
func (p *Plugin) scheduleCollect() tea.Cmd {
	epoch := p.ctx.Epoch
	interval := p.ctx.Cache.GCTime() / 5
	if interval < time.Second {
		interval = time.Second
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return CollectTickMsg{Epoch: epoch}
	})
}

func (p *Plugin) observeList(key querycache.Key) {
	if p.listObserved == key && p.releaseList != nil {
		return
	}
	if p.releaseList != nil {
		p.releaseList()
	}
	p.listObserved = key
	p.releaseList = p.ctx.Cache.Observe(key)
}

func (p *Plugin) observeDetail(key querycache.Key) {
	if p.detailObserved == key && p.releaseDetail != nil {
		return
	}
	p.releaseDetailObserver()
	p.detailObserved = key
	p.releaseDetail = p.ctx.Cache.Observe(key)
}

func (p *Plugin) releaseDetailObserver() {
	if p.releaseDetail != nil {
		p.releaseDetail()
		p.releaseDetail = nil
	}
	p.detailObserved = querycache.Key{}
}
