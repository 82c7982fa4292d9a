package notes

import (
	"github.com/marcus/notehub/internal/api"
	"github.com/marcus/notehub/internal/querycache"
)

// ListLoadedMsg carries the result of a list fetch for Key.
type ListLoadedMsg struct {
	Key   querycache.Key
	List  *api.NoteList
	Err   error
	Epoch uint64
}

// GetEpoch implements plugin.EpochMessage.
func (m ListLoadedMsg) GetEpoch() uint64 { return m.Epoch }

// DetailLoadedMsg carries the result of a detail fetch.
type DetailLoadedMsg struct {
	ID    string
	Note  *api.Note
	Err   error
	Epoch uint64
}

// GetEpoch implements plugin.EpochMessage.
func (m DetailLoadedMsg) GetEpoch() uint64 { return m.Epoch }

// NoteCreatedMsg is sent when a create call returns.
type NoteCreatedMsg struct {
	Note  *api.Note
	Err   error
	Epoch uint64
}

// GetEpoch implements plugin.EpochMessage.
func (m NoteCreatedMsg) GetEpoch() uint64 { return m.Epoch }

// NoteDeletedMsg is sent when a delete call returns.
type NoteDeletedMsg struct {
	ID    string
	Err   error
	Epoch uint64
}

// GetEpoch implements plugin.EpochMessage.
func (m NoteDeletedMsg) GetEpoch() uint64 { return m.Epoch }

// CollectTickMsg triggers cache garbage collection.
type CollectTickMsg struct {
	Epoch uint64
}

// GetEpoch implements plugin.EpochMessage.
func (m CollectTickMsg) GetEpoch() uint64 { return m.Epoch }
