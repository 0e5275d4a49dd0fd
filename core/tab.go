package core

import (
	"path"
	"time"

	"pkt.systems/adecon/schema"
)

// tab tracks the state of one open editor.
type tab struct {
	ID             schema.TabID
	Name           string
	Language       string
	Status         schema.TabStatus
	Err            string
	Pinned         bool
	InitialContent string
	Content        string
	ETag           string
	Meta           schema.FileMeta
	Saving         bool
	SaveError      string
	LastSavedAt    time.Time

	// loadStarted marks that a content fetch has been triggered at least
	// once; restored tabs stay unfetched until first activated.
	loadStarted bool
	// loadSeq invalidates results of superseded fetches.
	loadSeq int
}

func newTab(id schema.TabID, pinned bool) *tab {
	return &tab{
		ID:       id,
		Name:     path.Base(string(id)),
		Language: schema.LanguageForPath(string(id)),
		Status:   schema.TabStatusLoading,
		Pinned:   pinned,
	}
}

// Dirty reports whether the buffer differs from the last loaded or saved
// content. Only ready tabs can be dirty.
func (t *tab) Dirty() bool {
	return t.Status == schema.TabStatusReady && t.Content != t.InitialContent
}

// Snapshot returns a transport-friendly view of the tab.
func (t *tab) Snapshot(active bool) schema.TabSnapshot {
	return schema.TabSnapshot{
		ID:          t.ID,
		Name:        t.Name,
		Language:    t.Language,
		Status:      t.Status,
		Error:       t.Err,
		Pinned:      t.Pinned,
		Dirty:       t.Dirty(),
		Saving:      t.Saving,
		SaveError:   t.SaveError,
		ETag:        t.ETag,
		LastSavedAt: t.LastSavedAt,
		Active:      active,
	}
}
