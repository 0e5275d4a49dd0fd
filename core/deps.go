package core

import (
	"context"

	"pkt.systems/adecon/schema"
	"pkt.systems/pslog"
)

// FileStore reads and writes config files on the ADE backend.
type FileStore interface {
	// ListFiles returns the flat file listing for a config package.
	ListFiles(ctx context.Context, key schema.SessionKey) ([]schema.FileEntry, error)
	// LoadFile fetches one file's content and version token.
	LoadFile(ctx context.Context, key schema.SessionKey, path schema.TabID) (schema.FileContent, error)
	// SaveFile writes content conditioned on etag. A stale etag yields
	// schema.ErrVersionConflict.
	SaveFile(ctx context.Context, key schema.SessionKey, path schema.TabID, content, etag string) (schema.FileMeta, error)
}

// EventSink receives tab, console, and tree events from the service.
type EventSink interface {
	OnTabEvent(event schema.TabEvent)
	OnOutput(event schema.OutputEvent)
	OnTreeEvent(event schema.TreeEvent)
}

// Renderer converts one console record into display lines.
type Renderer interface {
	RenderLine(line schema.ConsoleLine) []string
}

// ServiceDeps captures collaborators for the workbench service.
type ServiceDeps struct {
	Files    FileStore
	Renderer Renderer
	Sink     EventSink
	Logger   pslog.Logger
}
