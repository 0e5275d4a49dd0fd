package schema

// WorkspaceID identifies a workspace on the ADE backend.
type WorkspaceID string

// ConfigID identifies an extraction configuration package.
type ConfigID string

// TabID identifies an open editor tab. It equals the canonical path of the
// file the tab edits, so opening the same path twice resolves to one tab.
type TabID string

// DocumentID identifies an uploaded document.
type DocumentID string

// RunID identifies a build, validation, or extraction run.
type RunID string

// ThemeName identifies a console color theme.
type ThemeName string

// SessionKey scopes workbench state to one workspace and config.
type SessionKey struct {
	Workspace WorkspaceID
	Config    ConfigID
}
