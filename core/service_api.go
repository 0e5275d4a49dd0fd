package core

import (
	"context"

	"pkt.systems/adecon/schema"
)

// Service is the workbench session service: file tree, tabs, editor buffers
// and console scrollback for one or more workspace/config sessions. All
// methods are safe for concurrent use.
type Service interface {
	// OpenSession opens (or returns the already-open) session for a
	// workspace/config pair, listing backend files and restoring persisted
	// tabs.
	OpenSession(ctx context.Context, req schema.OpenSessionRequest) (schema.OpenSessionResponse, error)
	// CloseSession persists and discards the in-memory session.
	CloseSession(ctx context.Context, req schema.CloseSessionRequest) (schema.CloseSessionResponse, error)
	// RefreshFiles re-lists backend files, rebuilds the tree and drops clean
	// tabs whose backing file disappeared.
	RefreshFiles(ctx context.Context, req schema.RefreshFilesRequest) (schema.RefreshFilesResponse, error)
	// GetTree returns the current file tree.
	GetTree(ctx context.Context, req schema.GetTreeRequest) (schema.GetTreeResponse, error)

	// OpenFile opens a file in a tab, or re-activates the existing tab for
	// that path.
	OpenFile(ctx context.Context, req schema.OpenFileRequest) (schema.OpenFileResponse, error)
	// SelectTab activates an open tab. Selecting an errored tab retries its
	// load.
	SelectTab(ctx context.Context, req schema.SelectTabRequest) (schema.SelectTabResponse, error)
	// CloseTab closes a tab. When the active tab closes, its right display
	// neighbor becomes active, falling back to the left neighbor.
	CloseTab(ctx context.Context, req schema.CloseTabRequest) (schema.CloseTabResponse, error)
	// CloseOtherTabs closes every unpinned tab except the given one.
	CloseOtherTabs(ctx context.Context, req schema.CloseOtherTabsRequest) (schema.CloseOtherTabsResponse, error)
	// CloseTabsToRight closes unpinned tabs right of the given tab in display
	// order.
	CloseTabsToRight(ctx context.Context, req schema.CloseTabsToRightRequest) (schema.CloseTabsToRightResponse, error)
	// CloseAllTabs closes every tab, pinned included.
	CloseAllTabs(ctx context.Context, req schema.CloseAllTabsRequest) (schema.CloseAllTabsResponse, error)

	// MoveTab reorders a tab within or across the pinned/regular zones.
	MoveTab(ctx context.Context, req schema.MoveTabRequest) (schema.MoveTabResponse, error)
	// PinTab pins a tab, moving it to the end of the pinned strip.
	PinTab(ctx context.Context, req schema.PinTabRequest) (schema.PinTabResponse, error)
	// UnpinTab unpins a tab, moving it to the front of the regular strip.
	UnpinTab(ctx context.Context, req schema.UnpinTabRequest) (schema.UnpinTabResponse, error)
	// ToggleTabPin flips a tab's pin state.
	ToggleTabPin(ctx context.Context, req schema.ToggleTabPinRequest) (schema.ToggleTabPinResponse, error)
	// SelectRecentTab cycles the active tab along most-recently-used order.
	SelectRecentTab(ctx context.Context, req schema.SelectRecentTabRequest) (schema.SelectRecentTabResponse, error)

	// UpdateContent replaces a ready tab's edit buffer.
	UpdateContent(ctx context.Context, req schema.UpdateContentRequest) (schema.UpdateContentResponse, error)
	// SaveTab writes a dirty tab's buffer to the backend. Save failures and
	// version conflicts surface as tab state, not as returned errors.
	SaveTab(ctx context.Context, req schema.SaveTabRequest) (schema.SaveTabResponse, error)
	// GetTab returns one tab with its current and last-saved buffers.
	GetTab(ctx context.Context, req schema.GetTabRequest) (schema.GetTabResponse, error)
	// ListTabs returns open tabs in display order, pinned first.
	ListTabs(ctx context.Context, req schema.ListTabsRequest) (schema.ListTabsResponse, error)
	// UnsavedChanges reports whether any open tab has unsaved edits.
	UnsavedChanges(ctx context.Context, req schema.UnsavedChangesRequest) (schema.UnsavedChangesResponse, error)

	// AppendConsole renders structured lines and appends them to the console
	// scrollback.
	AppendConsole(ctx context.Context, req schema.AppendConsoleRequest) (schema.AppendConsoleResponse, error)
	// GetConsole returns a console viewport snapshot.
	GetConsole(ctx context.Context, req schema.GetConsoleRequest) (schema.GetConsoleResponse, error)
	// ScrollConsole adjusts the console scroll anchor and returns the viewport.
	ScrollConsole(ctx context.Context, req schema.ScrollConsoleRequest) (schema.ScrollConsoleResponse, error)
	// ClearConsole drops the console scrollback.
	ClearConsole(ctx context.Context, req schema.ClearConsoleRequest) (schema.ClearConsoleResponse, error)

	// SetTheme sets and persists the session theme.
	SetTheme(ctx context.Context, req schema.SetThemeRequest) (schema.SetThemeResponse, error)
	// GetTheme returns the session theme.
	GetTheme(ctx context.Context, req schema.GetThemeRequest) (schema.GetThemeResponse, error)
}
