package schema

// Session lifecycle.

// OpenSessionRequest describes a request to open a workbench session.
type OpenSessionRequest struct {
	Session SessionKey
}

// OpenSessionResponse reports the session state after open/restore.
type OpenSessionResponse struct {
	Tabs      []TabSnapshot
	ActiveTab TabID
	Tree      *FileNode
	Restored  bool
}

// CloseSessionRequest describes a request to close a workbench session.
type CloseSessionRequest struct {
	Session SessionKey
}

// CloseSessionResponse reports completion of the close.
type CloseSessionResponse struct{}

// RefreshFilesRequest describes a request to re-list backend files.
type RefreshFilesRequest struct {
	Session SessionKey
}

// RefreshFilesResponse reports the rebuilt tree and surviving tabs.
type RefreshFilesResponse struct {
	Tree    *FileNode
	Dropped []TabID
}

// GetTreeRequest describes a request to fetch the current file tree.
type GetTreeRequest struct {
	Session SessionKey
}

// GetTreeResponse reports the current file tree.
type GetTreeResponse struct {
	Tree *FileNode
}

// Tab lifecycle.

// OpenFileRequest describes a request to open a file in a tab.
type OpenFileRequest struct {
	Session SessionKey
	Path    TabID
}

// OpenFileResponse reports the opened or re-activated tab.
type OpenFileResponse struct {
	Tab TabSnapshot
}

// SelectTabRequest describes a request to activate an existing tab.
type SelectTabRequest struct {
	Session SessionKey
	TabID   TabID
}

// SelectTabResponse reports the activated tab.
type SelectTabResponse struct {
	Tab TabSnapshot
}

// CloseTabRequest describes a request to close a tab.
type CloseTabRequest struct {
	Session SessionKey
	TabID   TabID
}

// CloseTabResponse reports the closed tab and the new active tab.
type CloseTabResponse struct {
	Tab       TabSnapshot
	ActiveTab TabID
}

// CloseOtherTabsRequest describes a request to close all other unpinned tabs.
type CloseOtherTabsRequest struct {
	Session SessionKey
	TabID   TabID
}

// CloseOtherTabsResponse reports the closed tab ids and active tab.
type CloseOtherTabsResponse struct {
	Closed    []TabID
	ActiveTab TabID
}

// CloseTabsToRightRequest describes a request to close unpinned tabs right of a tab.
type CloseTabsToRightRequest struct {
	Session SessionKey
	TabID   TabID
}

// CloseTabsToRightResponse reports the closed tab ids and active tab.
type CloseTabsToRightResponse struct {
	Closed    []TabID
	ActiveTab TabID
}

// CloseAllTabsRequest describes a request to close every tab.
type CloseAllTabsRequest struct {
	Session SessionKey
}

// CloseAllTabsResponse reports the closed tab ids.
type CloseAllTabsResponse struct {
	Closed []TabID
}

// Tab ordering.

// MoveTabRequest describes a request to reorder a tab within or across zones.
type MoveTabRequest struct {
	Session SessionKey
	TabID   TabID
	Index   int
	Zone    TabZone
}

// MoveTabResponse reports the resulting display order.
type MoveTabResponse struct {
	Tabs []TabSnapshot
}

// PinTabRequest describes a request to pin a tab.
type PinTabRequest struct {
	Session SessionKey
	TabID   TabID
}

// PinTabResponse reports the updated tab.
type PinTabResponse struct {
	Tab TabSnapshot
}

// UnpinTabRequest describes a request to unpin a tab.
type UnpinTabRequest struct {
	Session SessionKey
	TabID   TabID
}

// UnpinTabResponse reports the updated tab.
type UnpinTabResponse struct {
	Tab TabSnapshot
}

// ToggleTabPinRequest describes a request to toggle a tab's pin state.
type ToggleTabPinRequest struct {
	Session SessionKey
	TabID   TabID
}

// ToggleTabPinResponse reports the updated tab.
type ToggleTabPinResponse struct {
	Tab TabSnapshot
}

// SelectRecentTabRequest describes a request to cycle along the MRU order.
type SelectRecentTabRequest struct {
	Session   SessionKey
	Direction CycleDirection
}

// SelectRecentTabResponse reports the newly active tab.
type SelectRecentTabResponse struct {
	Tab TabSnapshot
}

// Content and saving.

// UpdateContentRequest describes an edit to a tab's buffer.
type UpdateContentRequest struct {
	Session SessionKey
	TabID   TabID
	Content string
}

// UpdateContentResponse reports the updated tab.
type UpdateContentResponse struct {
	Tab TabSnapshot
}

// SaveTabRequest describes a request to save a tab's buffer to the backend.
type SaveTabRequest struct {
	Session SessionKey
	TabID   TabID
}

// SaveTabResponse reports the tab after the save attempt.
type SaveTabResponse struct {
	Tab TabSnapshot
}

// GetTabRequest describes a request to fetch one tab with its buffers.
type GetTabRequest struct {
	Session SessionKey
	TabID   TabID
}

// GetTabResponse reports the tab and its content buffers.
type GetTabResponse struct {
	Tab            TabSnapshot
	Content        string
	InitialContent string
}

// ListTabsRequest describes a request to list open tabs in display order.
type ListTabsRequest struct {
	Session SessionKey
}

// ListTabsResponse reports tabs in display order (pinned first).
type ListTabsResponse struct {
	Tabs      []TabSnapshot
	ActiveTab TabID
}

// UnsavedChangesRequest describes a request for the workbench dirty predicate.
type UnsavedChangesRequest struct {
	Session SessionKey
}

// UnsavedChangesResponse reports dirty tabs, if any.
type UnsavedChangesResponse struct {
	Dirty bool
	Tabs  []TabID
}

// Console.

// AppendConsoleRequest describes console lines to render and append.
type AppendConsoleRequest struct {
	Session SessionKey
	Lines   []ConsoleLine
}

// AppendConsoleResponse reports completion of the append.
type AppendConsoleResponse struct{}

// GetConsoleRequest describes a request to fetch console lines.
type GetConsoleRequest struct {
	Session SessionKey
	Limit   int
}

// GetConsoleResponse reports the console snapshot.
type GetConsoleResponse struct {
	Console ConsoleSnapshot
}

// ScrollConsoleRequest describes a request to scroll the console.
type ScrollConsoleRequest struct {
	Session SessionKey
	Delta   int
	Limit   int
}

// ScrollConsoleResponse reports the console snapshot after scrolling.
type ScrollConsoleResponse struct {
	Console ConsoleSnapshot
}

// ClearConsoleRequest describes a request to clear the console scrollback.
type ClearConsoleRequest struct {
	Session SessionKey
}

// ClearConsoleResponse reports completion of the clear.
type ClearConsoleResponse struct{}

// Preferences.

// SetThemeRequest describes a request to set the console theme.
type SetThemeRequest struct {
	Session SessionKey
	Theme   ThemeName
}

// SetThemeResponse reports the applied theme.
type SetThemeResponse struct {
	Theme ThemeName
}

// GetThemeRequest describes a request to read the console theme.
type GetThemeRequest struct {
	Session SessionKey
}

// GetThemeResponse reports the current theme.
type GetThemeResponse struct {
	Theme ThemeName
}
