package schema

import "time"

// TabStatus describes the content-loading state of a tab.
type TabStatus string

const (
	// TabStatusLoading indicates a content fetch is pending.
	TabStatusLoading TabStatus = "loading"
	// TabStatusReady indicates content is loaded and editable.
	TabStatusReady TabStatus = "ready"
	// TabStatusError indicates the content fetch failed.
	TabStatusError TabStatus = "error"
)

// TabZone names the strip a tab is displayed in.
type TabZone string

const (
	// TabZonePinned is the left strip of pinned tabs.
	TabZonePinned TabZone = "pinned"
	// TabZoneRegular is the strip of unpinned tabs.
	TabZoneRegular TabZone = "regular"
)

// CycleDirection selects the direction for recent-tab cycling.
type CycleDirection string

const (
	// CycleForward moves toward less recently used tabs.
	CycleForward CycleDirection = "forward"
	// CycleBackward moves toward more recently used tabs.
	CycleBackward CycleDirection = "backward"
)

// TabSnapshot is a read-only view of tab state for transports.
type TabSnapshot struct {
	ID          TabID
	Name        string
	Language    string
	Status      TabStatus
	Error       string
	Pinned      bool
	Dirty       bool
	Saving      bool
	SaveError   string
	ETag        string
	LastSavedAt time.Time
	Active      bool
}

// TabRef references a tab in a persisted session snapshot.
type TabRef struct {
	ID     TabID `json:"id"`
	Pinned bool  `json:"pinned,omitempty"`
}

// SessionSnapshot is the persisted shape of a workbench session.
type SessionSnapshot struct {
	OpenTabs  []TabRef  `json:"open_tabs"`
	ActiveTab TabID     `json:"active_tab,omitempty"`
	MRU       []TabID   `json:"mru,omitempty"`
	Theme     ThemeName `json:"theme,omitempty"`
}

// ConsoleSnapshot represents the current console scrollback view.
type ConsoleSnapshot struct {
	Lines        []string
	TotalLines   int
	ScrollOffset int
	AtBottom     bool
}
