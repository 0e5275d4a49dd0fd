package nav

import "net/url"

// PaneID selects the lower workbench pane.
type PaneID string

const (
	// PaneConsole shows streamed build/run output.
	PaneConsole PaneID = "console"
	// PaneValidation shows validation findings.
	PaneValidation PaneID = "validation"
)

// ConsoleState records whether the console pane is expanded.
type ConsoleState string

const (
	// ConsoleOpen expands the console pane.
	ConsoleOpen ConsoleState = "open"
	// ConsoleClosed collapses the console pane.
	ConsoleClosed ConsoleState = "closed"
)

// ViewMode selects the editor layout.
type ViewMode string

const (
	// ViewEditor is the single-editor layout.
	ViewEditor ViewMode = "editor"
	// ViewSplit shows editor and preview side by side.
	ViewSplit ViewMode = "split"
	// ViewZen hides all chrome around the editor.
	ViewZen ViewMode = "zen"
)

// Recognized query keys on the workbench route.
const (
	KeyTab     = "tab"
	KeyPane    = "pane"
	KeyConsole = "console"
	KeyView    = "view"
	KeyFile    = "file"

	// legacyKeyFile is the pre-rename alias for KeyFile.
	legacyKeyFile = "path"
	// legacyPaneProblems is the pre-rename alias for PaneValidation.
	legacyPaneProblems = "problems"
)

// TabEditor is the only recognized value for the tab key.
const TabEditor = "editor"

// WorkbenchState is the typed view of the recognized query parameters.
type WorkbenchState struct {
	Tab     string
	Pane    PaneID
	Console ConsoleState
	View    ViewMode
	File    string
}

// Present records which recognized keys appeared verbatim in the query.
type Present map[string]bool

// DefaultState returns the fixed baseline; baseline values are never
// serialized back into a query.
func DefaultState() WorkbenchState {
	return WorkbenchState{
		Tab:     TabEditor,
		Pane:    PaneConsole,
		Console: ConsoleClosed,
		View:    ViewEditor,
		File:    "",
	}
}

// ReadState parses the recognized keys out of a query. Unknown or legacy
// values never fail; they normalize to the nearest valid value.
func ReadState(values url.Values) (WorkbenchState, Present) {
	state := DefaultState()
	present := Present{}
	if values == nil {
		return state, present
	}
	if values.Has(KeyTab) {
		present[KeyTab] = true
		state.Tab = normalizeTab(values.Get(KeyTab))
	}
	if values.Has(KeyPane) {
		present[KeyPane] = true
		state.Pane = NormalizePane(values.Get(KeyPane))
	}
	if values.Has(KeyConsole) {
		present[KeyConsole] = true
		state.Console = normalizeConsole(values.Get(KeyConsole))
	}
	if values.Has(KeyView) {
		present[KeyView] = true
		state.View = normalizeView(values.Get(KeyView))
	}
	if values.Has(KeyFile) {
		present[KeyFile] = true
		state.File = values.Get(KeyFile)
	} else if values.Has(legacyKeyFile) {
		present[KeyFile] = true
		state.File = values.Get(legacyKeyFile)
	}
	return state, present
}

// StatePatch updates a subset of the workbench state. Nil fields keep the
// resolved current value.
type StatePatch struct {
	Tab     *string
	Pane    *PaneID
	Console *ConsoleState
	View    *ViewMode
	File    *string
}

// MergeState computes defaults <- current <- patch, strips every recognized
// key (legacy aliases included), and re-adds only non-default values. The
// result is stable under re-application of the same patch.
func MergeState(values url.Values, patch StatePatch) url.Values {
	state, _ := ReadState(values)
	if patch.Tab != nil {
		state.Tab = normalizeTab(*patch.Tab)
	}
	if patch.Pane != nil {
		state.Pane = NormalizePane(string(*patch.Pane))
	}
	if patch.Console != nil {
		state.Console = normalizeConsole(string(*patch.Console))
	}
	if patch.View != nil {
		state.View = normalizeView(string(*patch.View))
	}
	if patch.File != nil {
		state.File = *patch.File
	}

	merged := url.Values{}
	for key, vals := range values {
		merged[key] = append([]string(nil), vals...)
	}
	for _, key := range []string{KeyTab, KeyPane, KeyConsole, KeyView, KeyFile, legacyKeyFile} {
		merged.Del(key)
	}

	defaults := DefaultState()
	if state.Tab != defaults.Tab {
		merged.Set(KeyTab, state.Tab)
	}
	if state.Pane != defaults.Pane {
		merged.Set(KeyPane, string(state.Pane))
	}
	if state.Console != defaults.Console {
		merged.Set(KeyConsole, string(state.Console))
	}
	if state.View != defaults.View {
		merged.Set(KeyView, string(state.View))
	}
	if state.File != defaults.File {
		merged.Set(KeyFile, state.File)
	}
	return merged
}

// EncodeState serializes a state with default omission.
func EncodeState(state WorkbenchState) url.Values {
	return MergeState(nil, StatePatch{
		Tab:     &state.Tab,
		Pane:    &state.Pane,
		Console: &state.Console,
		View:    &state.View,
		File:    &state.File,
	})
}

func normalizeTab(value string) string {
	switch value {
	case TabEditor:
		return TabEditor
	default:
		return DefaultState().Tab
	}
}

// NormalizePane maps any pane value to a valid PaneID, aliasing the legacy
// "problems" value to validation.
func NormalizePane(value string) PaneID {
	switch value {
	case string(PaneConsole):
		return PaneConsole
	case string(PaneValidation), legacyPaneProblems:
		return PaneValidation
	default:
		return DefaultState().Pane
	}
}

func normalizeConsole(value string) ConsoleState {
	switch value {
	case string(ConsoleOpen):
		return ConsoleOpen
	case string(ConsoleClosed):
		return ConsoleClosed
	default:
		return DefaultState().Console
	}
}

func normalizeView(value string) ViewMode {
	switch value {
	case string(ViewEditor):
		return ViewEditor
	case string(ViewSplit):
		return ViewSplit
	case string(ViewZen):
		return ViewZen
	default:
		return DefaultState().View
	}
}
