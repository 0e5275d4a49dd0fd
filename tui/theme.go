package tui

import (
	"github.com/charmbracelet/lipgloss"

	"pkt.systems/adecon/schema"
)

// theme groups the lipgloss styles used by the workbench views.
type theme struct {
	Title        lipgloss.Style
	Pane         lipgloss.Style
	FocusedPane  lipgloss.Style
	Muted        lipgloss.Style
	TreeCursor   lipgloss.Style
	TreeFolder   lipgloss.Style
	Tab          lipgloss.Style
	ActiveTab    lipgloss.Style
	PinnedMark   lipgloss.Style
	DirtyMark    lipgloss.Style
	ErrorText    lipgloss.Style
	StatusBar    lipgloss.Style
	OverlayBox   lipgloss.Style
	OverlayTitle lipgloss.Style
}

func darkTheme() theme {
	accent := lipgloss.Color("14")
	muted := lipgloss.Color("8")
	danger := lipgloss.Color("9")
	warn := lipgloss.Color("11")
	return theme{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(accent),
		Pane:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1),
		FocusedPane: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
		Muted:       lipgloss.NewStyle().Foreground(muted),
		TreeCursor:  lipgloss.NewStyle().Reverse(true),
		TreeFolder:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		Tab:         lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
		ActiveTab:   lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1),
		PinnedMark:  lipgloss.NewStyle().Foreground(warn),
		DirtyMark:   lipgloss.NewStyle().Foreground(warn),
		ErrorText:   lipgloss.NewStyle().Foreground(danger),
		StatusBar:   lipgloss.NewStyle().Foreground(muted),
		OverlayBox: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).Padding(1, 2),
		OverlayTitle: lipgloss.NewStyle().Bold(true),
	}
}

func lightTheme() theme {
	t := darkTheme()
	accent := lipgloss.Color("4")
	muted := lipgloss.Color("7")
	t.Title = t.Title.Foreground(accent)
	t.FocusedPane = t.FocusedPane.BorderForeground(accent)
	t.Pane = t.Pane.BorderForeground(muted)
	t.TreeFolder = t.TreeFolder.Foreground(accent)
	t.ActiveTab = t.ActiveTab.Foreground(accent)
	t.Muted = t.Muted.Foreground(muted)
	t.StatusBar = t.StatusBar.Foreground(muted)
	t.OverlayBox = t.OverlayBox.BorderForeground(accent)
	return t
}

func themeFor(name schema.ThemeName) theme {
	switch name {
	case "light":
		return lightTheme()
	default:
		return darkTheme()
	}
}
