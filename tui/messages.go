package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"pkt.systems/adecon/internal/eventbus"
	"pkt.systems/adecon/nav"
)

// busEventMsg delivers one workbench service event.
type busEventMsg struct {
	event eventbus.Event
}

// locationMsg delivers a committed navigation.
type locationMsg struct {
	location nav.Location
}

// statusMsg updates the status bar.
type statusMsg struct {
	text string
	err  error
}

// tabContentMsg delivers a tab's buffers after activation.
type tabContentMsg struct {
	tabID   string
	content string
}

func waitForBusEvent(events <-chan eventbus.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return busEventMsg{event: event}
	}
}

func waitForLocation(locations <-chan nav.Location) tea.Cmd {
	return func() tea.Msg {
		location, ok := <-locations
		if !ok {
			return nil
		}
		return locationMsg{location: location}
	}
}
