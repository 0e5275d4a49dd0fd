package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pkt.systems/adecon/internal/markdown"
	"pkt.systems/adecon/nav"
	"pkt.systems/adecon/schema"
)

const treeWidth = 32

// layout recomputes pane sizes from the window and workbench state.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	consoleHeight := 0
	if m.state.Console == nav.ConsoleOpen {
		consoleHeight = m.height / 3
	}
	bodyHeight := m.height - consoleHeight - 3
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	editorWidth := m.width - treeWidth - 6
	if m.state.View == nav.ViewZen {
		editorWidth = m.width - 4
	}
	if m.state.View == nav.ViewSplit {
		editorWidth /= 2
	}
	if editorWidth < 10 {
		editorWidth = 10
	}
	m.editor.SetWidth(editorWidth)
	m.editor.SetHeight(bodyHeight - 2)
	m.console.Width = m.width - 4
	m.console.Height = consoleHeight - 2
	if m.console.Height < 1 {
		m.console.Height = 1
	}
	m.syncConsole()
}

// View renders the workbench.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "loading..."
	}

	var sections []string
	sections = append(sections, m.viewTabStrip())
	sections = append(sections, m.viewBody())
	if m.state.Console == nav.ConsoleOpen {
		sections = append(sections, m.viewConsole())
	}
	sections = append(sections, m.viewStatus())
	view := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.confirm {
		return m.overlay(view)
	}
	return view
}

func (m *Model) viewTabStrip() string {
	if len(m.tabs) == 0 {
		return m.th.Muted.Render(" no open tabs ")
	}
	var parts []string
	for _, t := range m.tabs {
		label := t.Name
		if t.Pinned {
			label = m.th.PinnedMark.Render("*") + label
		}
		if t.Dirty {
			label += m.th.DirtyMark.Render("+")
		}
		switch t.Status {
		case schema.TabStatusLoading:
			label += m.th.Muted.Render("…")
		case schema.TabStatusError:
			label += m.th.ErrorText.Render("!")
		}
		if t.ID == m.activeTab {
			parts = append(parts, m.th.ActiveTab.Render(label))
		} else {
			parts = append(parts, m.th.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) viewBody() string {
	editor := m.viewEditor()
	if m.state.View == nav.ViewZen {
		return editor
	}
	tree := m.viewTree()
	if m.state.View == nav.ViewSplit {
		return lipgloss.JoinHorizontal(lipgloss.Top, tree, editor, m.viewPreview())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tree, editor)
}

func (m *Model) viewTree() string {
	height := m.editor.Height()
	var b strings.Builder
	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := start + height
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := start; i < end; i++ {
		row := m.rows[i]
		indent := strings.Repeat("  ", row.depth)
		name := row.node.Name
		if row.node.IsDir() {
			marker := "▾ "
			if m.collapsed[row.node.ID] {
				marker = "▸ "
			}
			name = m.th.TreeFolder.Render(marker + name)
		}
		line := indent + name
		if i == m.cursor && m.focus == focusTree {
			line = m.th.TreeCursor.Render(line)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	pane := m.th.Pane
	if m.focus == focusTree {
		pane = m.th.FocusedPane
	}
	return pane.Width(treeWidth).Height(height).Render(b.String())
}

func (m *Model) viewEditor() string {
	pane := m.th.Pane
	if m.focus == focusEditor {
		pane = m.th.FocusedPane
	}
	if m.activeTab == "" {
		return pane.Width(m.editor.Width() + 2).Height(m.editor.Height()).
			Render(m.th.Muted.Render("open a file from the tree"))
	}
	if t := m.activeSnapshot(); t != nil {
		switch t.Status {
		case schema.TabStatusLoading:
			return pane.Width(m.editor.Width() + 2).Height(m.editor.Height()).
				Render(m.th.Muted.Render("loading " + t.Name + "..."))
		case schema.TabStatusError:
			return pane.Width(m.editor.Width() + 2).Height(m.editor.Height()).
				Render(m.th.ErrorText.Render(t.Error) + "\n" + m.th.Muted.Render("select the tab again to retry"))
		}
	}
	return pane.Render(m.editor.View())
}

// viewPreview shows the last-saved buffer beside the editor in split view.
// Markdown files render with heading, bullet, and inline styling.
func (m *Model) viewPreview() string {
	content := m.th.Muted.Render("no saved content")
	if m.activeTab != "" {
		if resp, err := m.wb.Service.GetTab(context.Background(), schema.GetTabRequest{Session: m.session, TabID: m.activeTab}); err == nil {
			content = resp.InitialContent
			if strings.HasSuffix(strings.ToLower(string(m.activeTab)), ".md") {
				content = m.renderMarkdown(content)
			}
		}
	}
	return m.th.Pane.Width(m.editor.Width() + 2).Height(m.editor.Height()).Render(clipHeight(content, m.editor.Height()))
}

func (m *Model) renderMarkdown(source string) string {
	var b strings.Builder
	for i, line := range markdown.ParseLines(source) {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch line.Kind {
		case markdown.KindHeading:
			b.WriteString(m.th.Title.Render(m.renderSpans(line.Spans)))
		case markdown.KindBullet:
			b.WriteString("  • " + m.renderSpans(line.Spans))
		case markdown.KindCode:
			b.WriteString(m.th.Muted.Render(line.Text))
		default:
			b.WriteString(m.renderSpans(line.Spans))
		}
	}
	return b.String()
}

func (m *Model) renderSpans(spans []markdown.Span) string {
	var b strings.Builder
	for _, span := range spans {
		text := span.Text
		switch {
		case span.Code:
			text = m.th.Muted.Render(text)
		case span.Bold:
			text = lipgloss.NewStyle().Bold(true).Render(text)
		case span.Italic:
			text = lipgloss.NewStyle().Italic(true).Render(text)
		}
		b.WriteString(text)
	}
	return b.String()
}

func (m *Model) viewConsole() string {
	pane := m.th.Pane
	if m.focus == focusConsole {
		pane = m.th.FocusedPane
	}
	title := "console"
	if m.state.Pane == nav.PaneValidation {
		title = "validation"
	}
	return pane.Width(m.width - 2).Render(m.th.Title.Render(title) + "\n" + m.console.View())
}

func (m *Model) viewStatus() string {
	left := string(m.session.Workspace) + "/" + string(m.session.Config)
	mid := m.status
	if m.err != nil {
		mid = m.th.ErrorText.Render(m.status)
	}
	right := string(m.state.View)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(mid) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	return m.th.StatusBar.Render(" " + left + " " + mid + strings.Repeat(" ", gap) + right + " ")
}

func (m *Model) overlay(_ string) string {
	box := m.th.OverlayBox.Render(
		m.th.OverlayTitle.Render("Unsaved changes") + "\n\n" +
			"Save all and continue? (y/n)")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "))
}

func (m *Model) activeSnapshot() *schema.TabSnapshot {
	for i := range m.tabs {
		if m.tabs[i].ID == m.activeTab {
			return &m.tabs[i]
		}
	}
	return nil
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

func clipHeight(content string, height int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
