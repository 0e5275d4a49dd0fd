package core

import "pkt.systems/adecon/schema"

const defaultMaxLines = schema.DefaultConsoleMaxLines

// consoleBuffer stores rendered console scrollback and scroll state. Lines
// are append-only; ScrollOffset counts lines from the bottom, 0 meaning the
// view is anchored at the newest line.
type consoleBuffer struct {
	lines        []string
	scrollOffset int
	maxLines     int
}

func newConsoleBuffer(maxLines int) *consoleBuffer {
	if maxLines <= 0 {
		maxLines = defaultMaxLines
	}
	return &consoleBuffer{maxLines: maxLines}
}

// Append adds lines. If the view is scrolled up, the offset grows to keep the
// visible window anchored on the same content.
func (b *consoleBuffer) Append(lines ...string) {
	if len(lines) == 0 {
		return
	}
	b.lines = append(b.lines, lines...)
	if b.scrollOffset > 0 {
		b.scrollOffset += len(lines)
	}
	if b.maxLines > 0 && len(b.lines) > b.maxLines {
		trim := len(b.lines) - b.maxLines
		b.lines = b.lines[trim:]
		if b.scrollOffset > len(b.lines) {
			b.scrollOffset = len(b.lines)
		}
	}
}

// Scroll adjusts the offset by delta; positive scrolls up toward older lines.
// Limit is the viewport height.
func (b *consoleBuffer) Scroll(delta, limit int) {
	b.scrollOffset = clampScroll(b.scrollOffset+delta, len(b.lines), limit)
}

// ResetScroll returns the view to the bottom.
func (b *consoleBuffer) ResetScroll() {
	b.scrollOffset = 0
}

// Clear drops all scrollback.
func (b *consoleBuffer) Clear() {
	b.lines = nil
	b.scrollOffset = 0
}

// Snapshot returns the visible window for the given viewport limit.
func (b *consoleBuffer) Snapshot(limit int) schema.ConsoleSnapshot {
	total := len(b.lines)
	if limit <= 0 || limit > total {
		limit = total
	}
	if max := maxScroll(total, limit); b.scrollOffset > max {
		b.scrollOffset = max
	}
	end := total - b.scrollOffset
	if end < 0 {
		end = 0
	}
	start := end - limit
	if start < 0 {
		start = 0
	}
	lines := make([]string, end-start)
	copy(lines, b.lines[start:end])
	return schema.ConsoleSnapshot{
		Lines:        lines,
		TotalLines:   total,
		ScrollOffset: b.scrollOffset,
		AtBottom:     b.scrollOffset == 0,
	}
}

func maxScroll(total, limit int) int {
	if total <= 0 || limit <= 0 || total <= limit {
		return 0
	}
	return total - limit
}

func clampScroll(offset, total, limit int) int {
	max := maxScroll(total, limit)
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}
