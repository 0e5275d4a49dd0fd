// Package markdown classifies markdown source for the workbench preview
// pane. It handles the structure a config package's README-style docs
// actually use: headings, bullets, fenced code blocks, and inline bold,
// italic, and code. Anything else passes through as plain text.
package markdown

import "strings"

// LineKind classifies one source line.
type LineKind int

const (
	// KindText is a plain paragraph line.
	KindText LineKind = iota
	// KindHeading is an ATX heading line.
	KindHeading
	// KindBullet is an unordered list item.
	KindBullet
	// KindCode is a line inside a fenced code block, fences included.
	KindCode
)

// Line is one classified source line.
type Line struct {
	Kind  LineKind
	Level int // heading depth, 1-6
	Spans []Span
	Text  string // verbatim content for KindCode
}

// Span represents a styled slice of inline text.
type Span struct {
	Text   string
	Bold   bool
	Italic bool
	Code   bool
}

// ParseLines classifies a document line by line. Fenced code blocks suspend
// inline parsing until the closing fence.
func ParseLines(source string) []Line {
	var out []Line
	inFence := false
	for _, raw := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			out = append(out, Line{Kind: KindCode, Text: raw})
			continue
		}
		if inFence {
			out = append(out, Line{Kind: KindCode, Text: raw})
			continue
		}
		if level := headingLevel(trimmed); level > 0 {
			body := strings.TrimSpace(trimmed[level:])
			out = append(out, Line{Kind: KindHeading, Level: level, Spans: ParseInline(body)})
			continue
		}
		if body, ok := bulletBody(trimmed); ok {
			out = append(out, Line{Kind: KindBullet, Spans: ParseInline(body)})
			continue
		}
		out = append(out, Line{Kind: KindText, Spans: ParseInline(raw)})
	}
	return out
}

func headingLevel(line string) int {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0
	}
	if level == len(line) || line[level] != ' ' {
		return 0
	}
	return level
}

func bulletBody(line string) (string, bool) {
	for _, marker := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(line[len(marker):]), true
		}
	}
	return "", false
}

// ParseInline parses a subset of inline markdown (bold, italic, code).
// Supported markers: **bold**, *italic*, and `code`. Unclosed markers stay
// literal.
func ParseInline(input string) []Span {
	if input == "" {
		return nil
	}
	p := inlineParser{input: input}
	return p.run()
}

type inlineParser struct {
	input  string
	pos    int
	buf    strings.Builder
	spans  []Span
	bold   bool
	italic bool
	code   bool
}

func (p *inlineParser) run() []Span {
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		switch {
		case ch == '\\' && p.pos+1 < len(p.input):
			p.buf.WriteByte(p.input[p.pos+1])
			p.pos += 2
		case ch == '`':
			p.toggleCode()
		case ch == '*' && !p.code:
			p.toggleEmphasis()
		default:
			p.buf.WriteByte(ch)
			p.pos++
		}
	}
	p.flush()
	return p.spans
}

func (p *inlineParser) toggleCode() {
	if p.code || strings.Contains(p.input[p.pos+1:], "`") {
		p.flush()
		p.code = !p.code
		p.pos++
		return
	}
	p.buf.WriteByte('`')
	p.pos++
}

func (p *inlineParser) toggleEmphasis() {
	if strings.HasPrefix(p.input[p.pos:], "**") {
		if p.bold || strings.Contains(p.input[p.pos+2:], "**") {
			p.flush()
			p.bold = !p.bold
		} else {
			p.buf.WriteString("**")
		}
		p.pos += 2
		return
	}
	if p.italic || strings.Contains(p.input[p.pos+1:], "*") {
		p.flush()
		p.italic = !p.italic
		p.pos++
		return
	}
	p.buf.WriteByte('*')
	p.pos++
}

func (p *inlineParser) flush() {
	if p.buf.Len() == 0 {
		return
	}
	p.spans = append(p.spans, Span{
		Text:   p.buf.String(),
		Bold:   p.bold,
		Italic: p.italic,
		Code:   p.code,
	})
	p.buf.Reset()
}
