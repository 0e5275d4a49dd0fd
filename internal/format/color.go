package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pkt.systems/adecon/schema"
)

// ColorRenderer renders console lines with lipgloss styling for interactive
// terminals. Event summaries are tinted by level; JSON payloads get per-token
// styling.
type ColorRenderer struct {
	debug    lipgloss.Style
	info     lipgloss.Style
	warning  lipgloss.Style
	errStyle lipgloss.Style
	emphasis lipgloss.Style
	key      lipgloss.Style
	str      lipgloss.Style
	num      lipgloss.Style
	literal  lipgloss.Style
	punct    lipgloss.Style
}

// NewColorRenderer constructs a ColorRenderer with the default palette.
func NewColorRenderer() *ColorRenderer {
	return &ColorRenderer{
		debug:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		info:     lipgloss.NewStyle(),
		warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		errStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		emphasis: lipgloss.NewStyle().Bold(true),
		key:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		str:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		num:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		literal:  lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		punct:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// RenderLine renders one console line into styled display lines.
func (r *ColorRenderer) RenderLine(line schema.ConsoleLine) []string {
	style := r.levelStyle(line.Level)
	if line.Raw != nil {
		if line.Raw.Level != "" {
			style = r.levelStyle(line.Raw.Level)
		}
		return []string{style.Render(FormatEvent(line.Raw))}
	}
	rendered := renderMessage(line.Message, r.styledJSON, func(first string) string {
		return r.emphasis.Render(first)
	})
	for i, l := range rendered {
		if strings.HasPrefix(l, "    ") || looksStyled(l) {
			continue
		}
		rendered[i] = style.Render(l)
	}
	return rendered
}

func (r *ColorRenderer) levelStyle(level schema.LogLevel) lipgloss.Style {
	switch level {
	case schema.LevelDebug:
		return r.debug
	case schema.LevelWarning:
		return r.warning
	case schema.LevelError:
		return r.errStyle
	default:
		return r.info
	}
}

func looksStyled(s string) bool {
	return strings.Contains(s, "\x1b[")
}

// styledJSON pretty-prints a decoded JSON value with one styled token class
// per value kind.
func (r *ColorRenderer) styledJSON(value any) []string {
	var lines []string
	r.walkJSON(&lines, "", "", value, "")
	return lines
}

// walkJSON appends styled lines for value at the given indent. key is the
// rendered object key prefix (empty for array elements and the root), and
// trailer is the punctuation appended after the value (a comma inside
// composites).
func (r *ColorRenderer) walkJSON(lines *[]string, indent, key string, value any, trailer string) {
	prefix := indent + key
	switch v := value.(type) {
	case map[string]any:
		*lines = append(*lines, prefix+r.punct.Render("{"))
		keys := sortedKeys(v)
		for i, k := range keys {
			comma := ""
			if i < len(keys)-1 {
				comma = r.punct.Render(",")
			}
			label := r.key.Render(strconv.Quote(k)) + r.punct.Render(": ")
			r.walkJSON(lines, indent+"  ", label, v[k], comma)
		}
		*lines = append(*lines, indent+r.punct.Render("}")+trailer)
	case []any:
		*lines = append(*lines, prefix+r.punct.Render("["))
		for i, item := range v {
			comma := ""
			if i < len(v)-1 {
				comma = r.punct.Render(",")
			}
			r.walkJSON(lines, indent+"  ", "", item, comma)
		}
		*lines = append(*lines, indent+r.punct.Render("]")+trailer)
	case string:
		*lines = append(*lines, prefix+r.str.Render(strconv.Quote(v))+trailer)
	case float64:
		*lines = append(*lines, prefix+r.num.Render(formatNumber(v))+trailer)
	case bool:
		*lines = append(*lines, prefix+r.literal.Render(strconv.FormatBool(v))+trailer)
	case nil:
		*lines = append(*lines, prefix+r.literal.Render("null")+trailer)
	default:
		*lines = append(*lines, prefix+fmt.Sprintf("%v", v)+trailer)
	}
}
