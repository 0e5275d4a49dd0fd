// Package format turns structured engine stream events into human-readable
// console lines. Formatting must never fail: every branch degrades to a less
// specific rendering instead of returning an error.
package format

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"pkt.systems/adecon/schema"
)

const sep = " · "

// PlainRenderer renders console lines without styling. It is the default
// renderer and the one used for piped or logged output.
type PlainRenderer struct{}

// NewPlainRenderer constructs a PlainRenderer.
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// RenderLine renders one console line into display lines.
func (r *PlainRenderer) RenderLine(line schema.ConsoleLine) []string {
	if line.Raw != nil {
		return []string{FormatEvent(line.Raw)}
	}
	return renderMessage(line.Message, plainJSON, nil)
}

// FormatEvent maps one stream event to a single summary line. Unknown events
// fall back to the message when it is present and distinct from the event
// name, otherwise to the event name itself.
func FormatEvent(ev *schema.StreamEvent) string {
	if ev == nil {
		return ""
	}
	switch ev.Event {
	case schema.EventBuildStarted:
		return join("Build started", dataString(ev.Data, "config_name"))
	case schema.EventBuildCompleted:
		return join("Build completed", countField(ev.Data, "warnings", "warnings"))
	case schema.EventBuildFailed:
		return join("Build failed", firstNonEmpty(dataString(ev.Data, "error"), ev.Message))
	case schema.EventValidationStarted:
		return "Validation started"
	case schema.EventValidationIssue:
		return join(
			firstNonEmpty(dataString(ev.Data, "severity"), "issue"),
			dataString(ev.Data, "path"),
			dataString(ev.Data, "code"),
			firstNonEmpty(dataString(ev.Data, "message"), ev.Message),
		)
	case schema.EventValidationCompleted:
		return join("Validation completed", countField(ev.Data, "issues", "issues"))
	case schema.EventRunStarted:
		return join("Run started", dataString(ev.Data, "document_name"))
	case schema.EventRunCompleted:
		return join("Run completed", countField(ev.Data, "sheets", "sheets"), countField(ev.Data, "tables", "tables"))
	case schema.EventRunFailed:
		return join("Run failed", firstNonEmpty(dataString(ev.Data, "error"), ev.Message))
	case schema.EventSheetStarted:
		return join(sheetLabel(ev.Data), "started")
	case schema.EventSheetCompleted:
		return join(sheetLabel(ev.Data), "completed", countField(ev.Data, "tables", "tables"))
	case schema.EventTableWritten:
		return formatTableWritten(ev.Data)
	case schema.EventFieldExtracted:
		return join(sheetLabel(ev.Data), dataString(ev.Data, "field_name"), dataString(ev.Data, "value"))
	case schema.EventLogMessage:
		if ev.Message != "" {
			return ev.Message
		}
		return string(ev.Event)
	default:
		if ev.Message != "" && ev.Message != string(ev.Event) {
			return ev.Message
		}
		return string(ev.Event)
	}
}

// formatTableWritten renders the per-table summary. Table indices in the
// stream are zero-based; they display one-based.
func formatTableWritten(data map[string]any) string {
	table := "Table"
	if idx, ok := dataInt(data, "table_index"); ok {
		table = "Table " + strconv.Itoa(idx+1)
	}
	line := join(sheetLabel(data), table, "written", dataString(data, "output_range"))
	var counts []string
	if rows, ok := dataInt(data, "rows"); ok {
		counts = append(counts, "rows="+strconv.Itoa(rows))
	}
	if unmapped, ok := dataInt(data, "unmapped"); ok {
		counts = append(counts, "unmapped="+strconv.Itoa(unmapped))
	}
	if len(counts) > 0 {
		line = join(line, strings.Join(counts, " "))
	}
	return line
}

func sheetLabel(data map[string]any) string {
	return dataString(data, "sheet_name")
}

func countField(data map[string]any, key, label string) string {
	if n, ok := dataInt(data, key); ok {
		return label + "=" + strconv.Itoa(n)
	}
	return ""
}

func join(parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func dataString(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	switch v := data[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return formatNumber(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func dataInt(data map[string]any, key string) (int, bool) {
	if data == nil {
		return 0, false
	}
	switch v := data[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
	}
	return 0, false
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// renderMessage renders a free-form message: multi-line messages become an
// emphasized first line plus an indented remainder, single-line messages that
// parse as a JSON object or array are pretty-printed.
func renderMessage(message string, pretty func(any) []string, emphasize func(string) string) []string {
	if emphasize == nil {
		emphasize = func(s string) string { return s }
	}
	message = strings.TrimRight(message, "\n")
	if message == "" {
		return nil
	}
	if strings.Contains(message, "\n") {
		parts := strings.Split(message, "\n")
		out := []string{emphasize(parts[0])}
		for _, rest := range parts[1:] {
			out = append(out, "    "+rest)
		}
		return out
	}
	trimmed := strings.TrimSpace(message)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var value any
		if err := json.Unmarshal([]byte(trimmed), &value); err == nil {
			return pretty(value)
		}
	}
	return []string{message}
}

// plainJSON pretty-prints a decoded JSON value without styling.
func plainJSON(value any) []string {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return []string{fmt.Sprintf("%v", value)}
	}
	return strings.Split(string(data), "\n")
}

// sortedKeys is shared by renderers that walk decoded JSON objects.
func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
