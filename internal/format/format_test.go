package format

import (
	"strings"
	"testing"

	"pkt.systems/adecon/schema"
)

func TestFormatTableWritten(t *testing.T) {
	got := FormatEvent(&schema.StreamEvent{
		Event: schema.EventTableWritten,
		Data: map[string]any{
			"sheet_name":   "Nov",
			"table_index":  float64(0),
			"output_range": "A1:D5",
		},
	})
	want := "Nov · Table 1 · written · A1:D5"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatTableWrittenWithCounts(t *testing.T) {
	got := FormatEvent(&schema.StreamEvent{
		Event: schema.EventTableWritten,
		Data: map[string]any{
			"sheet_name":   "Dec",
			"table_index":  float64(2),
			"output_range": "B2:F9",
			"rows":         float64(7),
			"unmapped":     float64(1),
		},
	})
	want := "Dec · Table 3 · written · B2:F9 · rows=7 unmapped=1"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatValidationIssue(t *testing.T) {
	got := FormatEvent(&schema.StreamEvent{
		Event: schema.EventValidationIssue,
		Data: map[string]any{
			"severity": "error",
			"path":     "configs/extract.py",
			"code":     "E101",
			"message":  "unknown field",
		},
	})
	want := "error · configs/extract.py · E101 · unknown field"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatUnknownEventFallsBack(t *testing.T) {
	// Message distinct from the event name wins.
	got := FormatEvent(&schema.StreamEvent{Event: "engine.future.thing", Message: "something new"})
	if got != "something new" {
		t.Fatalf("got %q", got)
	}
	// Message equal to the event name is redundant.
	got = FormatEvent(&schema.StreamEvent{Event: "engine.future.thing", Message: "engine.future.thing"})
	if got != "engine.future.thing" {
		t.Fatalf("got %q", got)
	}
	// No message at all.
	got = FormatEvent(&schema.StreamEvent{Event: "engine.future.thing"})
	if got != "engine.future.thing" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatEventNeverPanics(t *testing.T) {
	if got := FormatEvent(nil); got != "" {
		t.Fatalf("nil event must render empty, got %q", got)
	}
	events := []schema.StreamEvent{
		{Event: schema.EventTableWritten},
		{Event: schema.EventRunCompleted, Data: map[string]any{"sheets": "not-a-number"}},
		{Event: schema.EventBuildFailed},
		{Event: schema.EventFieldExtracted, Data: map[string]any{"value": []any{1, 2}}},
	}
	for _, ev := range events {
		ev := ev
		_ = FormatEvent(&ev)
	}
}

func TestRenderMultiLineMessage(t *testing.T) {
	r := NewPlainRenderer()
	lines := r.RenderLine(schema.ConsoleLine{
		Level:   schema.LevelError,
		Message: "Traceback (most recent call last):\n  File \"extract.py\", line 3\nKeyError: 'total'",
	})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "Traceback (most recent call last):" {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	for _, rest := range lines[1:] {
		if !strings.HasPrefix(rest, "    ") {
			t.Fatalf("continuation lines must be indented, got %q", rest)
		}
	}
}

func TestRenderSingleLineJSONPrettyPrints(t *testing.T) {
	r := NewPlainRenderer()
	lines := r.RenderLine(schema.ConsoleLine{Message: `{"b":2,"a":1}`})
	if len(lines) < 3 {
		t.Fatalf("expected pretty-printed object, got %v", lines)
	}
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, `"a": 1`) || !strings.Contains(joined, `"b": 2`) {
		t.Fatalf("unexpected rendering: %q", joined)
	}
}

func TestRenderMalformedJSONStaysVerbatim(t *testing.T) {
	r := NewPlainRenderer()
	lines := r.RenderLine(schema.ConsoleLine{Message: `{"broken":`})
	if len(lines) != 1 || lines[0] != `{"broken":` {
		t.Fatalf("malformed json must pass through, got %v", lines)
	}
}

func TestRenderEmptyMessage(t *testing.T) {
	r := NewPlainRenderer()
	if lines := r.RenderLine(schema.ConsoleLine{Message: "\n"}); len(lines) != 0 {
		t.Fatalf("expected no lines, got %v", lines)
	}
}

func TestColorRendererUsesEventSummary(t *testing.T) {
	r := NewColorRenderer()
	lines := r.RenderLine(schema.ConsoleLine{
		Raw: &schema.StreamEvent{
			Event: schema.EventSheetCompleted,
			Data:  map[string]any{"sheet_name": "Nov", "tables": float64(2)},
		},
	})
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %v", lines)
	}
	if !strings.Contains(lines[0], "Nov") || !strings.Contains(lines[0], "tables=2") {
		t.Fatalf("unexpected line %q", lines[0])
	}
}
