package markdown

import (
	"reflect"
	"testing"
)

func TestParseInlinePlain(t *testing.T) {
	got := ParseInline("hello")
	want := []Span{{Text: "hello"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected spans: %#v", got)
	}
}

func TestParseInlineBoldItalicCode(t *testing.T) {
	got := ParseInline("a **bold** and *ital* and `code`")
	want := []Span{
		{Text: "a "},
		{Text: "bold", Bold: true},
		{Text: " and "},
		{Text: "ital", Italic: true},
		{Text: " and "},
		{Text: "code", Code: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected spans: %#v", got)
	}
}

func TestParseInlineEscapes(t *testing.T) {
	got := ParseInline(`\*not italic\*`)
	want := []Span{{Text: "*not italic*"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected spans: %#v", got)
	}
}

func TestParseInlineUnclosedMarkersLiteral(t *testing.T) {
	got := ParseInline("**bold *oops")
	want := []Span{{Text: "**bold *oops"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected spans: %#v", got)
	}
}

func TestParseLinesClassifies(t *testing.T) {
	lines := ParseLines("# Title\n- item\nplain text\n## Sub heading")
	kinds := []LineKind{KindHeading, KindBullet, KindText, KindHeading}
	if len(lines) != len(kinds) {
		t.Fatalf("expected %d lines, got %d", len(kinds), len(lines))
	}
	for i, want := range kinds {
		if lines[i].Kind != want {
			t.Fatalf("line %d: expected kind %d, got %d", i, want, lines[i].Kind)
		}
	}
	if lines[0].Level != 1 || lines[3].Level != 2 {
		t.Fatalf("unexpected heading levels %d/%d", lines[0].Level, lines[3].Level)
	}
	if lines[1].Spans[0].Text != "item" {
		t.Fatalf("unexpected bullet body %#v", lines[1].Spans)
	}
}

func TestParseLinesFenceSuspendsInline(t *testing.T) {
	lines := ParseLines("```\n**not bold**\n```\n**bold**")
	if lines[0].Kind != KindCode || lines[1].Kind != KindCode || lines[2].Kind != KindCode {
		t.Fatalf("expected code lines, got %#v", lines[:3])
	}
	if lines[1].Text != "**not bold**" {
		t.Fatalf("fenced content must stay verbatim, got %q", lines[1].Text)
	}
	if lines[3].Kind != KindText || !lines[3].Spans[0].Bold {
		t.Fatalf("inline parsing must resume after the fence, got %#v", lines[3])
	}
}

func TestHeadingRequiresSpace(t *testing.T) {
	lines := ParseLines("#not a heading")
	if lines[0].Kind != KindText {
		t.Fatalf("expected plain text, got %#v", lines[0])
	}
}
