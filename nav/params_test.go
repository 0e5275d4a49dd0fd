package nav

import "testing"

func TestBuildParamsSkipsNils(t *testing.T) {
	doc := "doc-1"
	values := BuildParams(map[string]any{
		"document":  doc,
		"worksheet": []string{"Nov", "Dec"},
		"optional":  (*string)(nil),
		"missing":   nil,
	})
	if got := values.Get("document"); got != doc {
		t.Fatalf("expected document=%s, got %q", doc, got)
	}
	if got := values["worksheet"]; len(got) != 2 || got[0] != "Nov" || got[1] != "Dec" {
		t.Fatalf("unexpected worksheet values %v", got)
	}
	if values.Has("optional") || values.Has("missing") {
		t.Fatalf("nil entries must be skipped: %v", values)
	}
}

func TestParamToleratesMalformedQuery(t *testing.T) {
	if got := Param("file=a.py&pane=console", "pane"); got != "console" {
		t.Fatalf("expected console, got %q", got)
	}
	if got := Param("%zz=broken", "file"); got != "" {
		t.Fatalf("malformed query must yield empty string, got %q", got)
	}
}

func TestPatchURLSetsAndDeletes(t *testing.T) {
	got, err := PatchURL("/workbench?file=a.py&console=open", map[string]string{
		"file":    "b.py",
		"console": "",
	})
	if err != nil {
		t.Fatalf("PatchURL: %v", err)
	}
	if got != "/workbench?file=b.py" {
		t.Fatalf("unexpected url %q", got)
	}
}
