package nav

import "testing"

func TestNavigateTruncatesForwardBranch(t *testing.T) {
	c := NewController("/workbench", nil)
	if !c.Navigate("?file=a.py") {
		t.Fatalf("navigate should commit without blockers")
	}
	if !c.Navigate("?file=b.py") {
		t.Fatalf("navigate should commit without blockers")
	}
	if !c.Back() {
		t.Fatalf("back should commit")
	}
	if got := c.Location().Query; got != "file=a.py" {
		t.Fatalf("expected file=a.py after back, got %q", got)
	}

	// Pushing from the middle of history drops the forward branch.
	if !c.Navigate("?file=c.py") {
		t.Fatalf("navigate should commit")
	}
	if c.Forward() {
		t.Fatalf("forward should have nothing to move to")
	}
	if got := c.Location().Query; got != "file=c.py" {
		t.Fatalf("expected file=c.py, got %q", got)
	}
}

func TestBackForwardStopAtBounds(t *testing.T) {
	c := NewController("/workbench", nil)
	if c.Back() {
		t.Fatalf("back at history start must not commit")
	}
	if c.Forward() {
		t.Fatalf("forward at history end must not commit")
	}
	if got := c.Location().Path; got != "/workbench" {
		t.Fatalf("location must be unchanged, got %q", got)
	}
}

func TestBlockerVetoLeavesLocationUntouched(t *testing.T) {
	c := NewController("/workbench?file=a.py", nil)
	c.Navigate("?file=b.py")

	var seen []Intent
	unregister := c.RegisterBlocker(func(intent Intent) bool {
		seen = append(seen, intent)
		return false
	})

	if c.Navigate("?file=c.py") {
		t.Fatalf("vetoed navigation must not commit")
	}
	if c.Back() {
		t.Fatalf("vetoed back must not commit")
	}
	if got := c.Location().Query; got != "file=b.py" {
		t.Fatalf("expected location unchanged, got %q", got)
	}
	if len(seen) != 2 {
		t.Fatalf("expected blocker consulted twice, got %d", len(seen))
	}
	if seen[0].Kind != KindPush || seen[1].Kind != KindPop {
		t.Fatalf("unexpected intent kinds: %+v", seen)
	}

	unregister()
	if !c.Navigate("?file=c.py") {
		t.Fatalf("navigation must commit after blocker removal")
	}
}

func TestReplaceDoesNotGrowHistory(t *testing.T) {
	c := NewController("/workbench", nil)
	c.Navigate("?file=a.py")
	if !c.Replace("?file=a.py&console=open") {
		t.Fatalf("replace should commit")
	}
	if !c.Back() {
		t.Fatalf("back should land on the start entry")
	}
	if got := c.Location().Query; got != "" {
		t.Fatalf("expected start entry, got query %q", got)
	}
	if !c.Forward() {
		t.Fatalf("forward should return to the replaced entry")
	}
	if got := c.Location().Query; got != "file=a.py&console=open" {
		t.Fatalf("expected replaced entry, got %q", got)
	}
	if c.Forward() {
		t.Fatalf("replace must not have added an extra entry")
	}
}

func TestSubscribeReceivesCommittedLocations(t *testing.T) {
	c := NewController("/workbench", nil)
	ch, cancel := c.Subscribe()
	defer cancel()

	c.Navigate("?file=a.py")
	select {
	case loc := <-ch:
		if loc.Query != "file=a.py" {
			t.Fatalf("unexpected location %q", loc.String())
		}
	default:
		t.Fatalf("expected a published location")
	}

	c.RegisterBlocker(func(Intent) bool { return false })
	c.Navigate("?file=b.py")
	select {
	case loc := <-ch:
		t.Fatalf("vetoed navigation must not publish, got %q", loc.String())
	default:
	}
}

func TestResolveRelativeQueryKeepsPath(t *testing.T) {
	loc := ParseLocation("/workbench?file=a.py#top")
	got := loc.Resolve("?pane=validation")
	if got.Path != "/workbench" || got.Query != "pane=validation" {
		t.Fatalf("unexpected resolve result %+v", got)
	}
	frag := loc.Resolve("#bottom")
	if frag.Path != "/workbench" || frag.Query != "file=a.py" || frag.Fragment != "bottom" {
		t.Fatalf("fragment-only resolve must keep path and query, got %+v", frag)
	}
}
