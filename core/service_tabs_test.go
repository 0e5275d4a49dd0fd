package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pkt.systems/adecon/schema"
)

type stubStore struct {
	mu       sync.Mutex
	entries  []schema.FileEntry
	contents map[schema.TabID]string
	etags    map[schema.TabID]string
	saves    int
}

func newStubStore(paths ...string) *stubStore {
	s := &stubStore{
		contents: map[schema.TabID]string{},
		etags:    map[schema.TabID]string{},
	}
	for _, p := range paths {
		s.entries = append(s.entries, schema.FileEntry{Path: p, Name: p, Kind: schema.FileKindFile})
		s.contents[schema.TabID(p)] = "content of " + p
		s.etags[schema.TabID(p)] = "v1"
	}
	return s
}

func (s *stubStore) ListFiles(ctx context.Context, key schema.SessionKey) ([]schema.FileEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]schema.FileEntry(nil), s.entries...), nil
}

func (s *stubStore) LoadFile(ctx context.Context, key schema.SessionKey, path schema.TabID) (schema.FileContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.contents[path]
	if !ok {
		return schema.FileContent{}, schema.ErrFileNotFound
	}
	etag := s.etags[path]
	return schema.FileContent{Content: content, ETag: etag, Meta: schema.FileMeta{ETag: etag}}, nil
}

func (s *stubStore) SaveFile(ctx context.Context, key schema.SessionKey, path schema.TabID, content, etag string) (schema.FileMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.etags[path]
	if !ok {
		return schema.FileMeta{}, schema.ErrFileNotFound
	}
	if etag != current {
		return schema.FileMeta{}, schema.ErrVersionConflict
	}
	s.saves++
	s.contents[path] = content
	next := current + "x"
	s.etags[path] = next
	return schema.FileMeta{ETag: next, Size: int64(len(content))}, nil
}

// setServerFile simulates an external modification.
func (s *stubStore) setServerFile(path schema.TabID, content, etag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contents[path] = content
	s.etags[path] = etag
}

func (s *stubStore) dropEntry(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.entries[:0]
	for _, e := range s.entries {
		if e.Path != path {
			out = append(out, e)
		}
	}
	s.entries = out
	delete(s.contents, schema.TabID(path))
	delete(s.etags, schema.TabID(path))
}

func testSession() schema.SessionKey {
	return schema.SessionKey{Workspace: "acme", Config: "invoices"}
}

func newTestService(t *testing.T, store *stubStore) Service {
	t.Helper()
	svc, err := NewService(schema.ServiceConfig{StateDir: t.TempDir()}, ServiceDeps{Files: store})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if _, err := svc.OpenSession(context.Background(), schema.OpenSessionRequest{Session: testSession()}); err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	return svc
}

func waitStatus(t *testing.T, svc Service, id schema.TabID, status schema.TabStatus) schema.GetTabResponse {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := svc.GetTab(context.Background(), schema.GetTabRequest{Session: testSession(), TabID: id})
		if err == nil && resp.Tab.Status == status {
			return resp
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("tab %s never reached status %s", id, status)
	return schema.GetTabResponse{}
}

func openReady(t *testing.T, svc Service, path string) schema.TabID {
	t.Helper()
	id := schema.TabID(path)
	if _, err := svc.OpenFile(context.Background(), schema.OpenFileRequest{Session: testSession(), Path: id}); err != nil {
		t.Fatalf("OpenFile(%s): %v", path, err)
	}
	waitStatus(t, svc, id, schema.TabStatusReady)
	return id
}

func TestOpenFileIsIdempotent(t *testing.T) {
	svc := newTestService(t, newStubStore("a.py", "b.py"))
	openReady(t, svc, "a.py")
	if _, err := svc.OpenFile(context.Background(), schema.OpenFileRequest{Session: testSession(), Path: "a.py"}); err != nil {
		t.Fatalf("second OpenFile: %v", err)
	}
	tabs, err := svc.ListTabs(context.Background(), schema.ListTabsRequest{Session: testSession()})
	if err != nil {
		t.Fatalf("ListTabs: %v", err)
	}
	if len(tabs.Tabs) != 1 {
		t.Fatalf("expected 1 tab, got %d", len(tabs.Tabs))
	}
	if tabs.ActiveTab != "a.py" {
		t.Fatalf("expected a.py active, got %s", tabs.ActiveTab)
	}
}

func TestDirtyPredicateTracksEditsAndSave(t *testing.T) {
	store := newStubStore("draft.py")
	svc := newTestService(t, store)
	id := openReady(t, svc, "draft.py")

	unsaved, _ := svc.UnsavedChanges(context.Background(), schema.UnsavedChangesRequest{Session: testSession()})
	if unsaved.Dirty {
		t.Fatalf("freshly loaded tab must not be dirty")
	}

	if _, err := svc.UpdateContent(context.Background(), schema.UpdateContentRequest{Session: testSession(), TabID: id, Content: "edited"}); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	unsaved, _ = svc.UnsavedChanges(context.Background(), schema.UnsavedChangesRequest{Session: testSession()})
	if !unsaved.Dirty || len(unsaved.Tabs) != 1 || unsaved.Tabs[0] != id {
		t.Fatalf("expected dirty tab %s, got %+v", id, unsaved)
	}

	resp, err := svc.SaveTab(context.Background(), schema.SaveTabRequest{Session: testSession(), TabID: id})
	if err != nil {
		t.Fatalf("SaveTab: %v", err)
	}
	if resp.Tab.Dirty || resp.Tab.SaveError != "" {
		t.Fatalf("expected clean tab after save, got %+v", resp.Tab)
	}
	if store.saves != 1 {
		t.Fatalf("expected 1 backend save, got %d", store.saves)
	}
	if resp.Tab.ETag != "v1x" {
		t.Fatalf("expected bumped etag, got %s", resp.Tab.ETag)
	}
}

func TestCloseActivePicksRightNeighborThenLeft(t *testing.T) {
	svc := newTestService(t, newStubStore("a.py", "b.py", "c.py"))
	a := openReady(t, svc, "a.py")
	if _, err := svc.PinTab(context.Background(), schema.PinTabRequest{Session: testSession(), TabID: a}); err != nil {
		t.Fatalf("PinTab: %v", err)
	}
	b := openReady(t, svc, "b.py")
	c := openReady(t, svc, "c.py")
	if _, err := svc.SelectTab(context.Background(), schema.SelectTabRequest{Session: testSession(), TabID: b}); err != nil {
		t.Fatalf("SelectTab: %v", err)
	}

	resp, err := svc.CloseTab(context.Background(), schema.CloseTabRequest{Session: testSession(), TabID: b})
	if err != nil {
		t.Fatalf("CloseTab: %v", err)
	}
	if resp.ActiveTab != c {
		t.Fatalf("expected right neighbor %s active, got %s", c, resp.ActiveTab)
	}

	resp, err = svc.CloseTab(context.Background(), schema.CloseTabRequest{Session: testSession(), TabID: c})
	if err != nil {
		t.Fatalf("CloseTab: %v", err)
	}
	if resp.ActiveTab != a {
		t.Fatalf("expected left fallback %s active, got %s", a, resp.ActiveTab)
	}
}

func TestSelectRecentTabRoundTrips(t *testing.T) {
	svc := newTestService(t, newStubStore("a.py", "b.py"))
	openReady(t, svc, "a.py")
	b := openReady(t, svc, "b.py")

	forward, err := svc.SelectRecentTab(context.Background(), schema.SelectRecentTabRequest{Session: testSession(), Direction: schema.CycleForward})
	if err != nil {
		t.Fatalf("SelectRecentTab forward: %v", err)
	}
	if forward.Tab.ID != "a.py" {
		t.Fatalf("expected a.py after forward, got %s", forward.Tab.ID)
	}
	backward, err := svc.SelectRecentTab(context.Background(), schema.SelectRecentTabRequest{Session: testSession(), Direction: schema.CycleBackward})
	if err != nil {
		t.Fatalf("SelectRecentTab backward: %v", err)
	}
	if backward.Tab.ID != b {
		t.Fatalf("expected %s after backward, got %s", b, backward.Tab.ID)
	}
	if _, err := svc.SelectRecentTab(context.Background(), schema.SelectRecentTabRequest{Session: testSession(), Direction: "sideways"}); !errors.Is(err, schema.ErrInvalidDirection) {
		t.Fatalf("expected ErrInvalidDirection, got %v", err)
	}
}

func TestPinPartitionAndMove(t *testing.T) {
	svc := newTestService(t, newStubStore("a.py", "b.py", "c.py"))
	openReady(t, svc, "a.py")
	openReady(t, svc, "b.py")
	c := openReady(t, svc, "c.py")

	if _, err := svc.PinTab(context.Background(), schema.PinTabRequest{Session: testSession(), TabID: c}); err != nil {
		t.Fatalf("PinTab: %v", err)
	}
	tabs, _ := svc.ListTabs(context.Background(), schema.ListTabsRequest{Session: testSession()})
	if tabs.Tabs[0].ID != c || !tabs.Tabs[0].Pinned {
		t.Fatalf("expected pinned %s first, got %+v", c, tabs.Tabs[0])
	}

	// Moving a pinned tab into the regular zone unpins it at the index.
	moved, err := svc.MoveTab(context.Background(), schema.MoveTabRequest{Session: testSession(), TabID: c, Index: 1, Zone: schema.TabZoneRegular})
	if err != nil {
		t.Fatalf("MoveTab: %v", err)
	}
	if moved.Tabs[0].Pinned {
		t.Fatalf("expected no pinned tabs after move, got %+v", moved.Tabs[0])
	}
	if moved.Tabs[1].ID != c {
		t.Fatalf("expected %s at index 1, got %s", c, moved.Tabs[1].ID)
	}

	if _, err := svc.MoveTab(context.Background(), schema.MoveTabRequest{Session: testSession(), TabID: c, Index: 0, Zone: "floating"}); !errors.Is(err, schema.ErrInvalidZone) {
		t.Fatalf("expected ErrInvalidZone, got %v", err)
	}
}

func TestCloseOtherTabsKeepsPinned(t *testing.T) {
	svc := newTestService(t, newStubStore("a.py", "b.py", "c.py"))
	a := openReady(t, svc, "a.py")
	if _, err := svc.PinTab(context.Background(), schema.PinTabRequest{Session: testSession(), TabID: a}); err != nil {
		t.Fatalf("PinTab: %v", err)
	}
	b := openReady(t, svc, "b.py")
	openReady(t, svc, "c.py")

	resp, err := svc.CloseOtherTabs(context.Background(), schema.CloseOtherTabsRequest{Session: testSession(), TabID: b})
	if err != nil {
		t.Fatalf("CloseOtherTabs: %v", err)
	}
	if len(resp.Closed) != 1 || resp.Closed[0] != "c.py" {
		t.Fatalf("expected only c.py closed, got %v", resp.Closed)
	}
	tabs, _ := svc.ListTabs(context.Background(), schema.ListTabsRequest{Session: testSession()})
	if len(tabs.Tabs) != 2 {
		t.Fatalf("expected pinned a.py and anchor b.py to survive, got %+v", tabs.Tabs)
	}
}

func TestSaveConflictReloadsServerContent(t *testing.T) {
	store := newStubStore("f.py")
	svc := newTestService(t, store)
	id := openReady(t, svc, "f.py")

	if _, err := svc.UpdateContent(context.Background(), schema.UpdateContentRequest{Session: testSession(), TabID: id, Content: "mine"}); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	store.setServerFile(id, "theirs", "v2")

	resp, err := svc.SaveTab(context.Background(), schema.SaveTabRequest{Session: testSession(), TabID: id})
	if err != nil {
		t.Fatalf("save conflict must surface as tab state, got error %v", err)
	}
	if resp.Tab.SaveError == "" {
		t.Fatalf("expected saveError on conflict")
	}
	got, _ := svc.GetTab(context.Background(), schema.GetTabRequest{Session: testSession(), TabID: id})
	if got.Content != "theirs" || got.InitialContent != "theirs" {
		t.Fatalf("expected server content reloaded, got %+v", got)
	}
	if got.Tab.Dirty {
		t.Fatalf("reloaded tab must not be dirty")
	}
	if got.Tab.ETag != "v2" {
		t.Fatalf("expected etag v2 after reload, got %s", got.Tab.ETag)
	}
}

func TestSessionRehydrateDropsStaleTabs(t *testing.T) {
	stateDir := t.TempDir()
	store := newStubStore("x.py", "y.py")

	svc, err := NewService(schema.ServiceConfig{StateDir: stateDir}, ServiceDeps{Files: store})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if _, err := svc.OpenSession(context.Background(), schema.OpenSessionRequest{Session: testSession()}); err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	openReady(t, svc, "x.py")
	y := openReady(t, svc, "y.py")
	if _, err := svc.PinTab(context.Background(), schema.PinTabRequest{Session: testSession(), TabID: y}); err != nil {
		t.Fatalf("PinTab: %v", err)
	}
	if _, err := svc.SelectTab(context.Background(), schema.SelectTabRequest{Session: testSession(), TabID: y}); err != nil {
		t.Fatalf("SelectTab: %v", err)
	}
	if _, err := svc.CloseSession(context.Background(), schema.CloseSessionRequest{Session: testSession()}); err != nil {
		t.Fatalf("CloseSession: %v", err)
	}

	// x.py vanished on the backend between sessions.
	store.dropEntry("x.py")

	svc2, err := NewService(schema.ServiceConfig{StateDir: stateDir}, ServiceDeps{Files: store})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	resp, err := svc2.OpenSession(context.Background(), schema.OpenSessionRequest{Session: testSession()})
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if !resp.Restored {
		t.Fatalf("expected restored session")
	}
	if len(resp.Tabs) != 1 || resp.Tabs[0].ID != y {
		t.Fatalf("expected only %s restored, got %+v", y, resp.Tabs)
	}
	if !resp.Tabs[0].Pinned {
		t.Fatalf("expected pin state restored")
	}
	if resp.ActiveTab != y {
		t.Fatalf("expected %s active after restore, got %s", y, resp.ActiveTab)
	}
}

func TestRefreshFilesDropsCleanVanishedTabs(t *testing.T) {
	store := newStubStore("keep.py", "gone.py", "dirty.py")
	svc := newTestService(t, store)
	openReady(t, svc, "keep.py")
	openReady(t, svc, "gone.py")
	d := openReady(t, svc, "dirty.py")
	if _, err := svc.UpdateContent(context.Background(), schema.UpdateContentRequest{Session: testSession(), TabID: d, Content: "unsaved"}); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}

	store.dropEntry("gone.py")
	store.dropEntry("dirty.py")

	resp, err := svc.RefreshFiles(context.Background(), schema.RefreshFilesRequest{Session: testSession()})
	if err != nil {
		t.Fatalf("RefreshFiles: %v", err)
	}
	if len(resp.Dropped) != 1 || resp.Dropped[0] != "gone.py" {
		t.Fatalf("expected only clean gone.py dropped, got %v", resp.Dropped)
	}
	tabs, _ := svc.ListTabs(context.Background(), schema.ListTabsRequest{Session: testSession()})
	if len(tabs.Tabs) != 2 {
		t.Fatalf("expected keep.py and dirty.py to survive, got %+v", tabs.Tabs)
	}
}

func TestCloseTabUnknownSessionAndTab(t *testing.T) {
	svc := newTestService(t, newStubStore("a.py"))
	if _, err := svc.CloseTab(context.Background(), schema.CloseTabRequest{Session: testSession(), TabID: "missing.py"}); !errors.Is(err, schema.ErrTabNotFound) {
		t.Fatalf("expected ErrTabNotFound, got %v", err)
	}
	other := schema.SessionKey{Workspace: "acme", Config: "other"}
	if _, err := svc.CloseTab(context.Background(), schema.CloseTabRequest{Session: other, TabID: "a.py"}); !errors.Is(err, schema.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
