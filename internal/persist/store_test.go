package persist

import (
	"os"
	"path/filepath"
	"testing"

	"pkt.systems/adecon/schema"
)

func testKey() schema.SessionKey {
	return schema.SessionKey{Workspace: "acme", Config: "invoices"}
}

func TestLoadMissIsNotAnError(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	_, ok, err := store.Load(testKey())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Fatalf("expected miss for an empty store")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	snapshot := schema.SessionSnapshot{
		OpenTabs: []schema.TabRef{
			{ID: "configs/extract.py", Pinned: true},
			{ID: "configs/helpers.py"},
		},
		ActiveTab: "configs/helpers.py",
		MRU:       []schema.TabID{"configs/helpers.py", "configs/extract.py"},
		Theme:     "light",
	}
	if err := store.Save(testKey(), snapshot); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, ok, err := store.Load(testKey())
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if len(loaded.OpenTabs) != 2 || !loaded.OpenTabs[0].Pinned {
		t.Fatalf("unexpected tabs %+v", loaded.OpenTabs)
	}
	if loaded.ActiveTab != snapshot.ActiveTab || loaded.Theme != snapshot.Theme {
		t.Fatalf("unexpected snapshot %+v", loaded)
	}
}

func TestSaveWritesPrivateFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Save(testKey(), schema.SessionSnapshot{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "acme--invoices.json"))
	if err != nil {
		t.Fatalf("expected snapshot file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600, got %o", perm)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Delete(testKey()); err != nil {
		t.Fatalf("delete of missing snapshot must not fail: %v", err)
	}
	if err := store.Save(testKey(), schema.SessionSnapshot{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(testKey()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := store.Load(testKey()); ok {
		t.Fatalf("expected snapshot gone after delete")
	}
}

func TestPathSanitizesSessionKey(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	key := schema.SessionKey{Workspace: "../evil", Config: "a/b c"}
	if err := store.Save(key, schema.SessionSnapshot{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one file inside the store dir, got %d", len(entries))
	}
	if name := entries[0].Name(); name != ".._evil--a_b_c.json" {
		t.Fatalf("unexpected file name %q", name)
	}
}

func TestNewStoreRequiresDirectory(t *testing.T) {
	if _, err := NewStore("  "); err == nil {
		t.Fatalf("expected error for blank directory")
	}
}
