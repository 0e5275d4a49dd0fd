package core

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pkt.systems/adecon/internal/format"
	"pkt.systems/adecon/internal/logx"
	"pkt.systems/adecon/internal/persist"
	"pkt.systems/adecon/schema"
	"pkt.systems/pslog"
)

// service implements the workbench service behavior.
type service struct {
	cfg      schema.ServiceConfig
	files    FileStore
	renderer Renderer
	sink     EventSink
	store    *persist.Store
	logger   pslog.Logger
	mu       sync.Mutex
	sessions map[schema.SessionKey]*sessionState
}

// sessionState holds one workspace/config workbench session. order is the
// display order of open tabs; pinned tabs always form a prefix of it. mru is
// most-recently-activated first.
type sessionState struct {
	key     schema.SessionKey
	tabs    map[schema.TabID]*tab
	order   []schema.TabID
	active  schema.TabID
	mru     []schema.TabID
	tree    *schema.FileNode
	console *consoleBuffer
	theme   schema.ThemeName
}

// NewService constructs the workbench service implementation.
func NewService(cfg schema.ServiceConfig, deps ServiceDeps) (Service, error) {
	normalized, err := schema.NormalizeServiceConfig(cfg)
	if err != nil {
		return nil, err
	}
	cfg = normalized
	if deps.Files == nil {
		return nil, errors.New("file store is required")
	}
	if deps.Renderer == nil {
		deps.Renderer = format.NewPlainRenderer()
	}
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	store, err := persist.NewStoreWithLogger(cfg.StateDir, deps.Logger)
	if err != nil {
		return nil, err
	}
	return &service{
		cfg:      cfg,
		files:    deps.Files,
		renderer: deps.Renderer,
		sink:     deps.Sink,
		store:    store,
		logger:   logger,
		sessions: make(map[schema.SessionKey]*sessionState),
	}, nil
}

func (s *service) OpenSession(ctx context.Context, req schema.OpenSessionRequest) (schema.OpenSessionResponse, error) {
	if ctx == nil {
		return schema.OpenSessionResponse{}, errors.New("missing context")
	}
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.OpenSessionResponse{}, err
	}
	log := logx.WithSession(ctx, key)

	s.mu.Lock()
	if state, ok := s.sessions[key]; ok {
		resp := schema.OpenSessionResponse{
			Tabs:      displayTabsLocked(state),
			ActiveTab: state.active,
			Tree:      state.tree,
			Restored:  true,
		}
		s.mu.Unlock()
		return resp, nil
	}
	s.mu.Unlock()

	log.Info("session open start")
	entries, err := s.files.ListFiles(ctx, key)
	if err != nil {
		log.Warn("session open failed", "err", err)
		return schema.OpenSessionResponse{}, err
	}
	tree := BuildFileTree(entries, "")
	snapshot, restored, err := s.store.Load(key)
	if err != nil {
		// A corrupt snapshot should not block the workbench.
		snapshot = schema.SessionSnapshot{}
		restored = false
	}

	state := restoreSession(key, tree, snapshot, s.cfg)

	s.mu.Lock()
	if existing, ok := s.sessions[key]; ok {
		resp := schema.OpenSessionResponse{
			Tabs:      displayTabsLocked(existing),
			ActiveTab: existing.active,
			Tree:      existing.tree,
			Restored:  true,
		}
		s.mu.Unlock()
		return resp, nil
	}
	s.sessions[key] = state
	var loadID schema.TabID
	var loadSeq int
	if state.active != "" {
		if t := state.tabs[state.active]; t != nil && !t.loadStarted {
			t.loadStarted = true
			t.loadSeq++
			loadID = t.ID
			loadSeq = t.loadSeq
		}
	}
	resp := schema.OpenSessionResponse{
		Tabs:      displayTabsLocked(state),
		ActiveTab: state.active,
		Tree:      state.tree,
		Restored:  restored,
	}
	s.mu.Unlock()

	s.emitTreeEvent(schema.TreeEvent{Session: key, Root: tree})
	if loadID != "" {
		s.startLoad(ctx, key, loadID, loadSeq)
	}
	log.Info("session opened", "files", len(entries), "tabs", len(resp.Tabs), "restored", restored)
	return resp, nil
}

func (s *service) CloseSession(ctx context.Context, req schema.CloseSessionRequest) (schema.CloseSessionResponse, error) {
	if ctx == nil {
		return schema.CloseSessionResponse{}, errors.New("missing context")
	}
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.CloseSessionResponse{}, err
	}
	log := logx.WithSession(ctx, key)

	s.mu.Lock()
	state, ok := s.sessions[key]
	if !ok {
		s.mu.Unlock()
		return schema.CloseSessionResponse{}, schema.ErrSessionNotFound
	}
	snap := persistSnapshotLocked(state)
	delete(s.sessions, key)
	s.mu.Unlock()

	s.saveSnapshot(log, key, snap)
	log.Info("session closed", "tabs", len(snap.OpenTabs))
	return schema.CloseSessionResponse{}, nil
}

func (s *service) RefreshFiles(ctx context.Context, req schema.RefreshFilesRequest) (schema.RefreshFilesResponse, error) {
	if ctx == nil {
		return schema.RefreshFilesResponse{}, errors.New("missing context")
	}
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.RefreshFilesResponse{}, err
	}
	log := logx.WithSession(ctx, key)

	entries, err := s.files.ListFiles(ctx, key)
	if err != nil {
		log.Warn("file refresh failed", "err", err)
		return schema.RefreshFilesResponse{}, err
	}
	tree := BuildFileTree(entries, "")

	s.mu.Lock()
	state, ok := s.sessions[key]
	if !ok {
		s.mu.Unlock()
		return schema.RefreshFilesResponse{}, schema.ErrSessionNotFound
	}
	state.tree = tree
	var dropped []schema.TabID
	var events []schema.TabEvent
	for _, id := range append([]schema.TabID(nil), state.order...) {
		t := state.tabs[id]
		if t == nil {
			continue
		}
		if node := FindNode(tree, string(id)); node != nil && !node.IsDir() {
			continue
		}
		// The backing file is gone; dirty tabs stay open so edits survive.
		if t.Dirty() {
			continue
		}
		removeTabLocked(state, id)
		dropped = append(dropped, id)
		events = append(events, schema.TabEvent{
			Session:   key,
			Type:      schema.TabEventClosed,
			Tab:       t.Snapshot(false),
			ActiveTab: state.active,
		})
	}
	snap := persistSnapshotLocked(state)
	s.mu.Unlock()

	s.emitTreeEvent(schema.TreeEvent{Session: key, Root: tree})
	for _, event := range events {
		s.emitTabEvent(event)
	}
	s.saveSnapshot(log, key, snap)
	log.Info("files refreshed", "files", len(entries), "dropped", len(dropped))
	return schema.RefreshFilesResponse{Tree: tree, Dropped: dropped}, nil
}

func (s *service) GetTree(ctx context.Context, req schema.GetTreeRequest) (schema.GetTreeResponse, error) {
	_ = ctx
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.GetTreeResponse{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.sessions[key]
	if !ok {
		return schema.GetTreeResponse{}, schema.ErrSessionNotFound
	}
	return schema.GetTreeResponse{Tree: state.tree}, nil
}

// restoreSession builds a fresh session from a persisted snapshot, dropping
// tab ids that no longer resolve to files in the tree.
func restoreSession(key schema.SessionKey, tree *schema.FileNode, snapshot schema.SessionSnapshot, cfg schema.ServiceConfig) *sessionState {
	state := &sessionState{
		key:     key,
		tabs:    make(map[schema.TabID]*tab),
		tree:    tree,
		console: newConsoleBuffer(cfg.ConsoleMaxLines),
		theme:   cfg.DefaultTheme,
	}
	if snapshot.Theme != "" {
		state.theme = snapshot.Theme
	}
	var pinned, regular []schema.TabID
	for _, ref := range snapshot.OpenTabs {
		id := schema.TabID(canonicalPath(string(ref.ID)))
		if id == "" {
			continue
		}
		if _, exists := state.tabs[id]; exists {
			continue
		}
		node := FindNode(tree, string(id))
		if node == nil || node.IsDir() {
			continue
		}
		t := newTab(id, ref.Pinned)
		if node.Meta != nil {
			t.Meta = *node.Meta
			t.ETag = node.Meta.ETag
		}
		state.tabs[id] = t
		if ref.Pinned {
			pinned = append(pinned, id)
		} else {
			regular = append(regular, id)
		}
	}
	state.order = append(pinned, regular...)
	if _, ok := state.tabs[snapshot.ActiveTab]; ok {
		state.active = snapshot.ActiveTab
	}
	for _, id := range snapshot.MRU {
		if _, ok := state.tabs[id]; ok {
			state.mru = append(state.mru, id)
		}
	}
	return state
}

// startLoad fetches tab content in the background. The fetch is never
// cancelled by tab close; a result for a closed or superseded tab is
// discarded in finishLoad.
func (s *service) startLoad(ctx context.Context, key schema.SessionKey, id schema.TabID, seq int) {
	lctx := logx.CopyContextFields(context.Background(), ctx)
	lctx = pslog.ContextWithLogger(lctx, logx.WithSessionTab(ctx, key, id))
	go func() {
		content, err := s.files.LoadFile(lctx, key, id)
		s.finishLoad(lctx, key, id, seq, content, err)
	}()
}

func (s *service) finishLoad(ctx context.Context, key schema.SessionKey, id schema.TabID, seq int, content schema.FileContent, loadErr error) {
	log := logx.WithSessionTab(ctx, key, id)

	s.mu.Lock()
	state, ok := s.sessions[key]
	if !ok {
		s.mu.Unlock()
		log.Debug("file load discarded", "reason", "session closed")
		return
	}
	t := state.tabs[id]
	if t == nil || t.loadSeq != seq {
		s.mu.Unlock()
		log.Debug("file load discarded", "reason", "tab closed or superseded")
		return
	}
	if loadErr != nil {
		t.Status = schema.TabStatusError
		t.Err = loadErr.Error()
	} else {
		t.Status = schema.TabStatusReady
		t.Err = ""
		t.Content = content.Content
		t.InitialContent = content.Content
		t.ETag = content.ETag
		t.Meta = content.Meta
	}
	event := schema.TabEvent{
		Session:   key,
		Type:      schema.TabEventUpdated,
		Tab:       t.Snapshot(state.active == id),
		ActiveTab: state.active,
	}
	s.mu.Unlock()

	s.emitTabEvent(event)
	if loadErr != nil {
		log.Warn("file load failed", "err", loadErr)
		return
	}
	log.Debug("file load ok", "bytes", len(content.Content))
}

// activateLocked makes id the active tab and reports whether a content fetch
// must be started (first activation of a restored tab, or retry of a failed
// load). Selection of an errored tab counts as an implicit retry.
func activateLocked(state *sessionState, id schema.TabID) (needsLoad bool, seq int) {
	t := state.tabs[id]
	if t == nil {
		return false, 0
	}
	state.active = id
	touchMRULocked(state, id)
	if t.Status == schema.TabStatusError {
		t.Status = schema.TabStatusLoading
		t.Err = ""
		needsLoad = true
	} else if !t.loadStarted {
		needsLoad = true
	}
	if needsLoad {
		t.loadStarted = true
		t.loadSeq++
		seq = t.loadSeq
	}
	return needsLoad, seq
}

func touchMRULocked(state *sessionState, id schema.TabID) {
	out := make([]schema.TabID, 0, len(state.mru)+1)
	out = append(out, id)
	for _, existing := range state.mru {
		if existing != id {
			out = append(out, existing)
		}
	}
	state.mru = out
}

// removeTabLocked drops a tab from every session structure and, when it was
// active, activates the right display neighbor, falling back to the left,
// falling back to none.
func removeTabLocked(state *sessionState, id schema.TabID) {
	idx := indexOf(state.order, id)
	delete(state.tabs, id)
	if idx >= 0 {
		state.order = append(state.order[:idx], state.order[idx+1:]...)
	}
	state.mru = removeID(state.mru, id)
	if state.active != id {
		return
	}
	state.active = ""
	if len(state.order) == 0 {
		return
	}
	next := idx
	if next >= len(state.order) {
		next = len(state.order) - 1
	}
	state.active = state.order[next]
	touchMRULocked(state, state.active)
}

func partitionLocked(state *sessionState) (pinned, regular []schema.TabID) {
	for _, id := range state.order {
		t := state.tabs[id]
		if t == nil {
			continue
		}
		if t.Pinned {
			pinned = append(pinned, id)
		} else {
			regular = append(regular, id)
		}
	}
	return pinned, regular
}

func displayTabsLocked(state *sessionState) []schema.TabSnapshot {
	tabs := make([]schema.TabSnapshot, 0, len(state.order))
	for _, id := range state.order {
		t := state.tabs[id]
		if t == nil {
			continue
		}
		tabs = append(tabs, t.Snapshot(state.active == id))
	}
	return tabs
}

func persistSnapshotLocked(state *sessionState) schema.SessionSnapshot {
	snap := schema.SessionSnapshot{
		ActiveTab: state.active,
		MRU:       append([]schema.TabID(nil), state.mru...),
		Theme:     state.theme,
	}
	for _, id := range state.order {
		t := state.tabs[id]
		if t == nil {
			continue
		}
		snap.OpenTabs = append(snap.OpenTabs, schema.TabRef{ID: id, Pinned: t.Pinned})
	}
	return snap
}

func (s *service) saveSnapshot(log pslog.Logger, key schema.SessionKey, snap schema.SessionSnapshot) {
	if err := s.store.Save(key, snap); err != nil {
		log.Warn("session persist failed", "err", err)
	}
}

func (s *service) emitTabEvent(event schema.TabEvent) {
	if s.sink != nil {
		s.sink.OnTabEvent(event)
	}
}

func (s *service) emitOutputEvent(event schema.OutputEvent) {
	if s.sink != nil {
		s.sink.OnOutput(event)
	}
}

func (s *service) emitTreeEvent(event schema.TreeEvent) {
	if s.sink != nil {
		s.sink.OnTreeEvent(event)
	}
}

func (s *service) sessionLocked(key schema.SessionKey) (*sessionState, error) {
	state, ok := s.sessions[key]
	if !ok {
		return nil, schema.ErrSessionNotFound
	}
	return state, nil
}

func normalizeKey(key schema.SessionKey) (schema.SessionKey, error) {
	key.Workspace = schema.WorkspaceID(strings.TrimSpace(string(key.Workspace)))
	key.Config = schema.ConfigID(strings.TrimSpace(string(key.Config)))
	if key.Workspace == "" {
		return schema.SessionKey{}, schema.ErrInvalidWorkspace
	}
	if key.Config == "" {
		return schema.SessionKey{}, schema.ErrInvalidConfig
	}
	return key, nil
}

func indexOf(ids []schema.TabID, id schema.TabID) int {
	for i, existing := range ids {
		if existing == id {
			return i
		}
	}
	return -1
}

func removeID(ids []schema.TabID, id schema.TabID) []schema.TabID {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
