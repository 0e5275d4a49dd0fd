package core

import (
	"context"
	"errors"
	"time"

	"pkt.systems/adecon/internal/logx"
	"pkt.systems/adecon/schema"
)

func (s *service) OpenFile(ctx context.Context, req schema.OpenFileRequest) (schema.OpenFileResponse, error) {
	if ctx == nil {
		return schema.OpenFileResponse{}, errors.New("missing context")
	}
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.OpenFileResponse{}, err
	}
	id := schema.TabID(canonicalPath(string(req.Path)))
	if id == "" {
		return schema.OpenFileResponse{}, schema.ErrInvalidRequest
	}
	log := logx.WithSessionTab(ctx, key, id)

	s.mu.Lock()
	state, err := s.sessionLocked(key)
	if err != nil {
		s.mu.Unlock()
		return schema.OpenFileResponse{}, err
	}
	if t, ok := state.tabs[id]; ok {
		needsLoad, seq := activateLocked(state, id)
		event := schema.TabEvent{
			Session:   key,
			Type:      schema.TabEventActivated,
			Tab:       t.Snapshot(true),
			ActiveTab: id,
		}
		resp := schema.OpenFileResponse{Tab: t.Snapshot(true)}
		snap := persistSnapshotLocked(state)
		s.mu.Unlock()
		s.emitTabEvent(event)
		if needsLoad {
			s.startLoad(ctx, key, id, seq)
		}
		s.saveSnapshot(log, key, snap)
		return resp, nil
	}

	t := newTab(id, false)
	if node := FindNode(state.tree, string(id)); node != nil && node.Meta != nil {
		t.Meta = *node.Meta
		t.ETag = node.Meta.ETag
	}
	t.loadStarted = true
	t.loadSeq = 1
	state.tabs[id] = t
	state.order = append(state.order, id)
	state.active = id
	touchMRULocked(state, id)
	event := schema.TabEvent{
		Session:   key,
		Type:      schema.TabEventOpened,
		Tab:       t.Snapshot(true),
		ActiveTab: id,
	}
	resp := schema.OpenFileResponse{Tab: t.Snapshot(true)}
	snap := persistSnapshotLocked(state)
	s.mu.Unlock()

	s.emitTabEvent(event)
	s.startLoad(ctx, key, id, 1)
	s.saveSnapshot(log, key, snap)
	log.Debug("tab opened")
	return resp, nil
}

func (s *service) SelectTab(ctx context.Context, req schema.SelectTabRequest) (schema.SelectTabResponse, error) {
	if ctx == nil {
		return schema.SelectTabResponse{}, errors.New("missing context")
	}
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.SelectTabResponse{}, err
	}
	log := logx.WithSessionTab(ctx, key, req.TabID)

	s.mu.Lock()
	state, err := s.sessionLocked(key)
	if err != nil {
		s.mu.Unlock()
		return schema.SelectTabResponse{}, err
	}
	t := state.tabs[req.TabID]
	if t == nil {
		s.mu.Unlock()
		return schema.SelectTabResponse{}, schema.ErrTabNotFound
	}
	needsLoad, seq := activateLocked(state, req.TabID)
	event := schema.TabEvent{
		Session:   key,
		Type:      schema.TabEventActivated,
		Tab:       t.Snapshot(true),
		ActiveTab: req.TabID,
	}
	resp := schema.SelectTabResponse{Tab: t.Snapshot(true)}
	snap := persistSnapshotLocked(state)
	s.mu.Unlock()

	s.emitTabEvent(event)
	if needsLoad {
		s.startLoad(ctx, key, req.TabID, seq)
	}
	s.saveSnapshot(log, key, snap)
	return resp, nil
}

func (s *service) CloseTab(ctx context.Context, req schema.CloseTabRequest) (schema.CloseTabResponse, error) {
	if ctx == nil {
		return schema.CloseTabResponse{}, errors.New("missing context")
	}
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.CloseTabResponse{}, err
	}
	log := logx.WithSessionTab(ctx, key, req.TabID)

	s.mu.Lock()
	state, err := s.sessionLocked(key)
	if err != nil {
		s.mu.Unlock()
		return schema.CloseTabResponse{}, err
	}
	t := state.tabs[req.TabID]
	if t == nil {
		s.mu.Unlock()
		return schema.CloseTabResponse{}, schema.ErrTabNotFound
	}
	removeTabLocked(state, req.TabID)
	event := schema.TabEvent{
		Session:   key,
		Type:      schema.TabEventClosed,
		Tab:       t.Snapshot(false),
		ActiveTab: state.active,
	}
	resp := schema.CloseTabResponse{Tab: t.Snapshot(false), ActiveTab: state.active}
	snap := persistSnapshotLocked(state)
	s.mu.Unlock()

	s.emitTabEvent(event)
	s.saveSnapshot(log, key, snap)
	log.Debug("tab closed", "active", resp.ActiveTab)
	return resp, nil
}

func (s *service) CloseOtherTabs(ctx context.Context, req schema.CloseOtherTabsRequest) (schema.CloseOtherTabsResponse, error) {
	if ctx == nil {
		return schema.CloseOtherTabsResponse{}, errors.New("missing context")
	}
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.CloseOtherTabsResponse{}, err
	}
	log := logx.WithSessionTab(ctx, key, req.TabID)

	s.mu.Lock()
	state, err := s.sessionLocked(key)
	if err != nil {
		s.mu.Unlock()
		return schema.CloseOtherTabsResponse{}, err
	}
	if state.tabs[req.TabID] == nil {
		s.mu.Unlock()
		return schema.CloseOtherTabsResponse{}, schema.ErrTabNotFound
	}
	// Pinned tabs survive "close others", per the usual IDE convention.
	var closed []schema.TabID
	var events []schema.TabEvent
	for _, id := range append([]schema.TabID(nil), state.order...) {
		t := state.tabs[id]
		if t == nil || id == req.TabID || t.Pinned {
			continue
		}
		removeTabLocked(state, id)
		closed = append(closed, id)
		events = append(events, schema.TabEvent{Session: key, Type: schema.TabEventClosed, Tab: t.Snapshot(false)})
	}
	if state.active == "" || state.tabs[state.active] == nil {
		state.active = req.TabID
		touchMRULocked(state, req.TabID)
	}
	for i := range events {
		events[i].ActiveTab = state.active
	}
	resp := schema.CloseOtherTabsResponse{Closed: closed, ActiveTab: state.active}
	snap := persistSnapshotLocked(state)
	s.mu.Unlock()

	for _, event := range events {
		s.emitTabEvent(event)
	}
	s.saveSnapshot(log, key, snap)
	return resp, nil
}

func (s *service) CloseTabsToRight(ctx context.Context, req schema.CloseTabsToRightRequest) (schema.CloseTabsToRightResponse, error) {
	if ctx == nil {
		return schema.CloseTabsToRightResponse{}, errors.New("missing context")
	}
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.CloseTabsToRightResponse{}, err
	}
	log := logx.WithSessionTab(ctx, key, req.TabID)

	s.mu.Lock()
	state, err := s.sessionLocked(key)
	if err != nil {
		s.mu.Unlock()
		return schema.CloseTabsToRightResponse{}, err
	}
	anchor := indexOf(state.order, req.TabID)
	if anchor < 0 {
		s.mu.Unlock()
		return schema.CloseTabsToRightResponse{}, schema.ErrTabNotFound
	}
	var closed []schema.TabID
	var events []schema.TabEvent
	for _, id := range append([]schema.TabID(nil), state.order[anchor+1:]...) {
		t := state.tabs[id]
		if t == nil || t.Pinned {
			continue
		}
		removeTabLocked(state, id)
		closed = append(closed, id)
		events = append(events, schema.TabEvent{Session: key, Type: schema.TabEventClosed, Tab: t.Snapshot(false)})
	}
	if state.active == "" || state.tabs[state.active] == nil {
		state.active = req.TabID
		touchMRULocked(state, req.TabID)
	}
	for i := range events {
		events[i].ActiveTab = state.active
	}
	resp := schema.CloseTabsToRightResponse{Closed: closed, ActiveTab: state.active}
	snap := persistSnapshotLocked(state)
	s.mu.Unlock()

	for _, event := range events {
		s.emitTabEvent(event)
	}
	s.saveSnapshot(log, key, snap)
	return resp, nil
}

func (s *service) CloseAllTabs(ctx context.Context, req schema.CloseAllTabsRequest) (schema.CloseAllTabsResponse, error) {
	if ctx == nil {
		return schema.CloseAllTabsResponse{}, errors.New("missing context")
	}
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.CloseAllTabsResponse{}, err
	}
	log := logx.WithSession(ctx, key)

	s.mu.Lock()
	state, err := s.sessionLocked(key)
	if err != nil {
		s.mu.Unlock()
		return schema.CloseAllTabsResponse{}, err
	}
	var closed []schema.TabID
	var events []schema.TabEvent
	for _, id := range append([]schema.TabID(nil), state.order...) {
		t := state.tabs[id]
		if t == nil {
			continue
		}
		closed = append(closed, id)
		events = append(events, schema.TabEvent{Session: key, Type: schema.TabEventClosed, Tab: t.Snapshot(false)})
	}
	state.tabs = make(map[schema.TabID]*tab)
	state.order = nil
	state.mru = nil
	state.active = ""
	resp := schema.CloseAllTabsResponse{Closed: closed}
	snap := persistSnapshotLocked(state)
	s.mu.Unlock()

	for _, event := range events {
		s.emitTabEvent(event)
	}
	s.saveSnapshot(log, key, snap)
	return resp, nil
}

func (s *service) MoveTab(ctx context.Context, req schema.MoveTabRequest) (schema.MoveTabResponse, error) {
	if ctx == nil {
		return schema.MoveTabResponse{}, errors.New("missing context")
	}
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.MoveTabResponse{}, err
	}
	if req.Zone != schema.TabZonePinned && req.Zone != schema.TabZoneRegular {
		return schema.MoveTabResponse{}, schema.ErrInvalidZone
	}
	log := logx.WithSessionTab(ctx, key, req.TabID)

	s.mu.Lock()
	state, err := s.sessionLocked(key)
	if err != nil {
		s.mu.Unlock()
		return schema.MoveTabResponse{}, err
	}
	t := state.tabs[req.TabID]
	if t == nil {
		s.mu.Unlock()
		return schema.MoveTabResponse{}, schema.ErrTabNotFound
	}
	pinned, regular := partitionLocked(state)
	pinned = removeID(pinned, req.TabID)
	regular = removeID(regular, req.TabID)
	t.Pinned = req.Zone == schema.TabZonePinned
	if t.Pinned {
		pinned = insertAt(pinned, req.TabID, req.Index)
	} else {
		regular = insertAt(regular, req.TabID, req.Index)
	}
	state.order = append(pinned, regular...)
	event := schema.TabEvent{
		Session:   key,
		Type:      schema.TabEventUpdated,
		Tab:       t.Snapshot(state.active == req.TabID),
		ActiveTab: state.active,
	}
	resp := schema.MoveTabResponse{Tabs: displayTabsLocked(state)}
	snap := persistSnapshotLocked(state)
	s.mu.Unlock()

	s.emitTabEvent(event)
	s.saveSnapshot(log, key, snap)
	return resp, nil
}

func (s *service) PinTab(ctx context.Context, req schema.PinTabRequest) (schema.PinTabResponse, error) {
	tab, err := s.setPin(ctx, req.Session, req.TabID, true)
	return schema.PinTabResponse{Tab: tab}, err
}

func (s *service) UnpinTab(ctx context.Context, req schema.UnpinTabRequest) (schema.UnpinTabResponse, error) {
	tab, err := s.setPin(ctx, req.Session, req.TabID, false)
	return schema.UnpinTabResponse{Tab: tab}, err
}

func (s *service) ToggleTabPin(ctx context.Context, req schema.ToggleTabPinRequest) (schema.ToggleTabPinResponse, error) {
	if ctx == nil {
		return schema.ToggleTabPinResponse{}, errors.New("missing context")
	}
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.ToggleTabPinResponse{}, err
	}
	s.mu.Lock()
	state, err := s.sessionLocked(key)
	if err != nil {
		s.mu.Unlock()
		return schema.ToggleTabPinResponse{}, err
	}
	t := state.tabs[req.TabID]
	if t == nil {
		s.mu.Unlock()
		return schema.ToggleTabPinResponse{}, schema.ErrTabNotFound
	}
	target := !t.Pinned
	s.mu.Unlock()
	tab, err := s.setPin(ctx, key, req.TabID, target)
	return schema.ToggleTabPinResponse{Tab: tab}, err
}

// setPin toggles pin state and repositions the tab: pinning appends to the
// pinned strip, unpinning prepends to the regular strip.
func (s *service) setPin(ctx context.Context, session schema.SessionKey, id schema.TabID, pin bool) (schema.TabSnapshot, error) {
	if ctx == nil {
		return schema.TabSnapshot{}, errors.New("missing context")
	}
	key, err := normalizeKey(session)
	if err != nil {
		return schema.TabSnapshot{}, err
	}
	log := logx.WithSessionTab(ctx, key, id)

	s.mu.Lock()
	state, err := s.sessionLocked(key)
	if err != nil {
		s.mu.Unlock()
		return schema.TabSnapshot{}, err
	}
	t := state.tabs[id]
	if t == nil {
		s.mu.Unlock()
		return schema.TabSnapshot{}, schema.ErrTabNotFound
	}
	if t.Pinned == pin {
		snap := t.Snapshot(state.active == id)
		s.mu.Unlock()
		return snap, nil
	}
	pinned, regular := partitionLocked(state)
	pinned = removeID(pinned, id)
	regular = removeID(regular, id)
	t.Pinned = pin
	if pin {
		pinned = append(pinned, id)
	} else {
		regular = append([]schema.TabID{id}, regular...)
	}
	state.order = append(pinned, regular...)
	event := schema.TabEvent{
		Session:   key,
		Type:      schema.TabEventUpdated,
		Tab:       t.Snapshot(state.active == id),
		ActiveTab: state.active,
	}
	snapTab := t.Snapshot(state.active == id)
	snap := persistSnapshotLocked(state)
	s.mu.Unlock()

	s.emitTabEvent(event)
	s.saveSnapshot(log, key, snap)
	return snapTab, nil
}

func (s *service) SelectRecentTab(ctx context.Context, req schema.SelectRecentTabRequest) (schema.SelectRecentTabResponse, error) {
	if ctx == nil {
		return schema.SelectRecentTabResponse{}, errors.New("missing context")
	}
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.SelectRecentTabResponse{}, err
	}
	if req.Direction != schema.CycleForward && req.Direction != schema.CycleBackward {
		return schema.SelectRecentTabResponse{}, schema.ErrInvalidDirection
	}

	s.mu.Lock()
	state, err := s.sessionLocked(key)
	if err != nil {
		s.mu.Unlock()
		return schema.SelectRecentTabResponse{}, err
	}
	if len(state.mru) == 0 {
		s.mu.Unlock()
		return schema.SelectRecentTabResponse{}, schema.ErrNoTabs
	}
	idx := indexOf(state.mru, state.active)
	var target schema.TabID
	if idx < 0 {
		target = state.mru[0]
	} else if req.Direction == schema.CycleForward {
		target = state.mru[(idx+1)%len(state.mru)]
	} else {
		target = state.mru[(idx-1+len(state.mru))%len(state.mru)]
	}
	t := state.tabs[target]
	if t == nil {
		s.mu.Unlock()
		return schema.SelectRecentTabResponse{}, schema.ErrTabNotFound
	}
	needsLoad, seq := activateLocked(state, target)
	event := schema.TabEvent{
		Session:   key,
		Type:      schema.TabEventActivated,
		Tab:       t.Snapshot(true),
		ActiveTab: target,
	}
	resp := schema.SelectRecentTabResponse{Tab: t.Snapshot(true)}
	s.mu.Unlock()

	s.emitTabEvent(event)
	if needsLoad {
		s.startLoad(ctx, key, target, seq)
	}
	return resp, nil
}

func (s *service) UpdateContent(ctx context.Context, req schema.UpdateContentRequest) (schema.UpdateContentResponse, error) {
	if ctx == nil {
		return schema.UpdateContentResponse{}, errors.New("missing context")
	}
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.UpdateContentResponse{}, err
	}

	s.mu.Lock()
	state, err := s.sessionLocked(key)
	if err != nil {
		s.mu.Unlock()
		return schema.UpdateContentResponse{}, err
	}
	t := state.tabs[req.TabID]
	if t == nil {
		s.mu.Unlock()
		return schema.UpdateContentResponse{}, schema.ErrTabNotFound
	}
	// Edits arrive only from a ready editor; anything else is a stale event.
	if t.Status != schema.TabStatusReady {
		resp := schema.UpdateContentResponse{Tab: t.Snapshot(state.active == req.TabID)}
		s.mu.Unlock()
		return resp, nil
	}
	wasDirty := t.Dirty()
	t.Content = req.Content
	dirtyChanged := wasDirty != t.Dirty()
	event := schema.TabEvent{
		Session:   key,
		Type:      schema.TabEventUpdated,
		Tab:       t.Snapshot(state.active == req.TabID),
		ActiveTab: state.active,
	}
	resp := schema.UpdateContentResponse{Tab: t.Snapshot(state.active == req.TabID)}
	s.mu.Unlock()

	if dirtyChanged {
		s.emitTabEvent(event)
	}
	return resp, nil
}

func (s *service) SaveTab(ctx context.Context, req schema.SaveTabRequest) (schema.SaveTabResponse, error) {
	if ctx == nil {
		return schema.SaveTabResponse{}, errors.New("missing context")
	}
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.SaveTabResponse{}, err
	}
	log := logx.WithSessionTab(ctx, key, req.TabID)

	s.mu.Lock()
	state, err := s.sessionLocked(key)
	if err != nil {
		s.mu.Unlock()
		return schema.SaveTabResponse{}, err
	}
	t := state.tabs[req.TabID]
	if t == nil {
		s.mu.Unlock()
		return schema.SaveTabResponse{}, schema.ErrTabNotFound
	}
	if t.Status != schema.TabStatusReady {
		s.mu.Unlock()
		return schema.SaveTabResponse{}, schema.ErrTabNotReady
	}
	if t.Saving {
		resp := schema.SaveTabResponse{Tab: t.Snapshot(state.active == req.TabID)}
		s.mu.Unlock()
		return resp, nil
	}
	if !t.Dirty() && t.SaveError == "" {
		resp := schema.SaveTabResponse{Tab: t.Snapshot(state.active == req.TabID)}
		s.mu.Unlock()
		return resp, nil
	}
	content := t.Content
	etag := t.ETag
	t.Saving = true
	t.SaveError = ""
	event := schema.TabEvent{
		Session:   key,
		Type:      schema.TabEventUpdated,
		Tab:       t.Snapshot(state.active == req.TabID),
		ActiveTab: state.active,
	}
	s.mu.Unlock()
	s.emitTabEvent(event)

	meta, saveErr := s.files.SaveFile(ctx, key, req.TabID, content, etag)
	switch {
	case saveErr == nil:
		return s.finishSave(ctx, key, req.TabID, func(t *tab) {
			t.InitialContent = content
			t.ETag = meta.ETag
			t.Meta = meta
			t.LastSavedAt = time.Now()
			t.SaveError = ""
		})
	case errors.Is(saveErr, schema.ErrVersionConflict):
		// The server has newer content. Replace the local buffer with it so
		// the user re-applies their intent against the latest version; no
		// silent merge.
		log.Warn("tab save conflict", "err", saveErr)
		latest, loadErr := s.files.LoadFile(ctx, key, req.TabID)
		return s.finishSave(ctx, key, req.TabID, func(t *tab) {
			t.SaveError = "file changed on server; reloaded the latest content"
			if loadErr == nil {
				t.Content = latest.Content
				t.InitialContent = latest.Content
				t.ETag = latest.ETag
				t.Meta = latest.Meta
			}
		})
	default:
		log.Warn("tab save failed", "err", saveErr)
		return s.finishSave(ctx, key, req.TabID, func(t *tab) {
			t.SaveError = saveErr.Error()
		})
	}
}

// finishSave clears the saving flag and applies the outcome mutation if the
// tab still exists. Save outcomes are tab state, not returned errors.
func (s *service) finishSave(ctx context.Context, key schema.SessionKey, id schema.TabID, apply func(*tab)) (schema.SaveTabResponse, error) {
	_ = ctx
	s.mu.Lock()
	state, ok := s.sessions[key]
	if !ok {
		s.mu.Unlock()
		return schema.SaveTabResponse{}, schema.ErrSessionNotFound
	}
	t := state.tabs[id]
	if t == nil {
		s.mu.Unlock()
		return schema.SaveTabResponse{}, schema.ErrTabNotFound
	}
	t.Saving = false
	apply(t)
	event := schema.TabEvent{
		Session:   key,
		Type:      schema.TabEventUpdated,
		Tab:       t.Snapshot(state.active == id),
		ActiveTab: state.active,
	}
	resp := schema.SaveTabResponse{Tab: t.Snapshot(state.active == id)}
	s.mu.Unlock()
	s.emitTabEvent(event)
	return resp, nil
}

func (s *service) GetTab(ctx context.Context, req schema.GetTabRequest) (schema.GetTabResponse, error) {
	_ = ctx
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.GetTabResponse{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.sessionLocked(key)
	if err != nil {
		return schema.GetTabResponse{}, err
	}
	t := state.tabs[req.TabID]
	if t == nil {
		return schema.GetTabResponse{}, schema.ErrTabNotFound
	}
	return schema.GetTabResponse{
		Tab:            t.Snapshot(state.active == req.TabID),
		Content:        t.Content,
		InitialContent: t.InitialContent,
	}, nil
}

func (s *service) ListTabs(ctx context.Context, req schema.ListTabsRequest) (schema.ListTabsResponse, error) {
	_ = ctx
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.ListTabsResponse{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.sessionLocked(key)
	if err != nil {
		return schema.ListTabsResponse{}, err
	}
	return schema.ListTabsResponse{Tabs: displayTabsLocked(state), ActiveTab: state.active}, nil
}

func (s *service) UnsavedChanges(ctx context.Context, req schema.UnsavedChangesRequest) (schema.UnsavedChangesResponse, error) {
	_ = ctx
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.UnsavedChangesResponse{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.sessionLocked(key)
	if err != nil {
		return schema.UnsavedChangesResponse{}, err
	}
	var dirty []schema.TabID
	for _, id := range state.order {
		if t := state.tabs[id]; t != nil && t.Dirty() {
			dirty = append(dirty, id)
		}
	}
	return schema.UnsavedChangesResponse{Dirty: len(dirty) > 0, Tabs: dirty}, nil
}

func insertAt(ids []schema.TabID, id schema.TabID, index int) []schema.TabID {
	if index < 0 {
		index = 0
	}
	if index > len(ids) {
		index = len(ids)
	}
	out := make([]schema.TabID, 0, len(ids)+1)
	out = append(out, ids[:index]...)
	out = append(out, id)
	out = append(out, ids[index:]...)
	return out
}
