package core

import (
	"context"
	"errors"

	"pkt.systems/adecon/internal/logx"
	"pkt.systems/adecon/schema"
)

func (s *service) AppendConsole(ctx context.Context, req schema.AppendConsoleRequest) (schema.AppendConsoleResponse, error) {
	if ctx == nil {
		return schema.AppendConsoleResponse{}, errors.New("missing context")
	}
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.AppendConsoleResponse{}, err
	}
	if len(req.Lines) == 0 {
		return schema.AppendConsoleResponse{}, nil
	}

	var rendered []string
	for _, line := range req.Lines {
		rendered = append(rendered, s.renderer.RenderLine(line)...)
	}

	s.mu.Lock()
	state, err := s.sessionLocked(key)
	if err != nil {
		s.mu.Unlock()
		return schema.AppendConsoleResponse{}, err
	}
	state.console.Append(rendered...)
	s.mu.Unlock()

	s.emitOutputEvent(schema.OutputEvent{Session: key, Lines: rendered})
	return schema.AppendConsoleResponse{}, nil
}

func (s *service) GetConsole(ctx context.Context, req schema.GetConsoleRequest) (schema.GetConsoleResponse, error) {
	_ = ctx
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.GetConsoleResponse{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.sessionLocked(key)
	if err != nil {
		return schema.GetConsoleResponse{}, err
	}
	return schema.GetConsoleResponse{Console: state.console.Snapshot(req.Limit)}, nil
}

func (s *service) ScrollConsole(ctx context.Context, req schema.ScrollConsoleRequest) (schema.ScrollConsoleResponse, error) {
	_ = ctx
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.ScrollConsoleResponse{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.sessionLocked(key)
	if err != nil {
		return schema.ScrollConsoleResponse{}, err
	}
	state.console.Scroll(req.Delta, req.Limit)
	return schema.ScrollConsoleResponse{Console: state.console.Snapshot(req.Limit)}, nil
}

func (s *service) ClearConsole(ctx context.Context, req schema.ClearConsoleRequest) (schema.ClearConsoleResponse, error) {
	if ctx == nil {
		return schema.ClearConsoleResponse{}, errors.New("missing context")
	}
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.ClearConsoleResponse{}, err
	}
	s.mu.Lock()
	state, err := s.sessionLocked(key)
	if err != nil {
		s.mu.Unlock()
		return schema.ClearConsoleResponse{}, err
	}
	state.console.Clear()
	s.mu.Unlock()

	logx.WithSession(ctx, key).Debug("console cleared")
	return schema.ClearConsoleResponse{}, nil
}

func (s *service) SetTheme(ctx context.Context, req schema.SetThemeRequest) (schema.SetThemeResponse, error) {
	if ctx == nil {
		return schema.SetThemeResponse{}, errors.New("missing context")
	}
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.SetThemeResponse{}, err
	}
	if req.Theme == "" {
		return schema.SetThemeResponse{}, schema.ErrInvalidRequest
	}
	log := logx.WithSession(ctx, key)

	s.mu.Lock()
	state, err := s.sessionLocked(key)
	if err != nil {
		s.mu.Unlock()
		return schema.SetThemeResponse{}, err
	}
	state.theme = req.Theme
	snap := persistSnapshotLocked(state)
	s.mu.Unlock()

	s.saveSnapshot(log, key, snap)
	return schema.SetThemeResponse{Theme: req.Theme}, nil
}

func (s *service) GetTheme(ctx context.Context, req schema.GetThemeRequest) (schema.GetThemeResponse, error) {
	_ = ctx
	key, err := normalizeKey(req.Session)
	if err != nil {
		return schema.GetThemeResponse{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.sessionLocked(key)
	if err != nil {
		return schema.GetThemeResponse{}, err
	}
	return schema.GetThemeResponse{Theme: state.theme}, nil
}
