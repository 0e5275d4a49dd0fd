package persist

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"pkt.systems/adecon/schema"
	"pkt.systems/pslog"
)

// Store persists workbench session snapshots to disk, one JSON file per
// workspace/config pair. Writes are atomic (temp file, fsync, rename).
type Store struct {
	dir string
	log pslog.Logger
}

// NewStore constructs a persistent store at the given directory.
func NewStore(dir string) (*Store, error) {
	return NewStoreWithLogger(dir, nil)
}

// NewStoreWithLogger constructs a persistent store with logging.
func NewStoreWithLogger(dir string, logger pslog.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("state directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	if logger != nil {
		logger = logger.With("state_dir", dir)
	}
	return &Store{dir: dir, log: logger}, nil
}

// Load reads a session snapshot from disk. A missing file is not an error.
func (s *Store) Load(key schema.SessionKey) (schema.SessionSnapshot, bool, error) {
	path := s.pathForSession(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if s.log != nil {
				s.log.Debug("state load miss", "workspace", key.Workspace, "config", key.Config)
			}
			return schema.SessionSnapshot{}, false, nil
		}
		if s.log != nil {
			s.log.Warn("state load failed", "workspace", key.Workspace, "config", key.Config, "err", err)
		}
		return schema.SessionSnapshot{}, false, err
	}
	var snapshot schema.SessionSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		if s.log != nil {
			s.log.Warn("state load failed", "workspace", key.Workspace, "config", key.Config, "err", err)
		}
		return schema.SessionSnapshot{}, false, err
	}
	if s.log != nil {
		s.log.Debug("state load ok", "workspace", key.Workspace, "config", key.Config, "tabs", len(snapshot.OpenTabs))
	}
	return snapshot, true, nil
}

// Save writes a session snapshot to disk.
func (s *Store) Save(key schema.SessionKey, snapshot schema.SessionSnapshot) error {
	path := s.pathForSession(key)
	fail := func(err error) error {
		if s.log != nil {
			s.log.Warn("state save failed", "workspace", key.Workspace, "config", key.Config, "err", err)
		}
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fail(err)
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fail(err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "session-*.json")
	if err != nil {
		return fail(err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fail(err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		_ = os.Remove(tmp.Name())
		return fail(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fail(err)
	}
	if s.log != nil {
		s.log.Trace("state save ok", "workspace", key.Workspace, "config", key.Config, "tabs", len(snapshot.OpenTabs))
	}
	return nil
}

// Delete removes a persisted session snapshot if one exists.
func (s *Store) Delete(key schema.SessionKey) error {
	err := os.Remove(s.pathForSession(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) pathForSession(key schema.SessionKey) string {
	ws := sanitize(string(key.Workspace))
	if ws == "" {
		ws = "unknown"
	}
	cfg := sanitize(string(key.Config))
	if cfg == "" {
		cfg = "unknown"
	}
	return filepath.Join(s.dir, ws+"--"+cfg+".json")
}

func sanitize(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		if r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	return b.String()
}
