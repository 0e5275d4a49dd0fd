package schema

import "errors"

var (
	// ErrInvalidRequest indicates a malformed request payload.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidWorkspace indicates an invalid workspace identifier.
	ErrInvalidWorkspace = errors.New("invalid workspace")
	// ErrInvalidConfig indicates an invalid config identifier.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrSessionNotFound indicates no workbench session exists for the key.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTabNotFound indicates a requested tab could not be found.
	ErrTabNotFound = errors.New("tab not found")
	// ErrNoTabs indicates no tabs are open in the session.
	ErrNoTabs = errors.New("no tabs")
	// ErrTabNotReady indicates the tab content is not loaded.
	ErrTabNotReady = errors.New("tab not ready")
	// ErrFileNotFound indicates the backend has no file at the path.
	ErrFileNotFound = errors.New("file not found")
	// ErrVersionConflict indicates a stale write rejected by the backend.
	ErrVersionConflict = errors.New("file changed on server")
	// ErrInvalidZone indicates an unknown tab zone.
	ErrInvalidZone = errors.New("invalid tab zone")
	// ErrInvalidDirection indicates an unknown cycle direction.
	ErrInvalidDirection = errors.New("invalid direction")
	// ErrUnauthorized indicates the backend rejected the credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the backend denied the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrSafeMode indicates the backend refused a run due to safe mode.
	ErrSafeMode = errors.New("workspace is in safe mode")
)
