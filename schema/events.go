package schema

import "encoding/json"

// LogLevel classifies a console line.
type LogLevel string

const (
	// LevelDebug marks diagnostic output.
	LevelDebug LogLevel = "debug"
	// LevelInfo marks normal output.
	LevelInfo LogLevel = "info"
	// LevelWarning marks recoverable problems.
	LevelWarning LogLevel = "warning"
	// LevelError marks failures.
	LevelError LogLevel = "error"
)

// EventName is the dotted event identifier emitted on NDJSON streams.
type EventName string

const (
	// EventBuildStarted indicates a config build started.
	EventBuildStarted EventName = "engine.build.started"
	// EventBuildCompleted indicates a config build finished.
	EventBuildCompleted EventName = "engine.build.completed"
	// EventBuildFailed indicates a config build failed.
	EventBuildFailed EventName = "engine.build.failed"
	// EventValidationStarted indicates validation started.
	EventValidationStarted EventName = "engine.validation.started"
	// EventValidationIssue reports one validation finding.
	EventValidationIssue EventName = "engine.validation.issue"
	// EventValidationCompleted indicates validation finished.
	EventValidationCompleted EventName = "engine.validation.completed"
	// EventRunStarted indicates an extraction run started.
	EventRunStarted EventName = "engine.run.started"
	// EventRunCompleted indicates an extraction run finished.
	EventRunCompleted EventName = "engine.run.completed"
	// EventRunFailed indicates an extraction run failed.
	EventRunFailed EventName = "engine.run.failed"
	// EventSheetStarted indicates processing of a worksheet started.
	EventSheetStarted EventName = "engine.sheet.started"
	// EventSheetCompleted indicates processing of a worksheet finished.
	EventSheetCompleted EventName = "engine.sheet.completed"
	// EventTableWritten indicates a table was written to the output range.
	EventTableWritten EventName = "engine.table.written"
	// EventFieldExtracted indicates a field value was extracted.
	EventFieldExtracted EventName = "engine.field.extracted"
	// EventLogMessage carries a free-form engine log line.
	EventLogMessage EventName = "engine.log"
)

// StreamEvent is one record of an NDJSON build/validation/run stream.
type StreamEvent struct {
	Event   EventName       `json:"event"`
	Level   LogLevel        `json:"level,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    map[string]any  `json:"data,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// ConsoleLine is one record appended to the console log. Raw is present when
// the line originated from a structured stream event.
type ConsoleLine struct {
	Level   LogLevel
	Message string
	Raw     *StreamEvent
}

// TabEventType classifies tab lifecycle events.
type TabEventType string

const (
	// TabEventOpened signals a tab was created.
	TabEventOpened TabEventType = "opened"
	// TabEventUpdated signals a tab changed state.
	TabEventUpdated TabEventType = "updated"
	// TabEventClosed signals a tab was removed.
	TabEventClosed TabEventType = "closed"
	// TabEventActivated signals the active tab changed.
	TabEventActivated TabEventType = "activated"
)

// TabEvent notifies transports of a tab lifecycle change.
type TabEvent struct {
	Session   SessionKey
	Type      TabEventType
	Tab       TabSnapshot
	ActiveTab TabID
}

// OutputEvent carries rendered console lines for a session.
type OutputEvent struct {
	Session SessionKey
	Lines   []string
}

// TreeEvent signals that the session's file tree was rebuilt.
type TreeEvent struct {
	Session SessionKey
	Root    *FileNode
}
