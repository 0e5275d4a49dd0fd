package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"pkt.systems/adecon/schema"
)

func TestDecodeStreamLine(t *testing.T) {
	ev := DecodeStreamLine(`{"event":"engine.table.written","data":{"sheet_name":"Nov","table_index":0}}`)
	if ev.Event != schema.EventTableWritten {
		t.Fatalf("unexpected event %s", ev.Event)
	}
	if ev.Data["sheet_name"] != "Nov" {
		t.Fatalf("unexpected data %v", ev.Data)
	}
	if len(ev.Raw) == 0 {
		t.Fatalf("expected raw line preserved")
	}
}

func TestDecodeStreamLineDegradesToLog(t *testing.T) {
	for _, line := range []string{"plain text output", `{"no_event":true}`, `{"broken":`} {
		ev := DecodeStreamLine(line)
		if ev.Event != schema.EventLogMessage {
			t.Fatalf("line %q: expected log event, got %s", line, ev.Event)
		}
		if ev.Message != line {
			t.Fatalf("line %q: expected verbatim message, got %q", line, ev.Message)
		}
		if ev.Level != schema.LevelInfo {
			t.Fatalf("line %q: expected info level, got %s", line, ev.Level)
		}
	}
}

func TestStreamBuildDeliversEvents(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if accept := r.Header.Get("Accept"); accept != "application/x-ndjson" {
			t.Errorf("unexpected accept header %q", accept)
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		_, _ = io.WriteString(w, `{"event":"engine.build.started","data":{"config_name":"invoices"}}`+"\n")
		_, _ = io.WriteString(w, "\n")
		_, _ = io.WriteString(w, "compiling extract.py\n")
		_, _ = io.WriteString(w, `{"event":"engine.build.completed","data":{"warnings":0}}`+"\n")
	}))

	events, err := client.StreamBuild(context.Background(), sessionKey())
	if err != nil {
		t.Fatalf("StreamBuild: %v", err)
	}
	var got []schema.StreamEvent
	for ev := range events {
		got = append(got, ev)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events (blank lines skipped), got %d: %+v", len(got), got)
	}
	if got[0].Event != schema.EventBuildStarted || got[2].Event != schema.EventBuildCompleted {
		t.Fatalf("unexpected event order %+v", got)
	}
	if got[1].Event != schema.EventLogMessage || got[1].Message != "compiling extract.py" {
		t.Fatalf("expected plain line degraded to log event, got %+v", got[1])
	}
}

func TestStreamRunSendsOptions(t *testing.T) {
	var opts RunOptions
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			t.Errorf("decode run options: %v", err)
		}
		_, _ = io.WriteString(w, `{"event":"engine.run.completed"}`+"\n")
	}))
	events, err := client.StreamRun(context.Background(), sessionKey(), RunOptions{
		DocumentID: "doc-1",
		Worksheets: []string{"Nov"},
	})
	if err != nil {
		t.Fatalf("StreamRun: %v", err)
	}
	for range events {
	}
	if opts.DocumentID != "doc-1" || len(opts.Worksheets) != 1 {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestStreamErrorStatusFailsFast(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"safe_mode_enabled","message":"safe mode"}}`))
	}))
	if _, err := client.StreamValidation(context.Background(), sessionKey()); err == nil {
		t.Fatalf("expected error for non-2xx stream start")
	}
}

func TestConsoleLinesDefaultsLevel(t *testing.T) {
	events := make(chan schema.StreamEvent, 2)
	events <- schema.StreamEvent{Event: schema.EventLogMessage, Message: "hello"}
	events <- schema.StreamEvent{Event: schema.EventLogMessage, Level: schema.LevelError, Message: "boom"}
	close(events)

	lines := ConsoleLines(events)
	first := <-lines
	if first.Level != schema.LevelInfo || first.Raw == nil {
		t.Fatalf("unexpected line %+v", first)
	}
	second := <-lines
	if second.Level != schema.LevelError {
		t.Fatalf("unexpected line %+v", second)
	}
	select {
	case _, ok := <-lines:
		if ok {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for close")
	}
}
