package apiclient

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"pkt.systems/adecon/schema"
)

// RunOptions selects what an extraction run processes.
type RunOptions struct {
	DocumentID schema.DocumentID `json:"document_id"`
	Worksheets []string          `json:"worksheets,omitempty"`
}

// StreamBuild starts a config build and streams its NDJSON events. The
// returned channel closes when the stream ends; cancel ctx to abort early.
func (c *Client) StreamBuild(ctx context.Context, key schema.SessionKey) (<-chan schema.StreamEvent, error) {
	rawURL := c.url("api", "v1", "workspaces", string(key.Workspace), "configs", string(key.Config), "build")
	return c.stream(ctx, http.MethodPost, rawURL, nil)
}

// StreamValidation validates the config package and streams findings.
func (c *Client) StreamValidation(ctx context.Context, key schema.SessionKey) (<-chan schema.StreamEvent, error) {
	rawURL := c.url("api", "v1", "workspaces", string(key.Workspace), "configs", string(key.Config), "validate")
	return c.stream(ctx, http.MethodPost, rawURL, nil)
}

// StreamRun starts an extraction run against a document and streams progress.
func (c *Client) StreamRun(ctx context.Context, key schema.SessionKey, opts RunOptions) (<-chan schema.StreamEvent, error) {
	rawURL := c.url("api", "v1", "workspaces", string(key.Workspace), "configs", string(key.Config), "run")
	return c.stream(ctx, http.MethodPost, rawURL, opts)
}

func (c *Client) stream(ctx context.Context, method, rawURL string, body any) (<-chan schema.StreamEvent, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var reader *strings.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = strings.NewReader(string(data))
	}
	var req *http.Request
	var err error
	if reader != nil {
		req, err = c.newRequest(ctx, method, rawURL, reader)
	} else {
		req, err = c.newRequest(ctx, method, rawURL, nil)
	}
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/x-ndjson")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.streaming.Do(req)
	if err != nil {
		return nil, err
	}
	if err := c.checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	events := make(chan schema.StreamEvent, 64)
	go func() {
		defer close(events)
		defer resp.Body.Close()
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			select {
			case events <- DecodeStreamLine(line):
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			c.log.Warn("event stream read failed", "err", err)
		}
	}()
	return events, nil
}

// DecodeStreamLine decodes one NDJSON line. A line that is not a structured
// event degrades to an engine log event carrying the raw text.
func DecodeStreamLine(line string) schema.StreamEvent {
	var ev schema.StreamEvent
	if err := json.Unmarshal([]byte(line), &ev); err != nil || ev.Event == "" {
		return schema.StreamEvent{
			Event:   schema.EventLogMessage,
			Level:   schema.LevelInfo,
			Message: line,
		}
	}
	ev.Raw = json.RawMessage(line)
	return ev
}

// ConsoleLines converts stream events into console records as they arrive.
func ConsoleLines(events <-chan schema.StreamEvent) <-chan schema.ConsoleLine {
	lines := make(chan schema.ConsoleLine, 64)
	go func() {
		defer close(lines)
		for ev := range events {
			e := ev
			level := e.Level
			if level == "" {
				level = schema.LevelInfo
			}
			lines <- schema.ConsoleLine{Level: level, Message: e.Message, Raw: &e}
		}
	}()
	return lines
}
