package apiclient

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"pkt.systems/adecon/schema"
)

// fileListEnvelope is the file-listing response shape.
type fileListEnvelope struct {
	Files []schema.FileEntry `json:"files"`
}

// fileMetaDTO is the save-response metadata shape.
type fileMetaDTO struct {
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"mtime"`
	ContentType string    `json:"content_type"`
	ETag        string    `json:"etag"`
}

// ListFiles returns the flat file listing for a config package.
func (c *Client) ListFiles(ctx context.Context, key schema.SessionKey) ([]schema.FileEntry, error) {
	rawURL := c.url("api", "v1", "workspaces", string(key.Workspace), "configs", string(key.Config), "files")
	var envelope fileListEnvelope
	if err := c.doJSON(ctx, http.MethodGet, rawURL, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Files, nil
}

// LoadFile fetches one file's content. The version token arrives in the ETag
// response header.
func (c *Client) LoadFile(ctx context.Context, key schema.SessionKey, path schema.TabID) (schema.FileContent, error) {
	rawURL := c.url("api", "v1", "workspaces", string(key.Workspace), "configs", string(key.Config), "files", string(path))
	req, err := c.newRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return schema.FileContent{}, err
	}
	req.Header.Set("Accept", "*/*")
	resp, err := c.client.Do(req)
	if err != nil {
		return schema.FileContent{}, err
	}
	defer resp.Body.Close()
	if err := c.checkStatus(resp); err != nil {
		return schema.FileContent{}, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return schema.FileContent{}, err
	}
	etag := trimETag(resp.Header.Get("ETag"))
	return schema.FileContent{
		Content: string(data),
		ETag:    etag,
		Meta: schema.FileMeta{
			ContentType: resp.Header.Get("Content-Type"),
			Size:        int64(len(data)),
			ETag:        etag,
		},
	}, nil
}

// SaveFile writes content conditioned on etag via If-Match. A stale etag
// yields schema.ErrVersionConflict (wrapped in an APIError).
func (c *Client) SaveFile(ctx context.Context, key schema.SessionKey, path schema.TabID, content, etag string) (schema.FileMeta, error) {
	rawURL := c.url("api", "v1", "workspaces", string(key.Workspace), "configs", string(key.Config), "files", string(path))
	req, err := c.newRequest(ctx, http.MethodPut, rawURL, strings.NewReader(content))
	if err != nil {
		return schema.FileMeta{}, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if etag != "" {
		req.Header.Set("If-Match", quoteETag(etag))
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return schema.FileMeta{}, err
	}
	defer resp.Body.Close()
	if err := c.checkStatus(resp); err != nil {
		return schema.FileMeta{}, err
	}
	var dto fileMetaDTO
	// Older backends return an empty body; the header still carries the new
	// version.
	_ = decodeJSONBody(resp, &dto)
	meta := schema.FileMeta{
		Size:        dto.Size,
		ModTime:     dto.ModTime,
		ContentType: dto.ContentType,
		ETag:        dto.ETag,
	}
	if header := trimETag(resp.Header.Get("ETag")); header != "" {
		meta.ETag = header
	}
	if meta.Size == 0 {
		meta.Size = int64(len(content))
	}
	return meta, nil
}

// DeleteFile removes a file from the config package.
func (c *Client) DeleteFile(ctx context.Context, key schema.SessionKey, path schema.TabID) error {
	rawURL := c.url("api", "v1", "workspaces", string(key.Workspace), "configs", string(key.Config), "files", string(path))
	return c.doJSON(ctx, http.MethodDelete, rawURL, nil, nil)
}

func trimETag(value string) string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "W/")
	return strings.Trim(value, `"`)
}

func quoteETag(value string) string {
	if strings.HasPrefix(value, `"`) {
		return value
	}
	return `"` + value + `"`
}
