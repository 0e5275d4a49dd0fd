package apiclient

import (
	"context"
	"net/http"
	"time"

	"pkt.systems/adecon/schema"
)

// Document is one uploaded source document.
type Document struct {
	ID         schema.DocumentID `json:"id"`
	Name       string            `json:"name"`
	SheetCount int               `json:"sheet_count"`
	Size       int64             `json:"size"`
	UploadedAt time.Time         `json:"uploaded_at"`
	UploadedBy string            `json:"uploaded_by,omitempty"`
}

// Worksheet is one sheet of a document.
type Worksheet struct {
	Name     string `json:"name"`
	Index    int    `json:"index"`
	RowCount int    `json:"row_count"`
	ColCount int    `json:"col_count"`
	Hidden   bool   `json:"hidden,omitempty"`
}

type documentListEnvelope struct {
	Documents []Document `json:"documents"`
}

type worksheetListEnvelope struct {
	Worksheets []Worksheet `json:"worksheets"`
}

// ListDocuments returns the workspace's uploaded documents.
func (c *Client) ListDocuments(ctx context.Context, workspace schema.WorkspaceID) ([]Document, error) {
	rawURL := c.url("api", "v1", "workspaces", string(workspace), "documents")
	var envelope documentListEnvelope
	if err := c.doJSON(ctx, http.MethodGet, rawURL, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Documents, nil
}

// ListWorksheets returns the sheets of one document.
func (c *Client) ListWorksheets(ctx context.Context, workspace schema.WorkspaceID, document schema.DocumentID) ([]Worksheet, error) {
	rawURL := c.url("api", "v1", "workspaces", string(workspace), "documents", string(document), "worksheets")
	var envelope worksheetListEnvelope
	if err := c.doJSON(ctx, http.MethodGet, rawURL, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Worksheets, nil
}
