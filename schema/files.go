package schema

import (
	"path"
	"strings"
	"time"
)

// FileKind distinguishes files from folders in a listing.
type FileKind string

const (
	// FileKindFile marks a regular file.
	FileKindFile FileKind = "file"
	// FileKindDir marks a folder.
	FileKindDir FileKind = "dir"
)

// FileEntry is one row of the backend's flat file listing.
type FileEntry struct {
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	Parent      string    `json:"parent"`
	Kind        FileKind  `json:"kind"`
	Depth       int       `json:"depth"`
	Size        int64     `json:"size,omitempty"`
	ModTime     time.Time `json:"mtime,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	ETag        string    `json:"etag,omitempty"`
}

// FileMeta carries per-file metadata attached to tree nodes and tabs.
type FileMeta struct {
	Size        int64
	ModTime     time.Time
	ContentType string
	ETag        string
}

// FileNode is one node of the hierarchical file tree. ID is the canonical
// path and is stable across rebuilds from the same listing.
type FileNode struct {
	ID       string
	Name     string
	Kind     FileKind
	Language string
	Children []*FileNode
	Meta     *FileMeta
}

// IsDir reports whether the node is a folder.
func (n *FileNode) IsDir() bool {
	return n != nil && n.Kind == FileKindDir
}

// FileContent is the result of a content fetch.
type FileContent struct {
	Content string
	ETag    string
	Meta    FileMeta
}

// LanguageForPath maps a file path to an editor language identifier.
// Unknown extensions map to the empty string.
func LanguageForPath(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".py":
		return "python"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	case ".md":
		return "markdown"
	case ".csv":
		return "csv"
	case ".txt":
		return "plaintext"
	default:
		return ""
	}
}
