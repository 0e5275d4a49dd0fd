package core

import (
	"path"
	"sort"
	"strings"

	"pkt.systems/adecon/schema"
)

// BuildFileTree converts the backend's flat listing into a nested tree. The
// root id comes from rootHint or, failing that, the parent of the first
// entry. Intermediate folders are created lazily so every entry's ancestor
// chain exists before the entry is attached; entries whose parent cannot be
// resolved attach to the synthesized root. Children sort folders first, then
// byte-wise by name.
func BuildFileTree(entries []schema.FileEntry, rootHint string) *schema.FileNode {
	rootID := canonicalPath(rootHint)
	if rootID == "" && len(entries) > 0 {
		rootID = canonicalPath(entries[0].Parent)
	}
	root := &schema.FileNode{ID: rootID, Name: path.Base("/" + rootID), Kind: schema.FileKindDir}
	if rootID == "" {
		root.Name = ""
	}
	nodes := map[string]*schema.FileNode{rootID: root}

	for _, entry := range entries {
		id := canonicalPath(entry.Path)
		if id == "" || id == rootID {
			continue
		}
		switch entry.Kind {
		case schema.FileKindDir:
			node := ensureFolder(nodes, root, id)
			node.Meta = entryMeta(entry)
		default:
			if _, exists := nodes[id]; exists {
				continue
			}
			parent := resolveParent(nodes, root, id, entry.Parent)
			node := &schema.FileNode{
				ID:       id,
				Name:     displayName(entry.Name, id),
				Kind:     schema.FileKindFile,
				Language: schema.LanguageForPath(id),
				Meta:     entryMeta(entry),
			}
			nodes[id] = node
			parent.Children = append(parent.Children, node)
		}
	}

	sortTree(root)
	return root
}

// FindNode locates a node by id with a depth-first walk.
func FindNode(root *schema.FileNode, id string) *schema.FileNode {
	if root == nil {
		return nil
	}
	if root.ID == id {
		return root
	}
	for _, child := range root.Children {
		if found := FindNode(child, id); found != nil {
			return found
		}
	}
	return nil
}

// FirstFile returns the first file in folder-first traversal order, used to
// pick a default file when no explicit selection exists.
func FirstFile(root *schema.FileNode) *schema.FileNode {
	if root == nil {
		return nil
	}
	if root.Kind == schema.FileKindFile {
		return root
	}
	for _, child := range root.Children {
		if found := FirstFile(child); found != nil {
			return found
		}
	}
	return nil
}

func ensureFolder(nodes map[string]*schema.FileNode, root *schema.FileNode, id string) *schema.FileNode {
	if node, ok := nodes[id]; ok {
		return node
	}
	node := &schema.FileNode{ID: id, Name: path.Base(id), Kind: schema.FileKindDir}
	nodes[id] = node
	parent := resolveParent(nodes, root, id, "")
	parent.Children = append(parent.Children, node)
	return node
}

// resolveParent finds or creates the parent folder for id. A declared parent
// wins over the path-derived one when it resolves inside the root.
func resolveParent(nodes map[string]*schema.FileNode, root *schema.FileNode, id, declaredParent string) *schema.FileNode {
	parentID := canonicalPath(declaredParent)
	if parentID == "" || !withinRoot(root.ID, parentID) {
		parentID = pathParent(id)
	}
	if parentID == root.ID || parentID == "" || !withinRoot(root.ID, parentID) {
		return root
	}
	if !withinRoot(root.ID, id) {
		return root
	}
	return ensureFolder(nodes, root, parentID)
}

func pathParent(id string) string {
	dir := path.Dir(id)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

func withinRoot(rootID, id string) bool {
	if rootID == "" {
		return true
	}
	return id == rootID || strings.HasPrefix(id, rootID+"/")
}

func sortTree(node *schema.FileNode) {
	if node == nil {
		return
	}
	sort.SliceStable(node.Children, func(i, j int) bool {
		a, b := node.Children[i], node.Children[j]
		if a.IsDir() != b.IsDir() {
			return a.IsDir()
		}
		return a.Name < b.Name
	})
	for _, child := range node.Children {
		sortTree(child)
	}
}

func entryMeta(entry schema.FileEntry) *schema.FileMeta {
	return &schema.FileMeta{
		Size:        entry.Size,
		ModTime:     entry.ModTime,
		ContentType: entry.ContentType,
		ETag:        entry.ETag,
	}
}

func displayName(name, id string) string {
	if name != "" {
		return name
	}
	return path.Base(id)
}

// canonicalPath normalizes separators, strips trailing slashes, and resolves
// dot segments. Empty and root-only paths canonicalize to "".
func canonicalPath(p string) string {
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean(p)
	p = strings.TrimPrefix(p, "/")
	if p == "." || p == "" {
		return ""
	}
	return strings.TrimSuffix(p, "/")
}
