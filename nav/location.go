package nav

import (
	"net/url"
	"strings"
)

// Location is an immutable snapshot of the console address: path, raw query,
// and fragment. Locations are replaced wholesale on each navigation.
type Location struct {
	Path     string
	Query    string
	Fragment string
}

// ParseLocation decomposes a target string into a Location.
func ParseLocation(raw string) Location {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{Path: raw}
	}
	return Location{Path: u.Path, Query: u.RawQuery, Fragment: u.Fragment}
}

// String reassembles the location into a single address string.
func (l Location) String() string {
	var b strings.Builder
	b.WriteString(l.Path)
	if l.Query != "" {
		b.WriteByte('?')
		b.WriteString(l.Query)
	}
	if l.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(l.Fragment)
	}
	return b.String()
}

// Values parses the query component. A malformed query yields an empty set.
func (l Location) Values() url.Values {
	values, err := url.ParseQuery(l.Query)
	if err != nil {
		return url.Values{}
	}
	return values
}

// Resolve interprets to relative to the location, so "?pane=console" keeps
// the current path and "#top" keeps path and query.
func (l Location) Resolve(to string) Location {
	target, err := url.Parse(to)
	if err != nil {
		return l
	}
	base := &url.URL{Path: l.Path, RawQuery: l.Query, Fragment: l.Fragment}
	if target.Path == "" && target.RawQuery == "" && target.Fragment != "" {
		return Location{Path: l.Path, Query: l.Query, Fragment: target.Fragment}
	}
	if target.Path == "" && (target.RawQuery != "" || to == "?" || strings.HasPrefix(to, "?")) {
		return Location{Path: l.Path, Query: target.RawQuery, Fragment: target.Fragment}
	}
	resolved := base.ResolveReference(target)
	return Location{Path: resolved.Path, Query: resolved.RawQuery, Fragment: resolved.Fragment}
}

// SamePath reports whether only query or fragment differ between locations.
func (l Location) SamePath(other Location) bool {
	return l.Path == other.Path
}
