package catalog

import "strings"

// Separator splits an id into its hierarchical segments.
const Separator = "|"

// MethodMarker appears in the id segment of every method.
const MethodMarker = "method::"

// ClassMarkers are the id-segment prefixes of entities that may own methods.
var ClassMarkers = []string{
	"class_struct::",
	"struct::",
	"dto::",
	"interface::",
	"trait::",
}

// LastSegment returns the final segment of id.
func LastSegment(id string) string {
	if i := strings.LastIndex(id, Separator); i >= 0 {
		return id[i+len(Separator):]
	}
	return id
}

// ParentID strips the final segment from id. It reports false for ids with a
// single segment.
func ParentID(id string) (string, bool) {
	i := strings.LastIndex(id, Separator)
	if i <= 0 {
		return "", false
	}
	return id[:i], true
}

// HasClassMarker reports whether id names (or descends from) a class-like entity.
func HasClassMarker(id string) bool {
	for _, m := range ClassMarkers {
		if strings.Contains(id, m) {
			return true
		}
	}
	return false
}

// HasMethodMarker reports whether id contains the method marker.
func HasMethodMarker(id string) bool {
	return strings.Contains(id, MethodMarker)
}
