// Package sections provides the numbered code sections a chapter's code
// directives refer to, and the cache that decides when to reload them.
package sections

import (
	"maps"
	"path/filepath"
	"strings"
)

// Section is one numbered slice of source-code history belonging to a chapter.
type Section struct {
	Language      string
	Path          string
	Location      string
	ContextBefore []string
	ContextAfter  []string
	Removed       []string
	Added         []string
}

// IsReplace reports whether the section both removes and adds lines.
func (s *Section) IsReplace() bool {
	return len(s.Removed) > 0 && len(s.Added) > 0
}

// Provider returns the sections of a chapter keyed by section number. An
// unknown title yields an empty map, never an error.
type Provider interface {
	FindAll(chapterTitle string) map[int]*Section
}

// Snapshot is an immutable set of sections for every chapter, keyed by title.
type Snapshot map[string]map[int]*Section

// FindAll implements Provider. The returned map is a copy the caller may mutate.
func (s Snapshot) FindAll(chapterTitle string) map[int]*Section {
	found := s[chapterTitle]
	if found == nil {
		return map[int]*Section{}
	}
	return maps.Clone(found)
}

// LanguageFor infers a language tag from a source path's extension.
func LanguageFor(path string) string {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".c", ".h":
		return "c"
	case ".java":
		return "java"
	case ".lox":
		return "lox"
	case "":
		return "text"
	default:
		return strings.TrimPrefix(ext, ".")
	}
}
