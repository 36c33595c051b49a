// Package toc detects, parses, and structures tables of contents from
// per-page document text. The pipeline is DetectPages -> DetectFormat ->
// ParseLine (per line) -> BuildHierarchy, wrapped by Parse.
package toc

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Format identifies the dominant line syntax of a table of contents.
// Declaration order matters: DetectFormat breaks score ties in favor of
// the first-declared format.
type Format int

const (
	FormatDotLeader Format = iota
	FormatTabSeparated
	FormatNumbered
	FormatIndented
	FormatUnknown
)

// String returns the format name used in logs and results.
func (f Format) String() string {
	switch f {
	case FormatDotLeader:
		return "dot_leader"
	case FormatTabSeparated:
		return "tab_separated"
	case FormatNumbered:
		return "numbered"
	case FormatIndented:
		return "indented"
	default:
		return "unknown"
	}
}

// Entry is a single table-of-contents entry. Entries are created by the
// parser, assembled into a tree by BuildHierarchy, and read-only after that.
type Entry struct {
	Number  string // hierarchy number like "2.1", empty if absent
	Title   string
	Page    int // 0-based page index
	Level   int // >= 1
	RawText string

	Children []*Entry
	parent   *Entry // back-reference only, never owned
}

// Parent returns the entry's parent, or nil for root entries.
func (e *Entry) Parent() *Entry {
	return e.parent
}

// FullPath joins ancestor titles down to this entry.
func (e *Entry) FullPath() string {
	var parts []string
	for cur := e; cur != nil; cur = cur.parent {
		parts = append(parts, cur.Title)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

// Structure is the parsed table of contents for one document.
type Structure struct {
	// Entries is the flat, document-ordered list of all parsed entries.
	Entries []*Entry
	Format  Format
	// Pages are the page indices the TOC itself occupies.
	Pages []int
	// Roots are the top-level entries after hierarchy building.
	Roots []*Entry
}

// FlatEntries returns a pre-order traversal of the hierarchy. Membership
// equals Entries exactly: every parsed entry appears once.
func (s *Structure) FlatEntries() []*Entry {
	var out []*Entry
	var walk func(*Entry)
	walk = func(e *Entry) {
		out = append(out, e)
		for _, c := range e.Children {
			walk(c)
		}
	}
	for _, r := range s.Roots {
		walk(r)
	}
	return out
}

// SectionID derives a stable section identifier from a title and the page
// the section starts on.
func SectionID(title string, page int) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%d", strings.ToLower(strings.TrimSpace(title)), page)
	return fmt.Sprintf("%016x", h.Sum64())
}
