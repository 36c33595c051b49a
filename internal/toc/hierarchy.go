package toc

import "strings"

// BuildHierarchy converts a flat, document-ordered entry list into a forest
// using a single left-to-right pass over a level stack.
//
// For each entry the stack is popped while its top has a level >= the
// entry's level, leaving only strictly-shallower ancestors. The entry then
// attaches to the stack top, or becomes a root if the stack emptied. A level
// that jumps by more than one (1 -> 3) still attaches to the nearest
// shallower ancestor; that is accepted input, not an error.
func BuildHierarchy(entries []*Entry) []*Entry {
	type frame struct {
		level int
		entry *Entry
	}

	var roots []*Entry
	var stack []frame

	for _, e := range entries {
		for len(stack) > 0 && stack[len(stack)-1].level >= e.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			parent := stack[len(stack)-1].entry
			parent.Children = append(parent.Children, e)
			e.parent = parent
		} else {
			roots = append(roots, e)
		}
		stack = append(stack, frame{level: e.Level, entry: e})
	}

	return roots
}

// Parse runs the full TOC pipeline over a document's page texts: locate the
// TOC pages, sniff the dominant line format, parse each line, and build the
// hierarchy. Returns ok == false when no table of contents is found or no
// line parses as an entry.
func Parse(pages map[int]string) (*Structure, bool) {
	tocPages, text, ok := DetectPages(pages)
	if !ok {
		return nil, false
	}

	format := DetectFormat(text)

	var entries []*Entry
	for _, line := range strings.Split(text, "\n") {
		if entry, ok := ParseLine(line, format); ok {
			entries = append(entries, entry)
		}
	}
	if len(entries) == 0 {
		return nil, false
	}

	return &Structure{
		Entries: entries,
		Format:  format,
		Pages:   tocPages,
		Roots:   BuildHierarchy(entries),
	}, true
}
