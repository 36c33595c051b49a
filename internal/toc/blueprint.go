package toc

import "sort"

// PageSection records which section an individual page starts.
type PageSection struct {
	SectionID string
	Title     string
	Level     int
	Path      string
}

// SectionNode mirrors one TOC entry inside the blueprint's section tree.
type SectionNode struct {
	SectionID string
	Title     string
	Page      int
	Level     int
	Children  []*SectionNode
}

// Blueprint maps a parsed TOC onto the document's actual pages. It is
// derived, read-only, and recomputed per document; it is consumed to build
// memory nodes and never persisted itself.
type Blueprint struct {
	Structure *Structure
	// PageMapping records each entry's start page only. Full page spans are
	// computed downstream when section content is assembled.
	PageMapping map[int]PageSection
	SectionTree []*SectionNode
	// OrphanPages are pages present in the document but not the start of
	// any TOC entry, sorted ascending.
	OrphanPages []int
}

// BuildBlueprint maps every TOC entry to the page it starts on and flags
// document pages no entry covers.
func BuildBlueprint(structure *Structure, pages map[int]string) *Blueprint {
	bp := &Blueprint{
		Structure:   structure,
		PageMapping: make(map[int]PageSection),
	}

	covered := make(map[int]bool)
	for _, entry := range structure.FlatEntries() {
		covered[entry.Page] = true
		bp.PageMapping[entry.Page] = PageSection{
			SectionID: SectionID(entry.Title, entry.Page),
			Title:     entry.Title,
			Level:     entry.Level,
			Path:      entry.FullPath(),
		}
	}

	for _, root := range structure.Roots {
		bp.SectionTree = append(bp.SectionTree, buildSectionNode(root))
	}

	for idx := range pages {
		if !covered[idx] {
			bp.OrphanPages = append(bp.OrphanPages, idx)
		}
	}
	sort.Ints(bp.OrphanPages)

	return bp
}

func buildSectionNode(e *Entry) *SectionNode {
	node := &SectionNode{
		SectionID: SectionID(e.Title, e.Page),
		Title:     e.Title,
		Page:      e.Page,
		Level:     e.Level,
	}
	for _, c := range e.Children {
		node.Children = append(node.Children, buildSectionNode(c))
	}
	return node
}
