package processor

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jackzampolin/stacks/internal/toc"
)

// Section is a unit of sectioned content ready to be stored.
type Section struct {
	ID      string
	Title   string
	Level   int
	Content string
	// Pages are the page indices whose text the section covers.
	Pages []int
}

// Heading patterns for the fallback extractor, in priority order.
var (
	markdownHeading = regexp.MustCompile(`^(#+)\s+(.+)$`)
	dottedHeading   = regexp.MustCompile(`^(\d+(?:\.\d+)*)\.?\s+(\S.*)$`)
	formalHeading   = regexp.MustCompile(`(?i)^((?:chapter|section)\s+\d+)\s*:?\s*(.*)$`)
	allCapsHeading  = regexp.MustCompile(`^[A-Z][A-Z0-9 ,.:;'-]{3,}$`)
	trailingDigits  = regexp.MustCompile(`\d\s*$`)
)

// deriveSections chooses the sectioning strategy: TOC spans when a structure
// was found (with the pattern fallback covering pages no entry spans), or
// the pattern fallback over the whole document.
func (p *Processor) deriveSections(doc Document, structure *toc.Structure, hasTOC bool) []Section {
	if !hasTOC {
		return extractPatternSections(doc.Pages, sortedPageIndices(doc.Pages))
	}

	sections, covered := tocSections(doc, structure)

	// Pages outside every entry's span still get pattern-based treatment.
	var uncovered []int
	for _, idx := range sortedPageIndices(doc.Pages) {
		if !covered[idx] {
			uncovered = append(uncovered, idx)
		}
	}
	if len(uncovered) > 0 {
		sections = append(sections, extractPatternSections(doc.Pages, uncovered)...)
	}

	return sections
}

// tocSections derives one section per TOC entry. An entry's span runs from
// its own start page through the page before the next entry's start; the
// final entry runs to the document's last page.
func tocSections(doc Document, structure *toc.Structure) ([]Section, map[int]bool) {
	entries := structure.FlatEntries()
	covered := make(map[int]bool)

	lastPage := doc.PageCount - 1
	if lastPage < 0 {
		for _, idx := range sortedPageIndices(doc.Pages) {
			lastPage = idx
		}
	}

	var sections []Section
	for i, entry := range entries {
		end := lastPage
		if i+1 < len(entries) {
			end = entries[i+1].Page - 1
		}
		if end < entry.Page {
			end = entry.Page
		}

		var pages []int
		var parts []string
		for page := entry.Page; page <= end; page++ {
			text, ok := doc.Pages[page]
			if !ok {
				continue
			}
			covered[page] = true
			pages = append(pages, page)
			parts = append(parts, text)
		}

		sections = append(sections, Section{
			ID:      toc.SectionID(entry.Title, entry.Page),
			Title:   entry.Title,
			Level:   entry.Level,
			Content: strings.Join(parts, "\n"),
			Pages:   pages,
		})
	}

	return sections, covered
}

// extractPatternSections scans the given pages' lines in document order for
// headings. Each heading closes the previous section (if it accumulated
// content) and opens a new one; non-heading lines accumulate into the open
// section.
func extractPatternSections(pages map[int]string, indices []int) []Section {
	sort.Ints(indices)

	var sections []Section
	var current *Section
	var body []string

	flush := func() {
		if current == nil {
			return
		}
		content := strings.TrimSpace(strings.Join(body, "\n"))
		if content != "" {
			current.Content = content
			sections = append(sections, *current)
		}
		current = nil
		body = nil
	}

	for _, idx := range indices {
		for _, line := range strings.Split(pages[idx], "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}

			if title, level, ok := matchHeading(trimmed); ok {
				flush()
				current = &Section{
					ID:    toc.SectionID(title, idx),
					Title: title,
					Level: level,
					Pages: []int{idx},
				}
				continue
			}

			if current != nil {
				body = append(body, trimmed)
				if n := len(current.Pages); n == 0 || current.Pages[n-1] != idx {
					current.Pages = append(current.Pages, idx)
				}
			}
		}
	}
	flush()

	return sections
}

// matchHeading tries the heading patterns in priority order.
func matchHeading(line string) (title string, level int, ok bool) {
	if m := markdownHeading.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[2]), len(m[1]), true
	}
	if m := dottedHeading.FindStringSubmatch(line); m != nil {
		// Lines ending in digits look like TOC entries, not headings.
		if !trailingDigits.MatchString(line) {
			return strings.TrimSpace(m[2]), strings.Count(m[1], ".") + 1, true
		}
	}
	if m := formalHeading.FindStringSubmatch(line); m != nil {
		title := strings.TrimSpace(m[2])
		if title == "" {
			title = strings.TrimSpace(m[1])
		}
		return title, 1, true
	}
	if allCapsHeading.MatchString(line) {
		return line, 1, true
	}
	return "", 0, false
}
