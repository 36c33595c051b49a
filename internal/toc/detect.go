package toc

import (
	"regexp"
	"sort"
	"strings"
)

// tocIndicators are phrases (lowercased) that mark a page as a likely table
// of contents. Includes common translations seen in scanned books.
var tocIndicators = []string{
	"table of contents",
	"contents",
	"toc",
	"inhaltsverzeichnis",
	"inhalt",
	"table des matières",
	"sommaire",
	"índice",
	"indice",
	"tabla de contenido",
	"indholdsfortegnelse",
	"innehåll",
}

var (
	lineEndsWithPage = regexp.MustCompile(`\d+\s*$`)
	dotsThenPage     = regexp.MustCompile(`\.{2,}\s*\d+`)
	tabThenPage      = regexp.MustCompile(`\t\s*\d+`)
	continuationHint = regexp.MustCompile(`(?i)(continued|cont\.)`)
)

// minPageNumberLines is the minimum number of page-number-looking lines a
// page must show to qualify as part of a table of contents.
const minPageNumberLines = 3

// maxContinuationPages bounds how far past a TOC page the detector will look
// for continuation pages.
const maxContinuationPages = 3

// DetectPages scans pages in ascending index order for the document's table
// of contents. It returns the TOC page indices and their joined text. A miss
// (ok == false) is a valid outcome; callers fall back to pattern-based
// sectioning.
func DetectPages(pages map[int]string) ([]int, string, bool) {
	indices := make([]int, 0, len(pages))
	for idx := range pages {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	for pos, idx := range indices {
		text := pages[idx]
		if !hasTOCIndicator(text) || countPageNumberLines(text) < minPageNumberLines {
			continue
		}

		tocPages := []int{idx}
		texts := []string{text}

		if signalsContinuation(text) {
			for _, next := range continuationCandidates(indices, pos) {
				if countPageNumberLines(pages[next]) < minPageNumberLines {
					break
				}
				tocPages = append(tocPages, next)
				texts = append(texts, pages[next])
			}
		}

		return tocPages, strings.Join(texts, "\n"), true
	}

	return nil, "", false
}

func hasTOCIndicator(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range tocIndicators {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// countPageNumberLines sums, over all lines, how many of the page-number
// patterns each line matches. The patterns are summed, not alternatives.
func countPageNumberLines(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if lineEndsWithPage.MatchString(line) {
			count++
		}
		if dotsThenPage.MatchString(line) {
			count++
		}
		if tabThenPage.MatchString(line) {
			count++
		}
	}
	return count
}

// signalsContinuation reports whether the last non-empty line of a TOC page
// announces that the listing continues on a following page.
func signalsContinuation(text string) bool {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		return continuationHint.MatchString(line)
	}
	return false
}

// continuationCandidates returns up to maxContinuationPages page indices
// following position pos.
func continuationCandidates(indices []int, pos int) []int {
	var out []int
	for i := pos + 1; i < len(indices) && len(out) < maxContinuationPages; i++ {
		out = append(out, indices[i])
	}
	return out
}
