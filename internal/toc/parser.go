package toc

import (
	"regexp"
	"strconv"
	"strings"
)

// Sub-patterns for each format, evaluated in fixed order. First match wins.
var (
	// "1.2  Title ...... 8": optional dotted number, dot leader, page.
	dotLeaderNumbered = regexp.MustCompile(`^\s*(\d+(?:\.\d+)*)\.?\s+(.+?)\s*\.{2,}\s*(\d+)\s*$`)
	// "Chapter 3: Title ...... 42"
	dotLeaderChapter = regexp.MustCompile(`(?i)^\s*chapter\s+(\d+)\s*:?\s*(.+?)\s*\.{2,}\s*(\d+)\s*$`)
	// "Title ...... 8": no number.
	dotLeaderPlain = regexp.MustCompile(`^\s*(.+?)\s*\.{2,}\s*(\d+)\s*$`)

	// "1.2<TAB>Title<TAB>8" and "Title<TAB>8".
	tabNumbered = regexp.MustCompile(`^\s*(\d+(?:\.\d+)*)\t+(.+?)\t+(\d+)\s*$`)
	tabPlain    = regexp.MustCompile(`^\s*(.+?)\t+(\d+)\s*$`)

	// "1.2 Title 8": whitespace separated, no dot leader.
	numberedLine = regexp.MustCompile(`^\s*(\d+(?:\.\d+)*)\.?\s+(.+?)\s+(\d+)\s*$`)

	// Generic fallback pieces: trailing page digits, leading dotted number.
	trailingPage  = regexp.MustCompile(`(\d+)\s*$`)
	leadingNumber = regexp.MustCompile(`^\s*(\d+(?:\.\d+)*)\.?\s+`)
)

// ParseLine extracts a single TOC entry from a line using the given format.
// Most lines in a document are not TOC entries, so a non-match is a silent
// skip (ok == false), never an error.
func ParseLine(line string, format Format) (*Entry, bool) {
	if strings.TrimSpace(line) == "" {
		return nil, false
	}

	switch format {
	case FormatDotLeader:
		if m := dotLeaderNumbered.FindStringSubmatch(line); m != nil {
			return newEntry(m[1], m[2], m[3], line), true
		}
		if m := dotLeaderChapter.FindStringSubmatch(line); m != nil {
			return newEntry(m[1], m[2], m[3], line), true
		}
		if m := dotLeaderPlain.FindStringSubmatch(line); m != nil {
			return newEntry("", m[1], m[2], line), true
		}
	case FormatTabSeparated:
		if m := tabNumbered.FindStringSubmatch(line); m != nil {
			return newEntry(m[1], m[2], m[3], line), true
		}
		if m := tabPlain.FindStringSubmatch(line); m != nil {
			return newEntry("", m[1], m[2], line), true
		}
	case FormatNumbered:
		if strings.Contains(line, "..") {
			return nil, false
		}
		if m := numberedLine.FindStringSubmatch(line); m != nil {
			return newEntry(m[1], m[2], m[3], line), true
		}
	default:
		return parseGeneric(line)
	}

	return nil, false
}

// parseGeneric handles lines when no format was recognized: the last run of
// digits at end of line is the page, and a leading dotted number (if any)
// becomes the section number.
func parseGeneric(line string) (*Entry, bool) {
	loc := trailingPage.FindStringSubmatchIndex(line)
	if loc == nil {
		return nil, false
	}
	page := line[loc[2]:loc[3]]
	rest := strings.TrimRight(strings.TrimSpace(line[:loc[2]]), ". \t")

	number := ""
	if m := leadingNumber.FindStringSubmatch(rest); m != nil {
		number = m[1]
		rest = strings.TrimSpace(rest[len(m[0]):])
	}
	if rest == "" {
		return nil, false
	}
	return newEntry(number, rest, page, line), true
}

func newEntry(number, title, page, raw string) *Entry {
	p, _ := strconv.Atoi(page)
	level := 1
	if number != "" {
		level = strings.Count(number, ".") + 1
	}
	return &Entry{
		Number:  number,
		Title:   strings.TrimSpace(title),
		Page:    p,
		Level:   level,
		RawText: raw,
	}
}
