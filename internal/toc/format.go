package toc

import (
	"regexp"
	"strings"
)

var (
	dotLeaderHint = regexp.MustCompile(`\.{2,}`)
	numberedHint  = regexp.MustCompile(`^\s*\d+(\.\d+)*\.?\s+\S`)
)

// DetectFormat scores each non-empty line of a candidate TOC block and
// returns the best-fit format. Ties go to the first-declared format; all
// zero scores mean the format is unknown.
func DetectFormat(text string) Format {
	scores := map[Format]int{}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if dotLeaderHint.MatchString(line) {
			scores[FormatDotLeader]++
		}
		if strings.Contains(line, "\t") {
			scores[FormatTabSeparated]++
		}
		if numberedHint.MatchString(line) {
			scores[FormatNumbered]++
		}
	}

	best := FormatUnknown
	bestScore := 0
	for _, f := range []Format{FormatDotLeader, FormatTabSeparated, FormatNumbered, FormatIndented} {
		if scores[f] > bestScore {
			best = f
			bestScore = scores[f]
		}
	}
	return best
}
