// Package ingest loads a document's extracted page texts and optional
// per-page semantic analysis from disk, plus basic PDF facts when the
// original file is available. Text extraction itself (rendering, OCR,
// transcription) happens upstream; this package consumes its output.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// pageFilePattern matches page text files like page_0001.txt or 12.txt,
// capturing the 0-based page index.
var pageFilePattern = regexp.MustCompile(`^(?:page[_-])?0*(\d+)\.txt$`)

// LoadPages reads all page text files from a directory into a page-index
// keyed map.
func LoadPages(dir string) (map[int]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read pages directory: %w", err)
	}

	pages := make(map[int]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := pageFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read page file %s: %w", entry.Name(), err)
		}
		pages[idx] = string(data)
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no page text files found in %s", dir)
	}
	return pages, nil
}

// maxTitleLen caps titles derived from page text.
const maxTitleLen = 200

// DeriveInfo guesses document metadata from page text: the first non-empty
// line of the lowest-indexed page becomes the title candidate. Callers merge
// explicit overrides on top.
func DeriveInfo(pages map[int]string) map[string]string {
	first := -1
	for idx := range pages {
		if first < 0 || idx < first {
			first = idx
		}
	}
	if first < 0 {
		return nil
	}

	for _, line := range strings.Split(pages[first], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > maxTitleLen {
			line = line[:maxTitleLen]
		}
		return map[string]string{"title": line}
	}
	return nil
}

// PageCount reads the page count from a PDF file.
func PageCount(pdfPath string) (int, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("open PDF: %w", err)
	}
	defer f.Close()

	count, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("page count: %w", err)
	}
	return count, nil
}
