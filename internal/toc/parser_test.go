package toc

import "testing"

func TestParseLine_DotLeader(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		ok     bool
		number string
		title  string
		page   int
		level  int
	}{
		{
			name:   "numbered entry",
			line:   "1.2  Methodology ........... 14",
			ok:     true,
			number: "1.2",
			title:  "Methodology",
			page:   14,
			level:  2,
		},
		{
			name:   "top level with trailing dot on number",
			line:   "1. Introduction ........... 5",
			ok:     true,
			number: "1",
			title:  "Introduction",
			page:   5,
			level:  1,
		},
		{
			name:   "chapter prefix",
			line:   "Chapter 3: The Long Road .... 42",
			ok:     true,
			number: "3",
			title:  "The Long Road",
			page:   42,
			level:  1,
		},
		{
			name:  "plain title",
			line:  "Acknowledgments .......... 211",
			ok:    true,
			title: "Acknowledgments",
			page:  211,
			level: 1,
		},
		{
			name: "prose line is skipped",
			line: "It was the best of times, it was the worst of times.",
			ok:   false,
		},
		{
			name: "blank line is skipped",
			line: "   ",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := ParseLine(tt.line, FormatDotLeader)
			if ok != tt.ok {
				t.Fatalf("ok: got %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if entry.Number != tt.number {
				t.Errorf("number: got %q, want %q", entry.Number, tt.number)
			}
			if entry.Title != tt.title {
				t.Errorf("title: got %q, want %q", entry.Title, tt.title)
			}
			if entry.Page != tt.page {
				t.Errorf("page: got %d, want %d", entry.Page, tt.page)
			}
			if entry.Level != tt.level {
				t.Errorf("level: got %d, want %d", entry.Level, tt.level)
			}
			if entry.RawText != tt.line {
				t.Errorf("raw text not preserved: %q", entry.RawText)
			}
		})
	}
}

func TestParseLine_TabSeparated(t *testing.T) {
	entry, ok := ParseLine("2.1\tHistory\t10", FormatTabSeparated)
	if !ok {
		t.Fatal("expected match")
	}
	if entry.Number != "2.1" || entry.Title != "History" || entry.Page != 10 || entry.Level != 2 {
		t.Errorf("unexpected entry: %+v", entry)
	}

	entry, ok = ParseLine("Epilogue\t300", FormatTabSeparated)
	if !ok {
		t.Fatal("expected match for unnumbered tab entry")
	}
	if entry.Number != "" || entry.Title != "Epilogue" || entry.Page != 300 {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestParseLine_Numbered(t *testing.T) {
	entry, ok := ParseLine("3.2.1 Experimental Setup 77", FormatNumbered)
	if !ok {
		t.Fatal("expected match")
	}
	if entry.Number != "3.2.1" || entry.Level != 3 || entry.Page != 77 {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.Title != "Experimental Setup" {
		t.Errorf("title: got %q", entry.Title)
	}

	// Dot leaders disqualify a line for the numbered format.
	if _, ok := ParseLine("3.2 Setup ..... 77", FormatNumbered); ok {
		t.Error("dot leader line should not parse as numbered")
	}
}

func TestParseLine_GenericFallback(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		ok     bool
		number string
		title  string
		page   int
	}{
		{
			name:   "dotted number prefix",
			line:   "  4.1 Results and Discussion 52",
			ok:     true,
			number: "4.1",
			title:  "Results and Discussion",
			page:   52,
		},
		{
			name:  "bare title with page",
			line:  "Index 310",
			ok:    true,
			title: "Index",
			page:  310,
		},
		{
			name: "no trailing page",
			line: "Preface",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := ParseLine(tt.line, FormatUnknown)
			if ok != tt.ok {
				t.Fatalf("ok: got %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if entry.Number != tt.number || entry.Title != tt.title || entry.Page != tt.page {
				t.Errorf("unexpected entry: %+v", entry)
			}
		})
	}
}
