package processor

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackzampolin/stacks/internal/memory"
)

func openTestStore(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore(memory.Config{
		Path:             filepath.Join(t.TempDir(), "memory.db"),
		Domain:           "pdf_processing",
		MinContentLength: 10,
	})
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func tocDocument() Document {
	pages := map[int]string{
		0: "Table of Contents\n\n1. Introduction ........... 1\n2. Background ........... 3\n2.1 History ........... 4",
		1: "Introduction body text, long enough to store as a page memory.",
		2: "Second page of the introduction with more body text to keep.",
		3: "Background body text, also long enough for the store threshold.",
		4: "History subsection body text with sufficient length for a node.",
		5: "Closing page content that belongs to the final section's span.",
	}
	return Document{
		Name:      "sample.pdf",
		PageCount: 6,
		Info:      map[string]string{"title": "Sample Book", "author": "A. Writer"},
		Pages:     pages,
	}
}

func TestProcess_TOCBased(t *testing.T) {
	store := openTestStore(t)
	p := New(store, nil, nil)
	ctx := context.Background()

	result, err := p.Process(ctx, tocDocument(), nil)
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if result.StructureMethod != StructureTOCBased {
		t.Errorf("structure method: got %q", result.StructureMethod)
	}
	if result.DocumentID == "" {
		t.Fatal("missing document ID")
	}
	if len(result.PageMemories) != 6 {
		t.Errorf("page memories: got %d, want 6", len(result.PageMemories))
	}
	if len(result.SectionMemories) != 3 {
		t.Errorf("section memories: got %d, want 3", len(result.SectionMemories))
	}
	if result.TOC == nil || len(result.TOC.Entries) != 3 {
		t.Error("expected TOC structure with 3 entries on result")
	}
	if result.Metadata["title"] != "Sample Book" {
		t.Errorf("metadata title: %q", result.Metadata["title"])
	}

	// Document node is findable through search.
	results, err := store.SearchMemories(ctx, "sample", 10, "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	foundDoc := false
	for _, r := range results {
		if r.Node.ID == result.DocumentID {
			foundDoc = true
		}
	}
	if !foundDoc {
		t.Error("document node not found via search")
	}
}

func TestProcess_MetadataOverrides(t *testing.T) {
	store := openTestStore(t)
	p := New(store, nil, nil)

	result, err := p.Process(context.Background(), tocDocument(), map[string]string{
		"title":      "Overridden Title",
		"collection": "test-shelf",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Metadata["title"] != "Overridden Title" {
		t.Errorf("title: %q", result.Metadata["title"])
	}
	if result.Metadata["collection"] != "test-shelf" {
		t.Errorf("collection: %q", result.Metadata["collection"])
	}
	if result.Metadata["author"] != "A. Writer" {
		t.Errorf("author should survive override merge: %q", result.Metadata["author"])
	}
}

func TestProcess_PatternFallback(t *testing.T) {
	store := openTestStore(t)
	p := New(store, nil, nil)

	doc := Document{
		Name:      "notes.pdf",
		PageCount: 2,
		Pages: map[int]string{
			0: "# Meeting Notes\nDiscussion of the quarterly roadmap and goals.",
			1: "# Action Items\nFollow up with the infrastructure team soon.",
		},
	}

	result, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.StructureMethod != StructurePatternBased {
		t.Errorf("structure method: got %q", result.StructureMethod)
	}
	if result.TOC != nil {
		t.Error("no TOC expected")
	}
	if len(result.SectionMemories) != 2 {
		t.Errorf("section memories: got %d, want 2", len(result.SectionMemories))
	}
}

func TestProcess_PageEnrichment(t *testing.T) {
	store := openTestStore(t)
	p := New(store, nil, nil)
	ctx := context.Background()

	doc := Document{
		Name:      "enriched.pdf",
		PageCount: 1,
		Pages: map[int]string{
			0: "Raw page content about deep sea exploration vessels.",
		},
		Analysis: map[int]*PageAnalysis{
			0: {
				SemanticSummary: "Overview of deep sea exploration.",
				KeyInsights:     []string{"one", "two", "three", "four", "five"},
				OntologyTags:    []string{"ocean", "vessel", "a", "b", "c", "d", "e"},
			},
		},
	}

	result, err := p.Process(ctx, doc, nil)
	if err != nil {
		t.Fatal(err)
	}

	pageID := result.PageMemories[0]
	if pageID == "" {
		t.Fatal("page not stored")
	}

	nodes, err := store.RecentMemories(ctx, 10, "")
	if err != nil {
		t.Fatal(err)
	}
	var content string
	for _, n := range nodes {
		if n.ID == pageID {
			content = n.Content
		}
	}
	if !strings.HasPrefix(content, "SUMMARY: Overview of deep sea exploration.") {
		t.Errorf("content not enriched: %q", content)
	}

	// Insights capped at 3, ontology tags at 5: page + page:N + filename +
	// 3 insights + 5 ontology tags.
	results, err := store.SearchMemories(ctx, "vessel", 10, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("ontology tag search: got %d results", len(results))
	}
}

func TestProcess_EmptyPagesSkipped(t *testing.T) {
	store := openTestStore(t)
	p := New(store, nil, nil)

	doc := Document{
		Name:      "sparse.pdf",
		PageCount: 3,
		Pages: map[int]string{
			0: "First page with plenty of content for the threshold.",
			1: "   ",
			2: "Third page with plenty of content for the threshold.",
		},
	}

	result, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.PageMemories) != 2 {
		t.Errorf("page memories: got %d, want 2", len(result.PageMemories))
	}
	if _, ok := result.PageMemories[1]; ok {
		t.Error("blank page should not be stored")
	}
}

func TestDocStem(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"book.pdf", "book"},
		{"/data/scans/my-book.pdf", "my-book"},
		{"no-extension", "no-extension"},
	}
	for _, tt := range tests {
		if got := docStem(tt.in); got != tt.want {
			t.Errorf("docStem(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
