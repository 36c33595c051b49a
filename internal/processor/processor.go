// Package processor orchestrates persisting one document's structure into
// the memory graph: a document root node, per-page nodes, and section nodes
// derived from the table of contents (or a pattern-based fallback), linked
// by part_of / precedes / contains edges.
package processor

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jackzampolin/stacks/internal/intelligence"
	"github.com/jackzampolin/stacks/internal/memory"
	"github.com/jackzampolin/stacks/internal/toc"
)

// Structure methods recorded on results.
const (
	StructureTOCBased     = "toc-based"
	StructurePatternBased = "pattern-based"
)

// Caps applied when enriching page content from semantic analysis.
const (
	maxInsightTags  = 3
	maxOntologyTags = 5

	// pageContentTruncateLen bounds the original text kept after a semantic
	// summary is prepended.
	pageContentTruncateLen = 2000
)

// PageAnalysis is optional per-page semantic enrichment supplied by an
// external analyzer.
type PageAnalysis struct {
	SemanticSummary string   `json:"semantic_summary"`
	KeyInsights     []string `json:"key_insights"`
	OntologyTags    []string `json:"ontology_tags"`
}

// Document is one document's extracted content, handed in by the ingestion
// pipeline.
type Document struct {
	// Name is the original filename; its stem names the memory paths.
	Name      string
	PageCount int
	// Info carries document metadata (title, author, subject) when known.
	Info map[string]string
	// Pages maps 0-based page index to extracted text.
	Pages map[int]string
	// Analysis optionally maps page index to semantic enrichment.
	Analysis map[int]*PageAnalysis
}

// Result reports what one processing run persisted.
type Result struct {
	DocumentID      string            `json:"document_id" yaml:"document_id"`
	PageMemories    map[int]string    `json:"page_memories" yaml:"page_memories"`
	SectionMemories map[string]string `json:"section_memories" yaml:"section_memories"`
	Relationships   int               `json:"relationships" yaml:"relationships"`
	Metadata        map[string]string `json:"metadata" yaml:"metadata"`
	StructureMethod string            `json:"structure_method" yaml:"structure_method"`
	TOC             *toc.Structure    `json:"-" yaml:"-"`
	OrphanPages     []int             `json:"orphan_pages,omitempty" yaml:"orphan_pages,omitempty"`
}

// Processor persists documents into a connected memory store.
type Processor struct {
	store *memory.Store
	intel intelligence.Summarizer
	log   *slog.Logger
}

// New creates a processor. A nil summarizer falls back to the extractive
// heuristic; a nil logger falls back to slog.Default.
func New(store *memory.Store, intel intelligence.Summarizer, logger *slog.Logger) *Processor {
	if intel == nil {
		intel = intelligence.Extractive{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{store: store, intel: intel, log: logger}
}

// Process runs the full pipeline for one document. Processing is linear and
// all-or-nothing per call; nodes committed before a failure stay committed.
// Re-processing the same document appends a fresh node graph rather than
// deduplicating; only edges are idempotent.
func (p *Processor) Process(ctx context.Context, doc Document, overrides map[string]string) (*Result, error) {
	stem := docStem(doc.Name)
	metadata := p.assembleMetadata(doc, overrides)

	result := &Result{
		PageMemories:    make(map[int]string),
		SectionMemories: make(map[string]string),
		Metadata:        metadata,
		StructureMethod: StructurePatternBased,
	}

	// TOC-first structuring.
	structure, hasTOC := toc.Parse(doc.Pages)
	if hasTOC {
		result.StructureMethod = StructureTOCBased
		result.TOC = structure
		bp := toc.BuildBlueprint(structure, doc.Pages)
		result.OrphanPages = bp.OrphanPages
		p.log.Info("table of contents found",
			"format", structure.Format.String(),
			"entries", len(structure.Entries),
			"toc_pages", structure.Pages,
			"orphan_pages", len(bp.OrphanPages))
	} else {
		p.log.Info("no table of contents found, using pattern-based sections")
	}

	// Document root node.
	docID, err := p.storeDocumentNode(ctx, stem, doc, metadata)
	if err != nil {
		return nil, err
	}
	result.DocumentID = docID

	// Page nodes with part_of and precedes edges.
	if err := p.storePageNodes(ctx, stem, doc, docID, result); err != nil {
		return nil, err
	}

	// Section nodes.
	sections := p.deriveSections(doc, structure, hasTOC)
	if err := p.storeSectionNodes(ctx, stem, docID, sections, result); err != nil {
		return nil, err
	}

	p.log.Info("document processed",
		"document_id", docID,
		"pages", len(result.PageMemories),
		"sections", len(result.SectionMemories),
		"relationships", result.Relationships,
		"structure", result.StructureMethod)

	return result, nil
}

// assembleMetadata layers caller overrides on top of document info.
func (p *Processor) assembleMetadata(doc Document, overrides map[string]string) map[string]string {
	metadata := map[string]string{
		"filename":   doc.Name,
		"page_count": strconv.Itoa(doc.PageCount),
	}
	for _, key := range []string{"title", "author", "subject"} {
		if v := doc.Info[key]; v != "" {
			metadata[key] = v
		}
	}
	for k, v := range overrides {
		metadata[k] = v
	}
	return metadata
}

func (p *Processor) storeDocumentNode(ctx context.Context, stem string, doc Document, metadata map[string]string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Document: %s\n", doc.Name)
	fmt.Fprintf(&b, "Pages: %d\n", doc.PageCount)
	for _, key := range []string{"title", "author", "subject"} {
		if v := metadata[key]; v != "" {
			fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(key[:1])+key[1:], v)
		}
	}
	content := b.String()

	summary, err := p.intel.Summarize(ctx, firstPageText(doc))
	if err != nil {
		p.log.Warn("document summarization failed, continuing without", "error", err)
		summary = ""
	}

	meta := make(map[string]any, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}

	docID, err := p.store.StoreMemory(ctx, memory.StoreRequest{
		Content:  content,
		Path:     "/documents/" + stem,
		Tags:     []string{"document", "root", doc.Name},
		Summary:  summary,
		Metadata: meta,
	})
	if err != nil {
		return "", fmt.Errorf("store document node: %w", err)
	}
	if docID == "" {
		return "", fmt.Errorf("document node for %s skipped by content-length guard", doc.Name)
	}
	return docID, nil
}

func (p *Processor) storePageNodes(ctx context.Context, stem string, doc Document, docID string, result *Result) error {
	indices := sortedPageIndices(doc.Pages)

	for _, idx := range indices {
		text := doc.Pages[idx]
		if strings.TrimSpace(text) == "" {
			continue
		}

		content := text
		tags := []string{"page", fmt.Sprintf("page:%d", idx), doc.Name}
		if analysis := doc.Analysis[idx]; analysis != nil {
			content, tags = enrichPage(text, tags, analysis)
		}

		pageID, err := p.store.StoreMemory(ctx, memory.StoreRequest{
			Content: content,
			Path:    fmt.Sprintf("/documents/%s/pages/%d", stem, idx),
			Tags:    tags,
		})
		if err != nil {
			return fmt.Errorf("store page %d: %w", idx, err)
		}
		if pageID == "" {
			continue
		}
		result.PageMemories[idx] = pageID

		if err := p.store.CreateRelationship(ctx, pageID, docID, "part_of", 1.0); err != nil {
			return fmt.Errorf("page %d part_of edge: %w", idx, err)
		}
		result.Relationships++

		// Link only immediately adjacent pages; gaps break the chain.
		if prevID, ok := result.PageMemories[idx-1]; ok {
			if err := p.store.CreateRelationship(ctx, prevID, pageID, "precedes", 1.0); err != nil {
				return fmt.Errorf("page %d precedes edge: %w", idx, err)
			}
			result.Relationships++
		}
	}
	return nil
}

func (p *Processor) storeSectionNodes(ctx context.Context, stem, docID string, sections []Section, result *Result) error {
	for _, sec := range sections {
		if strings.TrimSpace(sec.Content) == "" {
			continue
		}

		sectionID, err := p.store.StoreMemory(ctx, memory.StoreRequest{
			Content: sec.Content,
			Path:    fmt.Sprintf("/documents/%s/sections/%s", stem, sec.ID),
			Tags:    []string{"section", fmt.Sprintf("section:%d", sec.Level), sec.Title},
		})
		if err != nil {
			return fmt.Errorf("store section %q: %w", sec.Title, err)
		}
		if sectionID == "" {
			continue
		}
		result.SectionMemories[sec.ID] = sectionID

		if err := p.store.CreateRelationship(ctx, sectionID, docID, "part_of", 0.9); err != nil {
			return fmt.Errorf("section %q part_of edge: %w", sec.Title, err)
		}
		result.Relationships++

		for _, page := range sec.Pages {
			pageID, ok := result.PageMemories[page]
			if !ok {
				continue
			}
			if err := p.store.CreateRelationship(ctx, sectionID, pageID, "contains", 0.8); err != nil {
				return fmt.Errorf("section %q contains edge: %w", sec.Title, err)
			}
			result.Relationships++
		}
	}
	return nil
}

func docStem(name string) string {
	return strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
}

func firstPageText(doc Document) string {
	for _, idx := range sortedPageIndices(doc.Pages) {
		if text := strings.TrimSpace(doc.Pages[idx]); text != "" {
			return text
		}
	}
	return ""
}

func sortedPageIndices(pages map[int]string) []int {
	indices := make([]int, 0, len(pages))
	for idx := range pages {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

// enrichPage prepends the semantic summary to a truncated original and adds
// capped insight/ontology tags.
func enrichPage(text string, tags []string, analysis *PageAnalysis) (string, []string) {
	content := text
	if analysis.SemanticSummary != "" {
		truncated := text
		if len(truncated) > pageContentTruncateLen {
			truncated = truncated[:pageContentTruncateLen]
		}
		content = "SUMMARY: " + analysis.SemanticSummary + "\n\n" + truncated
	}

	for i, insight := range analysis.KeyInsights {
		if i >= maxInsightTags {
			break
		}
		if insight = strings.TrimSpace(insight); insight != "" {
			tags = append(tags, "insight:"+insight)
		}
	}
	for i, tag := range analysis.OntologyTags {
		if i >= maxOntologyTags {
			break
		}
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return content, tags
}
