// Package memory owns the durable knowledge-graph store: domains, nodes,
// tags, typed weighted edges, cross-domain refs, and the FTS5 index that
// makes the graph searchable.
package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotConnected is returned by any store operation invoked before Connect.
var ErrNotConnected = errors.New("memory store not connected")

// Config controls store behavior.
type Config struct {
	// Path is the SQLite database path. Use a file path, not ":memory:";
	// database/sql pooling gives each connection its own in-memory DB.
	Path string
	// Domain is the namespace name looked up or created on connect.
	Domain string
	// DomainDescription is used only when the domain is first created.
	DomainDescription string
	// MinContentLength is the store-skip threshold: shorter content is
	// silently not stored.
	MinContentLength int
	// TagPrefix is prepended to tags that don't already carry it.
	TagPrefix string
	// CreateRelationships enables edge creation from StoreMemory requests.
	CreateRelationships bool
}

// Domain is a named namespace partitioning the memory graph.
type Domain struct {
	ID          string
	Name        string
	Description string
	Created     time.Time
	LastAccess  time.Time
}

// Node is a stored unit of content in the graph.
type Node struct {
	ID        string
	DomainID  string
	Content   string
	Path      string
	Summary   string
	Metadata  map[string]any
	Timestamp time.Time
}

// SearchResult pairs a node with its full-text relevance rank. Lower rank
// sorts more relevant, matching SQLite's bm25 ordering.
type SearchResult struct {
	Node Node
	Rank float64
}

// StoreRequest describes one memory to store.
type StoreRequest struct {
	Content string
	Path    string
	Tags    []string
	Summary string
	// Relationships maps edge type to target node IDs. Only applied when
	// the store was configured with CreateRelationships.
	Relationships map[string][]string
	// Metadata is serialized into a structured preamble on the content and
	// also persisted to the metadata_json column.
	Metadata map[string]any
}

// Store is the single owner of the database connection and schema. It is not
// safe for concurrent use from multiple goroutines; callers serialize access.
type Store struct {
	cfg    Config
	db     *sql.DB
	domain *Domain
}

// NewStore creates an unconnected store.
func NewStore(cfg Config) *Store {
	if cfg.MinContentLength <= 0 {
		cfg.MinContentLength = 10
	}
	if cfg.Domain == "" {
		cfg.Domain = "default"
	}
	return &Store{cfg: cfg}
}

// Connect opens the database, enforces foreign keys, applies the idempotent
// schema, and resolves the configured domain: found domains get a lastAccess
// bump, missing ones are created with a fresh UUID. Either way the domain is
// recorded as active in the persistence singleton.
func (s *Store) Connect(ctx context.Context) error {
	db, err := sql.Open("sqlite", s.cfg.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := ApplySchema(db); err != nil {
		db.Close()
		return fmt.Errorf("apply schema: %w", err)
	}
	s.db = db

	domain, err := s.ensureDomain(ctx)
	if err != nil {
		db.Close()
		s.db = nil
		return err
	}
	s.domain = domain
	return nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.domain = nil
	return err
}

// Domain returns the active domain, or nil before Connect.
func (s *Store) Domain() *Domain {
	return s.domain
}

func (s *Store) ensureDomain(ctx context.Context) (*Domain, error) {
	now := time.Now()

	var d Domain
	var created, access int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, last_access FROM domains WHERE name = ?`,
		s.cfg.Domain,
	).Scan(&d.ID, &d.Name, &d.Description, &created, &access)

	switch {
	case err == nil:
		d.Created = time.UnixMilli(created)
		d.LastAccess = now
		if _, err := s.db.ExecContext(ctx,
			`UPDATE domains SET last_access = ? WHERE id = ?`, now.UnixMilli(), d.ID); err != nil {
			return nil, fmt.Errorf("touch domain: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		d = Domain{
			ID:          uuid.New().String(),
			Name:        s.cfg.Domain,
			Description: s.cfg.DomainDescription,
			Created:     now,
			LastAccess:  now,
		}
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO domains (id, name, description, created_at, last_access) VALUES (?, ?, ?, ?, ?)`,
			d.ID, d.Name, d.Description, now.UnixMilli(), now.UnixMilli()); err != nil {
			return nil, fmt.Errorf("create domain: %w", err)
		}
	default:
		return nil, fmt.Errorf("look up domain: %w", err)
	}

	// Pin the singleton row: its primary key is constant, so this never
	// produces a second row.
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO persistence (id, domain_id, last_access) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET domain_id = excluded.domain_id, last_access = excluded.last_access`,
		d.ID, now.UnixMilli()); err != nil {
		return nil, fmt.Errorf("record active domain: %w", err)
	}

	return &d, nil
}

// StoreMemory persists one node plus its tags and optional relationships.
// Content shorter than the configured minimum is a silent skip: the returned
// ID is empty and no rows are written. Callers treat that as "memory not
// created", not as failure.
func (s *Store) StoreMemory(ctx context.Context, req StoreRequest) (string, error) {
	if s.db == nil {
		return "", ErrNotConnected
	}
	if len(strings.TrimSpace(req.Content)) < s.cfg.MinContentLength {
		return "", nil
	}

	content := req.Content
	metadataJSON := "{}"
	if len(req.Metadata) > 0 {
		encoded, err := json.Marshal(req.Metadata)
		if err != nil {
			return "", fmt.Errorf("encode metadata: %w", err)
		}
		metadataJSON = string(encoded)
		content = metadataPreamble(req.Metadata) + content
	}

	nodeID := uuid.New().String()
	now := time.Now().UnixMilli()

	var summary any
	var summaryAt any
	if req.Summary != "" {
		summary = req.Summary
		summaryAt = now
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO memory_nodes (id, domain_id, content, path, metadata_json, content_summary, summary_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		nodeID, s.domain.ID, content, req.Path, metadataJSON, summary, summaryAt, now); err != nil {
		return "", fmt.Errorf("insert node: %w", err)
	}

	for _, tag := range req.Tags {
		tag = s.prefixTag(tag)
		if tag == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO memory_tags (node_id, tag) VALUES (?, ?) ON CONFLICT(node_id, tag) DO NOTHING`,
			nodeID, tag); err != nil {
			return "", fmt.Errorf("insert tag %q: %w", tag, err)
		}
	}

	if s.cfg.CreateRelationships {
		for edgeType, targets := range req.Relationships {
			for _, target := range targets {
				if err := s.CreateRelationship(ctx, nodeID, target, edgeType, 1.0); err != nil {
					return "", err
				}
			}
		}
	}

	return nodeID, nil
}

// UpdateSummary sets or replaces a node's content summary.
func (s *Store) UpdateSummary(ctx context.Context, nodeID, summary string) error {
	if s.db == nil {
		return ErrNotConnected
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE memory_nodes SET content_summary = ?, summary_at = ? WHERE id = ?`,
		summary, time.Now().UnixMilli(), nodeID)
	if err != nil {
		return fmt.Errorf("update summary: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("node %s not found", nodeID)
	}
	return nil
}

// CreateRelationship upserts a typed weighted edge. The edge ID is
// deterministic over (source, target, type), so re-creating the same triple
// overwrites instead of duplicating. Strength outside [0,1] fails the
// store-level check constraint.
func (s *Store) CreateRelationship(ctx context.Context, source, target, edgeType string, strength float64) error {
	if s.db == nil {
		return ErrNotConnected
	}
	edgeID := fmt.Sprintf("%s-%s-%s", source, target, edgeType)
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO memory_edges (id, source_id, target_id, edge_type, strength, domain_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		edgeID, source, target, edgeType, strength, s.domain.ID, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("create relationship %s: %w", edgeID, err)
	}
	return nil
}

// CreateDomainRef records a cross-domain pointer from a node to a node in
// another domain.
func (s *Store) CreateDomainRef(ctx context.Context, nodeID, targetDomain, targetNodeID, description string, bidirectional bool) error {
	if s.db == nil {
		return ErrNotConnected
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO domain_refs (node_id, domain_id, target_domain, target_node_id, description, bidirectional, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nodeID, s.domain.ID, targetDomain, targetNodeID, description, boolToInt(bidirectional), time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("create domain ref: %w", err)
	}
	return nil
}

// SearchMemories runs a full-text query over content, summary, path, and
// tags, scoped to a domain (empty means the connected domain), ordered by
// relevance rank.
func (s *Store) SearchMemories(ctx context.Context, query string, limit int, domain string) ([]SearchResult, error) {
	if s.db == nil {
		return nil, ErrNotConnected
	}
	domainID, err := s.resolveDomainID(ctx, domain)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT n.id, n.domain_id, n.content, n.path, COALESCE(n.content_summary, ''), n.metadata_json, n.created_at, rank
		 FROM memory_fts f
		 JOIN memory_nodes n ON n.rowid = f.rowid
		 WHERE memory_fts MATCH ? AND n.domain_id = ?
		 ORDER BY rank
		 LIMIT ?`, query, domainID, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var metadataJSON string
		var created int64
		if err := rows.Scan(&r.Node.ID, &r.Node.DomainID, &r.Node.Content, &r.Node.Path,
			&r.Node.Summary, &metadataJSON, &created, &r.Rank); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		r.Node.Timestamp = time.UnixMilli(created)
		decodeMetadata(metadataJSON, &r.Node)
		results = append(results, r)
	}
	return results, rows.Err()
}

// RecentMemories returns the most recently created nodes in a domain.
func (s *Store) RecentMemories(ctx context.Context, limit int, domain string) ([]Node, error) {
	if s.db == nil {
		return nil, ErrNotConnected
	}
	domainID, err := s.resolveDomainID(ctx, domain)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, domain_id, content, path, COALESCE(content_summary, ''), metadata_json, created_at
		 FROM memory_nodes
		 WHERE domain_id = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`, domainID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent memories: %w", err)
	}
	defer rows.Close()

	var nodes []Node
	for rows.Next() {
		var n Node
		var metadataJSON string
		var created int64
		if err := rows.Scan(&n.ID, &n.DomainID, &n.Content, &n.Path, &n.Summary, &metadataJSON, &created); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		n.Timestamp = time.UnixMilli(created)
		decodeMetadata(metadataJSON, &n)
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// DeleteMemory removes a node; tags and edges referencing it cascade.
func (s *Store) DeleteMemory(ctx context.Context, nodeID string) error {
	if s.db == nil {
		return ErrNotConnected
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM memory_nodes WHERE id = ?`, nodeID); err != nil {
		return fmt.Errorf("delete node: %w", err)
	}
	return nil
}

// resolveDomainID maps a domain name to its ID, defaulting to the connected
// domain for the empty string.
func (s *Store) resolveDomainID(ctx context.Context, name string) (string, error) {
	if name == "" || name == s.domain.Name {
		return s.domain.ID, nil
	}
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM domains WHERE name = ?`, name).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("domain %q: %w", name, err)
	}
	return id, nil
}

func (s *Store) prefixTag(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" || s.cfg.TagPrefix == "" || strings.HasPrefix(tag, s.cfg.TagPrefix) {
		return tag
	}
	return s.cfg.TagPrefix + tag
}

// metadataPreamble renders metadata as a deterministic text block prepended
// to stored content, preserving the original wire behavior. The same data
// also lands in metadata_json, which is the column new readers should use.
func metadataPreamble(metadata map[string]any) string {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("METADATA:\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %v\n", k, metadata[k])
	}
	b.WriteString("\n")
	return b.String()
}

func decodeMetadata(raw string, n *Node) {
	if raw == "" || raw == "{}" {
		return
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err == nil {
		n.Metadata = m
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
