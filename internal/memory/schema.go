package memory

import "database/sql"

// Schema is the complete memory graph schema. Every statement uses
// IF NOT EXISTS so it is safe to apply on each connect.
//
// The memory_fts virtual table indexes content, summary, path, and the
// node's concatenated tags. Triggers on memory_nodes and memory_tags keep it
// synchronized; there is no separate reindex step.
const Schema = `
-- Named namespaces partitioning the graph
CREATE TABLE IF NOT EXISTS domains (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    created_at  INTEGER NOT NULL,
    last_access INTEGER NOT NULL
);

-- Singleton session row recording the active domain
CREATE TABLE IF NOT EXISTS persistence (
    id          INTEGER PRIMARY KEY CHECK (id = 1),
    domain_id   TEXT NOT NULL REFERENCES domains(id),
    last_access INTEGER NOT NULL
);

-- Stored units of content (documents, pages, sections)
CREATE TABLE IF NOT EXISTS memory_nodes (
    id              TEXT PRIMARY KEY,
    domain_id       TEXT NOT NULL REFERENCES domains(id),
    content         TEXT NOT NULL,
    path            TEXT NOT NULL DEFAULT '',
    metadata_json   TEXT NOT NULL DEFAULT '{}',
    content_summary TEXT,
    summary_at      INTEGER,
    created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_memory_nodes_domain ON memory_nodes(domain_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_memory_nodes_path ON memory_nodes(path);

-- Tags, composite key makes duplicate tagging a no-op
CREATE TABLE IF NOT EXISTS memory_tags (
    node_id TEXT NOT NULL REFERENCES memory_nodes(id) ON DELETE CASCADE,
    tag     TEXT NOT NULL,
    PRIMARY KEY (node_id, tag)
);
CREATE INDEX IF NOT EXISTS idx_memory_tags_tag ON memory_tags(tag);

-- Typed weighted edges; the deterministic id gives upsert semantics
CREATE TABLE IF NOT EXISTS memory_edges (
    id         TEXT PRIMARY KEY,
    source_id  TEXT NOT NULL REFERENCES memory_nodes(id) ON DELETE CASCADE,
    target_id  TEXT NOT NULL REFERENCES memory_nodes(id) ON DELETE CASCADE,
    edge_type  TEXT NOT NULL,
    strength   REAL NOT NULL CHECK (strength >= 0.0 AND strength <= 1.0),
    domain_id  TEXT NOT NULL REFERENCES domains(id),
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_memory_edges_source ON memory_edges(source_id);
CREATE INDEX IF NOT EXISTS idx_memory_edges_target ON memory_edges(target_id);

-- Cross-domain pointers
CREATE TABLE IF NOT EXISTS domain_refs (
    node_id        TEXT NOT NULL REFERENCES memory_nodes(id) ON DELETE CASCADE,
    domain_id      TEXT NOT NULL,
    target_domain  TEXT NOT NULL,
    target_node_id TEXT NOT NULL,
    description    TEXT NOT NULL DEFAULT '',
    bidirectional  INTEGER NOT NULL DEFAULT 0,
    created_at     INTEGER NOT NULL,
    PRIMARY KEY (node_id, target_domain, target_node_id)
);

-- Full-text index over content, summary, path, and concatenated tags
CREATE VIRTUAL TABLE IF NOT EXISTS memory_fts USING fts5(
    content, summary, path, tags,
    tokenize='porter unicode61'
);

-- Node triggers
CREATE TRIGGER IF NOT EXISTS memory_nodes_ai AFTER INSERT ON memory_nodes BEGIN
    INSERT INTO memory_fts(rowid, content, summary, path, tags)
    VALUES (new.rowid, new.content, COALESCE(new.content_summary, ''), new.path, '');
END;
CREATE TRIGGER IF NOT EXISTS memory_nodes_ad AFTER DELETE ON memory_nodes BEGIN
    DELETE FROM memory_fts WHERE rowid = old.rowid;
END;
CREATE TRIGGER IF NOT EXISTS memory_nodes_au AFTER UPDATE ON memory_nodes BEGIN
    DELETE FROM memory_fts WHERE rowid = old.rowid;
    INSERT INTO memory_fts(rowid, content, summary, path, tags)
    VALUES (new.rowid, new.content, COALESCE(new.content_summary, ''), new.path,
        (SELECT COALESCE(group_concat(tag, ' '), '') FROM memory_tags WHERE node_id = new.id));
END;

-- Tag triggers rebuild the owning node's index row
CREATE TRIGGER IF NOT EXISTS memory_tags_ai AFTER INSERT ON memory_tags BEGIN
    DELETE FROM memory_fts WHERE rowid = (SELECT rowid FROM memory_nodes WHERE id = new.node_id);
    INSERT INTO memory_fts(rowid, content, summary, path, tags)
    SELECT rowid, content, COALESCE(content_summary, ''), path,
        (SELECT COALESCE(group_concat(tag, ' '), '') FROM memory_tags WHERE node_id = new.node_id)
    FROM memory_nodes WHERE id = new.node_id;
END;
CREATE TRIGGER IF NOT EXISTS memory_tags_ad AFTER DELETE ON memory_tags BEGIN
    DELETE FROM memory_fts WHERE rowid = (SELECT rowid FROM memory_nodes WHERE id = old.node_id);
    INSERT INTO memory_fts(rowid, content, summary, path, tags)
    SELECT rowid, content, COALESCE(content_summary, ''), path,
        (SELECT COALESCE(group_concat(tag, ' '), '') FROM memory_tags WHERE node_id = old.node_id)
    FROM memory_nodes WHERE id = old.node_id;
END;
`

// ApplySchema creates all tables, indexes, and triggers on the database.
func ApplySchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
