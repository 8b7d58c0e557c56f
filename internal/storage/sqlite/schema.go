// ABOUTME: SQLite database schema for the dedup engine
// ABOUTME: Creates content item, seen source and embedding tables
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Content items (the dedup-relevant slice of articles and jobs)
CREATE TABLE IF NOT EXISTS content_items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    domain TEXT NOT NULL,
    title TEXT NOT NULL,
    excerpt TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL DEFAULT '',
    source_url TEXT NOT NULL DEFAULT '',
    publication_count INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Source URLs already handled, kept to avoid re-ingesting duplicates
CREATE TABLE IF NOT EXISTS seen_sources (
    domain TEXT NOT NULL,
    url TEXT NOT NULL,
    first_seen DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (domain, url)
);

-- Embeddings (exactly one per content item)
CREATE TABLE IF NOT EXISTS embeddings (
    item_id INTEGER NOT NULL,
    domain TEXT NOT NULL,
    vector BLOB NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (item_id, domain),
    FOREIGN KEY (item_id) REFERENCES content_items(id) ON DELETE CASCADE
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_items_domain ON content_items(domain);
CREATE INDEX IF NOT EXISTS idx_items_created ON content_items(created_at);
CREATE INDEX IF NOT EXISTS idx_embeddings_domain ON embeddings(domain);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
