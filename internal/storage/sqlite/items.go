// ABOUTME: Content item persistence operations for SQLite
// ABOUTME: Implements item CRUD, publication counting and seen-source tracking
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pressroom/dedup/internal/models"
)

// ItemStore handles content item persistence
type ItemStore struct {
	db *DB
}

// NewItemStore creates a new ItemStore
func NewItemStore(db *DB) *ItemStore {
	return &ItemStore{db: db}
}

// Create inserts a content item and fills in its assigned ID.
// A zero CreatedAt is replaced with the current time.
func (s *ItemStore) Create(item *models.ContentItem) error {
	if !item.Domain.Valid() {
		return fmt.Errorf("invalid domain: %q", item.Domain)
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	result, err := s.db.Exec(`
		INSERT INTO content_items (domain, title, excerpt, body, source_url, publication_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, string(item.Domain), item.Title, item.Excerpt, item.Body, item.SourceURL,
		item.PublicationCount, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting content item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading inserted id: %w", err)
	}
	item.ID = id

	return nil
}

// Get retrieves a content item by ID and domain. Returns nil when absent.
func (s *ItemStore) Get(id int64, domain models.Domain) (*models.ContentItem, error) {
	var item models.ContentItem
	var domainStr string

	err := s.db.QueryRow(`
		SELECT id, domain, title, excerpt, body, source_url, publication_count, created_at
		FROM content_items
		WHERE id = ? AND domain = ?
	`, id, string(domain)).Scan(&item.ID, &domainStr, &item.Title, &item.Excerpt,
		&item.Body, &item.SourceURL, &item.PublicationCount, &item.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	item.Domain = models.Domain(domainStr)
	return &item, nil
}

// IncrementPublicationCount bumps the republish counter on a matched item
func (s *ItemStore) IncrementPublicationCount(id int64, domain models.Domain) error {
	result, err := s.db.Exec(`
		UPDATE content_items
		SET publication_count = publication_count + 1
		WHERE id = ? AND domain = ?
	`, id, string(domain))
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("no %s item with id %d", domain, id)
	}
	return nil
}

// Count returns the number of content items in a domain
func (s *ItemStore) Count(domain models.Domain) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM content_items WHERE domain = ?
	`, string(domain)).Scan(&count)
	return count, err
}

// MissingEmbeddings lists items in a domain that have no stored embedding,
// oldest first, for maintenance re-encoding.
func (s *ItemStore) MissingEmbeddings(domain models.Domain) ([]models.ContentItem, error) {
	rows, err := s.db.Query(`
		SELECT i.id, i.domain, i.title, i.excerpt, i.body, i.source_url, i.publication_count, i.created_at
		FROM content_items i
		LEFT JOIN embeddings e ON e.item_id = i.id AND e.domain = i.domain
		WHERE i.domain = ? AND e.item_id IS NULL
		ORDER BY i.id ASC
	`, string(domain))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []models.ContentItem
	for rows.Next() {
		var item models.ContentItem
		var domainStr string
		if err := rows.Scan(&item.ID, &domainStr, &item.Title, &item.Excerpt,
			&item.Body, &item.SourceURL, &item.PublicationCount, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.Domain = models.Domain(domainStr)
		items = append(items, item)
	}

	return items, rows.Err()
}

// MarkSourceSeen records a source URL as handled for a domain. Idempotent.
func (s *ItemStore) MarkSourceSeen(domain models.Domain, url string) error {
	_, err := s.db.Exec(`
		INSERT INTO seen_sources (domain, url) VALUES (?, ?)
		ON CONFLICT(domain, url) DO NOTHING
	`, string(domain), url)
	return err
}

// SourceSeen reports whether a source URL was already handled for a domain
func (s *ItemStore) SourceSeen(domain models.Domain, url string) (bool, error) {
	var one int
	err := s.db.QueryRow(`
		SELECT 1 FROM seen_sources WHERE domain = ? AND url = ?
	`, string(domain), url).Scan(&one)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
