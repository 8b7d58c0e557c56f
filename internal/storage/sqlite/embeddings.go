// ABOUTME: Embedding storage operations for SQLite
// ABOUTME: Stores vectors as little-endian float64 BLOBs, one per content item
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/pressroom/dedup/internal/models"
)

// EmbeddingStore handles embedding persistence
type EmbeddingStore struct {
	db *DB
}

// NewEmbeddingStore creates a new EmbeddingStore
func NewEmbeddingStore(db *DB) *EmbeddingStore {
	return &EmbeddingStore{db: db}
}

// StoredVector is one (item id, vector) pair as loaded for index building
type StoredVector struct {
	ItemID int64
	Vector []float64
}

// Upsert inserts or replaces the single embedding owned by an item. Idempotent.
func (s *EmbeddingStore) Upsert(itemID int64, domain models.Domain, vector []float64) error {
	if len(vector) == 0 {
		return fmt.Errorf("cannot store empty vector for item %d", itemID)
	}

	blob := vectorToBlob(vector)

	_, err := s.db.Exec(`
		INSERT INTO embeddings (item_id, domain, vector, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(item_id, domain) DO UPDATE SET
			vector = excluded.vector,
			created_at = excluded.created_at
	`, itemID, string(domain), blob, time.Now().UTC())

	return err
}

// Get retrieves the embedding for an item. Returns nil when absent.
func (s *EmbeddingStore) Get(itemID int64, domain models.Domain) (*models.Embedding, error) {
	var (
		emb       models.Embedding
		domainStr string
		blob      []byte
	)

	err := s.db.QueryRow(`
		SELECT item_id, domain, vector, created_at
		FROM embeddings
		WHERE item_id = ? AND domain = ?
	`, itemID, string(domain)).Scan(&emb.ItemID, &domainStr, &blob, &emb.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	emb.Domain = models.Domain(domainStr)
	emb.Vector = blobToVector(blob)
	return &emb, nil
}

// GetAll loads every (item id, vector) pair for a domain in ascending item id
// order. A non-zero since filters on the content item's creation time, not
// the embedding's, which is what the lookback window means.
func (s *EmbeddingStore) GetAll(domain models.Domain, since time.Time) ([]StoredVector, error) {
	query := `
		SELECT e.item_id, e.vector
		FROM embeddings e
		JOIN content_items i ON i.id = e.item_id AND i.domain = e.domain
		WHERE e.domain = ?`
	args := []interface{}{string(domain)}

	if !since.IsZero() {
		// Creation times are stored in UTC; normalize the cutoff so the
		// string comparison is zone-independent
		query += ` AND i.created_at >= ?`
		args = append(args, since.UTC())
	}
	query += ` ORDER BY e.item_id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var vectors []StoredVector
	for rows.Next() {
		var sv StoredVector
		var blob []byte
		if err := rows.Scan(&sv.ItemID, &blob); err != nil {
			return nil, err
		}
		sv.Vector = blobToVector(blob)
		vectors = append(vectors, sv)
	}

	return vectors, rows.Err()
}

// Delete removes the embedding for an item. Callers must rebuild or
// invalidate any index built over it.
func (s *EmbeddingStore) Delete(itemID int64, domain models.Domain) error {
	_, err := s.db.Exec(`
		DELETE FROM embeddings WHERE item_id = ? AND domain = ?
	`, itemID, string(domain))
	return err
}

// Count returns the number of stored embeddings in a domain
func (s *EmbeddingStore) Count(domain models.Domain) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM embeddings WHERE domain = ?
	`, string(domain)).Scan(&count)
	return count, err
}

// CountMissing returns the number of content items without an embedding
func (s *EmbeddingStore) CountMissing(domain models.Domain) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*)
		FROM content_items i
		LEFT JOIN embeddings e ON e.item_id = i.id AND e.domain = i.domain
		WHERE i.domain = ? AND e.item_id IS NULL
	`, string(domain)).Scan(&count)
	return count, err
}

// vectorToBlob converts a float64 slice to binary blob
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector converts a binary blob to float64 slice
func blobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}
