// ABOUTME: Flat exact inner-product index over L2-normalized vectors
// ABOUTME: Position i in the id list corresponds to vector i, always
package index

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
)

// Snapshot is an immutable-once-searched similarity structure. Vectors are
// stored normalized, so inner product equals cosine similarity. There is no
// deletion; removal means rebuild-and-swap, which is cheap at the corpus
// sizes this engine serves.
type Snapshot struct {
	dim     int
	ids     []int64
	vectors [][]float64
}

// Hit is a single search result
type Hit struct {
	ItemID int64
	Score  float64
}

// NewSnapshot creates an empty snapshot with the given vector dimension.
// A dimension of 0 is the explicit empty-index sentinel: searches return
// nothing and no vectors can be added.
func NewSnapshot(dim int) *Snapshot {
	return &Snapshot{dim: dim}
}

// Add appends one (id, vector) pair, normalizing the vector defensively.
// The id list and vector list move together; they can never diverge.
func (s *Snapshot) Add(id int64, vector []float64) error {
	if s.dim == 0 {
		return fmt.Errorf("cannot add to empty-sentinel snapshot")
	}
	if len(vector) != s.dim {
		return fmt.Errorf("vector dimension %d does not match index dimension %d", len(vector), s.dim)
	}

	normalized := make([]float64, len(vector))
	copy(normalized, vector)
	normalize(normalized)

	s.ids = append(s.ids, id)
	s.vectors = append(s.vectors, normalized)
	return nil
}

// Len returns the number of indexed vectors
func (s *Snapshot) Len() int {
	return len(s.vectors)
}

// Dimension returns the vector dimension (0 for the empty sentinel)
func (s *Snapshot) Dimension() int {
	return s.dim
}

// IDs returns the position-ordered item ids
func (s *Snapshot) IDs() []int64 {
	return s.ids
}

// Validate checks the structural invariant between ids and vectors
func (s *Snapshot) Validate() error {
	if len(s.ids) != len(s.vectors) {
		return fmt.Errorf("index inconsistency: %d ids for %d vectors", len(s.ids), len(s.vectors))
	}
	return nil
}

// Search returns the top k hits by inner product, highest first. The query
// is normalized defensively. Ties break by insertion order so results are
// reproducible. An empty snapshot returns no hits.
func (s *Snapshot) Search(query []float64, k int) []Hit {
	if s.Len() == 0 || k <= 0 {
		return nil
	}

	q := make([]float64, len(query))
	copy(q, query)
	normalize(q)

	type scored struct {
		pos   int
		score float64
	}
	results := make([]scored, len(s.vectors))
	for i, v := range s.vectors {
		results[i] = scored{pos: i, score: dot(v, q)}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].pos < results[j].pos
	})

	if k > len(results) {
		k = len(results)
	}

	hits := make([]Hit, k)
	for i := 0; i < k; i++ {
		hits[i] = Hit{ItemID: s.ids[results[i].pos], Score: results[i].score}
	}
	return hits
}

// Serialize encodes the vectors as dimension, count, then row-major
// little-endian float64 values. The id ordering is cached alongside the
// bytes, not inside them, matching the two-slot cache layout.
func (s *Snapshot) Serialize() []byte {
	buf := make([]byte, 8+len(s.vectors)*s.dim*8)
	binary.LittleEndian.PutUint32(buf[0:], uint32(s.dim))
	binary.LittleEndian.PutUint32(buf[4:], uint32(len(s.vectors)))

	offset := 8
	for _, vector := range s.vectors {
		for _, v := range vector {
			binary.LittleEndian.PutUint64(buf[offset:], math.Float64bits(v))
			offset += 8
		}
	}
	return buf
}

// Deserialize rebuilds a snapshot from serialized vectors and its id list.
// A count/id-list mismatch is the index-inconsistency failure: callers must
// discard the snapshot and rebuild rather than search it.
func Deserialize(data []byte, ids []int64) (*Snapshot, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("serialized index too short: %d bytes", len(data))
	}

	dim := int(binary.LittleEndian.Uint32(data[0:]))
	count := int(binary.LittleEndian.Uint32(data[4:]))

	if len(data) != 8+count*dim*8 {
		return nil, fmt.Errorf("serialized index size mismatch: %d bytes for %d vectors of dimension %d",
			len(data), count, dim)
	}
	if count != len(ids) {
		return nil, fmt.Errorf("index inconsistency: %d ids for %d vectors", len(ids), count)
	}

	s := &Snapshot{dim: dim}
	offset := 8
	for i := 0; i < count; i++ {
		vector := make([]float64, dim)
		for j := 0; j < dim; j++ {
			vector[j] = math.Float64frombits(binary.LittleEndian.Uint64(data[offset:]))
			offset += 8
		}
		s.vectors = append(s.vectors, vector)
	}
	s.ids = append(s.ids, ids...)

	return s, nil
}

func normalize(vector []float64) {
	var sum float64
	for _, v := range vector {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vector {
		vector[i] /= norm
	}
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
