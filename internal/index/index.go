// Package index implements a flat, exact squared-Euclidean vector index
// with parallel chunk metadata and dual-file persistence.
package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"contractrag/internal/domain"
)

// Index maps chunks to embedding vectors and answers nearest-neighbor
// queries. Vectors and metadata stay in the same order at the same
// length; the index is rebuilt wholesale, never updated incrementally.
// Search runs under a read lock, Build/Save/Load under the write lock,
// so a rebuild never races a concurrent query.
type Index struct {
	embedder domain.Embedder

	mu       sync.RWMutex
	dim      int
	vectors  [][]float32
	metadata []domain.Chunk
	built    bool
}

// Hit is one nearest-neighbor result: the squared Euclidean distance to
// the query and the matched chunk with its position in the metadata list.
type Hit struct {
	Distance float64
	Ordinal  int
	Chunk    domain.Chunk
}

// New creates an empty index that embeds with the given model.
func New(embedder domain.Embedder) *Index {
	return &Index{embedder: embedder}
}

// Build embeds every chunk in order and replaces the current index and
// metadata. On any failure the previous contents remain untouched.
func (x *Index) Build(chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("%w: no chunks to index", domain.ErrNoDocuments)
	}
	vectors := make([][]float32, len(chunks))
	dim := 0
	for i, chunk := range chunks {
		vec, err := x.embedder.Embed(chunk.Text)
		if err != nil {
			return fmt.Errorf("%w: embedding chunk %d: %v", domain.ErrModel, chunk.ChunkID, err)
		}
		if dim == 0 {
			dim = len(vec)
		}
		if len(vec) == 0 || len(vec) != dim {
			return fmt.Errorf("%w: embedding dimension changed from %d to %d at chunk %d",
				domain.ErrModel, dim, len(vec), chunk.ChunkID)
		}
		vectors[i] = vec
	}
	metadata := append([]domain.Chunk(nil), chunks...)

	x.mu.Lock()
	defer x.mu.Unlock()
	x.dim = dim
	x.vectors = vectors
	x.metadata = metadata
	x.built = true
	return nil
}

// Search embeds the query text with the index's model and returns the k
// nearest chunks by squared Euclidean distance, ascending.
func (x *Index) Search(queryText string, k int) ([]Hit, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if !x.built {
		return nil, fmt.Errorf("%w: call Build or Load first", domain.ErrNotBuilt)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: top k must be positive, got %d", domain.ErrInvalidConfig, k)
	}
	query, err := x.embedder.Embed(queryText)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", domain.ErrModel, err)
	}
	if len(query) != x.dim {
		return nil, fmt.Errorf("%w: query dimension %d != index dimension %d",
			domain.ErrModel, len(query), x.dim)
	}

	hits := make([]Hit, len(x.vectors))
	for i, vec := range x.vectors {
		hits[i] = Hit{Distance: squaredL2(query, vec), Ordinal: i, Chunk: x.metadata[i]}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Ordinal < hits[j].Ordinal
	})
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Save serializes the vectors and the parallel metadata to the two
// persisted locations, creating parent directories as needed. Each file
// is written to a temp file and renamed, so readers never observe a
// torn file; the metadata file is written first.
func (x *Index) Save(indexPath, metadataPath string) error {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if !x.built {
		return fmt.Errorf("%w: nothing to save", domain.ErrNotBuilt)
	}
	for _, p := range []string{metadataPath, indexPath} {
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("%w: creating %s: %v", domain.ErrPersistence, dir, err)
			}
		}
	}
	meta, err := json.Marshal(x.metadata)
	if err != nil {
		return fmt.Errorf("%w: encoding metadata: %v", domain.ErrPersistence, err)
	}
	if err := writeFileAtomic(metadataPath, meta); err != nil {
		return fmt.Errorf("%w: writing %s: %v", domain.ErrPersistence, metadataPath, err)
	}
	if err := writeFileAtomic(indexPath, encodeVectors(x.dim, x.vectors)); err != nil {
		return fmt.Errorf("%w: writing %s: %v", domain.ErrPersistence, indexPath, err)
	}
	return nil
}

// Load replaces the in-memory index and metadata from the two persisted
// files. Either file missing, either file corrupt, or a length mismatch
// between the two is a persistence error and leaves the index unchanged.
func (x *Index) Load(indexPath, metadataPath string) error {
	indexData, err := os.ReadFile(indexPath)
	if err != nil {
		return fmt.Errorf("%w: index file %s: %v", domain.ErrPersistence, indexPath, err)
	}
	metaData, err := os.ReadFile(metadataPath)
	if err != nil {
		return fmt.Errorf("%w: metadata file %s: %v", domain.ErrPersistence, metadataPath, err)
	}
	dim, vectors, err := decodeVectors(indexData)
	if err != nil {
		return fmt.Errorf("%w: decoding %s: %v", domain.ErrPersistence, indexPath, err)
	}
	var metadata []domain.Chunk
	if err := json.Unmarshal(metaData, &metadata); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", domain.ErrPersistence, metadataPath, err)
	}
	if len(vectors) != len(metadata) {
		return fmt.Errorf("%w: index holds %d vectors but metadata holds %d chunks",
			domain.ErrPersistence, len(vectors), len(metadata))
	}
	if len(vectors) == 0 {
		return fmt.Errorf("%w: persisted index is empty", domain.ErrPersistence)
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.dim = dim
	x.vectors = vectors
	x.metadata = metadata
	x.built = true
	return nil
}

// Len returns the number of indexed chunks.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.metadata)
}

// Dimension returns the vector dimension of the current index, 0 when
// nothing was built or loaded yet.
func (x *Index) Dimension() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.dim
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
