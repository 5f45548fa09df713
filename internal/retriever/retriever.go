package retriever

import (
	"contractrag/internal/domain"
	"contractrag/internal/index"
)

// Retriever turns nearest-neighbor hits into similarity-scored search
// results and applies the relevance threshold.
type Retriever struct {
	index *index.Index
}

// New creates a retriever over the given index.
func New(idx *index.Index) *Retriever {
	return &Retriever{index: idx}
}

// Retrieve returns the topK nearest chunks for the query whose
// similarity clears the threshold, nearest first. An empty result is a
// normal outcome, not an error.
func (r *Retriever) Retrieve(query string, topK int, threshold float64) ([]domain.SearchResult, error) {
	hits, err := r.index.Search(query, topK)
	if err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		similarity := Similarity(hit.Distance)
		if similarity < threshold {
			continue
		}
		results = append(results, domain.SearchResult{Chunk: hit.Chunk, Similarity: similarity})
	}
	return results, nil
}

// Similarity maps a squared Euclidean distance to a score in (0,1]:
// distance 0 gives 1 and the score decays toward 0 as distance grows.
// It is not a probability.
func Similarity(distance float64) float64 {
	return 1 / (1 + distance)
}
