package domain

// Document is a raw contract file loaded from the data directory.
// Documents exist only during a knowledge base build; after chunking
// they are discarded.
type Document struct {
	Filename string
	Content  string
}

// Chunk is a bounded span of cleaned document text with source
// attribution, the atomic unit of retrieval. ChunkID is a dense 0-based
// sequence assigned across all documents of one build pass.
type Chunk struct {
	Text    string `json:"text"`
	Source  string `json:"source"`
	ChunkID int    `json:"chunk_id"`
}

// SearchResult is a retrieved chunk annotated with a similarity score
// in (0,1], higher meaning more relevant.
type SearchResult struct {
	Chunk
	Similarity float64 `json:"similarity"`
}

// Snippet is a truncated context excerpt attached to an answer.
type Snippet struct {
	Text       string  `json:"text"`
	Source     string  `json:"source"`
	Similarity float64 `json:"similarity"`
}

// AnswerResult is the outcome of one question, produced per call and
// never persisted.
type AnswerResult struct {
	Answer     string    `json:"answer"`
	Confidence float64   `json:"confidence"`
	Sources    []string  `json:"sources"`
	Context    []Snippet `json:"context"`
}

// Embedder converts free text into a fixed-dimension numeric vector.
// The dimension is a property of the model and fixed for the lifetime
// of one index; remote implementations may only know it after the
// first call.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(text string) ([]float32, error)
}

// QAModel extracts an answer span and a confidence score in [0,1] from
// a question and a concatenated context string.
type QAModel interface {
	Name() string
	Answer(question, context string) (answer string, confidence float64, err error)
}
