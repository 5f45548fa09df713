// Package service wires the contract question-answering pipeline:
// loader -> chunker -> index on the build path, retriever -> synthesizer
// on the query path.
package service

import (
	"fmt"
	"sync"

	"contractrag/internal/answer"
	"contractrag/internal/chunker"
	"contractrag/internal/config"
	"contractrag/internal/domain"
	"contractrag/internal/index"
	"contractrag/internal/loader"
	"contractrag/internal/retriever"
)

// Service is the orchestrator. A fresh instance is uninitialized;
// a successful BuildKnowledgeBase or LoadKnowledgeBase makes it ready,
// and only then may questions be answered. There is no transition back.
type Service struct {
	cfg       *config.AppConfig
	chunker   *chunker.WindowChunker
	index     *index.Index
	retriever *retriever.Retriever
	synth     *answer.Synthesizer

	mu    sync.Mutex
	ready bool
}

// New assembles a service from the configuration and the two model
// collaborators.
func New(cfg *config.AppConfig, embedder domain.Embedder, qa domain.QAModel) (*Service, error) {
	ch, err := chunker.New(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	idx := index.New(embedder)
	return &Service{
		cfg:       cfg,
		chunker:   ch,
		index:     idx,
		retriever: retriever.New(idx),
		synth:     answer.NewSynthesizer(qa),
	}, nil
}

// BuildKnowledgeBase loads every .txt file under dataPath, chunks the
// documents, rebuilds the index and persists it to the configured
// paths. Failure at any step propagates and leaves prior state intact.
func (s *Service) BuildKnowledgeBase(dataPath string) error {
	documents, err := loader.Load(dataPath)
	if err != nil {
		return err
	}
	chunks := s.chunker.Chunk(documents)
	if len(chunks) == 0 {
		return fmt.Errorf("%w: documents in %s contain no text", domain.ErrNoDocuments, dataPath)
	}
	if err := s.index.Build(chunks); err != nil {
		return err
	}
	if err := s.index.Save(s.cfg.Storage.IndexPath, s.cfg.Storage.MetadataPath); err != nil {
		return err
	}
	s.setReady()
	return nil
}

// LoadKnowledgeBase restores a previously persisted knowledge base from
// the configured paths.
func (s *Service) LoadKnowledgeBase() error {
	if err := s.index.Load(s.cfg.Storage.IndexPath, s.cfg.Storage.MetadataPath); err != nil {
		return err
	}
	s.setReady()
	return nil
}

// AnswerQuestion retrieves context for the question and synthesizes an
// answer. topK <= 0 uses the configured default. The question itself is
// not validated here; front-ends enforce their own input limits.
func (s *Service) AnswerQuestion(question string, topK int) (domain.AnswerResult, error) {
	if !s.Ready() {
		return domain.AnswerResult{}, fmt.Errorf("%w: build or load a knowledge base first", domain.ErrNotBuilt)
	}
	if topK <= 0 {
		topK = s.cfg.Retrieval.TopK
	}
	results, err := s.retriever.Retrieve(question, topK, s.cfg.Retrieval.SimilarityThreshold)
	if err != nil {
		return domain.AnswerResult{}, err
	}
	return s.synth.Synthesize(question, results)
}

// Ready reports whether a knowledge base was built or loaded.
func (s *Service) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// ChunkCount returns the number of chunks in the current index.
func (s *Service) ChunkCount() int { return s.index.Len() }

// ListDocuments returns the .txt filenames in the configured data path.
func (s *Service) ListDocuments() ([]string, error) {
	return loader.ListFiles(s.cfg.DataPath)
}

// DataPath returns the configured document directory.
func (s *Service) DataPath() string { return s.cfg.DataPath }

func (s *Service) setReady() {
	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()
}
