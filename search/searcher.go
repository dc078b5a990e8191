package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/arsipa/arsipa/ai"
	"github.com/arsipa/arsipa/core"
	"github.com/arsipa/arsipa/storage"
)

const defaultEmbedTimeout = 30 * time.Second

// Searcher turns a free-text query into ranked documents.
type Searcher struct {
	repository   storage.DocumentRepository
	embedder     ai.Embedder
	embedTimeout time.Duration
	logger       *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithEmbedTimeout bounds the provider call for the query embedding.
// Default is 30 seconds; zero or negative restores the default.
func WithEmbedTimeout(timeout time.Duration) Option {
	return func(s *Searcher) error {
		if timeout <= 0 {
			timeout = defaultEmbedTimeout
		}
		s.embedTimeout = timeout
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(repository storage.DocumentRepository, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		repository:   repository,
		embedder:     embedder,
		embedTimeout: defaultEmbedTimeout,
		logger:       slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search returns documents ranked by similarity to the query.
// A blank query returns an empty result list without calling the provider.
func (s *Searcher) Search(ctx context.Context, query string) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, nil)
}

// SearchWithMonitor searches with monitoring.
// The monitor receives callbacks at each stage of the search process.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, monitor SearchMonitor) ([]*core.SearchResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	query = strings.TrimSpace(query)
	if query == "" {
		results := []*core.SearchResult{}
		monitor.Finish(results)
		return results, nil
	}

	// 1. Embed the query
	embedCtx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()

	embedding, err := s.embedder.EmbedText(embedCtx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	monitor.AfterQueryEmbedding(embedding)

	// 2. Fetch the candidate set: accepted documents with an embedding.
	// A fresh full scan on every call; concurrent searches never interfere.
	candidates, err := s.repository.SearchCandidates(ctx)
	if err != nil {
		s.logger.Error("error fetching search candidates", "err", err)
		return nil, err
	}
	monitor.AfterCandidateFetch(candidates)

	// 3. Score, filter, order
	results := Rank(embedding, candidates)
	monitor.Finish(results)

	return results, nil
}
