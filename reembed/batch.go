package reembed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arsipa/arsipa/ai"
	"github.com/arsipa/arsipa/core"
	"github.com/arsipa/arsipa/storage"
)

// BatchProcessor rebuilds embeddings for batches of documents.
type BatchProcessor struct {
	repo           storage.DocumentRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.DocumentRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process generates fresh embeddings for a batch of documents and commits
// them. Vectors are normalized so cosine scores stay well-conditioned.
//
// Each document is committed individually through the revision-checked
// update path. When a reviewer edits a document mid-run the stale write is
// retried against the re-read document, so a concurrent edit loses at most
// the old vector, never its metadata.
func (bp *BatchProcessor) Process(ctx context.Context, docs []*core.Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.EmbeddingText()
	}

	// Generate embeddings with retry
	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(docs) {
		return fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCountMismatch, len(docs), len(embeddings))
	}

	for i, doc := range docs {
		if err := bp.commitVector(ctx, doc, NormalizeVector(embeddings[i])); err != nil {
			return fmt.Errorf("failed to update document %d: %w", doc.Id, err)
		}
	}

	return nil
}

// commitVector writes the new vector, re-reading and retrying once per
// revision conflict. A document that left ACCEPTED mid-run is skipped; it
// will be re-embedded if it is accepted again.
func (bp *BatchProcessor) commitVector(ctx context.Context, doc *core.Document, vector []float32) error {
	for {
		doc.Vector = vector

		_, err := bp.repo.UpdateDocument(ctx, doc)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrRevisionMismatch) {
			return err
		}

		doc, err = bp.repo.GetDocument(ctx, doc.Id)
		if err != nil {
			return err
		}
		if doc.Status != core.StatusAccepted {
			return nil
		}
	}
}
