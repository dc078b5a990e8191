package reembed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/arsipa/arsipa/ai"
	"github.com/arsipa/arsipa/ai/mock"
	"github.com/arsipa/arsipa/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchProcessor_RewritesVectors(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	docs := []*core.Document{
		storedDocument(t, repo, "first", core.StatusAccepted),
		storedDocument(t, repo, "second", core.StatusAccepted),
	}

	// UpdateDocument bumps Revision on the committed pointer, so capture
	// the pre-run revisions up front.
	before := make(map[core.ID]uint64, len(docs))
	for _, doc := range docs {
		before[doc.Id] = doc.Revision
	}

	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{3, 4} // normalized to [0.6, 0.8]
		}
		return vectors, nil
	}

	bp := NewBatchProcessor(repo, embedder, 3, time.Millisecond)
	require.NoError(t, bp.Process(ctx, docs))

	for _, doc := range docs {
		stored, err := repo.GetDocument(ctx, doc.Id)
		require.NoError(t, err)
		assert.InDelta(t, 0.6, float64(stored.Vector[0]), 1e-6)
		assert.InDelta(t, 0.8, float64(stored.Vector[1]), 1e-6)
		assert.Greater(t, stored.Revision, before[doc.Id])
	}
}

func TestBatchProcessor_EmbedsDocumentText(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	doc := storedDocument(t, repo, "embedding input", core.StatusAccepted)

	var gotTexts []string
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		gotTexts = texts
		return [][]float32{{1, 0}}, nil
	}

	bp := NewBatchProcessor(repo, embedder, 1, time.Millisecond)
	require.NoError(t, bp.Process(ctx, []*core.Document{doc}))
	require.Len(t, gotTexts, 1)
	assert.Equal(t, doc.EmbeddingText(), gotTexts[0])
}

func TestBatchProcessor_RetriesProviderFailures(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	doc := storedDocument(t, repo, "flaky provider", core.StatusAccepted)

	attempts := 0
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		attempts++
		if attempts < 3 {
			return nil, fmt.Errorf("%w: timeout", ai.ErrProvider)
		}
		return [][]float32{{1, 0}}, nil
	}

	bp := NewBatchProcessor(repo, embedder, 5, time.Millisecond)
	require.NoError(t, bp.Process(ctx, []*core.Document{doc}))
	assert.Equal(t, 3, attempts)
}

func TestBatchProcessor_ExhaustedRetriesFail(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	doc := storedDocument(t, repo, "dead provider", core.StatusAccepted)

	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, fmt.Errorf("%w: unreachable", ai.ErrProvider)
	}

	bp := NewBatchProcessor(repo, embedder, 2, time.Millisecond)
	err := bp.Process(ctx, []*core.Document{doc})
	assert.ErrorIs(t, err, ai.ErrProvider)

	// Vector untouched on failure
	stored, err := repo.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, doc.Vector, stored.Vector)
}

func TestBatchProcessor_CountMismatch(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	doc := storedDocument(t, repo, "short response", core.StatusAccepted)

	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{}, nil
	}

	bp := NewBatchProcessor(repo, embedder, 1, time.Millisecond)
	err := bp.Process(ctx, []*core.Document{doc})
	assert.ErrorIs(t, err, ErrEmbeddingCountMismatch)
}

func TestBatchProcessor_RevisionConflictRetried(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	doc := storedDocument(t, repo, "contended", core.StatusAccepted)

	// Simulate a concurrent edit: bump the stored revision behind the
	// processor's back by updating through a fresh read.
	fresh, err := repo.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	fresh.Abstract = "edited concurrently"
	_, err = repo.UpdateDocument(ctx, fresh)
	require.NoError(t, err)

	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 0}}, nil
	}

	// doc still carries the stale revision; Process must re-read and win.
	bp := NewBatchProcessor(repo, embedder, 1, time.Millisecond)
	require.NoError(t, bp.Process(ctx, []*core.Document{doc}))

	stored, err := repo.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, "edited concurrently", stored.Abstract, "concurrent edit survives")
	assert.Equal(t, []float32{1, 0}, stored.Vector)
}

func TestBatchProcessor_SkipsDocumentThatLeftAccepted(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	doc := storedDocument(t, repo, "withdrawn", core.StatusAccepted)
	originalVector := doc.Vector

	// Reject it behind the processor's back.
	fresh, err := repo.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	fresh.Status = core.StatusRejected
	fresh.RejectionReason = "withdrawn"
	_, err = repo.UpdateDocument(ctx, fresh)
	require.NoError(t, err)

	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{9, 9}}, nil
	}

	bp := NewBatchProcessor(repo, embedder, 1, time.Millisecond)
	require.NoError(t, bp.Process(ctx, []*core.Document{doc}))

	stored, err := repo.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusRejected, stored.Status)
	assert.Equal(t, originalVector, stored.Vector, "non-accepted document keeps its vector")
}

func TestBatchProcessor_EmptyBatch(t *testing.T) {
	repo := setupRepository(t)

	embedder := mock.NewEmbedder()
	bp := NewBatchProcessor(repo, embedder, 1, time.Millisecond)
	require.NoError(t, bp.Process(context.Background(), nil))
	assert.Equal(t, 0, embedder.CallCount())
}
