package reembed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/arsipa/arsipa/core"
	"github.com/arsipa/arsipa/storage"
	"github.com/arsipa/arsipa/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepository(t *testing.T) storage.DocumentRepository {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func storedDocument(t *testing.T, repo storage.DocumentRepository, title string, status core.Status) *core.Document {
	t.Helper()

	doc := &core.Document{
		Kind:      "thesis",
		Title:     title,
		Author:    "Author",
		StudentID: "1217050001",
		Program:   "Informatics",
		Year:      2025,
		Abstract:  "Abstract of " + title,
		Status:    status,
	}
	if status == core.StatusAccepted {
		doc.Vector = []float32{1, 0}
	}

	added, err := repo.AddDocuments(context.Background(), doc)
	require.NoError(t, err)
	return added[0]
}

func TestDocumentIterator_VisitsOnlyAccepted(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	storedDocument(t, repo, "accepted one", core.StatusAccepted)
	storedDocument(t, repo, "accepted two", core.StatusAccepted)
	storedDocument(t, repo, "pending", core.StatusPending)

	rejected := storedDocument(t, repo, "rejected", core.StatusRejected)
	rejected.RejectionReason = "incomplete"

	it := NewDocumentIterator(repo, 10)

	count, err := it.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var visited []string
	err = it.ForEach(ctx, func(batch []*core.Document) error {
		for _, doc := range batch {
			visited = append(visited, doc.Title)
		}
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"accepted one", "accepted two"}, visited)
}

func TestDocumentIterator_BatchesRespectSize(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		storedDocument(t, repo, fmt.Sprintf("doc %d", i), core.StatusAccepted)
	}

	it := NewDocumentIterator(repo, 3)

	var sizes []int
	err := it.ForEach(ctx, func(batch []*core.Document) error {
		sizes = append(sizes, len(batch))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3, 1}, sizes)
}

func TestDocumentIterator_StopsOnError(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		storedDocument(t, repo, fmt.Sprintf("doc %d", i), core.StatusAccepted)
	}

	wantErr := errors.New("batch failed")
	it := NewDocumentIterator(repo, 2)

	batches := 0
	err := it.ForEach(ctx, func(batch []*core.Document) error {
		batches++
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, batches)
}

func TestDocumentIterator_EmptyRepository(t *testing.T) {
	repo := setupRepository(t)

	it := NewDocumentIterator(repo, 10)
	called := false
	err := it.ForEach(context.Background(), func(batch []*core.Document) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestDocumentIterator_ContextCancelled(t *testing.T) {
	repo := setupRepository(t)

	storedDocument(t, repo, "doc", core.StatusAccepted)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	it := NewDocumentIterator(repo, 10)
	err := it.ForEach(ctx, func(batch []*core.Document) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDocumentIterator_DefaultBatchSize(t *testing.T) {
	repo := setupRepository(t)
	it := NewDocumentIterator(repo, 0)
	assert.Equal(t, DefaultBatchSize, it.batchSize)
}
