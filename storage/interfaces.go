package storage

import (
	"context"

	"github.com/arsipa/arsipa/core"
)

// ListFilter narrows and pages a document listing.
// Zero values mean "no filter". Page is 1-based; Limit is clamped by the
// implementation to a sane range.
type ListFilter struct {
	Status  core.Status
	Program string
	Kind    string
	Year    int
	Page    int
	Limit   int
}

// DocumentRepository provides operations for managing document records.
// Implementations must be thread-safe and support concurrent access.
type DocumentRepository interface {
	// AddDocuments adds one or more documents to storage.
	// For documents with ID=0, generates new IDs from sequence.
	// Sets InsertedAt/UpdatedAt timestamps and initializes Revision to 1.
	// Returns the documents with generated IDs and timestamps populated.
	// Returns ErrDuplicateKey if a document with the same ID already exists.
	AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// UpdateDocument updates an existing document with an optimistic
	// concurrency check: the write commits only when the stored document's
	// Revision equals the Revision carried by doc, and bumps the Revision.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if the document doesn't exist and
	// ErrRevisionMismatch when a concurrent writer committed first.
	UpdateDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// DeleteDocuments removes documents by their IDs.
	// Also removes associated status index entries.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteDocuments(ctx context.Context, ids ...core.ID) error

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// GetDocuments retrieves multiple documents by their IDs.
	// Returns only the documents that exist (no error for missing documents).
	GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error)

	// GetDocumentsByStatus retrieves all documents with the given status,
	// ordered by ID ascending.
	GetDocumentsByStatus(ctx context.Context, status core.Status) ([]*core.Document, error)

	// SearchCandidates retrieves the documents eligible for similarity
	// ranking: status ACCEPTED with a non-empty embedding vector, ordered
	// by ID ascending. Performs a fresh scan on every call.
	SearchCandidates(ctx context.Context) ([]*core.Document, error)

	// ListDocuments returns a page of documents matching the filter,
	// ordered by insertion time descending, along with the total number
	// of matches before paging.
	// Returns ErrInvalidQuery when the filter carries an unknown status.
	ListDocuments(ctx context.Context, filter ListFilter) ([]*core.Document, int, error)

	// Close closes the repository and releases resources.
	Close() error
}
