package lifecycle

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/arsipa/arsipa/ai"
	"github.com/arsipa/arsipa/core"
	"github.com/arsipa/arsipa/notify"
	"github.com/arsipa/arsipa/storage"
)

const defaultEmbedTimeout = 30 * time.Second

// Manager drives the review lifecycle of documents: intake, accept/reject
// decisions and metadata edits, keeping the stored embedding consistent
// with the document text along the way.
type Manager struct {
	repository   storage.DocumentRepository
	embedder     ai.Embedder
	notifier     notify.Notifier
	embedTimeout time.Duration
	logger       *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// WithNotifier sets the outbound notification hook fired after review
// decisions. Default is a no-op notifier.
func WithNotifier(notifier notify.Notifier) Option {
	return func(m *Manager) error {
		if notifier == nil {
			notifier = &notify.Noop{}
		}
		m.notifier = notifier
		return nil
	}
}

// WithEmbedTimeout bounds provider calls made during accept and edit.
// Default is 30 seconds; zero or negative restores the default.
func WithEmbedTimeout(timeout time.Duration) Option {
	return func(m *Manager) error {
		if timeout <= 0 {
			timeout = defaultEmbedTimeout
		}
		m.embedTimeout = timeout
		return nil
	}
}

// NewManager creates a lifecycle manager.
func NewManager(repository storage.DocumentRepository, embedder ai.Embedder, opts ...Option) (*Manager, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	m := &Manager{
		repository:   repository,
		embedder:     embedder,
		notifier:     &notify.Noop{},
		embedTimeout: defaultEmbedTimeout,
		logger:       slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// AddDocument validates doc and stores it as a PENDING submission.
// No embedding is computed at intake; that happens on acceptance.
func (m *Manager) AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error) {
	doc.Status = core.StatusPending
	doc.RejectionReason = ""
	doc.Vector = nil
	if strings.TrimSpace(doc.Faculty) == "" {
		doc.Faculty = core.DefaultFaculty
	}

	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	added, err := m.repository.AddDocuments(ctx, doc)
	if err != nil {
		return nil, err
	}

	m.logger.Info("document submitted", "id", added[0].Id, "title", added[0].Title)
	return added[0], nil
}

// ApplyStatusTransition records a review decision for the document.
//
// Accepting a document without an embedding computes one synchronously
// before the write; a provider failure fails the whole call with nothing
// persisted. Accepting clears any previous rejection reason. Rejecting
// requires a non-empty reason and leaves an existing embedding in place:
// rejected documents never surface in search, so the stale vector is
// harmless and saves a provider round trip if the document is re-accepted.
//
// Exactly one repository write happens per successful call, guarded by the
// document's revision; a concurrent writer surfaces as
// storage.ErrRevisionMismatch.
func (m *Manager) ApplyStatusTransition(ctx context.Context, id core.ID, target core.Status, rejectionReason string) (*core.Document, error) {
	doc, err := m.repository.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := ValidateTransition(doc.Status, target); err != nil {
		return nil, err
	}

	switch target {
	case core.StatusAccepted:
		doc.RejectionReason = ""
		if !doc.HasVector() {
			vector, err := m.embed(ctx, doc.EmbeddingText())
			if err != nil {
				return nil, err
			}
			doc.Vector = vector
		}

	case core.StatusRejected:
		rejectionReason = strings.TrimSpace(rejectionReason)
		if rejectionReason == "" {
			return nil, ErrReasonRequired
		}
		doc.RejectionReason = rejectionReason
	}

	doc.Status = target

	updated, err := m.repository.UpdateDocument(ctx, doc)
	if err != nil {
		return nil, err
	}

	m.logger.Info("status transition applied",
		"id", updated.Id, "status", updated.Status, "revision", updated.Revision)

	m.dispatchNotification(ctx, updated)
	return updated, nil
}

// MetadataEdit carries the reviewer-editable fields of a document. All
// fields are overwritten; callers populate the struct from the current
// document and change what they need.
type MetadataEdit struct {
	Kind      string
	Title     string
	Author    string
	StudentID string
	Program   string
	Faculty   string
	Year      int
	Advisors  []string
	Keywords  []string
	Abstract  string
}

// ApplyMetadataEdit overwrites the document's editable fields.
//
// When the document is ACCEPTED the embedding is recomputed
// unconditionally, even if the embedding input text did not change: the
// provider model may have been swapped since the last computation, and
// re-embedding on edit is the only path that picks that up without a full
// re-embed run. Embed failure fails the call with nothing persisted.
func (m *Manager) ApplyMetadataEdit(ctx context.Context, id core.ID, edit MetadataEdit) (*core.Document, error) {
	doc, err := m.repository.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	doc.Kind = edit.Kind
	doc.Title = edit.Title
	doc.Author = edit.Author
	doc.StudentID = edit.StudentID
	doc.Program = edit.Program
	doc.Faculty = edit.Faculty
	doc.Year = edit.Year
	doc.Advisors = edit.Advisors
	doc.Keywords = edit.Keywords
	doc.Abstract = edit.Abstract

	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	if doc.Status == core.StatusAccepted {
		vector, err := m.embed(ctx, doc.EmbeddingText())
		if err != nil {
			return nil, err
		}
		doc.Vector = vector
	}

	updated, err := m.repository.UpdateDocument(ctx, doc)
	if err != nil {
		return nil, err
	}

	m.logger.Info("metadata edit applied",
		"id", updated.Id, "revision", updated.Revision, "reembedded", updated.Status == core.StatusAccepted)
	return updated, nil
}

func (m *Manager) embed(ctx context.Context, text string) ([]float32, error) {
	embedCtx, cancel := context.WithTimeout(ctx, m.embedTimeout)
	defer cancel()

	vector, err := m.embedder.EmbedText(embedCtx, text)
	if err != nil {
		m.logger.Error("error generating embedding", "err", err)
		return nil, err
	}
	return vector, nil
}

// dispatchNotification fires the post-commit hook for a review decision.
// Delivery failures are logged and never fail the mutation.
func (m *Manager) dispatchNotification(ctx context.Context, doc *core.Document) {
	var err error
	switch doc.Status {
	case core.StatusAccepted:
		err = m.notifier.DocumentAccepted(ctx, doc)
	case core.StatusRejected:
		err = m.notifier.DocumentRejected(ctx, doc)
	}
	if err != nil {
		m.logger.Warn("notification delivery failed", "id", doc.Id, "err", err)
	}
}
