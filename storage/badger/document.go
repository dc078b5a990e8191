package badger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/arsipa/arsipa/core"
	"github.com/arsipa/arsipa/storage"
	"github.com/dgraph-io/badger/v4"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	idSeq, err := backend.GetSequence(documentIDSeq)
	if err != nil {
		return nil, err
	}

	return &DocumentRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *DocumentRepository) Close() error {
	return r.idSeq.Release()
}

// AddDocuments adds one or more documents to storage.
func (r *DocumentRepository) AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			// Generate ID from sequence unless the caller supplied a
			// content-based one.
			if doc.Id == 0 {
				nextID, err := r.idSeq.Next()
				if err != nil {
					return err
				}
				// BadgerDB sequences can return 0 on first call, so we skip it
				if nextID == 0 {
					nextID, err = r.idSeq.Next()
					if err != nil {
						return err
					}
				}
				doc.Id = core.ID(nextID)
			}

			key := makeDocumentKey(doc.Id)
			if _, err := tx.Get(key); err == nil {
				return storage.ErrDuplicateKey
			} else if err != badger.ErrKeyNotFound {
				return err
			}

			doc.InsertedAt = time.Now().UTC()
			doc.UpdatedAt = doc.InsertedAt
			doc.Revision = 1

			// Store primary record
			value := storage.MarshalDocument(doc)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update status index
			statusKey := makeDocumentStatusKey(doc.Status, doc.Id)
			if err := tx.Set(statusKey, storage.MarshalID(doc.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return docs, err
}

// UpdateDocument updates an existing document with a revision check.
// The stored revision must match doc.Revision; on success the revision is
// bumped so a concurrent writer holding the old document fails with
// ErrRevisionMismatch.
func (r *DocumentRepository) UpdateDocument(ctx context.Context, doc *core.Document) (*core.Document, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(doc.Id)

		old, err := r.readDocument(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		if old.Revision != doc.Revision {
			return storage.ErrRevisionMismatch
		}

		doc.Revision++
		doc.UpdatedAt = time.Now().UTC()
		doc.InsertedAt = old.InsertedAt

		value := storage.MarshalDocument(doc)
		if err := tx.Set(key, value); err != nil {
			return err
		}

		// Update status index if the status changed
		if old.Status != doc.Status {
			oldStatusKey := makeDocumentStatusKey(old.Status, old.Id)
			if err := tx.Delete(oldStatusKey); err != nil {
				return err
			}
			newStatusKey := makeDocumentStatusKey(doc.Status, doc.Id)
			if err := tx.Set(newStatusKey, storage.MarshalID(doc.Id)); err != nil {
				return err
			}
		}

		return tx.Commit()
	}, true)

	return doc, err
}

// DeleteDocuments removes documents by their IDs.
func (r *DocumentRepository) DeleteDocuments(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeDocumentKey(id)

			doc, err := r.readDocument(tx, key)
			if err != nil {
				return err
			}
			if doc == nil {
				return storage.ErrNotFound
			}

			statusKey := makeDocumentStatusKey(doc.Status, doc.Id)
			if err := tx.Delete(statusKey); err != nil {
				return err
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(id)
		var err error
		result, err = r.readDocument(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetDocuments retrieves multiple documents by their IDs.
func (r *DocumentRepository) GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error) {
	var result []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeDocumentKey(id)
			doc, err := r.readDocument(tx, key)
			if err != nil {
				return err
			}
			if doc != nil {
				result = append(result, doc)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetDocumentsByStatus retrieves all documents with the given status using
// the status index, ordered by ID ascending.
func (r *DocumentRepository) GetDocumentsByStatus(ctx context.Context, status core.Status) ([]*core.Document, error) {
	var result []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialDocumentStatusKey(status)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var id core.ID
			err := item.Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			doc, err := r.readDocument(tx, makeDocumentKey(id))
			if err != nil {
				return err
			}
			if doc != nil {
				result = append(result, doc)
			}
		}
		return nil
	}, false)
	return result, err
}

// SearchCandidates retrieves accepted documents carrying a non-empty
// embedding vector.
func (r *DocumentRepository) SearchCandidates(ctx context.Context) ([]*core.Document, error) {
	accepted, err := r.GetDocumentsByStatus(ctx, core.StatusAccepted)
	if err != nil {
		return nil, err
	}

	candidates := make([]*core.Document, 0, len(accepted))
	for _, doc := range accepted {
		if doc.HasVector() {
			candidates = append(candidates, doc)
		}
	}
	return candidates, nil
}

// ListDocuments returns a page of documents matching the filter, newest
// first, plus the total match count. This is a full scan; the corpus is
// assumed small.
func (r *DocumentRepository) ListDocuments(ctx context.Context, filter storage.ListFilter) ([]*core.Document, int, error) {
	if filter.Status != 0 {
		if err := core.ValidateStatus(filter.Status); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", storage.ErrInvalidQuery, err)
		}
	}

	var matches []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var doc *core.Document
			err := item.Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			if doc == nil {
				continue
			}

			if filter.Status != 0 && doc.Status != filter.Status {
				continue
			}
			if filter.Program != "" && doc.Program != filter.Program {
				continue
			}
			if filter.Kind != "" && doc.Kind != filter.Kind {
				continue
			}
			if filter.Year != 0 && doc.Year != filter.Year {
				continue
			}

			matches = append(matches, doc)
		}
		return nil
	}, false)
	if err != nil {
		return nil, 0, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].InsertedAt.After(matches[j].InsertedAt)
	})

	total := len(matches)
	page, limit := clampPage(filter.Page, filter.Limit)

	start := (page - 1) * limit
	if start >= total {
		return []*core.Document{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matches[start:end], total, nil
}

const (
	defaultPageLimit = 12
	maxPageLimit     = 50
)

// clampPage normalizes pagination inputs to sane bounds.
func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// readDocument reads and decodes a document at key.
// Returns (nil, nil) when the key does not exist.
func (r *DocumentRepository) readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalDocument(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}
