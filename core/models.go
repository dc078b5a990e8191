package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs. Bulk imports use it
// to stay idempotent across runs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Status is the review state of a document.
type Status int

const (
	// StatusPending means the document is awaiting review.
	StatusPending Status = iota + 1
	// StatusAccepted means the document passed review and is searchable.
	StatusAccepted
	// StatusRejected means the document was rejected with a reason.
	StatusRejected
)

var statusNames = map[Status]string{
	StatusPending:  "PENDING",
	StatusAccepted: "ACCEPTED",
	StatusRejected: "REJECTED",
}

// String returns the canonical upper-case name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseStatus converts a status name (case-insensitive) to a Status.
// Returns ErrInvalidStatus for unknown names.
func ParseStatus(name string) (Status, error) {
	for status, statusName := range statusNames {
		if strings.EqualFold(name, statusName) {
			return status, nil
		}
	}
	return 0, ErrInvalidStatus
}

// DocumentKinds defines the valid document kinds accepted by the repository.
var DocumentKinds = []string{
	"thesis",
	"internship-report",
}

// DefaultFaculty is applied to submissions that leave the faculty blank.
const DefaultFaculty = "FTI"

// FileRef carries metadata about the externally stored source file.
// Upload and deletion of the binary itself happen outside this module.
type FileRef struct {
	URL          string
	StorageKey   string
	OriginalName string
	ContentType  string
	Size         int64
}

// Document represents a retrievable unit in the repository.
// The Vector field holds the last embedding computed from the text fields
// at the time embedding was triggered. Its length is provider-defined and
// may differ between documents when the provider version changes.
type Document struct {
	Id              ID
	Kind            string
	Title           string
	Author          string
	StudentID       string
	Program         string
	Faculty         string
	Year            int
	Advisors        []string
	Keywords        []string
	Abstract        string
	Status          Status
	RejectionReason string
	Vector          []float32
	Revision        uint64 // optimistic concurrency counter, bumped by the store on every write
	File            FileRef
	Owner           string // opaque owner reference (email), used by notification glue
	InsertedAt      time.Time
	UpdatedAt       time.Time
}

// EmbeddingText returns the text the embedding is computed from:
// title, abstract and keywords joined as a single block.
func (d *Document) EmbeddingText() string {
	return d.Title + "\n" + d.Abstract + "\n" + strings.Join(d.Keywords, " ")
}

// HasVector reports whether the document carries a computed embedding.
func (d *Document) HasVector() bool {
	return len(d.Vector) > 0
}

// Clone returns a deep copy of the document.
// Mutation paths clone before editing so a failed operation leaves the
// caller's copy untouched.
func (d *Document) Clone() *Document {
	c := *d
	c.Advisors = append([]string(nil), d.Advisors...)
	c.Keywords = append([]string(nil), d.Keywords...)
	c.Vector = append([]float32(nil), d.Vector...)
	return &c
}

// SearchResult represents a search result with the full document and relevance score.
type SearchResult struct {
	Document *Document
	Score    float32
}
