// Copyright 2025 Arsipa Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"slices"
	"strings"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Kind must be one of DocumentKinds
//   - Title, Author, StudentID and Program must not be blank
//   - Year must be positive
//   - Status must be a known value
//
// NOT validated (populated by storage and services):
//   - Vector (empty until the document is accepted and embedded)
//   - Revision (managed by the store)
//   - ID (0 is valid, assigned from a sequence on insert)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if !slices.Contains(DocumentKinds, doc.Kind) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidDocument, ErrInvalidKind, doc.Kind)
	}

	if strings.TrimSpace(doc.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyTitle)
	}

	if strings.TrimSpace(doc.Author) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyAuthor)
	}

	if strings.TrimSpace(doc.StudentID) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyStudentID)
	}

	if strings.TrimSpace(doc.Program) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyProgram)
	}

	if doc.Year <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrInvalidYear)
	}

	if err := ValidateStatus(doc.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return nil
}

// ValidateStatus validates that a Status has a known value.
func ValidateStatus(status Status) error {
	if status != StatusPending && status != StatusAccepted && status != StatusRejected {
		return fmt.Errorf("%w: value %d", ErrInvalidStatus, status)
	}
	return nil
}

// ParseStringList splits a comma-separated value into trimmed, non-empty items.
// Used when reading list fields (keywords, advisors) from flat inputs.
func ParseStringList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
