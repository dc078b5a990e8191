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


// Package storage provides the storage abstraction layer for arsipa.
//
// This package defines the repository interface that decouples storage
// implementation from business logic, allowing different backends (BadgerDB,
// in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Public constructors return the storage.DocumentRepository interface to
// enforce abstraction and enable alternative backends:
//
//	repo, err := badger.NewDocumentRepository(backend)
//
// # Concurrency
//
// All repository implementations must be thread-safe. Document updates use
// optimistic concurrency: every write checks the document's Revision against
// the stored one and fails with ErrRevisionMismatch when a concurrent writer
// committed first. There are no cross-document transactions.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and
// timeout support.
package storage
