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


package arsipa

import (
	"io"
	"log/slog"

	"github.com/arsipa/arsipa/ai"
	"github.com/arsipa/arsipa/ai/openai"
	"github.com/arsipa/arsipa/lifecycle"
	"github.com/arsipa/arsipa/notify"
	"github.com/arsipa/arsipa/reembed"
	"github.com/arsipa/arsipa/search"
	"github.com/arsipa/arsipa/storage"
	"github.com/arsipa/arsipa/storage/badger"
)

// Library bundles the document store and embedding provider behind one
// handle and hands out the workflow components built on them.
type Library struct {
	backend  *badger.Backend
	docRepo  storage.DocumentRepository
	embedder ai.Embedder
	notifier notify.Notifier
	logger   *slog.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*libraryOptions)

type libraryOptions struct {
	aiConfig *ai.Config
	embedder ai.Embedder
	notifier notify.Notifier
	inMemory bool
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(config *ai.Config) LibraryOption {
	return func(o *libraryOptions) {
		o.aiConfig = config
	}
}

// WithEmbedder supplies a pre-built embedder instead of constructing one
// from the AI config. Mainly for tests.
func WithEmbedder(embedder ai.Embedder) LibraryOption {
	return func(o *libraryOptions) {
		o.embedder = embedder
	}
}

// WithNotifier sets the outbound notification hook used by the lifecycle
// manager. Default is a no-op notifier.
func WithNotifier(notifier notify.Notifier) LibraryOption {
	return func(o *libraryOptions) {
		o.notifier = notifier
	}
}

// WithInMemoryStorage opens an in-memory store instead of a file-backed
// one. Data does not survive Close.
func WithInMemoryStorage() LibraryOption {
	return func(o *libraryOptions) {
		o.inMemory = true
	}
}

// NewLibrary opens the document store at filePath and wires the embedding
// provider. The returned Library must be closed when done.
func NewLibrary(filePath string, opts ...LibraryOption) (*Library, error) {
	// Apply options
	options := &libraryOptions{
		aiConfig: ai.DefaultConfig(),
		notifier: &notify.Noop{},
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create document repository
	docRepo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create embedder with configured settings unless one was supplied
	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			docRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Library{
		backend:  backend,
		docRepo:  docRepo,
		embedder: embedder,
		notifier: options.notifier,
		logger:   slog.Default(),
	}, nil
}

func (l *Library) Close() error {
	if err := l.docRepo.Close(); err != nil {
		l.logger.Error("error closing document repository", "err", err)
		return err
	}

	if err := l.backend.Close(); err != nil {
		l.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (l *Library) DocumentRepository() storage.DocumentRepository {
	return l.docRepo
}

func (l *Library) Embedder() ai.Embedder {
	return l.embedder
}

func (l *Library) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(l.docRepo, l.embedder, opts...)
}

func (l *Library) NewLifecycleManager(opts ...lifecycle.Option) (*lifecycle.Manager, error) {
	opts = append([]lifecycle.Option{lifecycle.WithNotifier(l.notifier)}, opts...)
	return lifecycle.NewManager(l.docRepo, l.embedder, opts...)
}

func (l *Library) NewReembedder(config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(l.docRepo, l.embedder, config, progress)
}
