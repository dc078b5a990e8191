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


// Package ai provides the abstraction for the external embedding provider.
//
// The core domain and services depend on the Embedder interface rather than
// on a concrete client, so the provider can be swapped and tests can run
// without an external service.
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: deterministic test double
//
// Public constructors (openai.NewEmbedder) return the ai.Embedder interface
// to enforce abstraction. Test constructors (mock.NewEmbedder) return the
// concrete type so tests can inject behavior and assert call counts.
//
// Every provider-side failure wraps ErrProvider; callers classify errors
// with errors.Is and abort the triggering operation without partial writes
// or partial results.
package ai
