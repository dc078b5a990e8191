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


// Package search provides semantic retrieval over accepted documents.
//
// The Searcher embeds the query text, fetches the candidate set (accepted
// documents carrying an embedding) and delegates scoring to the ranker:
// cosine similarity over the common vector prefix, a strict relevance
// threshold, stable descending ordering and a fixed result cap.
package search
