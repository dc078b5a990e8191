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

// Package lifecycle implements the review workflow for submitted
// documents: intake, accept/reject decisions and metadata edits.
//
// The manager keeps the stored embedding consistent with the document
// text. Acceptance computes an embedding when none exists; edits to an
// accepted document always recompute it. Every mutation is a single
// revision-checked write, so embed failures leave nothing behind and
// concurrent reviewers cannot silently overwrite each other.
package lifecycle
