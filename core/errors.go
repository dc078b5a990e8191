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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidStatus indicates an unknown or out-of-range status value.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidKind indicates the document kind is not in the allowed set.
	ErrInvalidKind = errors.New("invalid document kind")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyAuthor indicates the Author field is empty.
	ErrEmptyAuthor = errors.New("author cannot be empty")

	// ErrEmptyStudentID indicates the StudentID field is empty.
	ErrEmptyStudentID = errors.New("student id cannot be empty")

	// ErrEmptyProgram indicates the Program field is empty.
	ErrEmptyProgram = errors.New("program cannot be empty")

	// ErrInvalidYear indicates the Year field is zero or negative.
	ErrInvalidYear = errors.New("year must be positive")
)
