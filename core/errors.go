// Copyright 2026 Newsweave Authors
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
	// ErrInvalidArticle indicates an Article failed validation.
	ErrInvalidArticle = errors.New("invalid article")

	// ErrInvalidSummary indicates a Summary failed validation.
	ErrInvalidSummary = errors.New("invalid summary")

	// ErrEmptyURL indicates the URL field is empty.
	ErrEmptyURL = errors.New("url cannot be empty")

	// ErrEmptySource indicates the Source field is empty.
	ErrEmptySource = errors.New("source cannot be empty")

	// ErrEmptyHeadline indicates the Headline field is empty.
	ErrEmptyHeadline = errors.New("headline cannot be empty")

	// ErrEmptySummaryText indicates the summary text is empty.
	ErrEmptySummaryText = errors.New("summary text cannot be empty")

	// ErrClusterIDSet indicates an attempt to overwrite an assigned cluster.
	ErrClusterIDSet = errors.New("cluster id already set")
)
