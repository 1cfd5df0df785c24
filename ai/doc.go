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


// Package ai defines the interfaces and configuration for the external AI
// services the pipeline consumes: a text embedding service and a
// summarization oracle.
//
// Both services are treated as black boxes. The embedding service maps text
// to a fixed-dimension numeric vector; the oracle maps a prompt to response
// text that is expected to parse into a structured event summary.
//
// Concrete implementations live in subpackages:
//   - openai: OpenAI-compatible APIs via langchaingo
//   - mock: deterministic test doubles
package ai
