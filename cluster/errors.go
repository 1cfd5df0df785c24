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


package cluster

import "fmt"

// MixedDimensionsError is returned when the unclustered set holds
// embeddings of different lengths, usually after an embedding model
// change. Clustering such a set would compare incomparable vectors, so
// the cycle refuses to run until the articles are re-embedded.
type MixedDimensionsError struct {
	Dimensions []int
}

func (e *MixedDimensionsError) Error() string {
	return fmt.Sprintf("mixed embedding dimensions %v; re-embed the corpus before clustering", e.Dimensions)
}
