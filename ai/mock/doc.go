// Package mock provides deterministic test doubles for the ai interfaces.
//
// The mock embedder derives a stable pseudo-random vector from each input
// text, so tests can rely on identical text producing identical embeddings.
// Behavior can be overridden per test via function fields.
package mock
