// Package reembed regenerates the embeddings of every stored article.
//
// It exists for embedding model changes: articles embedded by different
// models have incomparable vectors, and clustering refuses to run on a
// mixed corpus. Running a reembed brings the whole corpus onto the
// current model. Supports batching, progress reporting, and retries
// with exponential backoff.
package reembed
