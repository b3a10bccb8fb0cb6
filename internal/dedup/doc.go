// Package dedup decides whether a split document should reach the embedding
// stage. It fingerprints the raw document, classifies the fingerprint and chunk
// count against the catalog, and for updated documents reconciles the vector
// store so only chunks with new text are re-embedded.
package dedup
