package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// NewFingerprint computes the fingerprint of a pre-split document.
func NewFingerprint(doc SourceDocument) (Fingerprint, error) {
	if doc.Source == "" {
		return Fingerprint{}, &ValidationError{Field: "source", Message: "cannot be empty"}
	}

	sum := sha256.Sum256([]byte(doc.Content))
	return Fingerprint{
		Name: doc.Source,
		Hash: hex.EncodeToString(sum[:]),
	}, nil
}

// FingerprintBatch fingerprints the document list handed over by the loader,
// which must hold exactly one document.
func FingerprintBatch(docs []SourceDocument) (Fingerprint, error) {
	if len(docs) != 1 {
		return Fingerprint{}, &ValidationError{
			Field:   "documents",
			Message: fmt.Sprintf("expected exactly one document, got %d", len(docs)),
		}
	}
	return NewFingerprint(docs[0])
}

// validate checks a fingerprint and its chunk batch before touching the catalog.
func validate(fp Fingerprint, chunks []Chunk) error {
	if fp.Name == "" {
		return &ValidationError{Field: "name", Message: "cannot be empty"}
	}
	if len(fp.Hash) != sha256.Size*2 {
		return &ValidationError{Field: "hash", Message: "must be a hex encoded SHA256 digest"}
	}
	if _, err := hex.DecodeString(fp.Hash); err != nil {
		return &ValidationError{Field: "hash", Message: "must be a hex encoded SHA256 digest"}
	}
	for i, chunk := range chunks {
		if chunk.Source != "" && chunk.Source != fp.Name {
			return &ValidationError{
				Field:   "chunks",
				Message: fmt.Sprintf("chunk %d belongs to %q, not %q", i, chunk.Source, fp.Name),
			}
		}
	}
	return nil
}
