package dedup

// SourceDocument is a single document before splitting.
type SourceDocument struct {
	Source  string // Logical name, e.g. file path or URL
	Content string // Full raw text
}

// Chunk is one slice of a split document.
type Chunk struct {
	Source string
	Text   string
	Index  int
}

// Fingerprint identifies one version of a document for catalog lookups.
type Fingerprint struct {
	Name string
	Hash string // SHA256 hex of the raw content
}
