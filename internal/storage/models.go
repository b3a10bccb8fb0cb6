package storage

import "time"

// DocumentRecord is a known document in the catalog.
type DocumentRecord struct {
	ID        int64
	Name      string // Logical source identifier (file path or URL)
	Hash      string // SHA256 hex string of the latest seen raw content
	CreatedAt time.Time
	UpdatedAt time.Time
}
