package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_catalog.go -package=mocks chunkgate/internal/storage CatalogStore,CatalogTx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("record conflicts with an existing one")
)

// CatalogStore defines the catalog of ingested documents and their observed shapes.
type CatalogStore interface {
	// Begin starts a transaction. Every read and write of one ingestion
	// decision must go through the same CatalogTx.
	Begin(ctx context.Context) (CatalogTx, error)
	// GetByName gets a document by name outside of any transaction.
	// Returns nil and ErrNotFound if not found.
	GetByName(ctx context.Context, name string) (*DocumentRecord, error)
	// ChunkCounts returns the distinct chunk counts recorded for a document, ascending.
	ChunkCounts(ctx context.Context, documentID int64) ([]int, error)
}

// CatalogTx is a single catalog transaction.
type CatalogTx interface {
	// DocumentByName returns ErrNotFound if no document has this name.
	DocumentByName(ctx context.Context, name string) (*DocumentRecord, error)
	// DocumentByHash returns ErrNotFound if no document has this content hash.
	DocumentByHash(ctx context.Context, hash string) (*DocumentRecord, error)
	// ChunkCounts returns the distinct chunk counts recorded for a document, ascending.
	ChunkCounts(ctx context.Context, documentID int64) ([]int, error)
	// CreateDocument inserts a document together with its first chunk count.
	CreateDocument(ctx context.Context, name, hash string, chunkCount int) (*DocumentRecord, error)
	// AddChunkCount records a chunk count for a document.
	// Callers check membership first; the table has no uniqueness constraint on it.
	AddChunkCount(ctx context.Context, documentID int64, chunkCount int) error
	// UpdateHash overwrites the stored content hash of a document.
	UpdateHash(ctx context.Context, documentID int64, hash string) error
	// RemoveChunkCount forgets a chunk count recorded for a document.
	RemoveChunkCount(ctx context.Context, documentID int64, chunkCount int) error
	// DeleteDocument removes a document and, by cascade, its chunk counts.
	DeleteDocument(ctx context.Context, documentID int64) error
	Commit() error
	Rollback() error
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Catalog provides the SQLite-backed catalog.
// It implements the CatalogStore interface.
type Catalog struct {
	db *sql.DB
}

// NewCatalog creates a new Catalog.
func NewCatalog(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

// Begin starts a catalog transaction.
func (c *Catalog) Begin(ctx context.Context) (CatalogTx, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin catalog transaction: %w", mapError(err))
	}
	return &catalogTx{tx: tx}, nil
}

// GetByName gets a document by name.
func (c *Catalog) GetByName(ctx context.Context, name string) (*DocumentRecord, error) {
	return documentBy(ctx, c.db, "name", name)
}

// ChunkCounts returns the distinct chunk counts recorded for a document.
func (c *Catalog) ChunkCounts(ctx context.Context, documentID int64) ([]int, error) {
	return chunkCounts(ctx, c.db, documentID)
}

type catalogTx struct {
	tx *sql.Tx
}

func (t *catalogTx) DocumentByName(ctx context.Context, name string) (*DocumentRecord, error) {
	return documentBy(ctx, t.tx, "name", name)
}

func (t *catalogTx) DocumentByHash(ctx context.Context, hash string) (*DocumentRecord, error) {
	return documentBy(ctx, t.tx, "hash", hash)
}

func (t *catalogTx) ChunkCounts(ctx context.Context, documentID int64) ([]int, error) {
	return chunkCounts(ctx, t.tx, documentID)
}

func (t *catalogTx) CreateDocument(ctx context.Context, name, hash string, chunkCount int) (*DocumentRecord, error) {
	result, err := t.tx.ExecContext(ctx,
		"INSERT INTO document (name, hash) VALUES (?, ?)",
		name, hash,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert document: %w", mapError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get document id: %w", err)
	}

	if err := t.AddChunkCount(ctx, id, chunkCount); err != nil {
		return nil, err
	}

	return documentBy(ctx, t.tx, "id", id)
}

func (t *catalogTx) AddChunkCount(ctx context.Context, documentID int64, chunkCount int) error {
	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO chunk (chunk_count, document_id) VALUES (?, ?)",
		chunkCount, documentID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chunk count: %w", mapError(err))
	}
	return nil
}

func (t *catalogTx) UpdateHash(ctx context.Context, documentID int64, hash string) error {
	result, err := t.tx.ExecContext(ctx,
		"UPDATE document SET hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		hash, documentID,
	)
	if err != nil {
		return fmt.Errorf("failed to update document hash: %w", mapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *catalogTx) RemoveChunkCount(ctx context.Context, documentID int64, chunkCount int) error {
	_, err := t.tx.ExecContext(ctx,
		"DELETE FROM chunk WHERE document_id = ? AND chunk_count = ?",
		documentID, chunkCount,
	)
	if err != nil {
		return fmt.Errorf("failed to delete chunk count: %w", err)
	}
	return nil
}

func (t *catalogTx) DeleteDocument(ctx context.Context, documentID int64) error {
	result, err := t.tx.ExecContext(ctx, "DELETE FROM document WHERE id = ?", documentID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *catalogTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog transaction: %w", mapError(err))
	}
	return nil
}

func (t *catalogTx) Rollback() error {
	return t.tx.Rollback()
}

// documentBy looks up a single document by one of its unique columns.
// column is never user input.
func documentBy(ctx context.Context, q queryer, column string, value any) (*DocumentRecord, error) {
	var doc DocumentRecord
	err := q.QueryRowContext(ctx,
		"SELECT id, name, hash, created_at, updated_at FROM document WHERE "+column+" = ?",
		value,
	).Scan(&doc.ID, &doc.Name, &doc.Hash, &doc.CreatedAt, &doc.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	return &doc, nil
}

func chunkCounts(ctx context.Context, q queryer, documentID int64) ([]int, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT DISTINCT chunk_count FROM chunk WHERE document_id = ? ORDER BY chunk_count",
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk counts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var counts []int
	for rows.Next() {
		var count int
		if err := rows.Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to scan chunk count: %w", err)
		}
		counts = append(counts, count)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return counts, nil
}

// mapError translates SQLite uniqueness violations into ErrConflict.
func mapError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
