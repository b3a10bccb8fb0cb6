package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	return NewCatalog(db)
}

func createDocument(t *testing.T, c *Catalog, name, hash string, chunkCount int) *DocumentRecord {
	t.Helper()
	ctx := context.Background()

	tx, err := c.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	doc, err := tx.CreateDocument(ctx, name, hash, chunkCount)
	if err != nil {
		_ = tx.Rollback()
		t.Fatalf("CreateDocument() error = %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	return doc
}

func TestCatalog_CreateDocument(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	doc := createDocument(t, c, "docs/guide.md", "hash-1", 5)
	if doc.ID == 0 {
		t.Error("CreateDocument() ID should be assigned")
	}
	if doc.Name != "docs/guide.md" || doc.Hash != "hash-1" {
		t.Errorf("CreateDocument() = %+v, want name docs/guide.md hash hash-1", doc)
	}

	got, err := c.GetByName(ctx, "docs/guide.md")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if got.ID != doc.ID {
		t.Errorf("GetByName() ID = %d, want %d", got.ID, doc.ID)
	}

	counts, err := c.ChunkCounts(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ChunkCounts() error = %v", err)
	}
	if !reflect.DeepEqual(counts, []int{5}) {
		t.Errorf("ChunkCounts() = %v, want [5]", counts)
	}
}

func TestCatalog_GetByName_NotFound(t *testing.T) {
	c := newTestCatalog(t)

	doc, err := c.GetByName(context.Background(), "missing.md")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByName() error = %v, want ErrNotFound", err)
	}
	if doc != nil {
		t.Errorf("GetByName() = %+v, want nil", doc)
	}
}

func TestCatalogTx_Lookups(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	created := createDocument(t, c, "a.md", "hash-a", 3)

	tx, err := c.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	tests := []struct {
		name    string
		lookup  func() (*DocumentRecord, error)
		wantID  int64
		wantErr error
	}{
		{
			name:   "by name",
			lookup: func() (*DocumentRecord, error) { return tx.DocumentByName(ctx, "a.md") },
			wantID: created.ID,
		},
		{
			name:   "by hash",
			lookup: func() (*DocumentRecord, error) { return tx.DocumentByHash(ctx, "hash-a") },
			wantID: created.ID,
		},
		{
			name:    "unknown name",
			lookup:  func() (*DocumentRecord, error) { return tx.DocumentByName(ctx, "b.md") },
			wantErr: ErrNotFound,
		},
		{
			name:    "unknown hash",
			lookup:  func() (*DocumentRecord, error) { return tx.DocumentByHash(ctx, "hash-b") },
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := tt.lookup()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("lookup error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("lookup unexpected error: %v", err)
			}
			if doc.ID != tt.wantID {
				t.Errorf("lookup ID = %d, want %d", doc.ID, tt.wantID)
			}
		})
	}
}

func TestCatalogTx_AddChunkCount(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	doc := createDocument(t, c, "a.md", "hash-a", 7)

	tx, err := c.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := tx.AddChunkCount(ctx, doc.ID, 5); err != nil {
		t.Fatalf("AddChunkCount() error = %v", err)
	}

	inTx, err := tx.ChunkCounts(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ChunkCounts() error = %v", err)
	}
	if !reflect.DeepEqual(inTx, []int{5, 7}) {
		t.Errorf("ChunkCounts() inside tx = %v, want [5 7]", inTx)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	counts, err := c.ChunkCounts(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ChunkCounts() error = %v", err)
	}
	if !reflect.DeepEqual(counts, []int{5, 7}) {
		t.Errorf("ChunkCounts() = %v, want [5 7]", counts)
	}
}

func TestCatalogTx_AddChunkCount_UnknownDocument(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	tx, err := c.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	err = tx.AddChunkCount(ctx, 999, 3)
	if err == nil {
		t.Fatal("AddChunkCount() expected foreign key error, got nil")
	}
	if errors.Is(err, ErrConflict) {
		t.Errorf("AddChunkCount() foreign key failure should not be ErrConflict: %v", err)
	}
}

func TestCatalogTx_UpdateHash(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	doc := createDocument(t, c, "a.md", "hash-a", 3)
	createDocument(t, c, "b.md", "hash-b", 3)

	tests := []struct {
		name       string
		documentID int64
		hash       string
		wantErr    error
	}{
		{
			name:       "new hash",
			documentID: doc.ID,
			hash:       "hash-a2",
		},
		{
			name:       "hash owned by another document",
			documentID: doc.ID,
			hash:       "hash-b",
			wantErr:    ErrConflict,
		},
		{
			name:       "unknown document",
			documentID: 999,
			hash:       "hash-z",
			wantErr:    ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := c.Begin(ctx)
			if err != nil {
				t.Fatalf("Begin() error = %v", err)
			}
			defer func() {
				_ = tx.Rollback()
			}()

			err = tx.UpdateHash(ctx, tt.documentID, tt.hash)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("UpdateHash() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateHash() unexpected error: %v", err)
			}

			got, err := tx.DocumentByHash(ctx, tt.hash)
			if err != nil {
				t.Fatalf("DocumentByHash() error = %v", err)
			}
			if got.ID != tt.documentID {
				t.Errorf("DocumentByHash() ID = %d, want %d", got.ID, tt.documentID)
			}
		})
	}
}

func TestCatalogTx_CreateDocument_Conflicts(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	createDocument(t, c, "a.md", "hash-a", 3)

	tests := []struct {
		name    string
		docName string
		hash    string
	}{
		{name: "duplicate name", docName: "a.md", hash: "hash-other"},
		{name: "duplicate hash", docName: "other.md", hash: "hash-a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := c.Begin(ctx)
			if err != nil {
				t.Fatalf("Begin() error = %v", err)
			}
			defer func() {
				_ = tx.Rollback()
			}()

			_, err = tx.CreateDocument(ctx, tt.docName, tt.hash, 3)
			if !errors.Is(err, ErrConflict) {
				t.Errorf("CreateDocument() error = %v, want ErrConflict", err)
			}
		})
	}
}

func TestCatalogTx_Rollback(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	tx, err := c.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if _, err := tx.CreateDocument(ctx, "a.md", "hash-a", 3); err != nil {
		t.Fatalf("CreateDocument() error = %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}

	if _, err := c.GetByName(ctx, "a.md"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByName() after rollback error = %v, want ErrNotFound", err)
	}

	var chunkRows int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM chunk").Scan(&chunkRows); err != nil {
		t.Fatalf("count chunk rows: %v", err)
	}
	if chunkRows != 0 {
		t.Errorf("chunk rows after rollback = %d, want 0", chunkRows)
	}
}

func TestCatalogTx_RemoveChunkCount(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	doc := createDocument(t, c, "a.md", "hash-a", 3)

	tx, err := c.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := tx.AddChunkCount(ctx, doc.ID, 5); err != nil {
		t.Fatalf("AddChunkCount() error = %v", err)
	}
	if err := tx.RemoveChunkCount(ctx, doc.ID, 3); err != nil {
		t.Fatalf("RemoveChunkCount() error = %v", err)
	}
	// Removing a count that was never recorded is a no-op.
	if err := tx.RemoveChunkCount(ctx, doc.ID, 42); err != nil {
		t.Fatalf("RemoveChunkCount() of unknown count error = %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	counts, err := c.ChunkCounts(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ChunkCounts() error = %v", err)
	}
	if !reflect.DeepEqual(counts, []int{5}) {
		t.Errorf("ChunkCounts() = %v, want [5]", counts)
	}
}

func TestCatalogTx_DeleteDocument(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	doc := createDocument(t, c, "a.md", "hash-a", 3)

	tx, err := c.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := tx.DeleteDocument(ctx, doc.ID); err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}
	if err := tx.DeleteDocument(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteDocument() twice error = %v, want ErrNotFound", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if _, err := c.GetByName(ctx, "a.md"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByName() after delete error = %v, want ErrNotFound", err)
	}
	counts, err := c.ChunkCounts(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ChunkCounts() error = %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("ChunkCounts() after delete = %v, want none", counts)
	}

	// The freed name and hash can be cataloged again.
	createDocument(t, c, "a.md", "hash-a", 4)
}
