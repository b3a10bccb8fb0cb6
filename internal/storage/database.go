package storage

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// dsnParams makes every transaction take the write lock on BEGIN so the
// lookup -> insert sequence of one ingestion is serialised against others.
const dsnParams = "_foreign_keys=on&_txlock=immediate&_busy_timeout=5000"

// New opens the SQLite catalog at the given path.
// Foreign keys are enabled on every pooled connection through the DSN.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func dsn(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + dsnParams
	}
	return "file:" + path + "?" + dsnParams
}

// Migrate creates the catalog tables. It is idempotent.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS document (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name VARCHAR(256) NOT NULL UNIQUE,
			hash VARCHAR(64) NOT NULL UNIQUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS chunk (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chunk_count INTEGER NOT NULL,
			document_id INTEGER NOT NULL,
			FOREIGN KEY (document_id) REFERENCES document(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chunk_document_id ON chunk(document_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
