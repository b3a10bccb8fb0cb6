// Package source discovers documents on disk for batch ingestion.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"chunkgate/internal/dedup"
)

// ErrNoRoot is returned when the scanner has no directory configured.
var ErrNoRoot = errors.New("source directory not configured")

// DefaultExtensions are the file types picked up when none are configured.
var DefaultExtensions = []string{".md", ".markdown", ".txt"}

// File is a document found during a scan.
type File struct {
	RelPath string // Relative to the root with forward slashes; used as the document name
	AbsPath string
}

// Scanner walks a directory tree for ingestible files.
type Scanner struct {
	root       string
	extensions []string
}

// NewScanner creates a scanner rooted at root. With no extensions,
// DefaultExtensions are used.
func NewScanner(root string, extensions ...string) *Scanner {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make([]string, len(extensions))
	for i, ext := range extensions {
		exts[i] = strings.ToLower(ext)
	}
	return &Scanner{root: root, extensions: exts}
}

// Root returns the scanned directory.
func (s *Scanner) Root() string {
	return s.root
}

// Scan returns every matching file below the root in lexical order.
// Hidden directories such as .git are skipped.
func (s *Scanner) Scan(ctx context.Context) ([]File, error) {
	if s.root == "" {
		return nil, ErrNoRoot
	}

	var files []File
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if path != s.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !slices.Contains(s.extensions, strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		relPath, err := filepath.Rel(s.root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}

		files = append(files, File{
			RelPath: filepath.ToSlash(relPath),
			AbsPath: path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", s.root, err)
	}

	return files, nil
}

// Read loads a scanned file as a source document named by its relative path.
func Read(f File) (dedup.SourceDocument, error) {
	content, err := os.ReadFile(f.AbsPath)
	if err != nil {
		return dedup.SourceDocument{}, fmt.Errorf("failed to read file %s: %w", f.AbsPath, err)
	}
	return dedup.SourceDocument{
		Source:  f.RelPath,
		Content: string(content),
	}, nil
}
