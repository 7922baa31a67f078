// Package storage provides document sources for ingestion: a local folder
// walker and an S3-compatible object store reader.
package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloo-solutions/askdocs/internal/domain"
)

// SupportedExtensions lists the file types accepted for ingestion.
var SupportedExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// SkippedFile records a file that was rejected or could not be read.
type SkippedFile struct {
	Path   string
	Reason string
}

// FolderSource reads documents from a local directory tree. Each supported
// file becomes one document whose source id is its path relative to the root.
type FolderSource struct {
	root string
}

func NewFolderSource(root string) *FolderSource {
	return &FolderSource{root: root}
}

// Load walks the folder and returns all supported documents plus the files
// that were skipped. It fails when the folder does not exist or contains no
// supported files at all.
func (s *FolderSource) Load(ctx context.Context) ([]domain.Document, []SkippedFile, error) {
	stat, err := os.Stat(s.root)
	if err != nil {
		return nil, nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation,
			fmt.Sprintf("folder does not exist: %s", s.root), err)
	}
	if !stat.IsDir() {
		return nil, nil, domain.NewDomainError(domain.ErrCodeValidation,
			fmt.Sprintf("path is not a directory: %s", s.root))
	}

	var docs []domain.Document
	var skipped []SkippedFile

	err = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			rel = path
		}

		if !SupportedExtensions[strings.ToLower(filepath.Ext(path))] {
			skipped = append(skipped, SkippedFile{
				Path:   rel,
				Reason: fmt.Sprintf("unsupported file type %q, only .txt and .md are supported", filepath.Ext(path)),
			})
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			skipped = append(skipped, SkippedFile{Path: rel, Reason: readErr.Error()})
			return nil
		}

		docs = append(docs, domain.Document{
			Source: filepath.ToSlash(rel),
			Text:   string(content),
		})
		return nil
	})
	if err != nil {
		return nil, nil, domain.NewDomainErrorWithCause(domain.ErrCodeIngest, "failed to walk folder", err)
	}

	if len(docs) == 0 {
		return nil, skipped, domain.NewDomainError(domain.ErrCodeValidation,
			fmt.Sprintf("no supported files (.txt, .md) found in %s", s.root))
	}

	return docs, skipped, nil
}
