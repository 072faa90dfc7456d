// Package scanner walks the recipe directory and extracts one document per
// readable PDF. A file that fails to parse is logged and skipped; the scan
// itself only fails when the directory is missing.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"recipesearch/internal/domain"
	"recipesearch/internal/domain/document"
	"recipesearch/internal/extract"
)

// Cache is the consumer interface for the extraction cache.
type Cache interface {
	Get(ctx context.Context, rel string, mtime time.Time, size int64) (extract.Content, bool)
	Put(ctx context.Context, rel string, mtime time.Time, size int64, c extract.Content)
}

// Stats summarizes one scan.
type Stats struct {
	Indexed   int
	Failed    int
	CacheHits int
	Elapsed   time.Duration
}

// Scanner produces documents from a directory tree of PDFs.
type Scanner struct {
	extractor   extract.Extractor
	cache       Cache
	maxFileSize int64
	logger      *zap.Logger
}

// New creates a scanner. maxFileSize <= 0 disables the size limit.
func New(extractor extract.Extractor, cache Cache, maxFileSize int64, logger *zap.Logger) *Scanner {
	return &Scanner{
		extractor:   extractor,
		cache:       cache,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// Scan walks root and extracts every .pdf file. The category of a document
// is the first-level subdirectory it lives in; files directly under root are
// Uncategorized. A missing root aborts with domain.ErrNoSuchDirectory.
func (s *Scanner) Scan(ctx context.Context, root string) ([]document.Document, Stats, error) {
	start := time.Now()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("resolve recipe dir: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil || !info.IsDir() {
		return nil, Stats{}, fmt.Errorf("%w: %s", domain.ErrNoSuchDirectory, root)
	}

	var docs []document.Document
	var stats Stats

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			s.logger.Warn("skipping unreadable entry", zap.String("path", path), zap.Error(walkErr))
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			s.logger.Warn("skipping file without stat info", zap.String("path", path), zap.Error(err))
			return nil
		}
		if s.maxFileSize > 0 && fi.Size() > s.maxFileSize {
			s.logger.Warn("skipping oversized file",
				zap.String("path", path),
				zap.Int64("size", fi.Size()),
				zap.Int64("max", s.maxFileSize),
			)
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		content, hit := s.extractFile(ctx, path, rel, fi)
		if hit < 0 {
			stats.Failed++
			return nil
		}
		stats.CacheHits += hit

		doc, err := document.New(rel, content.Title, categoryOf(rel), path, content.Text, time.Now().UTC())
		if err != nil {
			s.logger.Warn("skipping invalid document", zap.String("path", path), zap.Error(err))
			stats.Failed++
			return nil
		}
		docs = append(docs, doc)
		stats.Indexed++
		return nil
	})
	if err != nil {
		return nil, Stats{}, fmt.Errorf("scan %s: %w", root, err)
	}

	stats.Elapsed = time.Since(start)
	s.logger.Info("scan complete",
		zap.String("dir", absRoot),
		zap.Int("indexed", stats.Indexed),
		zap.Int("failed", stats.Failed),
		zap.Int("cache_hits", stats.CacheHits),
		zap.Duration("elapsed", stats.Elapsed),
	)
	return docs, stats, nil
}

// extractFile returns the content and 1 for a cache hit, 0 for a parse, or
// -1 when extraction failed.
func (s *Scanner) extractFile(ctx context.Context, path, rel string, fi fs.FileInfo) (extract.Content, int) {
	if s.cache != nil {
		if content, ok := s.cache.Get(ctx, rel, fi.ModTime(), fi.Size()); ok {
			return content, 1
		}
	}

	content, err := s.extractor.Extract(ctx, path)
	if err != nil {
		s.logger.Warn("extraction failed, skipping file", zap.String("path", path), zap.Error(err))
		return extract.Content{}, -1
	}

	if s.cache != nil {
		s.cache.Put(ctx, rel, fi.ModTime(), fi.Size(), content)
	}
	return content, 0
}

// categoryOf returns the first path element of a '/'-separated relative
// path, or Uncategorized for files at the root.
func categoryOf(rel string) string {
	if dir, _, found := strings.Cut(rel, "/"); found {
		return dir
	}
	return document.Uncategorized
}
