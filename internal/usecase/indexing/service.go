// Package indexing orchestrates directory scans into index snapshots.
package indexing

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"recipesearch/internal/domain"
	"recipesearch/internal/index"
	"recipesearch/internal/metrics"
	"recipesearch/internal/scanner"
)

// Service rebuilds the index from the recipe directory. Rebuilds are
// serialized; queries keep reading the previous snapshot until the new one
// is swapped in.
type Service struct {
	idx     *index.Index
	scanner Scanner
	root    string
	logger  *zap.Logger

	rebuildMu sync.Mutex
}

// New creates an indexing service over the given index handle.
func New(idx *index.Index, sc Scanner, root string, logger *zap.Logger) *Service {
	return &Service{idx: idx, scanner: sc, root: root, logger: logger}
}

// Rebuild scans the recipe directory, builds a fresh snapshot and swaps it
// in atomically. A rebuild already in progress returns ErrRebuildInProgress.
func (s *Service) Rebuild(ctx context.Context) (scanner.Stats, error) {
	if !s.rebuildMu.TryLock() {
		return scanner.Stats{}, domain.ErrRebuildInProgress
	}
	defer s.rebuildMu.Unlock()

	docs, stats, err := s.scanner.Scan(ctx, s.root)
	if err != nil {
		metrics.IndexRebuildsTotal.WithLabelValues("error").Inc()
		return scanner.Stats{}, fmt.Errorf("rebuild index: %w", err)
	}

	s.idx.Swap(index.Build(docs))

	metrics.IndexRebuildsTotal.WithLabelValues("ok").Inc()
	metrics.IndexRebuildDuration.Observe(stats.Elapsed.Seconds())
	metrics.IndexDocuments.Set(float64(stats.Indexed))
	metrics.IndexScanFailuresTotal.Add(float64(stats.Failed))

	s.logger.Info("index rebuilt",
		zap.Int("documents", stats.Indexed),
		zap.Int("failed", stats.Failed),
		zap.Int("cache_hits", stats.CacheHits),
		zap.Duration("elapsed", stats.Elapsed),
	)
	return stats, nil
}

// Ready reports whether the index has been built at least once.
func (s *Service) Ready() bool {
	return s.idx.Load() != nil
}

// Documents returns the document count of the current snapshot.
func (s *Service) Documents() int {
	if snap := s.idx.Load(); snap != nil {
		return snap.Len()
	}
	return 0
}
