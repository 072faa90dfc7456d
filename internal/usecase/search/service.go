// Package search dispatches validated queries onto the current index
// snapshot and orders the results.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"recipesearch/internal/domain"
	"recipesearch/internal/domain/search/mode"
	"recipesearch/internal/domain/search/request"
	"recipesearch/internal/domain/search/result"
	"recipesearch/internal/domain/search/sortby"
	"recipesearch/internal/index"
)

// Options tune query-time behavior.
type Options struct {
	// TitleMinScore is the threshold for title mode, in [0,1].
	TitleMinScore float64
	// ServeEmptyWhenNotReady serves an empty result set instead of failing
	// while the first scan is still running.
	ServeEmptyWhenNotReady bool
}

// Service answers search queries against the index.
type Service struct {
	idx  *index.Index
	opts Options
}

// New creates a search service.
func New(idx *index.Index, opts Options) *Service {
	if opts.TitleMinScore <= 0 {
		opts.TitleMinScore = 0.6
	}
	return &Service{idx: idx, opts: opts}
}

// CategoryCount is one category with its document count.
type CategoryCount struct {
	Category string
	Count    int
}

// Search executes a validated request. Queries against an empty or not yet
// built index return an empty result set (or ErrIndexNotReady, per Options).
func (s *Service) Search(ctx context.Context, req *request.Request) ([]result.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	snap := s.idx.Load()
	if snap == nil {
		if s.opts.ServeEmptyWhenNotReady {
			return []result.Result{}, nil
		}
		return nil, domain.ErrIndexNotReady
	}

	if strings.TrimSpace(req.Query()) == "" {
		return []result.Result{}, nil
	}

	var hits []index.Hit
	switch req.Mode() {
	case mode.General:
		hits = snap.General(req.Query(), req.Category())
	case mode.Fuzzy:
		hits = snap.Fuzzy(req.Query(), req.Category())
	case mode.Title:
		hits = snap.Title(req.Query(), req.Category(), s.opts.TitleMinScore)
	case mode.Phrase:
		hits = snap.Phrase(req.Query(), req.Category())
	case mode.Proximity:
		hits = snap.Proximity(req.Terms(), req.MaxDistance(), req.Category())
	case mode.Boolean:
		hits = snap.Boolean(req.Query(), req.Category())
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedMode, req.Mode())
	}

	results := make([]result.Result, 0, len(hits))
	for _, h := range hits {
		if h.Score < req.MinScore() {
			continue
		}
		doc, ok := snap.Doc(h.ID)
		if !ok {
			continue
		}
		results = append(results, result.New(
			h.ID, h.Score, doc.Title(), doc.Category(), doc.Filename(), doc.Path(), len(doc.Text()),
		))
	}

	orderResults(results, req.SortBy(), req.Ascending())

	if len(results) > req.Limit() {
		results = results[:req.Limit()]
	}
	return results, nil
}

// Categories lists known categories with document counts, sorted by name.
func (s *Service) Categories(ctx context.Context) ([]CategoryCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	snap := s.idx.Load()
	if snap == nil {
		if s.opts.ServeEmptyWhenNotReady {
			return []CategoryCount{}, nil
		}
		return nil, domain.ErrIndexNotReady
	}

	counts := snap.Categories()
	out := make([]CategoryCount, 0, len(counts))
	for cat, n := range counts {
		out = append(out, CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// orderResults sorts by the requested criterion. The default is descending
// (highest score, Z-to-A titles) like the original ranking; ties always
// break by document id ascending.
func orderResults(results []result.Result, order sortby.Order, ascending bool) {
	less := func(a, b *result.Result) bool {
		switch order {
		case sortby.Title:
			return strings.ToLower(a.Title()) < strings.ToLower(b.Title())
		case sortby.Category:
			return strings.ToLower(a.Category()) < strings.ToLower(b.Category())
		case sortby.Length:
			return a.Length() < b.Length()
		default: // relevance
			return a.Score() < b.Score()
		}
	}
	equal := func(a, b *result.Result) bool {
		return !less(a, b) && !less(b, a)
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := &results[i], &results[j]
		if equal(a, b) {
			return a.ID() < b.ID()
		}
		if ascending {
			return less(a, b)
		}
		return less(b, a)
	})
}
