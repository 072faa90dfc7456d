package request

import (
	"fmt"
	"math"
	"strings"

	"recipesearch/internal/domain"
	"recipesearch/internal/domain/search/mode"
	"recipesearch/internal/domain/search/sortby"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultLimit   = 20
	MaxLimit       = 100
	// DefaultMaxDistance is the proximity window in words.
	DefaultMaxDistance = 5
)

// Request is a validated search query. An empty query is legal and yields an
// empty result set; a missing query parameter is rejected at the transport
// boundary before a Request is ever built.
type Request struct {
	query       string
	searchMode  mode.Mode
	category    string
	terms       []string
	maxDistance int
	limit       int
	minScore    float64
	sortBy      sortby.Order
	ascending   bool
}

// New validates and normalizes search parameters. Mode defaults to fuzzy
// and sort to relevance; the caller supplies a positive limit.
func New(
	query string,
	m mode.Mode,
	category string,
	limit int,
	minScore float64,
	sortBy sortby.Order,
	ascending bool,
) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidArgument, MaxQueryLength)
	}
	if m == "" {
		m = mode.Fuzzy
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid search mode %q", domain.ErrInvalidArgument, m)
	}
	// Proximity needs a term list and a window; only NewProximity can
	// supply those.
	if m == mode.Proximity {
		return Request{}, fmt.Errorf("%w: proximity mode requires a terms list, use the proximity endpoint", domain.ErrInvalidArgument)
	}
	if limit <= 0 {
		return Request{}, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrInvalidArgument, limit)
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if math.IsNaN(minScore) || minScore < 0 || minScore > 1 {
		return Request{}, fmt.Errorf("%w: min_score must be between 0 and 1", domain.ErrInvalidArgument)
	}
	if sortBy == "" {
		sortBy = sortby.Relevance
	}
	if !sortBy.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid sort order %q", domain.ErrInvalidArgument, sortBy)
	}

	return Request{
		query:      query,
		searchMode: m,
		category:   strings.TrimSpace(category),
		limit:      limit,
		minScore:   minScore,
		sortBy:     sortBy,
		ascending:  ascending,
	}, nil
}

// NewProximity validates a proximity search over the given terms.
// maxDistance <= 0 defaults to DefaultMaxDistance.
func NewProximity(terms []string, maxDistance, limit int) (Request, error) {
	cleaned := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, strings.ToLower(t))
		}
	}
	if len(cleaned) < 2 {
		return Request{}, fmt.Errorf("%w: proximity search requires at least 2 terms", domain.ErrInvalidArgument)
	}
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	if limit <= 0 {
		return Request{}, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrInvalidArgument, limit)
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Request{
		query:       strings.Join(cleaned, " "),
		searchMode:  mode.Proximity,
		terms:       cleaned,
		maxDistance: maxDistance,
		limit:       limit,
		sortBy:      sortby.Relevance,
	}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Mode returns the search strategy.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// Category returns the category filter ("" = all categories).
func (r *Request) Category() string { return r.category }

// Terms returns the proximity search terms (nil for other modes).
func (r *Request) Terms() []string { return r.terms }

// MaxDistance returns the proximity window in words.
func (r *Request) MaxDistance() int { return r.maxDistance }

// Limit returns the maximum results to return.
func (r *Request) Limit() int { return r.limit }

// MinScore returns the minimum similarity threshold.
func (r *Request) MinScore() float64 { return r.minScore }

// SortBy returns the result ordering criterion.
func (r *Request) SortBy() sortby.Order { return r.sortBy }

// Ascending reports whether results are sorted ascending.
func (r *Request) Ascending() bool { return r.ascending }
