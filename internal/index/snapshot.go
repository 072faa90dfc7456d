package index

import (
	"math"
	"sort"
	"strings"

	"recipesearch/internal/domain/document"
)

// Snapshot is an immutable point-in-time view of the index. It is built once
// and never mutated, so readers can use it without locking while a rebuild
// prepares the next snapshot.
type Snapshot struct {
	docs     map[string]document.Document
	postings map[string]map[string]int // term -> docID -> term frequency
	idf      map[string]float64
}

// Build constructs a snapshot from extracted documents. Later duplicates of
// the same id replace earlier ones.
func Build(docs []document.Document) *Snapshot {
	s := &Snapshot{
		docs:     make(map[string]document.Document, len(docs)),
		postings: make(map[string]map[string]int),
		idf:      make(map[string]float64),
	}
	for i := range docs {
		s.docs[docs[i].ID()] = docs[i]
	}
	for id, doc := range s.docs {
		for _, tok := range Tokenize(doc.Text()) {
			posting := s.postings[tok]
			if posting == nil {
				posting = make(map[string]int)
				s.postings[tok] = posting
			}
			posting[id]++
		}
	}

	n := float64(len(s.docs))
	for term, posting := range s.postings {
		df := float64(len(posting))
		if df > 0 {
			s.idf[term] = math.Log10(n / df)
		}
	}
	return s
}

// Len returns the number of indexed documents.
func (s *Snapshot) Len() int { return len(s.docs) }

// Doc returns the document with the given id.
func (s *Snapshot) Doc(id string) (document.Document, bool) {
	d, ok := s.docs[id]
	return d, ok
}

// Categories returns document counts per category.
func (s *Snapshot) Categories() map[string]int {
	counts := make(map[string]int)
	for _, d := range s.docs {
		counts[d.Category()]++
	}
	return counts
}

// tfidf is the per-term contribution: (1 + log10(tf)) * idf.
func tfidf(tf int, idf float64) float64 {
	if tf <= 0 {
		return 0
	}
	return (1 + math.Log10(float64(tf))) * idf
}

// inCategory reports whether the document belongs to category. An empty
// category matches everything; comparison is case-insensitive.
func (s *Snapshot) inCategory(id, category string) bool {
	if category == "" {
		return true
	}
	d, ok := s.docs[id]
	if !ok {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(d.Category()), strings.TrimSpace(category))
}

// Hit is a scored document id. Scores are normalized into [0,1].
type Hit struct {
	ID    string
	Score float64
}

// sortHits orders by descending score, ties broken by id ascending.
func sortHits(hits []Hit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
}

// sortedIDs returns document ids in ascending order, optionally filtered by
// category. Used by strategies that inspect every document, so their output
// is deterministic.
func (s *Snapshot) sortedIDs(category string) []string {
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		if s.inCategory(id, category) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
