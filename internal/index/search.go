package index

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// fuzzyCandidateLimit is how many tf-idf candidates the fuzzy mode re-ranks.
const fuzzyCandidateLimit = 20

// General scores documents by accumulated tf-idf over the query tokens.
// Raw scores are normalized so the best match scores 1.0.
func (s *Snapshot) General(query, category string) []Hit {
	return normalize(s.general(Tokenize(query), category))
}

func (s *Snapshot) general(queryTokens []string, category string) []Hit {
	scores := make(map[string]float64)
	for _, tok := range queryTokens {
		posting, ok := s.postings[tok]
		if !ok {
			continue
		}
		idf := s.idf[tok]
		for id, tf := range posting {
			if s.inCategory(id, category) {
				scores[id] += tfidf(tf, idf)
			}
		}
	}

	hits := make([]Hit, 0, len(scores))
	for id, score := range scores {
		if score > 0 {
			hits = append(hits, Hit{ID: id, Score: score})
		}
	}
	sortHits(hits)
	return hits
}

// Fuzzy retrieves tf-idf candidates and re-ranks them by token-set ratio
// against title plus text. When token retrieval finds nothing (no exact
// token overlap), every document is ranked by the ratio instead, so near
// matches with misspelled words still surface.
func (s *Snapshot) Fuzzy(query, category string) []Hit {
	q := strings.ToLower(query)

	candidates := s.general(Tokenize(query), category)
	if len(candidates) > fuzzyCandidateLimit {
		candidates = candidates[:fuzzyCandidateLimit]
	}

	var ids []string
	if len(candidates) == 0 {
		ids = s.sortedIDs(category)
	} else {
		ids = make([]string, len(candidates))
		for i, c := range candidates {
			ids[i] = c.ID
		}
	}

	hits := make([]Hit, 0, len(ids))
	for _, id := range ids {
		doc := s.docs[id]
		block := strings.ToLower(doc.Title() + " " + doc.Text())
		ratio := fuzzy.TokenSetRatio(q, block)
		if ratio > 0 {
			hits = append(hits, Hit{ID: id, Score: float64(ratio) / 100})
		}
	}
	sortHits(hits)
	return hits
}

// Title fuzzy-matches the query against titles, keeping hits above minScore.
func (s *Snapshot) Title(query, category string, minScore float64) []Hit {
	q := strings.ToLower(query)
	var hits []Hit
	for _, id := range s.sortedIDs(category) {
		doc := s.docs[id]
		ratio := fuzzy.PartialRatio(q, strings.ToLower(doc.Title()))
		score := float64(ratio) / 100
		if score > minScore {
			hits = append(hits, Hit{ID: id, Score: score})
		}
	}
	sortHits(hits)
	return hits
}

// Phrase matches the query as a case-insensitive substring of the text.
// Every hit scores 1.0; ordering falls back to id.
func (s *Snapshot) Phrase(phrase, category string) []Hit {
	p := strings.ToLower(phrase)
	if p == "" {
		return nil
	}
	var hits []Hit
	for _, id := range s.sortedIDs(category) {
		doc := s.docs[id]
		if strings.Contains(strings.ToLower(doc.Text()), p) {
			hits = append(hits, Hit{ID: id, Score: 1.0})
		}
	}
	return hits
}

// Proximity matches documents where each adjacent term pair occurs within
// maxDistance words. The score reflects the worst gap: adjacent terms give
// 1.0, a gap equal to maxDistance gives 1/maxDistance.
func (s *Snapshot) Proximity(terms []string, maxDistance int, category string) []Hit {
	if len(terms) < 2 || maxDistance < 1 {
		return nil
	}
	var hits []Hit
	for _, id := range s.sortedIDs(category) {
		doc := s.docs[id]
		words := tokenizeAll(doc.Text())

		positions := make(map[string][]int, len(terms))
		for i, w := range words {
			for _, t := range terms {
				if w == t {
					positions[t] = append(positions[t], i)
				}
			}
		}

		worst := 0
		matched := true
		for i := 0; i < len(terms)-1 && matched; i++ {
			gap := minGap(positions[terms[i]], positions[terms[i+1]])
			if gap < 0 || gap > maxDistance {
				matched = false
				break
			}
			if gap > worst {
				worst = gap
			}
		}
		if matched {
			score := float64(maxDistance-worst+1) / float64(maxDistance)
			if score > 1 {
				score = 1
			}
			hits = append(hits, Hit{ID: id, Score: score})
		}
	}
	sortHits(hits)
	return hits
}

// minGap returns the smallest |a-b| over the two position lists, or -1 when
// either list is empty. Both lists are ascending, so a single merge pass
// suffices.
func minGap(a, b []int) int {
	if len(a) == 0 || len(b) == 0 {
		return -1
	}
	best := -1
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		gap := a[i] - b[j]
		if gap < 0 {
			gap = -gap
		}
		if best < 0 || gap < best {
			best = gap
		}
		if a[i] < b[j] {
			i++
		} else {
			j++
		}
	}
	return best
}

// Boolean evaluates and/or/not operators over posting sets, left to right.
// Terms without an explicit operator are combined with "and". Hits score 1.0.
func (s *Snapshot) Boolean(query, category string) []Hit {
	fields := strings.Fields(strings.ToLower(query))

	var results map[string]struct{}
	op := "and"
	seenTerm := false
	for _, f := range fields {
		switch f {
		case "and", "or", "not":
			op = f
			continue
		}

		termDocs := make(map[string]struct{})
		for id := range s.postings[f] {
			if s.inCategory(id, category) {
				termDocs[id] = struct{}{}
			}
		}

		if !seenTerm {
			results = termDocs
			seenTerm = true
			op = "and"
			continue
		}

		switch op {
		case "or":
			for id := range termDocs {
				results[id] = struct{}{}
			}
		case "not":
			for id := range termDocs {
				delete(results, id)
			}
		default: // and
			for id := range results {
				if _, ok := termDocs[id]; !ok {
					delete(results, id)
				}
			}
		}
		op = "and"
	}

	hits := make([]Hit, 0, len(results))
	for id := range results {
		hits = append(hits, Hit{ID: id, Score: 1.0})
	}
	sortHits(hits)
	return hits
}

// normalize rescales raw scores so the maximum becomes 1.0, keeping results
// inside the [0,1] contract. Input must already be sorted descending.
func normalize(hits []Hit) []Hit {
	if len(hits) == 0 {
		return hits
	}
	max := hits[0].Score
	if max <= 0 {
		return nil
	}
	for i := range hits {
		hits[i].Score /= max
	}
	return hits
}
