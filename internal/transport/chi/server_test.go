package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"recipesearch/internal/domain/document"
	"recipesearch/internal/index"
	"recipesearch/internal/scanner"
	indexinguc "recipesearch/internal/usecase/indexing"
	searchuc "recipesearch/internal/usecase/search"
)

type fakeScanner struct {
	docs  []document.Document
	stats scanner.Stats
	err   error
}

func (f *fakeScanner) Scan(ctx context.Context, root string) ([]document.Document, scanner.Stats, error) {
	if f.err != nil {
		return nil, scanner.Stats{}, f.err
	}
	return f.docs, f.stats, nil
}

func testDocs(t *testing.T) []document.Document {
	t.Helper()
	mk := func(id, title, category, text string) document.Document {
		doc, err := document.New(id, title, category, "/recipes/"+id, text, time.Now())
		if err != nil {
			t.Fatalf("document.New(%q): %v", id, err)
		}
		return doc
	}
	return []document.Document{
		mk("desserts/chocolate_cake.pdf", "Chocolate Cake", "desserts",
			"melt chocolate with butter and fold into the cake batter"),
		mk("desserts/brownies.pdf", "Fudgy Brownies", "desserts",
			"dense chocolate brownies with walnuts"),
		mk("soups/tomato_soup.pdf", "Tomato Soup", "soups",
			"simmer tomatoes with basil and blend until smooth"),
	}
}

// newTestServer builds a server over a pre-built snapshot.
func newTestServer(t *testing.T, docs []document.Document) *httptest.Server {
	t.Helper()

	idx := index.New()
	if docs != nil {
		idx.Swap(index.Build(docs))
	}

	search := searchuc.New(idx, searchuc.Options{TitleMinScore: 0.6})
	indexing := indexinguc.New(idx, &fakeScanner{docs: docs, stats: scanner.Stats{Indexed: len(docs)}}, "/recipes", zap.NewNop())

	srv := NewServer(search, indexing, 20, 100, zap.NewNop())
	r := gochi.NewRouter()
	srv.Routes(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return resp, body
}

func results(t *testing.T, body map[string]any) []any {
	t.Helper()
	raw, ok := body["results"].([]any)
	if !ok {
		t.Fatalf("missing results array in %v", body)
	}
	return raw
}

func TestSearch_Fuzzy(t *testing.T) {
	ts := newTestServer(t, testDocs(t))

	resp, body := get(t, ts, "/api/v1/search?query=chocolate+cake")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	hits := results(t, body)
	if len(hits) == 0 {
		t.Fatal("expected hits for chocolate cake")
	}
	top := hits[0].(map[string]any)
	if top["id"] != "desserts/chocolate_cake.pdf" {
		t.Errorf("top id = %v, want desserts/chocolate_cake.pdf", top["id"])
	}
	if score := top["score"].(float64); score <= 0 || score > 1 {
		t.Errorf("score = %v, want in (0,1]", score)
	}
}

func TestSearch_MissingQueryParam(t *testing.T) {
	ts := newTestServer(t, testDocs(t))

	resp, body := get(t, ts, "/api/v1/search")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body["code"] != codeBadRequest {
		t.Errorf("code = %v, want %s", body["code"], codeBadRequest)
	}
}

func TestSearch_EmptyQueryReturnsEmptyResults(t *testing.T) {
	ts := newTestServer(t, testDocs(t))

	resp, body := get(t, ts, "/api/v1/search?query=")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if n := body["count"].(float64); n != 0 {
		t.Errorf("count = %v, want 0", n)
	}
}

func TestSearch_InvalidParams(t *testing.T) {
	ts := newTestServer(t, testDocs(t))

	cases := []struct {
		name string
		path string
	}{
		{"bad limit", "/api/v1/search?query=cake&limit=abc"},
		{"negative limit", "/api/v1/search?query=cake&limit=-1"},
		{"bad min_score", "/api/v1/search?query=cake&min_score=high"},
		{"out of range min_score", "/api/v1/search?query=cake&min_score=2"},
		{"bad mode", "/api/v1/search?query=cake&mode=regex"},
		{"bad sort", "/api/v1/search?query=cake&sort_by=color"},
		{"NaN min_score", "/api/v1/search?query=cake&min_score=NaN"},
		{"proximity mode without terms", "/api/v1/search?query=chocolate+butter&mode=proximity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := get(t, ts, tc.path)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			if body["code"] != codeValidationFailed {
				t.Errorf("code = %v, want %s", body["code"], codeValidationFailed)
			}
		})
	}
}

func TestSearch_TitleMode(t *testing.T) {
	ts := newTestServer(t, testDocs(t))

	resp, body := get(t, ts, "/api/v1/search?query=tomato+soup&mode=title")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	hits := results(t, body)
	if len(hits) == 0 {
		t.Fatal("expected a title match for tomato soup")
	}
	if id := hits[0].(map[string]any)["id"]; id != "soups/tomato_soup.pdf" {
		t.Errorf("top id = %v, want soups/tomato_soup.pdf", id)
	}
}

func TestSearch_PhraseMode(t *testing.T) {
	ts := newTestServer(t, testDocs(t))

	resp, body := get(t, ts, "/api/v1/search?query=cake+batter&mode=phrase")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	hits := results(t, body)
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}
	top := hits[0].(map[string]any)
	if top["id"] != "desserts/chocolate_cake.pdf" || top["score"].(float64) != 1.0 {
		t.Errorf("hit = %v, want chocolate_cake.pdf with score 1", top)
	}
}

func TestSearch_CategoryFilter(t *testing.T) {
	ts := newTestServer(t, testDocs(t))

	resp, body := get(t, ts, "/api/v1/search?query=chocolate&mode=general&category=soups")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if hits := results(t, body); len(hits) != 0 {
		t.Errorf("got %d hits in soups for chocolate, want 0", len(hits))
	}
}

func TestSearch_LimitClampedToMax(t *testing.T) {
	ts := newTestServer(t, testDocs(t))

	resp, _ := get(t, ts, "/api/v1/search?query=chocolate&limit=100000")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestSearchProximity(t *testing.T) {
	ts := newTestServer(t, testDocs(t))

	resp, body := get(t, ts, "/api/v1/search/proximity?terms=chocolate,butter&max_distance=3")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	hits := results(t, body)
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}
	if id := hits[0].(map[string]any)["id"]; id != "desserts/chocolate_cake.pdf" {
		t.Errorf("id = %v, want desserts/chocolate_cake.pdf", id)
	}
}

func TestSearchProximity_SingleTermRejected(t *testing.T) {
	ts := newTestServer(t, testDocs(t))

	resp, body := get(t, ts, "/api/v1/search/proximity?terms=chocolate")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body["code"] != codeValidationFailed {
		t.Errorf("code = %v, want %s", body["code"], codeValidationFailed)
	}
}

func TestCategories(t *testing.T) {
	ts := newTestServer(t, testDocs(t))

	resp, body := get(t, ts, "/api/v1/categories")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	cats := body["categories"].([]any)
	if len(cats) != 2 {
		t.Fatalf("got %d categories, want 2", len(cats))
	}
	first := cats[0].(map[string]any)
	if first["category"] != "desserts" || first["count"].(float64) != 2 {
		t.Errorf("first category = %v", first)
	}
}

func TestReindex(t *testing.T) {
	ts := newTestServer(t, testDocs(t))

	resp, err := http.Post(ts.URL+"/api/v1/reindex", "application/json", nil)
	if err != nil {
		t.Fatalf("POST reindex: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body reindexResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Indexed != 3 {
		t.Errorf("indexed = %d, want 3", body.Indexed)
	}
}

func TestHealth_NotReady(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := get(t, ts, "/health")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
	if body["ready"] != false {
		t.Errorf("ready = %v, want false", body["ready"])
	}
}

func TestHealth_Ready(t *testing.T) {
	ts := newTestServer(t, testDocs(t))

	resp, body := get(t, ts, "/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["documents"].(float64) != 3 {
		t.Errorf("documents = %v, want 3", body["documents"])
	}
}

func TestSearch_NotReadyReturns503(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := get(t, ts, "/api/v1/search?query=cake")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
	if body["code"] != codeIndexNotReady {
		t.Errorf("code = %v, want %s", body["code"], codeIndexNotReady)
	}
}
