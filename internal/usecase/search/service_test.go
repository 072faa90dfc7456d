package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"recipesearch/internal/domain"
	"recipesearch/internal/domain/document"
	"recipesearch/internal/domain/search/mode"
	"recipesearch/internal/domain/search/request"
	"recipesearch/internal/domain/search/sortby"
	"recipesearch/internal/index"
)

func mustDoc(t *testing.T, id, title, category, text string) document.Document {
	t.Helper()
	d, err := document.New(id, title, category, "/pdfs/"+id, text, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func readyService(t *testing.T, opts Options) *Service {
	t.Helper()
	idx := index.New()
	idx.Swap(index.Build([]document.Document{
		mustDoc(t, "cakes/choco.pdf", "Chocolate Cake", "cakes",
			"chocolate cake recipe with sugar and flour"),
		mustDoc(t, "cakes/carrot.pdf", "Carrot Cake", "cakes",
			"carrot cake recipe with walnuts cinnamon and flour"),
		mustDoc(t, "soups/tomato.pdf", "Tomato Soup", "soups",
			"tomato soup with basil garlic and olive oil"),
	}))
	return New(idx, opts)
}

func mustRequest(t *testing.T, query string, m mode.Mode, limit int) *request.Request {
	t.Helper()
	r, err := request.New(query, m, "", limit, 0, sortby.Relevance, false)
	if err != nil {
		t.Fatal(err)
	}
	return &r
}

func TestSearch_NotReady(t *testing.T) {
	svc := New(index.New(), Options{})
	_, err := svc.Search(context.Background(), mustRequest(t, "cake", mode.Fuzzy, 10))
	if !errors.Is(err, domain.ErrIndexNotReady) {
		t.Errorf("error = %v, want ErrIndexNotReady", err)
	}
}

func TestSearch_NotReadyServedEmpty(t *testing.T) {
	svc := New(index.New(), Options{ServeEmptyWhenNotReady: true})
	results, err := svc.Search(context.Background(), mustRequest(t, "cake", mode.Fuzzy, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc := readyService(t, Options{})
	results, err := svc.Search(context.Background(), mustRequest(t, "   ", mode.Fuzzy, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0 for empty query", len(results))
	}
}

func TestSearch_TopResultAndFields(t *testing.T) {
	svc := readyService(t, Options{})
	results, err := svc.Search(context.Background(), mustRequest(t, "chocolate cake", mode.Fuzzy, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("no results")
	}
	top := results[0]
	if top.ID() != "cakes/choco.pdf" {
		t.Errorf("top ID = %q", top.ID())
	}
	if top.Score() < 0.7 || top.Score() > 1.0 {
		t.Errorf("top score = %f, want within [0.7, 1.0]", top.Score())
	}
	if top.Filename() != "choco.pdf" || top.Category() != "cakes" || top.Title() != "Chocolate Cake" {
		t.Errorf("metadata = %q/%q/%q", top.Filename(), top.Category(), top.Title())
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score() > results[i-1].Score() {
			t.Error("scores not non-increasing")
		}
	}
}

func TestSearch_LimitApplied(t *testing.T) {
	svc := readyService(t, Options{})
	results, err := svc.Search(context.Background(), mustRequest(t, "recipe cake flour", mode.General, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(results) > 1 {
		t.Errorf("len(results) = %d, want at most 1", len(results))
	}
}

func TestSearch_MinScoreFilters(t *testing.T) {
	idxReq, err := request.New("cake recipe", mode.General, "", 10, 0.99, sortby.Relevance, false)
	if err != nil {
		t.Fatal(err)
	}
	svc := readyService(t, Options{})
	results, err := svc.Search(context.Background(), &idxReq)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.Score() < 0.99 {
			t.Errorf("result %q score %f below min_score", r.ID(), r.Score())
		}
	}
}

func TestSearch_CategoryFilter(t *testing.T) {
	r, err := request.New("recipe", mode.General, "soups", 10, 0, sortby.Relevance, false)
	if err != nil {
		t.Fatal(err)
	}
	svc := readyService(t, Options{})
	results, err := svc.Search(context.Background(), &r)
	if err != nil {
		t.Fatal(err)
	}
	for _, res := range results {
		if res.Category() != "soups" {
			t.Errorf("result %q outside category filter", res.ID())
		}
	}
}

func TestSearch_ProximityMode(t *testing.T) {
	r, err := request.NewProximity([]string{"sugar", "flour"}, 5, 10)
	if err != nil {
		t.Fatal(err)
	}
	svc := readyService(t, Options{})
	results, err := svc.Search(context.Background(), &r)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID() != "cakes/choco.pdf" {
		t.Errorf("results = %v", results)
	}
}

func TestSearch_SortByTitleAscending(t *testing.T) {
	r, err := request.New("cake or soup", mode.Boolean, "", 10, 0, sortby.Title, true)
	if err != nil {
		t.Fatal(err)
	}
	svc := readyService(t, Options{})
	results, err := svc.Search(context.Background(), &r)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	want := []string{"Carrot Cake", "Chocolate Cake", "Tomato Soup"}
	for i, w := range want {
		if results[i].Title() != w {
			t.Errorf("results[%d].Title() = %q, want %q", i, results[i].Title(), w)
		}
	}
}

func TestSearch_SortByLengthDescending(t *testing.T) {
	r, err := request.New("cake or soup", mode.Boolean, "", 10, 0, sortby.Length, false)
	if err != nil {
		t.Fatal(err)
	}
	svc := readyService(t, Options{})
	results, err := svc.Search(context.Background(), &r)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Length() > results[i-1].Length() {
			t.Error("lengths not non-increasing")
		}
	}
}

func TestCategories(t *testing.T) {
	svc := readyService(t, Options{})
	cats, err := svc.Categories(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 2 {
		t.Fatalf("len(cats) = %d, want 2", len(cats))
	}
	if cats[0].Category != "cakes" || cats[0].Count != 2 {
		t.Errorf("cats[0] = %+v", cats[0])
	}
	if cats[1].Category != "soups" || cats[1].Count != 1 {
		t.Errorf("cats[1] = %+v", cats[1])
	}
}

func TestCategories_NotReady(t *testing.T) {
	svc := New(index.New(), Options{})
	if _, err := svc.Categories(context.Background()); !errors.Is(err, domain.ErrIndexNotReady) {
		t.Errorf("error = %v, want ErrIndexNotReady", err)
	}
}
