package document

import (
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d, err := New("cakes/choco.pdf", "Chocolate Cake", "cakes", "/data/pdfs/cakes/choco.pdf", "chocolate cake recipe", at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID() != "cakes/choco.pdf" {
		t.Errorf("ID() = %q", d.ID())
	}
	if d.Title() != "Chocolate Cake" {
		t.Errorf("Title() = %q", d.Title())
	}
	if d.Category() != "cakes" {
		t.Errorf("Category() = %q", d.Category())
	}
	if d.Filename() != "choco.pdf" {
		t.Errorf("Filename() = %q", d.Filename())
	}
	if !d.ExtractedAt().Equal(at) {
		t.Errorf("ExtractedAt() = %v", d.ExtractedAt())
	}
}

func TestNew_Defaults(t *testing.T) {
	d, err := New("banana_bread.pdf", "", "", "/data/pdfs/banana_bread.pdf", "", time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Title() != "banana bread" {
		t.Errorf("Title() = %q, want title derived from filename", d.Title())
	}
	if d.Category() != Uncategorized {
		t.Errorf("Category() = %q, want %q", d.Category(), Uncategorized)
	}
	if d.ExtractedAt().IsZero() {
		t.Error("ExtractedAt() is zero, want defaulted")
	}
}

func TestNew_Invalid(t *testing.T) {
	if _, err := New("", "t", "c", "/p", "x", time.Time{}); err == nil {
		t.Error("empty id: expected error")
	}
	if _, err := New("a.pdf", "t", "c", "", "x", time.Time{}); err == nil {
		t.Error("empty path: expected error")
	}
}
