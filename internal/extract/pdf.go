package extract

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"recipesearch/internal/domain"
)

// PDF extracts text from PDF files. The title heuristic follows the layout:
// the line with the largest average font size on the first page is taken as
// the recipe title, falling back to the first non-blank line of the text.
// When neither exists the caller derives a title from the filename.
type PDF struct{}

// NewPDF creates a PDF extractor.
func NewPDF() *PDF {
	return &PDF{}
}

// Extract reads every page of the PDF at path. A corrupt or unsupported file
// returns an error wrapping domain.ErrExtractFailed; the scan skips it.
func (e *PDF) Extract(ctx context.Context, path string) (content Content, err error) {
	// The pdf package panics on some malformed cross-reference tables;
	// a single bad file must not abort the whole directory scan.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: parser panic: %v", domain.ErrExtractFailed, path, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return Content{}, fmt.Errorf("%w: %s: %v", domain.ErrExtractFailed, path, err)
	}
	defer f.Close()

	var pages []string
	var firstPage []line
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return Content{}, fmt.Errorf("extract %s: %w", path, err)
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		lines := linesOf(page.Content().Text)
		if i == 1 {
			firstPage = lines
		}
		var sb strings.Builder
		for _, l := range lines {
			sb.WriteString(l.text)
			sb.WriteByte('\n')
		}
		pages = append(pages, sb.String())
	}

	text := strings.Join(pages, "")
	return Content{
		Title: deriveTitle(firstPage, text),
		Text:  text,
	}, nil
}

// line is a reconstructed text line with its average font size.
type line struct {
	text     string
	fontSize float64
}

// linesOf groups positioned text fragments into lines. Fragments sharing a
// baseline (Y within half a point) belong to the same line; lines are
// ordered top to bottom, fragments left to right.
func linesOf(frags []pdf.Text) []line {
	if len(frags) == 0 {
		return nil
	}
	sorted := make([]pdf.Text, len(frags))
	copy(sorted, frags)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y // PDF origin is bottom-left
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []line
	var sb strings.Builder
	var sizeSum float64
	var count int
	curY := sorted[0].Y

	flush := func() {
		text := strings.TrimSpace(sb.String())
		if text != "" && count > 0 {
			lines = append(lines, line{text: text, fontSize: sizeSum / float64(count)})
		}
		sb.Reset()
		sizeSum, count = 0, 0
	}

	for _, t := range sorted {
		if diff := curY - t.Y; diff > 0.5 || diff < -0.5 {
			flush()
			curY = t.Y
		}
		sb.WriteString(t.S)
		sizeSum += t.FontSize
		count++
	}
	flush()
	return lines
}

// deriveTitle picks the largest-font line of the first page, then the first
// non-blank line of the full text. Returns "" when the document has no text.
func deriveTitle(firstPage []line, text string) string {
	best := ""
	bestSize := 0.0
	for _, l := range firstPage {
		if l.fontSize > bestSize && l.text != "" {
			best = l.text
			bestSize = l.fontSize
		}
	}
	if best != "" {
		return best
	}
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	return ""
}
