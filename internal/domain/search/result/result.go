package result

// Result is a single search hit. Scores are always in [0,1].
type Result struct {
	id       string
	score    float64
	title    string
	category string
	filename string
	path     string
	length   int
}

// New creates a search result. length is the document text length, carried
// for length-ordered sorting.
func New(id string, score float64, title, category, filename, path string, length int) Result {
	return Result{
		id: id, score: score, title: title,
		category: category, filename: filename, path: path,
		length: length,
	}
}

// ID returns the document identifier.
func (r *Result) ID() string { return r.id }

// Score returns the relevance score in [0,1].
func (r *Result) Score() float64 { return r.score }

// Title returns the recipe title.
func (r *Result) Title() string { return r.title }

// Category returns the document category.
func (r *Result) Category() string { return r.category }

// Filename returns the source PDF base name.
func (r *Result) Filename() string { return r.filename }

// Path returns the source PDF path.
func (r *Result) Path() string { return r.path }

// Length returns the extracted text length in characters.
func (r *Result) Length() int { return r.length }
