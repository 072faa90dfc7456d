package sortby

// Order is the result ordering criterion.
type Order string

// Sort order constants.
const (
	Relevance Order = "relevance"
	Title     Order = "title"
	Category  Order = "category"
	// Length orders by the extracted text length in characters.
	Length Order = "length"
)

// IsValid checks if the order is one of the supported values.
func (o Order) IsValid() bool {
	switch o {
	case Relevance, Title, Category, Length:
		return true
	}
	return false
}
