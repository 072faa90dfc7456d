package mode

// Mode is the search strategy.
type Mode string

// Search mode constants.
const (
	// General scores documents with tf-idf over the inverted index.
	General Mode = "general"
	// Fuzzy retrieves tf-idf candidates and re-ranks them by fuzzy ratio.
	Fuzzy Mode = "fuzzy"
	// Title fuzzy-matches the query against recipe titles only.
	Title Mode = "title"
	// Phrase matches the query as a literal substring of the text.
	Phrase Mode = "phrase"
	// Proximity matches terms occurring within a word distance of each other.
	Proximity Mode = "proximity"
	// Boolean evaluates and/or/not operators over posting sets.
	Boolean Mode = "boolean"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	switch m {
	case General, Fuzzy, Title, Phrase, Proximity, Boolean:
		return true
	}
	return false
}
