package domain

// Hit is a chunk scored against a query vector.
type Hit struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the cosine similarity, 0 for degenerate vectors.
	Score float64
}

// SearchOptions configures a similarity search.
type SearchOptions struct {
	// MaxResults caps the number of hits returned.
	MaxResults int

	// MinScore drops hits scoring below it.
	MinScore float64
}

// EnrichedPassage is a hit widened with its neighbouring chunks.
type EnrichedPassage struct {
	// Kind and ParentID locate the window.
	Kind     SourceKind
	ParentID string

	// Sequences lists the chunk positions joined into Text, ascending.
	Sequences []int

	// Text is the window content in ascending sequence order.
	Text string

	// URL is the anchor chunk's citation link.
	URL string

	// Score is the anchor hit's score.
	Score float64

	// Title is the anchor chunk's topic or document title.
	Title string
}

// CitationLink is a source surfaced to the caller.
type CitationLink struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// Query is an incoming question with an optional base64-encoded image.
type Query struct {
	Question string
	Image    string
}

// HasImage reports whether an image was attached.
func (q Query) HasImage() bool {
	return q.Image != ""
}

// Answer is the response returned to the caller.
type Answer struct {
	Text  string         `json:"answer"`
	Links []CitationLink `json:"links"`
}

// NoInformationAnswer is returned when nothing in the corpus clears the
// similarity threshold.
const NoInformationAnswer = "I don't have enough information to answer this question."

// NoInformation returns the fixed answer used when retrieval finds nothing.
func NoInformation() Answer {
	return Answer{Text: NoInformationAnswer, Links: []CitationLink{}}
}
