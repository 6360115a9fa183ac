package entities

// Chunk is a fixed-size (with overlap) slice of document text used as a
// retrieval unit.
type Chunk struct {
	Text   string `json:"text"`
	Source string `json:"source"` // video identifier the text came from
}

// VectorRecord pairs a chunk with its embedding vector.
type VectorRecord struct {
	Chunk     Chunk     `json:"chunk"`
	Embedding []float32 `json:"embedding"`
}

// SearchResult is a matching chunk with its similarity score, best first.
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}
