package domain

// RetrieveOptions configures a retrieval request.
type RetrieveOptions struct {
	// TopK is the maximum number of chunks to return.
	TopK int

	// MinScore filters out chunks below this cosine similarity (0-1).
	MinScore float64

	// MaxPerDocument limits chunks per document while TopK is not yet
	// reached. Zero means one chunk per document (maximum diversity);
	// the limit is relaxed to fill up to TopK when too few distinct
	// documents match.
	MaxPerDocument int
}

// RetrievedChunk is a single retrieval hit.
type RetrievedChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the cosine similarity to the query (0-1).
	Score float64
}

// RetrievalResult is an ordered sequence of hits, scores descending,
// deduplicated by document. An empty result means no chunk cleared
// MinScore; it is not an error.
type RetrievalResult struct {
	// Chunks are the hits, best first.
	Chunks []RetrievedChunk
}

// Empty reports whether retrieval found no qualifying chunks.
func (r RetrievalResult) Empty() bool {
	return len(r.Chunks) == 0
}

// Sources returns the distinct source names of the hits in rank order.
func (r RetrievalResult) Sources() []string {
	seen := make(map[string]bool, len(r.Chunks))
	var sources []string
	for _, rc := range r.Chunks {
		if !seen[rc.Chunk.SourceName] {
			seen[rc.Chunk.SourceName] = true
			sources = append(sources, rc.Chunk.SourceName)
		}
	}
	return sources
}
