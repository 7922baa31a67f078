package domain

import "time"

// Document is a raw source document handed to ingestion. It exists only for
// the duration of the ingest operation.
type Document struct {
	Source string
	Text   string
}

// Chunk is a bounded segment of a source document used as a retrieval unit.
type Chunk struct {
	ID     string
	Source string
	Index  int
	Start  int
	End    int
	Text   string
}

// ScoredChunk pairs a chunk with its distance to a query embedding.
// Smaller distance means more similar.
type ScoredChunk struct {
	Chunk    Chunk
	Distance float64
}

// RetrievalResult is the ordered output of a vector search, ascending by
// distance.
type RetrievalResult struct {
	Chunks []ScoredChunk
}

// MinDistance returns the smallest distance in the result, or 1.0 when the
// result is empty (worst case for cosine-derived confidence).
func (r RetrievalResult) MinDistance() float64 {
	if len(r.Chunks) == 0 {
		return 1.0
	}
	min := r.Chunks[0].Distance
	for _, c := range r.Chunks[1:] {
		if c.Distance < min {
			min = c.Distance
		}
	}
	return min
}

// ConfidenceAssessment is derived from a RetrievalResult per query and never
// persisted on its own.
type ConfidenceAssessment struct {
	Confidence  float64
	IsUncertain bool
	Escalated   bool
}

// CollectionInfo summarizes a stored collection.
type CollectionInfo struct {
	Name      string
	Chunks    int
	Dimension int
	CreatedAt time.Time
}

// SourceCount reports how many chunks a single source document contributed
// to a collection.
type SourceCount struct {
	Source string
	Chunks int
}
