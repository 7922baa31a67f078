// Package chunker splits document text into overlapping fixed-size segments.
package chunker

import "github.com/cloo-solutions/askdocs/internal/domain"

// Split cuts text into chunks of at most size runes, with consecutive chunks
// overlapping by exactly overlap runes. Chunk starts advance by size-overlap,
// so every rune of the input is covered and the final chunk may be shorter.
// Input shorter than size yields a single chunk equal to the input.
func Split(text string, size, overlap int) ([]domain.Chunk, error) {
	if size <= 0 {
		return nil, domain.ErrInvalidChunkSize
	}
	if overlap < 0 {
		return nil, domain.ErrInvalidChunkOverlap
	}
	if overlap >= size {
		return nil, domain.ErrChunkOverlapTooLarge
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []domain.Chunk{{Index: 0, Start: 0, End: len(runes), Text: text}}, nil
	}

	stride := size - overlap
	chunks := make([]domain.Chunk, 0, len(runes)/stride+1)
	for start := 0; start < len(runes); start += stride {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.Chunk{
			Index: len(chunks),
			Start: start,
			End:   end,
			Text:  string(runes[start:end]),
		})
	}

	return chunks, nil
}
