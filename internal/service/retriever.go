package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloo-solutions/askdocs/internal/chunker"
	"github.com/cloo-solutions/askdocs/internal/domain"
	"github.com/cloo-solutions/askdocs/internal/storage"
)

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore defines the persistence interface the retriever depends on
type VectorStore interface {
	Upsert(ctx context.Context, collection string, chunks []domain.Chunk, embeddings [][]float32) error
	Query(ctx context.Context, collection string, embedding []float32, k int) (domain.RetrievalResult, error)
}

// DocumentSource yields the documents of one ingestion run
type DocumentSource interface {
	Load(ctx context.Context) ([]domain.Document, []storage.SkippedFile, error)
}

// ProgressFunc receives per-document ingestion progress for boundary display.
type ProgressFunc func(current, total int, source, status string)

// IngestReport summarizes one ingestion run.
type IngestReport struct {
	Collection string
	Documents  int
	Chunks     int
	Skipped    []storage.SkippedFile
}

// RetrieverService orchestrates chunking, embedding and vector persistence.
type RetrieverService struct {
	embedding    EmbeddingClient
	store        VectorStore
	chunkSize    int
	chunkOverlap int
}

func NewRetrieverService(embedding EmbeddingClient, store VectorStore, chunkSize, chunkOverlap int) *RetrieverService {
	return &RetrieverService{
		embedding:    embedding,
		store:        store,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Ingest reads every document from the source, chunks it, embeds the chunks
// in one batch per document and upserts them. A failing document is skipped
// and reported; the others proceed. Each document's chunk set is written
// all-or-nothing by the store.
func (s *RetrieverService) Ingest(ctx context.Context, source DocumentSource, collection string, progress ProgressFunc) (*IngestReport, error) {
	if collection == "" {
		return nil, domain.ErrMissingCollection
	}
	if progress == nil {
		progress = func(int, int, string, string) {}
	}

	docs, skipped, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}

	report := &IngestReport{Collection: collection, Skipped: skipped}
	for _, skip := range skipped {
		progress(0, len(docs), skip.Path, "skipped: "+skip.Reason)
	}

	for i, doc := range docs {
		n, err := s.ingestDocument(ctx, doc, collection)
		if err != nil {
			ingestErr := domain.NewDomainErrorWithCause(domain.ErrCodeIngest,
				fmt.Sprintf("failed to ingest %s", doc.Source), err)
			report.Skipped = append(report.Skipped, storage.SkippedFile{
				Path:   doc.Source,
				Reason: ingestErr.Error(),
			})
			progress(i+1, len(docs), doc.Source, "error: "+err.Error())
			continue
		}
		report.Documents++
		report.Chunks += n
		progress(i+1, len(docs), doc.Source, fmt.Sprintf("done (%d chunks)", n))
	}

	return report, nil
}

func (s *RetrieverService) ingestDocument(ctx context.Context, doc domain.Document, collection string) (int, error) {
	chunks, err := chunker.Split(doc.Text, s.chunkSize, s.chunkOverlap)
	if err != nil {
		return 0, err
	}
	for i := range chunks {
		chunks[i].Source = doc.Source
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings, err := s.embedding.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, domain.NewDomainErrorWithCause(domain.ErrCodeModelUnavailable,
			"failed to embed chunks", err)
	}

	if err := s.store.Upsert(ctx, collection, chunks, embeddings); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// Search embeds the query text and returns the k nearest chunks from the
// collection, ascending by distance.
func (s *RetrieverService) Search(ctx context.Context, collection, query string, k int) (domain.RetrievalResult, error) {
	if collection == "" {
		return domain.RetrievalResult{}, domain.ErrMissingCollection
	}
	if strings.TrimSpace(query) == "" {
		return domain.RetrievalResult{}, domain.ErrEmptyQuery
	}

	embedding, err := s.embedding.EmbedQuery(ctx, query)
	if err != nil {
		return domain.RetrievalResult{}, domain.NewDomainErrorWithCause(domain.ErrCodeModelUnavailable,
			"failed to embed query", err)
	}

	return s.store.Query(ctx, collection, embedding, k)
}
