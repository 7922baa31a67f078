package service

import (
	"context"
	"time"

	"github.com/cloo-solutions/askdocs/internal/domain"
	"github.com/cloo-solutions/askdocs/internal/querylog"
)

// Searcher defines the retrieval interface the assistant depends on
type Searcher interface {
	Search(ctx context.Context, collection, query string, k int) (domain.RetrievalResult, error)
}

// Generator defines the answer-generation interface the assistant depends on
type Generator interface {
	Generate(ctx context.Context, query string, chunks []domain.ScoredChunk) (string, error)
}

// QueryLogger records query transactions for offline analysis
type QueryLogger interface {
	LogQuery(entry querylog.Entry) error
}

// SourceRef points a caller at one retrieved chunk.
type SourceRef struct {
	Source     string  `json:"source"`
	ChunkIndex int     `json:"chunk_index"`
	Distance   float64 `json:"distance"`
	Preview    string  `json:"preview"`
}

// AskResult is the response of one query transaction.
type AskResult struct {
	Answer      string      `json:"answer"`
	Confidence  float64     `json:"confidence"`
	IsUncertain bool        `json:"is_uncertain"`
	Escalated   bool        `json:"escalated"`
	Sources     []SourceRef `json:"sources"`
}

// AssistantService orchestrates one query: retrieve, assess, generate, log.
type AssistantService struct {
	searcher   Searcher
	generator  Generator
	logger     QueryLogger
	topK       int
	thresholds Thresholds
}

func NewAssistantService(searcher Searcher, generator Generator, logger QueryLogger, topK int, thresholds Thresholds) *AssistantService {
	if topK <= 0 {
		topK = 5
	}
	return &AssistantService{
		searcher:   searcher,
		generator:  generator,
		logger:     logger,
		topK:       topK,
		thresholds: thresholds,
	}
}

// Ask answers a question against a collection. Every transaction is logged,
// including failed ones; a generation failure is surfaced to the caller
// rather than replaced with a fabricated answer.
func (s *AssistantService) Ask(ctx context.Context, collection, query string) (*AskResult, error) {
	result, err := s.searcher.Search(ctx, collection, query, s.topK)
	if err != nil {
		s.log(collection, query, domain.RetrievalResult{}, domain.ConfidenceAssessment{
			IsUncertain: true,
			Escalated:   true,
		}, "", err)
		return nil, err
	}

	assessment := Assess(result, s.thresholds)

	answer, err := s.generator.Generate(ctx, query, result.Chunks)
	if err != nil {
		s.log(collection, query, result, assessment, "", err)
		return nil, err
	}

	s.log(collection, query, result, assessment, answer, nil)

	return &AskResult{
		Answer:      answer,
		Confidence:  assessment.Confidence,
		IsUncertain: assessment.IsUncertain,
		Escalated:   assessment.Escalated,
		Sources:     sourceRefs(result.Chunks),
	}, nil
}

func (s *AssistantService) log(collection, query string, result domain.RetrievalResult, assessment domain.ConfidenceAssessment, answer string, cause error) {
	if s.logger == nil {
		return
	}

	retrieved := make([]querylog.RetrievedChunk, len(result.Chunks))
	for i, sc := range result.Chunks {
		retrieved[i] = querylog.RetrievedChunk{
			Text:       sc.Chunk.Text,
			Source:     sc.Chunk.Source,
			ChunkIndex: sc.Chunk.Index,
			Distance:   sc.Distance,
		}
	}

	entry := querylog.Entry{
		Timestamp:       time.Now().UTC(),
		Query:           query,
		Collection:      collection,
		RetrievedChunks: retrieved,
		Confidence:      assessment.Confidence,
		IsUncertain:     assessment.IsUncertain,
		Escalated:       assessment.Escalated,
		Response:        answer,
	}
	if cause != nil {
		entry.Error = cause.Error()
	}

	// Logging must not abort the query path.
	_ = s.logger.LogQuery(entry)
}

func sourceRefs(chunks []domain.ScoredChunk) []SourceRef {
	refs := make([]SourceRef, len(chunks))
	for i, sc := range chunks {
		refs[i] = SourceRef{
			Source:     sc.Chunk.Source,
			ChunkIndex: sc.Chunk.Index,
			Distance:   sc.Distance,
			Preview:    preview(sc.Chunk.Text, 100),
		}
	}
	return refs
}

func preview(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
