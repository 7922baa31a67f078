package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloo-solutions/askdocs/internal/domain"
)

// CompletionClient defines the interface for the external generative model
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

const answerSystemPrompt = `You are a helpful technical support assistant. Answer the user's question based on the following documentation excerpts. If the answer is not in the documentation, say so.

Documentation:
%s`

const answerSystemPromptNoContext = "You are a helpful technical support assistant. Answer the user's question to the best of your ability."

// AnswerService formats retrieved chunks into a prompt and calls the
// external generative model.
type AnswerService struct {
	client  CompletionClient
	timeout time.Duration
}

func NewAnswerService(client CompletionClient, timeout time.Duration) *AnswerService {
	return &AnswerService{client: client, timeout: timeout}
}

// Generate produces an answer grounded in the retrieved chunks. The model
// call runs under the configured timeout; failures and timeouts surface as
// GENERATION_ERROR, never as a substituted answer.
func (s *AnswerService) Generate(ctx context.Context, query string, chunks []domain.ScoredChunk) (string, error) {
	if s.client == nil {
		return "", domain.ErrNoGenerator
	}

	system := buildSystemPrompt(chunks)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	answer, err := s.client.Complete(ctx, system, query)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", domain.NewDomainErrorWithCause(domain.ErrCodeGeneration,
				"generation timed out", err)
		}
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeGeneration,
			"failed to generate answer", err)
	}

	return strings.TrimSpace(answer), nil
}

func buildSystemPrompt(chunks []domain.ScoredChunk) string {
	if len(chunks) == 0 {
		return answerSystemPromptNoContext
	}

	excerpts := make([]string, len(chunks))
	for i, sc := range chunks {
		excerpts[i] = fmt.Sprintf("[%s - chunk %d]\n%s", sc.Chunk.Source, sc.Chunk.Index+1, sc.Chunk.Text)
	}
	return fmt.Sprintf(answerSystemPrompt, strings.Join(excerpts, "\n\n---\n\n"))
}
