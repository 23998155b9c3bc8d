// Package query answers questions from indexed state documentation.
//
// The retrieval path embeds an expanded search string, searches the
// vector store within the requested state, boosts and merges the hits per
// document, and either asks the LLM to answer from the best sources or,
// when nothing is relevant, returns suggestions for a better question.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/lawdoc"
)

// Defaults for answering questions.
const (
	DefaultMaxRetries = 3
)

// DefaultBackoff returns the retry backoff for completion calls.
func DefaultBackoff() lawdoc.Backoff {
	return lawdoc.Backoff{Base: time.Second, Max: 10 * time.Second, Jitter: time.Second}
}

var _ lawdoc.Asker = (*Service)(nil)

// Service implements lawdoc.Asker.
type Service struct {
	Embedder  lawdoc.Embedder
	Store     lawdoc.VectorStore
	Completer lawdoc.Completer

	// Scoring shapes boosts and the anchor keywords appended to the
	// search string. Defaults to lawdoc.DefaultScoreOptions.
	Scoring *lawdoc.ScoreOptions

	// TopK is the number of chunks retrieved. Defaults to
	// lawdoc.DefaultSearchLimit.
	TopK int

	MaxRetries int
	Backoff    lawdoc.Backoff

	Logger *slog.Logger
}

// NewService returns a Service with default scoring and retry policy.
func NewService(embedder lawdoc.Embedder, store lawdoc.VectorStore, completer lawdoc.Completer, logger *slog.Logger) *Service {
	return &Service{
		Embedder:   embedder,
		Store:      store,
		Completer:  completer,
		MaxRetries: DefaultMaxRetries,
		Backoff:    DefaultBackoff(),
		Logger:     logger,
	}
}

// Ask retrieves documentation indexed for state and answers question.
func (s *Service) Ask(ctx context.Context, state, question string) (*lawdoc.QueryResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, lawdoc.Errorf(lawdoc.EINVALID, "question required")
	}
	state, err := lawdoc.NormalizeState(state)
	if err != nil {
		return nil, err
	}

	opts := s.scoring()
	vector, err := s.Embedder.Embed(ctx, lawdoc.SearchQuery(state, question, opts.Keywords))
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	results, err := s.Store.Search(ctx, vector, lawdoc.SearchOptions{State: state, Limit: s.topK()})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	merged := lawdoc.MergeSources(lawdoc.AdjustScores(question, results, opts))
	sources := lawdoc.SelectSources(merged, lawdoc.SourceThreshold, lawdoc.SourceLimit)

	s.logger().Debug("retrieved documentation",
		"state", state,
		"chunks", len(results),
		"documents", len(merged),
		"sources", len(sources))

	if len(sources) == 0 {
		return &lawdoc.QueryResult{
			Answer:      lawdoc.NotFoundAnswer(state),
			Sources:     []lawdoc.Source{},
			Suggestions: lawdoc.Suggestions(question),
		}, nil
	}

	docs := lawdoc.FormatContext(lawdoc.SelectSources(merged, lawdoc.ContextThreshold, lawdoc.ContextLimit))
	answer, err := s.complete(ctx, lawdoc.BuildSystemPrompt(state, docs), question)
	if err != nil {
		return nil, fmt.Errorf("answer question: %w", err)
	}

	return &lawdoc.QueryResult{
		Answer:      strings.TrimSpace(answer),
		Sources:     lawdoc.Citations(sources),
		Suggestions: []string{},
	}, nil
}

func (s *Service) complete(ctx context.Context, system, prompt string) (string, error) {
	var answer string
	err := lawdoc.Retry(ctx, s.Backoff, s.maxRetries(), func(ctx context.Context) error {
		var err error
		answer, err = s.Completer.Complete(ctx, system, prompt)
		return err
	}, func(retry int, err error, delay time.Duration) {
		s.logger().Warn("completion retry", "retry", retry, "delay", delay, "err", err)
	})
	return answer, err
}

func (s *Service) scoring() lawdoc.ScoreOptions {
	if s.Scoring == nil {
		return lawdoc.DefaultScoreOptions()
	}
	return *s.Scoring
}

func (s *Service) topK() int {
	if s.TopK <= 0 {
		return lawdoc.DefaultSearchLimit
	}
	return s.TopK
}

func (s *Service) maxRetries() int {
	if s.MaxRetries < 0 {
		return 0
	}
	return s.MaxRetries
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
