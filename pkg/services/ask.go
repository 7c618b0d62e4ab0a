package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sessionlens/sessionlens/pkg/apperrors"
	"github.com/sessionlens/sessionlens/pkg/llm"
	"github.com/sessionlens/sessionlens/pkg/logging"
	"github.com/sessionlens/sessionlens/pkg/models"
	"github.com/sessionlens/sessionlens/pkg/prompts"
	"github.com/sessionlens/sessionlens/pkg/retry"
	sqlcheck "github.com/sessionlens/sessionlens/pkg/sql"
)

// NoResultsMessage is returned verbatim when a query yields zero rows.
// Summarization is skipped entirely in that case.
const NoResultsMessage = "The query returned no results."

const (
	generationTemperature = 0.0
	summaryTemperature    = 0.3
)

// AskService sequences generation, validation, execution, and summarization
// for one natural-language question.
type AskService struct {
	generator llm.TextGenerator
	executor  QueryExecutor
	logger    *zap.Logger

	timezone        string
	summaryRowLimit int

	genRetry     retry.Policy
	summaryRetry retry.Policy
}

// NewAskService creates an AskService with the pipeline's standard retry
// policies: generation retries transient failures with a linearly growing
// delay, summarization with a short fixed delay.
func NewAskService(generator llm.TextGenerator, executor QueryExecutor, timezone string, summaryRowLimit int, logger *zap.Logger) *AskService {
	return &AskService{
		generator:       generator,
		executor:        executor,
		logger:          logger.Named("ask"),
		timezone:        timezone,
		summaryRowLimit: summaryRowLimit,
		genRetry: retry.Policy{
			MaxAttempts:   3,
			Backoff:       retry.Linear(2 * time.Second),
			RetryableOnly: true,
		},
		summaryRetry: retry.Policy{
			MaxAttempts:   2,
			Backoff:       retry.Fixed(time.Second),
			RetryableOnly: true,
		},
	}
}

// Ask answers a natural-language question about session ratings. On success
// the result carries the row data, the prose summary, and the executed SQL.
// Failures are categorized apperrors.PipelineError values; summarization
// failure is absorbed into a fallback summary and never fails the request.
func (s *AskService) Ask(ctx context.Context, question string) (*models.QueryResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, apperrors.NewPipelineError(apperrors.CategoryInvalidInput, "no question text supplied", apperrors.ErrEmptyQuestion).
			WithSuggestion("Provide a question in the request body.")
	}

	s.logger.Info("question received", zap.String("question", logging.TruncateForLog(question)))

	// Generating
	sqlQuery, err := s.generateSQL(ctx, question)
	if err != nil {
		if llm.IsUnavailable(err) {
			return nil, apperrors.NewPipelineError(apperrors.CategoryLLMUnavailable, "text-generation service unavailable", err).
				WithSuggestion("The generation service is temporarily unavailable. Try again in a few minutes.")
		}
		return nil, apperrors.NewPipelineError(apperrors.CategoryGenerationFailed, "failed to generate SQL", err).
			WithSuggestion("Try rephrasing the question.")
	}

	// Validating
	validated, err := sqlcheck.ValidateShape(sqlQuery)
	if err != nil {
		s.logger.Warn("generated query rejected",
			zap.String("sql", logging.TruncateForLog(sqlQuery)),
			zap.Error(err))
		return nil, apperrors.NewPipelineError(apperrors.CategoryInvalidQuery, "generated query failed validation", err).
			WithDetail(sqlQuery).
			WithSuggestion("Try rephrasing the question more specifically.")
	}

	// Executing
	result, err := s.executor.Execute(ctx, validated)
	if err != nil {
		s.logger.Warn("query execution failed",
			zap.String("sql", logging.TruncateForLog(validated)),
			zap.String("error", logging.SanitizeError(err)))
		return nil, apperrors.NewPipelineError(apperrors.CategoryExecutionFailed, "database rejected the query", err).
			WithDetail(err.Error()).
			WithSuggestion("The generated SQL may not match the question. Try rewording it.")
	}

	// Summarizing - degradation here must never fail the response.
	summary := s.summarize(ctx, question, validated, result.Rows)

	s.logger.Info("question answered",
		zap.Int("rows", len(result.Rows)),
		zap.String("sql", logging.TruncateForLog(validated)))

	return &models.QueryResult{
		Columns: result.Columns,
		Rows:    result.Rows,
		Summary: summary,
		SQL:     validated,
	}, nil
}

// generateSQL calls the text-generation service with the fixed instruction
// prompt and cleans up the candidate. An empty candidate after cleanup is a
// failure.
func (s *AskService) generateSQL(ctx context.Context, question string) (string, error) {
	prompt := prompts.BuildSQLGenerationPrompt(question, s.timezone)

	raw, err := retry.DoWithResult(ctx, s.genRetry, func() (string, error) {
		return s.generator.GenerateText(ctx, prompts.SQLSystemMessage, prompt, generationTemperature)
	})
	if err != nil {
		return "", err
	}

	cleaned := sqlcheck.CleanGeneratedSQL(raw)
	if cleaned == "" {
		return "", fmt.Errorf("generator returned empty output")
	}

	return cleaned, nil
}

// summarize produces the prose summary for the result rows. Zero rows
// short-circuits to the fixed no-results message without an external call;
// on retry exhaustion it degrades to a templated row-count message.
func (s *AskService) summarize(ctx context.Context, question, sqlQuery string, rows []map[string]any) string {
	if len(rows) == 0 {
		return NoResultsMessage
	}

	prompt := prompts.BuildSummaryPrompt(question, sqlQuery, rows, s.summaryRowLimit)

	summary, err := retry.DoWithResult(ctx, s.summaryRetry, func() (string, error) {
		return s.generator.GenerateText(ctx, prompts.SummarySystemMessage, prompt, summaryTemperature)
	})
	if err != nil || strings.TrimSpace(summary) == "" {
		s.logger.Warn("summarization degraded to fallback", zap.Error(err))
		return fmt.Sprintf("The query returned %d row(s). See the data table for details.", len(rows))
	}

	return strings.TrimSpace(summary)
}
