package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"interview-coach-api/internal/config"
	"interview-coach-api/internal/models"
)

// FeedbackGenerator is the single boundary to the hosted model. It owns the
// system instruction, the output schema, and the internal retry budget, so
// the transport/provider is swappable and trivially stubbed in tests.
type FeedbackGenerator interface {
	GenerateFeedback(ctx context.Context, prompt string) (*models.InterviewFeedback, error)
}

// Field descriptions included in the output schema sent to the model.
const (
	scoreDescription           = "Score from 1-10 based on the quality of the answer"
	strengthsDescription       = "List of strong points in the answer"
	weaknessesDescription      = "List of areas for improvement"
	suggestedAnswerDescription = "A better way to answer the question"
)

// NewFeedbackGenerator selects the provider from config. A missing API key is
// reported as an error but is not fatal: the caller keeps serving and the
// interview endpoint surfaces the message per request.
func NewFeedbackGenerator(cfg *config.Config) (FeedbackGenerator, error) {
	switch cfg.LLM.Provider {
	case "openrouter":
		if cfg.OpenRouter.APIKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY is not set: interview evaluation is unavailable until it is configured")
		}
		return NewOpenRouterGenerator(cfg), nil
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set: interview evaluation is unavailable until it is configured")
		}
		return NewGeminiGenerator(cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q: expected \"openrouter\" or \"gemini\"", cfg.LLM.Provider)
	}
}

// statusError is a non-2xx provider response. The retry loop uses the code to
// tell client errors from transient ones; the text carries the status code,
// which the handler's rate-limit detection relies on.
type statusError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *statusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
}

// generateWithRetry is the agent retry loop shared by providers: call the
// model, parse the structured output, and try again on transient failures up
// to maxAttempts. 4xx provider statuses are not retried.
func generateWithRetry(ctx context.Context, maxAttempts int, call func(context.Context) (string, error)) (*models.InterviewFeedback, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		content, err := call(ctx)
		if err == nil {
			feedback, parseErr := parseFeedback(content)
			if parseErr == nil {
				return feedback, nil
			}
			err = parseErr
		}

		lastErr = err

		var statusErr *statusError
		if errors.As(err, &statusErr) && statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 {
			return nil, err
		}

		// Check if context is cancelled
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if attempt < maxAttempts {
			log.Printf("⚠️ Attempt %d failed: %v. Retrying...\n", attempt, err)
		}
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)
}

// parseFeedback turns raw model output into an InterviewFeedback. The model
// is asked for schema-constrained JSON, but free-tier models still wrap it in
// markdown now and then, so the JSON is extracted before unmarshaling. One
// schema, no alternate field names.
func parseFeedback(raw string) (*models.InterviewFeedback, error) {
	jsonStr := extractJSON(raw)

	var feedback models.InterviewFeedback
	if err := json.Unmarshal([]byte(jsonStr), &feedback); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feedback JSON: %w\nResponse: %s", err, raw)
	}

	feedback.EnsureLists()
	return &feedback, nil
}

// extractJSON tries to extract a JSON object from text that might contain
// markdown fences or other formatting around it.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
