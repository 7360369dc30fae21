package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"interview-coach-api/internal/config"
	"interview-coach-api/internal/models"
)

// openRouterGenerator calls OpenRouter's OpenAI-compatible chat completions
// endpoint and asks for schema-constrained JSON output.
type openRouterGenerator struct {
	baseURL     string
	apiKey      string
	model       string
	maxAttempts int
	prompts     *PromptBuilder
	client      *http.Client // reused across calls
}

// Compile-time check: *openRouterGenerator satisfies FeedbackGenerator.
var _ FeedbackGenerator = (*openRouterGenerator)(nil)

func NewOpenRouterGenerator(cfg *config.Config) FeedbackGenerator {
	return &openRouterGenerator{
		baseURL:     strings.TrimRight(cfg.OpenRouter.BaseURL, "/"),
		apiKey:      cfg.OpenRouter.APIKey,
		model:       cfg.OpenRouter.Model,
		maxAttempts: cfg.LLM.MaxAttempts,
		prompts:     NewPromptBuilder(),
		client: &http.Client{
			Timeout: cfg.LLM.RequestTimeout,
		},
	}
}

// GenerateFeedback implements FeedbackGenerator.
func (g *openRouterGenerator) GenerateFeedback(ctx context.Context, prompt string) (*models.InterviewFeedback, error) {
	return generateWithRetry(ctx, g.maxAttempts, func(ctx context.Context) (string, error) {
		return g.callChatCompletions(ctx, prompt)
	})
}

// Wire types for the chat completions endpoint.

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string     `json:"type"`
	JSONSchema jsonSchema `json:"json_schema"`
}

type jsonSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
}

// callChatCompletions sends a single request and returns the raw message
// content of the first choice.
func (g *openRouterGenerator) callChatCompletions(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: g.prompts.SystemPrompt()},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.3,
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchema{
				Name:   "interview_feedback",
				Strict: true,
				Schema: feedbackJSONSchema(),
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openrouter request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &statusError{Provider: "openrouter", StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("openrouter error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openrouter returned no choices")
	}

	content := chatResp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("openrouter returned empty content")
	}

	return content, nil
}

// errorMessage pulls the message out of an OpenAI-style error body, falling
// back to the trimmed raw body.
func errorMessage(body []byte) string {
	var envelope struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}

	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// feedbackJSONSchema is the InterviewFeedback contract in JSON Schema form,
// sent through response_format so the model is constrained to it.
func feedbackJSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "integer",
				"description": scoreDescription,
			},
			"strengths": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": strengthsDescription,
			},
			"weaknesses": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": weaknessesDescription,
			},
			"suggested_answer": map[string]any{
				"type":        "string",
				"description": suggestedAnswerDescription,
			},
		},
		"required":             []string{"score", "strengths", "weaknesses", "suggested_answer"},
		"additionalProperties": false,
	}
}
