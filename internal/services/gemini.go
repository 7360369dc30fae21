package services

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"interview-coach-api/internal/config"
	"interview-coach-api/internal/models"
)

// geminiGenerator talks to the Gemini API directly, for deployments that hold
// a Google API key instead of routing through OpenRouter.
type geminiGenerator struct {
	client      *genai.Client
	model       string
	maxAttempts int
	prompts     *PromptBuilder
}

// Compile-time check: *geminiGenerator satisfies FeedbackGenerator.
var _ FeedbackGenerator = (*geminiGenerator)(nil)

func NewGeminiGenerator(cfg *config.Config) (FeedbackGenerator, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiGenerator{
		client:      client,
		model:       cfg.Gemini.Model,
		maxAttempts: cfg.LLM.MaxAttempts,
		prompts:     NewPromptBuilder(),
	}, nil
}

// GenerateFeedback implements FeedbackGenerator.
func (g *geminiGenerator) GenerateFeedback(ctx context.Context, prompt string) (*models.InterviewFeedback, error) {
	return generateWithRetry(ctx, g.maxAttempts, func(ctx context.Context) (string, error) {
		return g.generateContent(ctx, prompt)
	})
}

// generateContent sends a single schema-constrained request and returns the
// raw JSON text of the response.
func (g *geminiGenerator) generateContent(ctx context.Context, prompt string) (string, error) {
	temperature := float32(0.3)

	genCfg := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		MaxOutputTokens:   2048,
		SystemInstruction: genai.NewContentFromText(g.prompts.SystemPrompt(), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    feedbackResponseSchema(),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), genCfg)
	if err != nil {
		// genai reports non-2xx responses as APIError; translate to the
		// shared statusError so the retry loop can classify it.
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &statusError{Provider: "gemini", StatusCode: apiErr.Code, Message: apiErr.Message}
		}
		return "", fmt.Errorf("failed to generate feedback: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}

// feedbackResponseSchema is the InterviewFeedback contract in genai form.
func feedbackResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"score": {
				Type:        genai.TypeInteger,
				Description: scoreDescription,
			},
			"strengths": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: strengthsDescription,
			},
			"weaknesses": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: weaknessesDescription,
			},
			"suggested_answer": {
				Type:        genai.TypeString,
				Description: suggestedAnswerDescription,
			},
		},
		Required: []string{"score", "strengths", "weaknesses", "suggested_answer"},
	}
}
