package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"interview-coach-api/internal/config"
	"interview-coach-api/internal/models"
	"interview-coach-api/internal/server"
)

type stubGenerator struct {
	feedback *models.InterviewFeedback
	err      error
}

func (s *stubGenerator) GenerateFeedback(ctx context.Context, prompt string) (*models.InterviewFeedback, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.feedback, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Port = "8000"
	cfg.LLM.Provider = "openrouter"
	cfg.OpenRouter.Model = "google/gemini-2.0-flash-exp:free"
	return cfg
}

func TestHealthEndpoints(t *testing.T) {
	// No generator and a missing credential: health must still answer.
	configErr := errors.New("OPENROUTER_API_KEY is not set: interview evaluation is unavailable until it is configured")
	app := server.New(testConfig(), nil, configErr)

	for _, path := range []string{"/api/health", "/health"} {
		req := httptest.NewRequest("GET", path, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request to %s failed: %v", path, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected status 200 for %s, got %d", path, resp.StatusCode)
		}

		var body map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response for %s: %v", path, err)
		}
		if body["status"] != "ok" {
			t.Errorf("expected status %q for %s, got %q", "ok", path, body["status"])
		}
		if body["model"] != "google/gemini-2.0-flash-exp:free" {
			t.Errorf("expected the configured model for %s, got %q", path, body["model"])
		}
	}
}

func TestInterviewEndpoints(t *testing.T) {
	stub := &stubGenerator{
		feedback: &models.InterviewFeedback{
			Score:           7,
			Strengths:       []string{"Specific"},
			Weaknesses:      []string{"Rambling"},
			SuggestedAnswer: "Tighten the story.",
		},
	}
	app := server.New(testConfig(), stub, nil)

	for _, path := range []string{"/api/interview", "/interview"} {
		req := httptest.NewRequest("POST", path, strings.NewReader(`{"question":"Q","answer":"A"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request to %s failed: %v", path, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected status 200 for %s, got %d", path, resp.StatusCode)
		}

		var feedback models.InterviewFeedback
		if err := json.NewDecoder(resp.Body).Decode(&feedback); err != nil {
			t.Fatalf("failed to decode response for %s: %v", path, err)
		}
		if feedback.Score != 7 {
			t.Errorf("expected score 7 for %s, got %d", path, feedback.Score)
		}
	}
}

func TestInterviewWithoutGenerator(t *testing.T) {
	configErr := errors.New("OPENROUTER_API_KEY is not set: interview evaluation is unavailable until it is configured")
	app := server.New(testConfig(), nil, configErr)

	req := httptest.NewRequest("POST", "/api/interview", strings.NewReader(`{"question":"Q","answer":"A"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.StatusCode)
	}

	var body models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !strings.Contains(body.Detail, "OPENROUTER_API_KEY") {
		t.Errorf("expected detail to name the missing key, got %q", body.Detail)
	}
}

func TestRootRoute(t *testing.T) {
	app := server.New(testConfig(), &stubGenerator{}, nil)

	req := httptest.NewRequest("GET", "/", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var body struct {
		Message   string   `json:"message"`
		Endpoints []string `json:"endpoints"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Message == "" {
		t.Error("expected a message in the root payload")
	}

	found := false
	for _, endpoint := range body.Endpoints {
		if endpoint == "POST /api/interview" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected endpoint listing to include the interview route, got %v", body.Endpoints)
	}
}

func TestCORSHeaders(t *testing.T) {
	app := server.New(testConfig(), &stubGenerator{}, nil)

	req := httptest.NewRequest("OPTIONS", "/api/interview", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("preflight request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected status 204 for preflight, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected allow-origin %q, got %q", "*", got)
	}
}

func TestRequestIDHeader(t *testing.T) {
	app := server.New(testConfig(), &stubGenerator{}, nil)

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected an X-Request-ID response header")
	}
}

func TestUnknownRouteErrorShape(t *testing.T) {
	app := server.New(testConfig(), &stubGenerator{}, nil)

	req := httptest.NewRequest("GET", "/missing", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.StatusCode)
	}

	var body models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Detail == "" {
		t.Error("expected a detail message for unknown routes")
	}
}

func TestRecoveredPanicErrorShape(t *testing.T) {
	app := server.New(testConfig(), &stubGenerator{}, nil)
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})

	req := httptest.NewRequest("GET", "/boom", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.StatusCode)
	}

	var body models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !strings.Contains(body.Detail, "boom") {
		t.Errorf("expected detail to carry the panic message, got %q", body.Detail)
	}
}
