package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"interview-coach-api/internal/models"
	"interview-coach-api/internal/services"
)

// rateLimitDetail is the free-tier guidance shown when the provider signals
// a 429.
const rateLimitDetail = "Free Model Rate Limited. Please wait 10s and retry."

type InterviewHandler struct {
	generator services.FeedbackGenerator
	configErr error
	prompts   *services.PromptBuilder
}

// NewInterviewHandler creates the handler. generator may be nil when no
// provider credential was supplied; configErr then carries the message every
// interview request will surface.
func NewInterviewHandler(generator services.FeedbackGenerator, configErr error) *InterviewHandler {
	return &InterviewHandler{
		generator: generator,
		configErr: configErr,
		prompts:   services.NewPromptBuilder(),
	}
}

// HandleInterview handles POST /api/interview
func (h *InterviewHandler) HandleInterview(c *fiber.Ctx) error {
	var req models.InterviewRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Detail: "Invalid request payload",
		})
	}

	if req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Detail: "question is required",
		})
	}

	if req.Answer == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Detail: "answer is required",
		})
	}

	// Configuration guard: reject before any external call is attempted.
	if h.generator == nil {
		log.Printf("❌ Interview request rejected: %v", h.configErr)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Detail: h.configDetail(),
		})
	}

	log.Printf("📥 Received request for question: %.50s...", req.Question)

	prompt := h.prompts.BuildInterviewPrompt(req.Question, req.Answer)

	feedback, err := h.generator.GenerateFeedback(c.UserContext(), prompt)
	if err != nil {
		log.Printf("❌ Agent Error: %v", err)

		if strings.Contains(err.Error(), "429") {
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
				Detail: rateLimitDetail,
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Detail: "AI Agent Error: " + err.Error(),
		})
	}

	return c.JSON(feedback)
}

func (h *InterviewHandler) configDetail() string {
	if h.configErr != nil {
		return h.configErr.Error()
	}
	return "model provider is not configured"
}
