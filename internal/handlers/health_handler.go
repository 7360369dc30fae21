package handlers

import "github.com/gofiber/fiber/v2"

// HealthHandler reports service liveness. It does not depend on the model
// provider, so it answers regardless of credential state.
type HealthHandler struct {
	model string
}

func NewHealthHandler(model string) *HealthHandler {
	return &HealthHandler{model: model}
}

// HandleHealth handles GET /api/health
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"model":  h.model,
	})
}
