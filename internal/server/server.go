package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"interview-coach-api/internal/config"
	"interview-coach-api/internal/handlers"
	"interview-coach-api/internal/models"
	"interview-coach-api/internal/services"
)

// New builds the fiber app: middleware, routes, and the error handler.
// generator may be nil when no provider credential was supplied; configErr
// then carries the message the interview endpoint will return. The health
// endpoint works either way.
func New(cfg *config.Config, generator services.FeedbackGenerator, configErr error) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Interview Coach API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // model round-trips on free tiers can be slow
		ErrorHandler: errorHandler,
	})

	// Middleware
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	interviewHandler := handlers.NewInterviewHandler(generator, configErr)
	healthHandler := handlers.NewHealthHandler(cfg.ModelName())

	// Routes
	api := app.Group("/api")
	api.Post("/interview", interviewHandler.HandleInterview)
	api.Get("/health", healthHandler.HandleHealth)

	// Aliases without the /api prefix
	app.Post("/interview", interviewHandler.HandleInterview)
	app.Get("/health", healthHandler.HandleHealth)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Interview Coach API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/interview",
				"GET /api/health",
			},
		})
	})

	return app
}

// errorHandler keeps the {"detail": ...} shape for anything the handlers did
// not map themselves (unknown routes, recovered panics).
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Detail: err.Error(),
	})
}
