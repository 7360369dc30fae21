package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"interview-coach-api/internal/config"
	"interview-coach-api/internal/server"
	"interview-coach-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	logCredential(cfg)

	// Initialize the feedback generator. A missing credential is not fatal:
	// the server still starts, the interview endpoint reports the problem per
	// request, and health stays available.
	generator, err := services.NewFeedbackGenerator(cfg)
	if err != nil {
		log.Printf("⚠️ Feedback generator unavailable: %v", err)
	} else {
		log.Printf("✅ Feedback generator initialized (provider: %s, model: %s)", cfg.LLM.Provider, cfg.ModelName())
	}

	app := server.New(cfg, generator, err)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// logCredential reports whether the active provider's API key is set so a
// misconfigured deploy shows up in the logs immediately.
func logCredential(cfg *config.Config) {
	key := cfg.OpenRouter.APIKey
	name := "OPENROUTER_API_KEY"
	if cfg.LLM.Provider == "gemini" {
		key = cfg.Gemini.APIKey
		name = "GEMINI_API_KEY"
	}

	if key == "" {
		log.Printf("❌ %s is missing!", name)
		return
	}
	log.Printf("✅ API key detected (starts with: %.8s...)", key)
}
