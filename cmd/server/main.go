package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"agentdesk/internal/catalog"
	"agentdesk/internal/config"
	"agentdesk/internal/database"
	"agentdesk/internal/handlers"
	"agentdesk/internal/jobs"
	"agentdesk/internal/llm"
	"agentdesk/internal/logging"
	"agentdesk/internal/middleware"
	"agentdesk/internal/preflight"
	"agentdesk/internal/services"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	log.Println("🚀 Starting Agent Desk Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	cfg := config.Load()
	logging.Init(cfg.Environment, cfg.LogLevel)
	log.Printf("📋 Configuration loaded (Port: %s, Env: %s)", cfg.Port, cfg.Environment)

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Agent catalog
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		loaded, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			log.Fatalf("❌ Failed to load catalog %s: %v", cfg.CatalogPath, err)
		}
		cat = loaded
	}
	log.Printf("📚 Catalog ready: %d agents, %d scenarios", len(cat.All()), len(cat.Scenarios()))

	if results := preflight.NewChecker(db, cat, cfg).RunAll(); preflight.HasFailures(results) {
		log.Fatal("❌ Pre-flight checks failed, refusing to start")
	}

	// Generative model; without a key every turn ends with the unavailable notice
	rootCtx, stopTurns := context.WithCancel(context.Background())
	var generator llm.Generator = llm.Unavailable{}
	generatorName := "unavailable"
	gemini, err := llm.NewGeminiClient(rootCtx, cfg.GeminiAPIKey, cfg.ModelName, cfg.Temperature)
	switch {
	case err == nil:
		generator = gemini
		generatorName = "gemini"
	case errors.Is(err, llm.ErrUnavailable):
		log.Println("⚠️  GEMINI_API_KEY not set, model replies will show the unavailable notice")
	default:
		log.Printf("⚠️  Gemini client unavailable: %v", err)
	}

	// Stores and services
	groups := services.NewGroupStore()
	sessions := services.NewSessionStore(groups)
	if cfg.SeedDemoHistory {
		sessions.Seed(catalog.DemoHistory(time.Now().UnixMilli()))
	}

	connManager := services.NewConnectionManager()
	services.InitMetrics(connManager, sessions)

	relay := services.NewStreamRelay(generator, cfg.FlushInterval, cfg.ChunkBufferSize)
	chatService := services.NewChatService(sessions, groups, cat, relay, services.NewStepSimulator(cfg.StepDelay))
	streamBuffer := services.NewStreamBufferService(cfg.StreamBufferTTL)
	chatService.SetStreamBuffer(streamBuffer)
	chatService.SetWatchers(connManager)

	viewService := services.NewViewService(cat, sessions, groups, chatService)
	preferencesService := services.NewPreferencesService(db)
	if prefs, err := preferencesService.Get(); err == nil {
		log.Printf("👤 Preferences loaded (onboarding completed: %v, %d agents selected)",
			prefs.OnboardingCompleted, len(prefs.SelectedAgentIDs))
	}

	// Background jobs
	jobScheduler, err := jobs.NewJobScheduler()
	if err != nil {
		log.Fatalf("❌ Failed to create job scheduler: %v", err)
	}
	if err := jobScheduler.Register("stream_buffer_cleanup",
		jobs.NewStreamBufferCleanupJob(streamBuffer, cfg.StreamCleanupInterval)); err != nil {
		log.Fatalf("❌ %v", err)
	}
	jobScheduler.Start()

	app := fiber.New(fiber.Config{
		AppName:      "Agent Desk v1.0",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    4 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	prometheus := fiberprometheus.New("agentdesk")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	rateLimitConfig := middleware.LoadRateLimitConfig()
	log.Printf("🛡️  [RATE-LIMIT] Loaded config: Global=%d/min, Send=%d/min, WS=%d/min",
		rateLimitConfig.GlobalAPIMax,
		rateLimitConfig.SendMax,
		rateLimitConfig.WebSocketMax,
	)

	allowCredentials := cfg.AllowedOrigins != "*"
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept",
		AllowCredentials: allowCredentials,
	}))
	log.Printf("🔒 [SECURITY] CORS allowed origins: %s", cfg.AllowedOrigins)

	app.Use("/api", middleware.GlobalAPIRateLimiter(rateLimitConfig))

	// Handlers
	sendLimiter := services.NewSendLimiter(rateLimitConfig.GlobalMessagesPerSecond, rateLimitConfig.MessagesPerSecond)
	healthHandler := handlers.NewHealthHandler(connManager, sessions, generatorName)
	agentHandler := handlers.NewAgentHandler(cat)
	sessionHandler := handlers.NewSessionHandler(rootCtx, cat, sessions, chatService, viewService)
	groupHandler := handlers.NewGroupHandler(sessions, groups)
	homeHandler := handlers.NewHomeHandler(viewService, sessions)
	preferencesHandler := handlers.NewPreferencesHandler(preferencesService)
	wsHandler := handlers.NewWebSocketHandler(rootCtx, connManager, chatService, sessions, sendLimiter)

	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api")
	api.Get("/agents", agentHandler.List)
	api.Get("/agents/:id", agentHandler.Get)
	api.Get("/scenarios", agentHandler.Scenarios)
	api.Get("/categories", agentHandler.Categories)
	api.Get("/home", homeHandler.Home)
	api.Get("/previews", homeHandler.Previews)

	api.Get("/sessions", sessionHandler.List)
	api.Post("/sessions", sessionHandler.Create)
	api.Get("/sessions/:id", sessionHandler.Get)
	api.Delete("/sessions/:id", sessionHandler.Delete)
	api.Post("/sessions/:id/pin", sessionHandler.TogglePin)
	api.Post("/sessions/:id/favorite", sessionHandler.ToggleFavorite)
	api.Post("/sessions/:id/end", sessionHandler.End)
	api.Post("/sessions/:id/cases", sessionHandler.ApplyCase)
	api.Put("/sessions/:id/messages", sessionHandler.ReplaceMessages)
	api.Post("/sessions/:id/messages", middleware.SendRateLimiter(rateLimitConfig), sessionHandler.SendMessage)
	api.Post("/sessions/:id/stop", sessionHandler.Stop)

	api.Get("/groups", groupHandler.List)
	api.Post("/groups", groupHandler.Create)
	api.Post("/groups/:id/open", groupHandler.Open)
	api.Post("/groups/:id/status", groupHandler.UpdateStatus)

	api.Get("/preferences", preferencesHandler.Get)
	api.Put("/preferences", preferencesHandler.Update)

	// WebSocket route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			c.Locals("client_ip", c.IP())
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	wsConfig := websocket.Config{}
	if cfg.AllowedOrigins != "*" {
		wsConfig.Origins = strings.Split(cfg.AllowedOrigins, ",")
	}
	app.Use("/ws/chat", middleware.WebSocketRateLimiter(rateLimitConfig))
	app.Get("/ws/chat", websocket.New(wsHandler.Handle, wsConfig))

	log.Printf("✅ Server ready on port %s", cfg.Port)
	log.Printf("🔌 WebSocket endpoint: ws://localhost:%s/ws/chat", cfg.Port)
	log.Printf("📡 Health check: http://localhost:%s/health", cfg.Port)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		// Cancel in-flight turns and let their goroutines settle
		chatService.CancelAll()
		stopTurns()
		waitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := chatService.Wait(waitCtx); err != nil {
			log.Printf("⚠️ Turns still running at shutdown: %v", err)
		}
		cancel()

		wsHandler.Close()
		jobScheduler.Stop()
		streamBuffer.Shutdown()

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
