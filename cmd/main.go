package main

import (
	"context"
	"log"
	"time"

	config "boq-analysis-backend/config"
	"boq-analysis-backend/seeds"
	"boq-analysis-backend/token"
	"boq-analysis-backend/utils"

	"boq-analysis-backend/middleware"

	// Repositories
	boq_repositories "boq-analysis-backend/boq/repositories"
	insight_repositories "boq-analysis-backend/insights/repositories"

	// Controllers and services
	boq_controllers "boq-analysis-backend/boq/controllers"
	boq_services "boq-analysis-backend/boq/services"
	insight_controllers "boq-analysis-backend/insights/controllers"
	insight_services "boq-analysis-backend/insights/services"
	insight_tasks "boq-analysis-backend/insights/tasks"

	// Routes
	boq_routes "boq-analysis-backend/boq/routes"
	insight_routes "boq-analysis-backend/insights/routes"

	// bleve
	bleveControllers "boq-analysis-backend/bleve/controllers"
	bleveRepositories "boq-analysis-backend/bleve/repositories"
	bleveRoutes "boq-analysis-backend/bleve/routes"
	bleveServices "boq-analysis-backend/bleve/services"

	"boq-analysis-backend/internal/bootstrap"

	// WebSocket
	"boq-analysis-backend/websocket"

	"encoding/gob"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Initialize Zap logger
	config.InitLogger()

	// Load environment variables
	err := godotenv.Load(".env")
	if err != nil {
		config.Logger.Fatal("Error loading .env file", zap.Error(err))
	}
	gob.Register(uuid.UUID{})

	app := fiber.New()

	// Apply CORS middleware from middleware package
	middleware.InitCors(app)

	// Initialize database and configs
	db := config.ConfigureDatabase()
	port := config.GetEnv("PORT")
	ctx := context.Background()

	// Redis client for Asynq and other uses
	redisAddr := config.GetEnvWithDefault("REDIS_ADDRESS", "localhost:6379")

	redisClient := config.InitRedisServer(ctx)
	// Note: asynq.RedisClientOpt uses its own Redis client internally.

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: "",
		DB:       0,
	}

	asynqClient := asynq.NewClient(asynqRedisOpt)
	defer asynqClient.Close()

	tokenKey := config.GetEnv("TOKEN_SYMMETRIC_KEY")
	tokenMaker, err := token.NewPasetoMaker(tokenKey)
	if err != nil {
		config.Logger.Fatal("Cannot create token maker", zap.Error(err))
	}

	// TODO: Update bleve index path for Docker volume in production
	indexPath := config.GetEnvWithDefault("BLEVE_INDEX_PATH", "./bleve_data")

	// Initialize the mailer
	utils.InitializeMailer()

	mailer := utils.GetMailer()
	if mailer == nil {
		config.Logger.Fatal("Mailer not initialized")
		log.Fatalf("Mailer not initialized")
	}

	// ------ WebSocket Hub for processing progress events ------
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Serve static files
	app.Static("/public", "./public")
	app.Static("/uploads", "./uploads")

	// Repositories
	bleveIndexingService := bleveServices.NewIndexingService(config.Logger, indexPath)
	bleveServiceRepo, bleveInterfaceRepo := bleveRepositories.NewBleveRepository(bleveIndexingService)
	projectRepo := boq_repositories.NewProjectRepository(db)
	lineItemRepo := boq_repositories.NewLineItemRepository(db)
	insightRepo := insight_repositories.NewInsightRepository(db)
	veRuleRepo := insight_repositories.NewVERuleRepository(db)

	// Services
	fileStorage := utils.NewLocalFileStorage("./uploads")
	workbookDecoder := boq_services.NewWorkbookDecoder()
	processor := boq_services.NewAnalysisProcessor(projectRepo, lineItemRepo, fileStorage, workbookDecoder)
	aggregator := boq_services.NewWbsAggregator(projectRepo, lineItemRepo)

	// Narrative generation is optional; without a key the rule engine uses
	// the policy table's advice text directly.
	var narrativeService *insight_services.NarrativeService
	if geminiKey := config.GetGeminiAPIKey(); geminiKey != "" {
		narrativeService, err = insight_services.NewNarrativeService(geminiKey)
		if err != nil {
			config.Logger.Warn("Failed to create narrative service, continuing without it", zap.Error(err))
			narrativeService = nil
		}
	}

	ruleEngine := insight_services.NewRuleEngine(projectRepo, lineItemRepo, insightRepo, veRuleRepo, narrativeService)

	// Controllers
	boqController := &boq_controllers.BoqController{
		ProjectRepo:  projectRepo,
		LineItemRepo: lineItemRepo,
		Processor:    processor,
		Aggregator:   aggregator,
		FileStorage:  fileStorage,
		BleveRepo:    bleveInterfaceRepo,
		RedisClient:  redisClient,
		AsynqClient:  asynqClient,
		WsHub:        wsHub,
	}
	insightController := &insight_controllers.InsightController{
		ProjectRepo: projectRepo,
		InsightRepo: insightRepo,
		VERuleRepo:  veRuleRepo,
		RuleEngine:  ruleEngine,
	}

	// Routes
	boq_routes.BoqRouterInit(app, boqController, tokenMaker)
	insight_routes.InsightRouterInit(app, insightController, tokenMaker)

	// Service-token minting for trusted callers, guarded by a shared API key
	serviceAPIKey := config.GetEnv("SERVICE_API_KEY")
	app.Post("/auth/service-token", func(c *fiber.Ctx) error {
		var body struct {
			APIKey string `json:"api_key"`
			Email  string `json:"email"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}
		if serviceAPIKey == "" || body.APIKey != serviceAPIKey {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid API key"})
		}
		if body.Email == "" {
			body.Email = "service@boq-analysis"
		}
		serviceToken, err := tokenMaker.CreateToken(body.Email, 24*time.Hour)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create token"})
		}
		return c.JSON(fiber.Map{"token": serviceToken})
	})

	// WebSocket route for processing progress
	wsHandler := websocket.NewWsHandler(wsHub, tokenMaker)
	app.Get("/ws", wsHandler.HandleWebSocket)
	config.Logger.Info("WebSocket endpoint registered at /ws")

	// Bleve Routes
	bleveController := bleveControllers.NewSearchController(bleveServiceRepo)
	bleveRoutes.InitBleveRoutes(app, bleveController)

	// Date location
	if err := utils.InitializeDateLocation(); err != nil {
		config.Logger.Fatal("Failed to initialize date location", zap.Error(err))
	}

	// Background cleanup tasks
	go utils.RunScheduledCleanup(redisClient)

	// Asynq worker for insight generation
	insightHandler := &insight_tasks.InsightTaskHandler{
		RuleEngine: ruleEngine,
		WsHub:      wsHub,
	}
	asynqServer := asynq.NewServer(asynqRedisOpt, asynq.Config{Concurrency: 4})
	asynqMux := asynq.NewServeMux()
	asynqMux.HandleFunc(insight_tasks.TypeInsightGeneration, insightHandler.HandleInsightGenerationTask)
	go func() {
		if err := asynqServer.Run(asynqMux); err != nil {
			config.Logger.Fatal("Asynq worker failed", zap.Error(err))
		}
	}()

	// Seed the VE policy table
	if err := seeds.SeedAll(db); err != nil {
		config.Logger.Error("Database seeding failed", zap.Error(err))
	}

	// Rebuild search indices from the database
	bootstrap.IndexBleveData(ctx, projectRepo, lineItemRepo, bleveInterfaceRepo)

	// Start the application
	config.Logger.Info("Server starting", zap.String("port", port))
	config.Logger.Fatal("Server failed", zap.String("port", port), zap.Error(app.Listen(":"+port)))
}
