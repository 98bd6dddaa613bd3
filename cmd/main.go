package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "purchase-orders-backend/config"
	"purchase-orders-backend/middleware"
	"purchase-orders-backend/token"
	"purchase-orders-backend/utils"

	// Repositories
	customers_repositories "purchase-orders-backend/customers/repositories"
	purchase_orders_repositories "purchase-orders-backend/purchase_orders/repositories"
	users_repositories "purchase-orders-backend/users/repositories"

	// Services
	purchase_orders_services "purchase-orders-backend/purchase_orders/services"

	// Controllers
	purchase_orders_controllers "purchase-orders-backend/purchase_orders/controllers"

	// Routes
	customer_routes "purchase-orders-backend/customers/routes"
	purchase_order_routes "purchase-orders-backend/purchase_orders/routes"
	user_routes "purchase-orders-backend/users/routes"

	// bleve
	bleveControllers "purchase-orders-backend/bleve/controllers"
	bleveRepositories "purchase-orders-backend/bleve/repositories"
	bleveRoutes "purchase-orders-backend/bleve/routes"
	bleveServices "purchase-orders-backend/bleve/services"

	"purchase-orders-backend/internal/bootstrap"
	"purchase-orders-backend/internal/events"
	"purchase-orders-backend/internal/metrics"
	"purchase-orders-backend/tasks"

	// WebSocket
	"purchase-orders-backend/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Initialize Zap logger
	config.InitLogger()

	// Load environment variables
	if err := godotenv.Load(".env"); err != nil {
		config.Logger.Warn("No .env file loaded, using process environment", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		BodyLimit: purchase_orders_services.MaxImportFileSize + 1<<20,
	})

	// Apply CORS middleware from middleware package
	middleware.InitCors(app)

	// Initialize database and configs
	db := config.ConfigureDatabase()
	port := config.GetEnvOrDefault("PORT", "8080")
	ctx := context.Background()

	if err := config.SeedAdminUser(db); err != nil {
		config.Logger.Error("Failed to seed admin user", zap.Error(err))
	}

	redisClient := config.InitRedisServer(ctx)

	asynqRedisOpt := tasks.RedisOpt()
	asynqClient := asynq.NewClient(asynqRedisOpt)
	defer asynqClient.Close()

	tokenMaker, err := token.NewPasetoMaker(config.GetEnv("TOKEN_SYMMETRIC_KEY"))
	if err != nil {
		config.Logger.Fatal("Cannot create token maker", zap.Error(err))
	}

	auth := &middleware.AppContext{
		PasetoMaker:   tokenMaker,
		RedisClient:   redisClient,
		CookieDomain:  config.GetEnv("COOKIE_DOMAIN"),
		SecureCookies: config.GetEnv("APP_ENV") == "production",
	}

	// Initialize the mailer
	utils.InitializeMailer()

	// ------ WebSocket Hub Initialization for import notifications ------
	wsHub := websocket.NewHub()
	go wsHub.Run()
	defer wsHub.Stop()

	registry := metrics.NewRegistry()

	// Search
	indexPath := config.GetEnvOrDefault("BLEVE_INDEX_PATH", "./bleve_data")
	bleveIndexingService := bleveServices.NewIndexingService(config.Logger, indexPath)
	defer bleveIndexingService.Close()
	bleveRepo := bleveRepositories.NewBleveRepository(bleveIndexingService)

	// Repositories
	userRepo := users_repositories.NewUserRepository(db)
	customerRepo := customers_repositories.NewCustomerRepository(db)
	orderRepo := purchase_orders_repositories.NewPurchaseOrderRepository(db)

	if config.GetEnv("BLEVE_REINDEX") == "true" {
		if err := bootstrap.IndexBleveData(ctx, orderRepo, bleveRepo); err != nil {
			config.Logger.Error("Bleve reindex failed", zap.Error(err))
		}
	}

	// Optional event stream
	var publisher purchase_orders_services.OrderPublisher
	if brokers := config.GetEnv("KAFKA_BROKERS"); brokers != "" {
		kafkaPublisher := events.NewKafkaPublisher(brokers, config.GetEnvOrDefault("KAFKA_TOPIC", "purchase-orders.imported"))
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		config.Logger.Info("Publishing imported orders to Kafka", zap.String("brokers", brokers))
	}

	// Services
	uploadPath := config.GetEnvOrDefault("UPLOAD_PATH", "./uploads")
	reportPath := config.GetEnvOrDefault("REPORT_PATH", "./reports")
	uploadStorage := utils.NewLocalFileStorage(uploadPath)
	reportStorage := utils.NewLocalFileStorage(reportPath)
	queryCache := utils.NewQueryCache(redisClient, time.Duration(config.GetEnvInt("CACHE_TTL_SECONDS", 300))*time.Second)
	dates := purchase_orders_services.NewDateNormalizerFromEnv()

	importService := purchase_orders_services.NewImportService(
		purchase_orders_services.DefaultColumnMapping(),
		dates,
		purchase_orders_services.ImportServiceDeps{
			Customers: customerRepo,
			Orders:    orderRepo,
			Hooks: purchase_orders_services.CommitHooks{
				Indexer:   bleveRepo,
				Publisher: publisher,
				Recorder:  registry,
			},
			Storage:  uploadStorage,
			Sessions: purchase_orders_services.NewRedisSessionStore(redisClient),
			Runs:     orderRepo,
			Notifier: wsHub,
			Reports:  tasks.NewAsynqReportScheduler(asynqClient),
			Cache:    queryCache,
		},
	)

	// Background report worker
	reportHandler := tasks.NewReportHandler(orderRepo, utils.SendEmail, reportPath, registry)
	worker, mux := tasks.NewServer(asynqRedisOpt, config.GetEnvInt("WORKER_CONCURRENCY", 5), reportHandler)
	if err := worker.Start(mux); err != nil {
		config.Logger.Fatal("Failed to start task worker", zap.Error(err))
	}
	defer worker.Shutdown()

	// Routes
	api := app.Group("/api/v1")
	user_routes.InitRoutes(api, userRepo, auth)
	customer_routes.CustomerRouterInit(api, auth, customerRepo)
	purchase_order_routes.PurchaseOrderRouterInit(api, auth, &purchase_orders_controllers.PurchaseOrderController{
		Repo:     orderRepo,
		Imports:  importService,
		Dates:    dates,
		Cache:    queryCache,
		Observer: registry,
	})

	bleveController := bleveControllers.NewSearchController(bleveRepo)
	bleveRoutes.InitBleveRoutes(api, auth, bleveController)

	// Failure reports are served to signed-in users only
	app.Use("/reports", middleware.ProtectedRoute(auth))
	app.Static("/reports", reportPath)

	app.Get("/metrics", adaptor.HTTPHandler(registry.Handler()))

	// ------ WebSocket Route for import notifications ------
	wsHandler := websocket.NewWsHandler(wsHub, tokenMaker)
	app.Get("/ws", wsHandler.HandleWebSocket)
	config.Logger.Info("WebSocket endpoint registered at /ws")

	// Background cleanup tasks
	cleanup, err := utils.RunScheduledCleanup([]utils.CleanupTarget{
		{Name: "uploads", Storage: uploadStorage, TTL: 24 * time.Hour},
		{Name: "reports", Storage: reportStorage, TTL: 7 * 24 * time.Hour},
	}, config.GetEnv("ADMIN_EMAIL"), registry.FilesRemoved)
	if err != nil {
		config.Logger.Fatal("Failed to schedule cleanup", zap.Error(err))
	}
	defer cleanup.Stop()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		config.Logger.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			config.Logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	// Start the application
	config.Logger.Info("Server starting", zap.String("port", port))
	if err := app.Listen(":" + port); err != nil {
		config.Logger.Error("Server failed", zap.String("port", port), zap.Error(err))
	}
}
