package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-bookstore-backoffice/internal/config"
	"go-bookstore-backoffice/internal/event"
	"go-bookstore-backoffice/internal/handler"
	"go-bookstore-backoffice/internal/kafka"
	"go-bookstore-backoffice/internal/middleware"
	"go-bookstore-backoffice/internal/model"
	"go-bookstore-backoffice/internal/redisx"
	"go-bookstore-backoffice/internal/repository"
	"go-bookstore-backoffice/internal/service"
	"go-bookstore-backoffice/internal/ws"
	"go-bookstore-backoffice/pkg/database"
	"go-bookstore-backoffice/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer appLog.Sync()

	if cfg.JWTSecret == "" {
		appLog.Fatal("JWT_SECRET is required")
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DatabaseURL, cfg.LogMode != "production", appLog)
	if err != nil {
		appLog.Fatal("database unavailable", "error", err)
	}
	if err := db.AutoMigrate(&model.CatalogItem{}, &model.StockRecord{}, &model.OrderRecord{}); err != nil {
		appLog.Fatal("auto migrate failed", "error", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		appLog.Fatal("database handle", "error", err)
	}
	defer sqlDB.Close()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Event sinks
	wsHub := ws.NewHub(appLog)
	go wsHub.Run(ctx)
	publishers := event.Fanout{wsHub}

	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, 256, appLog)
		producer.Start(ctx)
		publishers = append(publishers, producer)
		appLog.Info("kafka producer started", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	// A nil interface keeps the order service on the database-only path.
	var idem service.IdempotencyStore
	probes := map[string]handler.Probe{
		"database": sqlDB.PingContext,
	}
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redisx.New(cfg.RedisAddr)
		if err := redisx.Ping(ctx, rdb); err != nil {
			appLog.Warn("redis unavailable, idempotency falls back to the database", "error", err)
		} else {
			idem = redisx.NewOrderIdempotency(rdb)
		}
		probes["redis"] = func(ctx context.Context) error { return redisx.Ping(ctx, rdb) }
	}

	// 4. Dependency Injection (Wiring Layers)
	catalogRepo := repository.NewCatalogRepo(db, appLog)
	stockRepo := repository.NewStockRepo(db, appLog)
	orderRepo := repository.NewOrderRepo(db, appLog)

	catalogService := service.NewCatalogService(catalogRepo, stockRepo, publishers, appLog)
	stockService := service.NewStockService(stockRepo, publishers, cfg.LowStockThreshold, appLog)
	orderService := service.NewOrderService(orderRepo, idem, publishers, appLog)
	reportService := service.NewReportService(
		service.NewJoinResolver(orderRepo, stockRepo, catalogRepo),
		service.ReportConfig{
			Timeout:         cfg.ReportTimeout,
			WeekBackDays:    cfg.WeekBackDays,
			WeekForwardDays: cfg.WeekForwardDays,
		},
		appLog,
	)

	commands := handler.NewCommandHandler(appLog)
	commands.Mount("catalog", handler.NewCatalogHandler(catalogService).Methods())
	commands.Mount("stock", handler.NewStockHandler(stockService).Methods())
	commands.Mount("order", handler.NewOrderHandler(orderService).Methods())
	reportHandler := handler.NewReportHandler(reportService, appLog)
	commands.Mount("order", reportHandler.Methods())
	healthHandler := handler.NewHealthHandler(probes)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Bookstore Back Office v1.0",
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", healthHandler.Check)

	// 6. Routes
	throttle := middleware.NewThrottle(cfg.RateLimitRPS, cfg.RateLimitBurst)
	api := app.Group("/api/v1", middleware.RequireServiceToken([]byte(cfg.JWTSecret)), throttle.Handler())
	api.Post("/command", commands.Handle)
	reportHandler.Register(api.Group("/reports"))

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(wsHub.Serve))

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			appLog.Error("server stopped", "error", err)
			stop()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	appLog.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		appLog.Error("server forced to shutdown", "error", err)
	}
	stop()
	if producer != nil {
		producer.WaitClosed()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	appLog.Info("server exited")
}
