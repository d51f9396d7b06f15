package main

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/tempdrop/tempdrop/internal/cache"
	"github.com/tempdrop/tempdrop/internal/config"
	"github.com/tempdrop/tempdrop/internal/db"
	"github.com/tempdrop/tempdrop/internal/handlers"
	"github.com/tempdrop/tempdrop/internal/metadata"
	"github.com/tempdrop/tempdrop/internal/retention"
	"github.com/tempdrop/tempdrop/internal/services"
	"github.com/tempdrop/tempdrop/internal/storage"
)

const sweepInterval = time.Minute

// Uploads are rate limited per client IP; downloads are not.
const (
	uploadRateLimit  = 10
	uploadRateWindow = time.Minute
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, using environment variables")
	}

	cfg := config.Load()

	ctx := context.Background()
	mongoClient, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", "err", err)
	}
	defer func() {
		if err := db.Disconnect(mongoClient); err != nil {
			logger.Error("failed to close MongoDB connection", "err", err)
		}
	}()
	logger.Info("connected to MongoDB", "db", cfg.MongoDB)

	// Backend selection happens exactly once, here; everything else only
	// sees the BlobStore interface.
	var blobs storage.BlobStore
	if cfg.ObjectStorageConfigured() {
		blobs, err = storage.NewMinioStore(storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			logger.Fatal("failed to initialize MinIO storage", "err", err)
		}
		logger.Info("using MinIO blob storage", "endpoint", cfg.MinioEndpoint, "bucket", cfg.MinioBucket)
	} else {
		blobs, err = storage.NewLocalStore(cfg.DataDir)
		if err != nil {
			logger.Fatal("failed to initialize local storage", "err", err)
		}
		logger.Info("using local blob storage", "dir", cfg.DataDir)
	}

	metaStore := metadata.NewMongoStore(mongoClient, cfg.MongoDB)
	fileCache := cache.New()
	fileService := services.NewFileService(metaStore, blobs, fileCache, cfg.BaseURL, logger)

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go fileService.RunSweeper(sweepCtx, sweepInterval)

	app := fiber.New(fiber.Config{
		// Multipart framing adds overhead on top of the file itself.
		BodyLimit: int(retention.MaxSize) + 1024*1024,
	})
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	handler := handlers.NewFileHandler(fileService, logger)

	// Browser UI. Registered before the /:id routes so the static paths
	// are not swallowed by the id parameter.
	app.Get("/", func(c *fiber.Ctx) error { return c.SendFile("./public/index.html") })
	app.Get("/app.js", func(c *fiber.Ctx) error { return c.SendFile("./public/app.js") })
	app.Get("/style.css", func(c *fiber.Ctx) error { return c.SendFile("./public/style.css") })

	// File API
	app.Post("/", limiter.New(limiter.Config{
		Max:        uploadRateLimit,
		Expiration: uploadRateWindow,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many uploads, try again later"})
		},
	}), handler.Upload)
	app.Get("/:id", handler.Download)
	app.Get("/:id/info", handler.Info)
	app.Delete("/:id", handler.Delete)

	logger.Fatal(app.Listen(":" + cfg.Port))
}
