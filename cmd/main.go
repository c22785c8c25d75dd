package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/yungbote/stockroom-backend/internal/clients/blob"
	redisclient "github.com/yungbote/stockroom-backend/internal/clients/redis"
	"github.com/yungbote/stockroom-backend/internal/db"
	"github.com/yungbote/stockroom-backend/internal/handlers"
	"github.com/yungbote/stockroom-backend/internal/ingest"
	"github.com/yungbote/stockroom-backend/internal/logger"
	"github.com/yungbote/stockroom-backend/internal/repos"
	"github.com/yungbote/stockroom-backend/internal/server"
	"github.com/yungbote/stockroom-backend/internal/services"
	"github.com/yungbote/stockroom-backend/internal/sse"
	"github.com/yungbote/stockroom-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	itemRepo := repos.NewItemRepo(thePG, log)
	uploadRepo := repos.NewFileUploadRepo(thePG, log)
	actionRepo := repos.NewItemActionRepo(thePG, log)
	roomRepo := repos.NewRoomRepo(thePG, log)
	shelfRepo := repos.NewShelfRepo(thePG, log)
	rowRepo := repos.NewRowRepo(thePG, log)

	// SSE
	log.Info("Setting up progress hub now...")
	hub := sse.NewHub(log)

	// Redis bus is optional; without it progress events stay in-process.
	var bus redisclient.ProgressBus
	if os.Getenv("REDIS_ADDR") != "" {
		bus, err = redisclient.NewProgressBus(log)
		if err != nil {
			log.Warn("Could not init ProgressBus, continuing without it", "error", err)
			bus = nil
		} else {
			defer bus.Close()
			if err := bus.StartForwarder(context.Background(), hub.Broadcast); err != nil {
				log.Warn("Could not start progress forwarder", "error", err)
			}
		}
	}

	// Blob store for embedded spreadsheet images
	blobStore, err := blob.NewLocalStore(log)
	if err != nil {
		log.Error("Could not init blob store", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up Services from main...")
	gate := services.NewStoreGate()
	notifier := services.NewProgressNotifier(log, hub, bus)
	binder := ingest.NewBinder(log, blobStore)
	mergeService := services.NewMergeService(thePG, log, gate, itemRepo, uploadRepo, binder, notifier)
	locationService := services.NewLocationService(thePG, log, gate, itemRepo, roomRepo, shelfRepo, rowRepo)
	lifecycleService := services.NewLifecycleService(thePG, log, gate, itemRepo, actionRepo, mergeService, locationService)
	itemService := services.NewItemService(thePG, log, gate, itemRepo, uploadRepo, actionRepo, rowRepo, shelfRepo, roomRepo)
	analyticsService := services.NewAnalyticsService(thePG, log, itemRepo, uploadRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	uploadHandler := handlers.NewUploadHandler(mergeService, itemService, hub)
	itemHandler := handlers.NewItemHandler(itemService, lifecycleService)
	locationHandler := handlers.NewLocationHandler(locationService)
	seasonalHandler := handlers.NewSeasonalHandler(lifecycleService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// Router
	log.Info("Setting up router from main...")
	staticDir := utils.GetEnv("STATIC_DIR", "static", log)
	allowOrigins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5174", log), ",")
	router := server.NewRouter(server.RouterConfig{
		UploadHandler:    uploadHandler,
		ItemHandler:      itemHandler,
		LocationHandler:  locationHandler,
		SeasonalHandler:  seasonalHandler,
		AnalyticsHandler: analyticsHandler,
		StaticDir:        staticDir,
		AllowOrigins:     allowOrigins,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
