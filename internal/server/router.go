package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/stockroom-backend/internal/handlers"
)

type RouterConfig struct {
	UploadHandler    *handlers.UploadHandler
	ItemHandler      *handlers.ItemHandler
	LocationHandler  *handlers.LocationHandler
	SeasonalHandler  *handlers.SeasonalHandler
	AnalyticsHandler *handlers.AnalyticsHandler
	StaticDir       string
	AllowOrigins    []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)
	if cfg.StaticDir != "" {
		router.Static("/static", cfg.StaticDir)
	}

	api := router.Group("/api")
	{
		// Uploads
		api.POST("/uploads", cfg.UploadHandler.Upload)
		api.GET("/uploads", cfg.UploadHandler.ListUploads)
		api.DELETE("/uploads/:filename", cfg.UploadHandler.DeleteUpload)
		api.GET("/uploads/progress/:id", cfg.UploadHandler.StreamProgress)
		// Seasonal drop
		api.POST("/seasonal-drop", cfg.SeasonalHandler.Run)
		// Items
		api.GET("/items/search", cfg.ItemHandler.Search)
		api.GET("/items/status/:status", cfg.ItemHandler.ListByStatus)
		api.PUT("/items/bulk-status", cfg.ItemHandler.BulkSetStatus)
		api.GET("/items/:id", cfg.ItemHandler.GetProfile)
		api.GET("/items/:id/actions", cfg.ItemHandler.GetActions)
		api.PUT("/items/:id/status", cfg.ItemHandler.SetStatus)
		api.PUT("/items/:id/location", cfg.LocationHandler.AssignLocation)
		api.GET("/stats", cfg.ItemHandler.Stats)
		// Locations
		api.GET("/locations/rooms", cfg.LocationHandler.ListRooms)
		api.POST("/locations/rooms", cfg.LocationHandler.CreateRoom)
		api.DELETE("/locations/rooms/:id", cfg.LocationHandler.DeleteRoom)
		api.GET("/locations/shelves", cfg.LocationHandler.ListShelves)
		api.POST("/locations/rooms/:id/shelves", cfg.LocationHandler.CreateShelf)
		api.DELETE("/locations/shelves/:id", cfg.LocationHandler.DeleteShelf)
		api.GET("/locations/rows", cfg.LocationHandler.ListRows)
		api.POST("/locations/shelves/:id/rows", cfg.LocationHandler.CreateRow)
		api.DELETE("/locations/rows/:id", cfg.LocationHandler.DeleteRow)
		api.GET("/locations/rows/:id/items", cfg.LocationHandler.ListRowItems)
		// Reports
		api.GET("/warehouse/layout", cfg.LocationHandler.WarehouseLayout)
		api.GET("/dropped/report", cfg.LocationHandler.DroppedReport)
		// Analytics
		api.GET("/analytics/comparison", cfg.AnalyticsHandler.CompareFiles)
		api.GET("/analytics/overlap", cfg.AnalyticsHandler.FileOverlaps)
		api.GET("/analytics/files/:filename/details", cfg.AnalyticsHandler.FileBreakdown)
		api.GET("/analytics/files/:filename/items", cfg.AnalyticsHandler.FileItems)
	}

	return router
}
