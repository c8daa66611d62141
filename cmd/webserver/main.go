package main

import (
	"context"
	"log"
	"os"
	"time"

	"tutsin-digital/configs"
	"tutsin-digital/internal/cache"
	"tutsin-digital/internal/database"
	"tutsin-digital/internal/handlers"
	"tutsin-digital/internal/middleware"
	"tutsin-digital/internal/models"
	"tutsin-digital/internal/services"
	"tutsin-digital/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// @title Tutsin Digital API
// @version 1.0
// @description Backend for the Tutsin Digital marketing site, client portal and admin dashboard

// @contact.name API Support
// @contact.email support@tutsindigital.com

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default configuration")
	}

	// Load configuration
	if err := configs.LoadConfig(); err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Select the storage backend
	var store storage.Storage
	switch configs.AppConfig.StorageBackend {
	case "sql":
		store = storage.NewGormStorage(database.GetDBManager().DB)
	default:
		store = storage.NewMemoryStorage()
		log.Println("Using in-memory storage; data will not survive a restart")
	}
	if err := storage.SeedDefaultRoles(context.Background(), store); err != nil {
		log.Fatal("Failed to seed default roles:", err)
	}

	// Initialize cache
	cacheMgr := cache.GetCacheManager()

	// Initialize services
	authService := services.NewAuthService(store)
	adminService := services.NewAdminService(store)
	notificationService := services.NewNotificationService(store, cacheMgr)

	sweeper := services.NewSessionSweeper(store, configs.AppConfig.SessionSweepInterval)
	sweeper.Start()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	adminAuthHandler := handlers.NewAdminAuthHandler(adminService)
	adminHandler := handlers.NewAdminHandler(store)
	projectHandler := handlers.NewProjectHandler(store, notificationService)
	blogHandler := handlers.NewBlogHandler(store)
	contactHandler := handlers.NewContactHandler(store)
	analyticsHandler := handlers.NewAnalyticsHandler(store, cacheMgr)
	notificationHandler := handlers.NewNotificationHandler(store)
	uploadHandler := handlers.NewUploadHandler(store)
	wsHandler := handlers.NewWebSocketHandler(authService, cacheMgr)

	// Setup Gin router
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.Validation())
	router.Use(middleware.RateLimit(cacheMgr))
	router.Use(middleware.CORS(configs.AppConfig.CORSAllowedOrigins))

	// Public routes
	router.POST("/api/contact", contactHandler.Submit)
	router.GET("/api/blog/posts", blogHandler.ListPublished)
	router.GET("/api/blog/posts/:id", blogHandler.GetPublished)
	router.GET("/api/analytics/overview", analyticsHandler.Overview)

	// Client auth
	auth := router.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/password-reset/request", authHandler.RequestPasswordReset)
	auth.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset)
	auth.POST("/logout", middleware.ClientAuth(authService), authHandler.Logout)
	auth.GET("/me", middleware.ClientAuth(authService), authHandler.Me)

	// Project portal: clients see their own projects, staff with the
	// manage_projects permission see everything.
	portal := router.Group("/api")
	portal.Use(middleware.ActorAuth(authService, adminService))

	portal.GET("/projects", projectHandler.ListProjects)
	portal.POST("/projects", projectHandler.CreateProject)
	portal.GET("/projects/:id", projectHandler.GetProject)
	portal.PUT("/projects/:id", projectHandler.UpdateProject)
	portal.DELETE("/projects/:id", projectHandler.DeleteProject)

	portal.GET("/projects/:id/milestones", projectHandler.ListMilestones)
	portal.POST("/projects/:id/milestones", projectHandler.CreateMilestone)
	portal.GET("/milestones/:id", projectHandler.GetMilestone)
	portal.PUT("/milestones/:id", projectHandler.UpdateMilestone)
	portal.DELETE("/milestones/:id", projectHandler.DeleteMilestone)

	portal.GET("/projects/:id/tasks", projectHandler.ListTasks)
	portal.POST("/projects/:id/tasks", projectHandler.CreateTask)
	portal.GET("/tasks/:id", projectHandler.GetTask)
	portal.PUT("/tasks/:id", projectHandler.UpdateTask)
	portal.DELETE("/tasks/:id", projectHandler.DeleteTask)

	portal.GET("/projects/:id/comments", projectHandler.ListComments)
	portal.POST("/projects/:id/comments", projectHandler.CreateComment)
	portal.PUT("/comments/:id", projectHandler.UpdateComment)
	portal.DELETE("/comments/:id", projectHandler.DeleteComment)

	// Notifications belong to portal clients only.
	notifications := router.Group("/api/notifications")
	notifications.Use(middleware.ClientAuth(authService))
	notifications.GET("", notificationHandler.List)
	notifications.PUT("/:id/read", notificationHandler.MarkRead)
	notifications.DELETE("/:id", notificationHandler.Delete)

	// Admin auth
	router.POST("/api/admin/auth/login", adminAuthHandler.Login)

	admin := router.Group("/api/admin")
	admin.Use(middleware.AdminAuth(adminService))
	admin.POST("/auth/logout", adminAuthHandler.Logout)
	admin.GET("/auth/me", adminAuthHandler.Me)

	admins := admin.Group("/admins", middleware.RequirePermission(models.PermManageAdmins))
	admins.GET("", adminHandler.ListAdmins)
	admins.POST("", adminHandler.CreateAdmin)
	admins.GET("/:id", adminHandler.GetAdmin)
	admins.PUT("/:id", adminHandler.UpdateAdmin)
	admins.DELETE("/:id", adminHandler.DeleteAdmin)

	roles := admin.Group("/roles", middleware.RequirePermission(models.PermManageRoles))
	roles.GET("", adminHandler.ListRoles)
	roles.POST("", adminHandler.CreateRole)
	roles.GET("/:id", adminHandler.GetRole)
	roles.PUT("/:id", adminHandler.UpdateRole)
	roles.DELETE("/:id", adminHandler.DeleteRole)

	admin.GET("/clients", middleware.RequirePermission(models.PermManageClients), adminHandler.ListClients)

	blog := admin.Group("/blog/posts", middleware.RequirePermission(models.PermManageContent))
	blog.GET("", blogHandler.ListAll)
	blog.POST("", blogHandler.Create)
	blog.GET("/:id", blogHandler.Get)
	blog.PUT("/:id", blogHandler.Update)
	blog.DELETE("/:id", blogHandler.Delete)

	admin.GET("/contact", middleware.RequirePermission(models.PermManageContent), contactHandler.List)

	analytics := admin.Group("/analytics", middleware.RequirePermission(models.PermViewAnalytics))
	analytics.GET("/overview", analyticsHandler.Overview)
	analytics.POST("/metrics", analyticsHandler.UpsertMetrics)

	files := admin.Group("/files", middleware.RequirePermission(models.PermManageContent))
	files.POST("/upload", uploadHandler.Upload)
	files.GET("", uploadHandler.List)
	files.DELETE("/:id", uploadHandler.Delete)

	// WebSocket route
	if configs.AppConfig.EnableWebSocket {
		go wsHandler.RunHub()
		router.GET("/ws", wsHandler.HandleConnections)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"services": map[string]string{
				"storage": configs.AppConfig.StorageBackend,
				"redis": func() string {
					if cacheMgr.IsAvailable() {
						return "connected"
					} else {
						return "local_cache_only"
					}
				}(),
				"cache": "active",
			},
		})
	})

	// Start server
	port := ":" + configs.AppConfig.ServerPort
	log.Printf("Server starting on port %s", port)

	if err := router.Run(port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
