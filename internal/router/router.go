package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/adrita28/featherly/backend/internal/handlers"
	"github.com/adrita28/featherly/backend/internal/media"
	"github.com/adrita28/featherly/backend/internal/middleware"
	"github.com/adrita28/featherly/backend/internal/models"
	"github.com/adrita28/featherly/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mongoDB *mongo.Database, firebaseAuthClient *auth.Client, mediaService media.Service) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.LikedPost{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	likedPostRepo := repositories.NewPostgresLikedPostRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	notificationRepo := repositories.NewMongoNotificationRepository(mongoDB)

	// --- Unprotected routes ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	public := e.Group("/api/v1")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())

	// User routes
	userHandler := handlers.NewUserHandler(userRepo, followRepo, notificationRepo)
	userHandler.RegisterPublicUserRoutes(public)
	userHandler.RegisterUserRoutes(api)
	log.Println("User routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, userRepo, followRepo, likedPostRepo, notificationRepo, mediaService)
	postHandler.RegisterPublicPostRoutes(public)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}
