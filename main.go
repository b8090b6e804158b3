package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"citysync-be/config"
	"citysync-be/controllers"
	"citysync-be/middlewares"
	"citysync-be/models"
	"citysync-be/repositories"
	"citysync-be/routes"
	"citysync-be/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger := newLogger()
	slog.SetDefault(logger)

	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}
	logger.Info("MongoDB connection established")

	config.ConnectRedis()

	users := repositories.NewMongoUserRepository(db)
	employees := repositories.NewMongoEmployeeRepository(db)
	issues := repositories.NewMongoIssueRepository(db)

	if err := models.EnsureIdentifierIndexes(config.GetCollection("users")); err != nil {
		log.Fatalf("Failed to create user indexes: %v", err)
	}
	if err := models.EnsureIdentifierIndexes(config.GetCollection("employees")); err != nil {
		log.Fatalf("Failed to create employee indexes: %v", err)
	}

	if err := config.SeedEmployees(context.Background(), employees, logger); err != nil {
		log.Fatalf("Failed to seed employees: %v", err)
	}

	authService := services.NewAuthService(users, employees, logger)
	issueService := services.NewIssueService(issues, users, employees, logger).
		WithStrictStatusFlow(os.Getenv("STRICT_STATUS_FLOW") == "true")

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))
	r.Static("/uploads", uploadDir)

	authController := controllers.NewAuthController(authService)
	issueController := controllers.NewIssueController(issueService, uploadDir)

	routes.AuthRoutes(r, authController)
	routes.IssueRoutes(r, issueController, middlewares.IssueRateLimiter(issueRateLimit()))
	routes.EmployeeRoutes(r, issueController)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "CITYSYNC BACKEND SERVER RUNNING"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newLogger() *slog.Logger {
	if os.Getenv("GO_ENV") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func issueRateLimit() int {
	if raw := os.Getenv("ISSUE_RATE_LIMIT"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			return limit
		}
	}
	return 5
}
