// main.go
package main

import (
	"log"
	"os"
	"time"

	"ravencode/database"
	"ravencode/handlers"
	"ravencode/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Initialize database
	database.InitDB()
	defer func() {
		if err := database.CloseDB(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Wire endpoint services
	handlers.InitHandlers(database.GetDB())

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.FiberRateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Achievement routes
	achievementGroup := api.Group("/achievements")
	achievementGroup.Post("/update", handlers.SubmitAchievement)
	achievementGroup.Post("/bulk-update", handlers.BulkUpdateAchievements)
	achievementGroup.Get("/course/:courseId", handlers.GetCourseAchievements)
	achievementGroup.Get("/:email", handlers.GetStudentAchievements)
	achievementGroup.Get("/:email/stats", handlers.GetAchievementStats)
	achievementGroup.Delete("/:email/:name", handlers.DeleteAchievement)

	// Achievement master-list routes
	templateGroup := api.Group("/achievement-templates")
	templateGroup.Post("/", handlers.CreateAchievementTemplate)
	templateGroup.Get("/search", handlers.SearchAchievementTemplates)
	templateGroup.Get("/grouped", handlers.GetGroupedAchievementTemplates)
	templateGroup.Get("/course/:courseId", handlers.ListCourseAchievementTemplates)
	templateGroup.Delete("/course/:courseId/:name", handlers.DeactivateAchievementTemplate)

	// Diploma routes
	diplomaGroup := api.Group("/diplomas")
	diplomaGroup.Get("/config", handlers.GetDiplomaConfig)
	diplomaGroup.Get("/convert-grade", handlers.ConvertGrade)
	diplomaGroup.Get("/eligibility/:email", handlers.CheckEligibility)
	diplomaGroup.Post("/generate", handlers.IssueDiploma)
	diplomaGroup.Get("/student/:email", handlers.GetStudentDiplomas)
	diplomaGroup.Delete("/student/:email/:diplomaId", handlers.DeleteDiploma)
	diplomaGroup.Get("/verify/:code", handlers.VerifyDiploma)
	diplomaGroup.Post("/templates", handlers.CreateDiplomaTemplate)
	diplomaGroup.Get("/stats", handlers.GetDiplomaStats)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	// Start HTTP server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8003"
	}

	log.Printf("🚀 Achievements API starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
