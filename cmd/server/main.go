package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jdtaylor/staff-rostering-api/pkg/auth"
	"github.com/jdtaylor/staff-rostering-api/pkg/database"
	"github.com/jdtaylor/staff-rostering-api/pkg/handlers"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)
	h := handlers.NewHandler(db)

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Staff Rostering API",
			"version": "1.0.0",
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	// Rostering Endpoints
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/schedule/generate", h.GenerateSchedule)
		api.POST("/validate", h.ValidateGeneration)

		api.GET("/schedules", h.ListSchedules)
		api.POST("/schedules", h.CreateSchedule)
		api.PUT("/schedules/:id", h.UpdateSchedule)
		api.DELETE("/schedules/:id", h.DeleteSchedule)
		api.GET("/schedules/export.xlsx", h.ExportScheduleXLSX)
		api.GET("/schedules/export.csv", h.ExportScheduleCSV)

		api.GET("/employees", h.ListEmployees)
		api.POST("/employees", h.CreateEmployee)
		api.PUT("/employees/:id", h.UpdateEmployee)
		api.DELETE("/employees/:id", h.DeleteEmployee)

		api.GET("/roles", h.ListRoles)
		api.POST("/roles", h.CreateRole)
		api.PUT("/roles/:id", h.UpdateRole)
		api.DELETE("/roles/:id", h.DeleteRole)

		api.GET("/leave", h.ListLeave)
		api.POST("/leave", h.CreateLeave)
		api.PUT("/leave/:id", h.UpdateLeave)
		api.DELETE("/leave/:id", h.DeleteLeave)

		api.GET("/usage", h.GetMyUsage)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
