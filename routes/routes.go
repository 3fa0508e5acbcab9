package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lionbet-games/poker-backend/controllers"
)

func SetupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// ----------------------
	// User routes
	// ----------------------
	api.POST("/users", controllers.RegisterUser)        // Register user
	api.GET("/users/:id", controllers.GetUser)          // Get user by ID
	api.GET("/users/:id/stats", controllers.GetUserStats) // Lifetime stats

	// ----------------------
	// Table routes
	// ----------------------
	api.GET("/tables", controllers.ListTables) // List tables with live seat counts

	// ----------------------
	// Admin routes
	// ----------------------
	admin := api.Group("/admin")
	admin.POST("/tables", controllers.CreateTable)
	admin.PATCH("/tables/:id", controllers.UpdateTable)
	admin.DELETE("/tables/:id", controllers.DeleteTable)
	admin.GET("/users", controllers.ListUsers)
	admin.POST("/users", controllers.RegisterUser)
	admin.PATCH("/users/:id", controllers.UpdateUser)
	admin.DELETE("/users/:id", controllers.DeleteUser)
	admin.GET("/settings", controllers.GetSettings)
	admin.PATCH("/settings", controllers.UpdateSettings)
	admin.GET("/metrics", controllers.GetMetrics)
	admin.GET("/audit-logs", controllers.GetAuditLogs)
}
