package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"timeline/handlers"
	"timeline/middleware"
	"timeline/utils"
)

// RegisterScheduleRoutes registers the weekly schedule endpoints.
func RegisterScheduleRoutes(r *gin.Engine, h *handlers.ScheduleHandler) {
	api := r.Group("/api/schedule")
	{
		// All schedule routes require authentication.
		api.Use(middleware.FirebaseAuthMiddleware())
		api.GET("/slots", h.GetSlotsHandler)
		api.POST("/slots", h.AddSlotHandler)
		api.PUT("/slots/:slotID", h.EditSlotHandler)
		api.DELETE("/slots/:slotID", h.DeleteSlotHandler)
		api.POST("/slots/:slotID/move", h.MoveSlotHandler)
		api.GET("/summary", h.GetSummaryHandler)
		api.GET("/export", h.ExportHandler)
		api.POST("/import", h.ImportHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, h *handlers.ScheduleHandler) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterScheduleRoutes(r, h)
	RegisterHealthRoute(r)
}
