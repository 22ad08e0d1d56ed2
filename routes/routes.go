package routes

import (
	"time"

	"carbook/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterSessionRoutes registers session lifecycle endpoints.
func RegisterSessionRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	sessions := api.Group("/sessions")
	{
		sessions.POST("", hb.CreateSessionHandler)
		sessions.GET("", hb.ListSessionsHandler)
		sessions.GET("/:sessionID", hb.GetSessionHandler)
		sessions.DELETE("/:sessionID", hb.DeleteSessionHandler)
	}
}

// RegisterChatRoutes registers the conversational turn endpoint.
func RegisterChatRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.POST("/chat", hb.ChatHandler)
}

// RegisterVehicleRoutes registers catalogue endpoints.
func RegisterVehicleRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	vehicles := api.Group("/vehicles")
	{
		vehicles.GET("", hb.ListVehiclesHandler)
		vehicles.GET("/available", hb.AvailableVehiclesHandler)
	}
}

// RegisterReservationRoutes registers reservation read and cancel endpoints.
func RegisterReservationRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	reservations := api.Group("/reservations")
	{
		reservations.GET("/:reservationID", hb.GetReservationHandler)
		reservations.POST("/:reservationID/cancel", hb.CancelReservationHandler)
	}
}

// RegisterHealthRoutes registers the probe endpoints.
func RegisterHealthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/livez", hb.LivenessHandler)
	r.GET("/healthz", hb.HealthHandler)
	r.GET("/readyz", hb.ReadinessHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoutes(r, hb)

	api := r.Group("/api/v1")
	RegisterSessionRoutes(api, hb)
	RegisterChatRoutes(api, hb)
	RegisterVehicleRoutes(api, hb)
	RegisterReservationRoutes(api, hb)
}
