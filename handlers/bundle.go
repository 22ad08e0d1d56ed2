// File: carbook/handlers/bundle.go
package handlers

import (
	"carbook/services/chat"
	"carbook/services/reservation"
	"carbook/services/session"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Session endpoints
	CreateSessionHandler gin.HandlerFunc
	ListSessionsHandler  gin.HandlerFunc
	GetSessionHandler    gin.HandlerFunc
	DeleteSessionHandler gin.HandlerFunc

	// Conversation endpoint
	ChatHandler gin.HandlerFunc

	// Vehicle endpoints
	ListVehiclesHandler      gin.HandlerFunc
	AvailableVehiclesHandler gin.HandlerFunc

	// Reservation endpoints
	GetReservationHandler    gin.HandlerFunc
	CancelReservationHandler gin.HandlerFunc

	// Probes
	LivenessHandler  gin.HandlerFunc
	HealthHandler    gin.HandlerFunc
	ReadinessHandler gin.HandlerFunc
}

// NewHandlerBundle assembles the bundle from the domain services.
func NewHandlerBundle(sessions session.SessionManager, chatSvc chat.ChatService, reservations reservation.ReservationService) *HandlerBundle {
	sessionHandler := NewSessionHandler(sessions)
	chatHandler := NewChatHandler(chatSvc)
	vehicleHandler := NewVehicleHandler(reservations)
	reservationHandler := NewReservationHandler(reservations)

	return &HandlerBundle{
		CreateSessionHandler: sessionHandler.CreateSession,
		ListSessionsHandler:  sessionHandler.ListSessions,
		GetSessionHandler:    sessionHandler.GetSession,
		DeleteSessionHandler: sessionHandler.DeleteSession,

		ChatHandler: chatHandler.HandleTurn,

		ListVehiclesHandler:      vehicleHandler.ListVehicles,
		AvailableVehiclesHandler: vehicleHandler.AvailableVehicles,

		GetReservationHandler:    reservationHandler.GetReservation,
		CancelReservationHandler: reservationHandler.CancelReservation,

		LivenessHandler:  Liveness,
		HealthHandler:    Health,
		ReadinessHandler: Readiness,
	}
}
