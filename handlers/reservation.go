// File: carbook/handlers/reservation.go
package handlers

import (
	"net/http"

	"carbook/services/reservation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReservationHandler reads and cancels committed reservations.
type ReservationHandler struct {
	Reservations reservation.ReservationService
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(svc reservation.ReservationService) *ReservationHandler {
	return &ReservationHandler{Reservations: svc}
}

func (h *ReservationHandler) GetReservation(c *gin.Context) {
	res, err := h.Reservations.GetReservation(c.Request.Context(), c.Param("reservationID"))
	if err != nil {
		respondError(c, "failed to load reservation", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	reservationID := c.Param("reservationID")
	res, err := h.Reservations.CancelReservation(c.Request.Context(), reservationID)
	if err != nil {
		respondError(c, "failed to cancel reservation", err)
		return
	}
	getLogger(c).Info("Reservation cancelled", zap.String("reservationID", reservationID))
	c.JSON(http.StatusOK, res)
}
